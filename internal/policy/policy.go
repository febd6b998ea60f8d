package policy

import (
	"github.com/nikif9/user-account-service/internal/model"
	"github.com/nikif9/user-account-service/internal/token"
)

// Ownership is the sole authorization rule: a principal may mutate only
// the user record whose id equals its own subject.
type Ownership struct{}

func NewOwnership() Ownership {
	return Ownership{}
}

func (Ownership) Authorize(principal token.Principal, targetUserID int64) error {
	if principal.UserID != targetUserID {
		return model.ErrForbidden
	}
	return nil
}

package handler

import (
	"context"

	"github.com/nikif9/user-account-service/internal/model"
	"github.com/nikif9/user-account-service/internal/token"
)

// accountService is the slice of the user service the handlers consume.
type accountService interface {
	Register(ctx context.Context, username string, password string, email string) (int64, error)
	Get(ctx context.Context, id int64) (model.User, error)
	Update(ctx context.Context, id int64, patch model.UserPatch) error
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, username string, password string) (model.User, error)
}

type tokenVerifier interface {
	Verify(tokenString string) (token.Principal, error)
}

type tokenIssuer interface {
	Issue(userID int64) (string, error)
}

type accessPolicy interface {
	Authorize(principal token.Principal, targetUserID int64) error
}

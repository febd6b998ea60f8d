package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nikif9/user-account-service/internal/model"
	"github.com/nikif9/user-account-service/internal/token"
)

func TestOwnership_Authorize(t *testing.T) {
	p := NewOwnership()

	cases := []struct {
		name      string
		principal int64
		target    int64
		allowed   bool
	}{
		{"same id allows", 1, 1, true},
		{"different id denies", 2, 1, false},
		{"zero ids allow each other", 0, 0, true},
		{"zero principal denies other target", 0, 5, false},
		{"large equal ids allow", 1 << 40, 1 << 40, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.Authorize(token.Principal{UserID: tc.principal}, tc.target)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrForbidden)
			}
		})
	}
}

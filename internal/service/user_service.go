package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nikif9/user-account-service/internal/model"
)

// UserStore is the persistence capability the service composes. Digest
// fields are opaque to the store; hashing stays on this side.
type UserStore interface {
	Create(ctx context.Context, username string, passwordDigest string, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Update(ctx context.Context, id int64, username *string, email *string, passwordDigest *string) error
	Delete(ctx context.Context, id int64) error
}

type UserService struct {
	store    UserStore
	hashCost int
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, hashCost: 12}
}

// Register hashes the plaintext password and creates the user, returning
// the server-assigned id.
func (s *UserService) Register(ctx context.Context, username string, password string, email string) (int64, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, username, string(digest), email)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.store.FindByID(ctx, id)
}

// Update re-hashes a supplied password before it reaches the store.
func (s *UserService) Update(ctx context.Context, id int64, patch model.UserPatch) error {
	if patch.Empty() {
		return model.ErrInvalidInput
	}

	var digest *string
	if patch.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.hashCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hashedString := string(hashed)
		digest = &hashedString
	}

	return s.store.Update(ctx, id, patch.Username, patch.Email, digest)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Authenticate looks up the username and verifies the password against the
// stored digest. Unknown username and wrong password collapse into the
// same generic error so login cannot enumerate usernames.
func (s *UserService) Authenticate(ctx context.Context, username string, password string) (model.User, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

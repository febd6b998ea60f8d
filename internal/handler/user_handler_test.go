package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikif9/user-account-service/internal/model"
	"github.com/nikif9/user-account-service/internal/policy"
	"github.com/nikif9/user-account-service/internal/token"
)

// fakeAccountService lets each test plug in just the calls it expects.
type fakeAccountService struct {
	registerFn     func(username string, password string, email string) (int64, error)
	getFn          func(id int64) (model.User, error)
	updateFn       func(id int64, patch model.UserPatch) error
	deleteFn       func(id int64) error
	authenticateFn func(username string, password string) (model.User, error)
	getCalls       int
}

func (f *fakeAccountService) Register(_ context.Context, username string, password string, email string) (int64, error) {
	return f.registerFn(username, password, email)
}

func (f *fakeAccountService) Get(_ context.Context, id int64) (model.User, error) {
	f.getCalls++
	return f.getFn(id)
}

func (f *fakeAccountService) Update(_ context.Context, id int64, patch model.UserPatch) error {
	return f.updateFn(id, patch)
}

func (f *fakeAccountService) Delete(_ context.Context, id int64) error {
	return f.deleteFn(id)
}

func (f *fakeAccountService) Authenticate(_ context.Context, username string, password string) (model.User, error) {
	return f.authenticateFn(username, password)
}

// countingVerifier records whether the token was ever inspected.
type countingVerifier struct {
	inner *token.Service
	calls int
}

func (v *countingVerifier) Verify(tokenString string) (token.Principal, error) {
	v.calls++
	return v.inner.Verify(tokenString)
}

func newTokenService(t *testing.T) *token.Service {
	t.Helper()

	svc, err := token.NewService("test-secret", time.Hour)
	require.NoError(t, err)
	return svc
}

func bearerFor(t *testing.T, svc *token.Service, userID int64) string {
	t.Helper()

	tokenString, err := svc.Issue(userID)
	require.NoError(t, err)
	return "Bearer " + tokenString
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("creates user and returns id", func(t *testing.T) {
		svc := &fakeAccountService{
			registerFn: func(username, password, email string) (int64, error) {
				assert.Equal(t, "a", username)
				assert.Equal(t, "p", password)
				assert.Equal(t, "a@x.com", email)
				return 1, nil
			},
		}
		h := NewUserHandler(svc, newTokenService(t), policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"username":"a","password":"p","email":"a@x.com"}`))
		h.Create(rec, req, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"message":"user created","id":1}`, rec.Body.String())
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		h := NewUserHandler(&fakeAccountService{}, newTokenService(t), policy.NewOwnership())

		for _, body := range []string{
			`{}`,
			`{"username":"a","password":"p"}`,
			`{"username":"a","email":"a@x.com"}`,
			`{"password":"p","email":"a@x.com"}`,
		} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
			h.Create(rec, req, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		}
	})

	t.Run("duplicate username surfaces as 500", func(t *testing.T) {
		svc := &fakeAccountService{
			registerFn: func(string, string, string) (int64, error) {
				return 0, model.ErrUserAlreadyExists
			},
		}
		h := NewUserHandler(svc, newTokenService(t), policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"username":"a","password":"p","email":"a@x.com"}`))
		h.Create(rec, req, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"could not create user"}`, rec.Body.String())
	})
}

func TestUserHandler_Get(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &fakeAccountService{
		getFn: func(id int64) (model.User, error) {
			if id != 1 {
				return model.User{}, model.ErrUserNotFound
			}
			return model.User{ID: 1, Username: "a", PasswordDigest: "$2a$12$secret", Email: "a@x.com", CreatedAt: created}, nil
		},
	}
	h := NewUserHandler(svc, newTokenService(t), policy.NewOwnership())

	t.Run("returns public fields only", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Get(rec, httptest.NewRequest(http.MethodGet, "/users/1", nil), []string{"1"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"id":1,"username":"a","email":"a@x.com","created_at":"2025-06-01T12:00:00Z"}`,
			rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("missing user is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Get(rec, httptest.NewRequest(http.MethodGet, "/users/2", nil), []string{"2"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Get(rec, httptest.NewRequest(http.MethodGet, "/users/abc", nil), []string{"abc"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	tokens := newTokenService(t)

	t.Run("malformed id rejected before any token check", func(t *testing.T) {
		verifier := &countingVerifier{inner: tokens}
		h := NewUserHandler(&fakeAccountService{}, verifier, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/abc", strings.NewReader(`{"email":"b@x.com"}`))
		req.Header.Set("Authorization", bearerFor(t, tokens, 1))
		h.Update(rec, req, []string{"abc"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, verifier.calls)
	})

	t.Run("missing token is 401 and store is never consulted", func(t *testing.T) {
		svc := &fakeAccountService{getFn: func(int64) (model.User, error) {
			return model.User{}, model.ErrUserNotFound
		}}
		h := NewUserHandler(svc, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"email":"b@x.com"}`))
		h.Update(rec, req, []string{"1"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, svc.getCalls)
	})

	t.Run("expired token is 401", func(t *testing.T) {
		h := NewUserHandler(&fakeAccountService{}, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"email":"b@x.com"}`))
		req.Header.Set("Authorization", "Bearer not-a-token")
		h.Update(rec, req, []string{"1"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong subject is 403 regardless of target existence", func(t *testing.T) {
		svc := &fakeAccountService{getFn: func(int64) (model.User, error) {
			return model.User{}, model.ErrUserNotFound
		}}
		h := NewUserHandler(svc, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"email":"b@x.com"}`))
		req.Header.Set("Authorization", bearerFor(t, tokens, 2))
		h.Update(rec, req, []string{"1"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, svc.getCalls)
	})

	t.Run("empty patch is 400", func(t *testing.T) {
		h := NewUserHandler(&fakeAccountService{}, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{}`))
		req.Header.Set("Authorization", bearerFor(t, tokens, 1))
		h.Update(rec, req, []string{"1"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing target is 404", func(t *testing.T) {
		svc := &fakeAccountService{getFn: func(int64) (model.User, error) {
			return model.User{}, model.ErrUserNotFound
		}}
		h := NewUserHandler(svc, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"email":"b@x.com"}`))
		req.Header.Set("Authorization", bearerFor(t, tokens, 1))
		h.Update(rec, req, []string{"1"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("successful update", func(t *testing.T) {
		var applied model.UserPatch
		svc := &fakeAccountService{
			getFn: func(int64) (model.User, error) { return model.User{ID: 1}, nil },
			updateFn: func(id int64, patch model.UserPatch) error {
				assert.Equal(t, int64(1), id)
				applied = patch
				return nil
			},
		}
		h := NewUserHandler(svc, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1",
			strings.NewReader(`{"email":"b@x.com","password":"newpass"}`))
		req.Header.Set("Authorization", bearerFor(t, tokens, 1))
		h.Update(rec, req, []string{"1"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"user updated"}`, rec.Body.String())
		require.NotNil(t, applied.Email)
		assert.Equal(t, "b@x.com", *applied.Email)
		require.NotNil(t, applied.Password)
		assert.Nil(t, applied.Username)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		svc := &fakeAccountService{
			getFn:    func(int64) (model.User, error) { return model.User{ID: 1}, nil },
			updateFn: func(int64, model.UserPatch) error { return errors.New("connection reset") },
		}
		h := NewUserHandler(svc, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"email":"b@x.com"}`))
		req.Header.Set("Authorization", bearerFor(t, tokens, 1))
		h.Update(rec, req, []string{"1"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"could not update user"}`, rec.Body.String())
	})
}

func TestUserHandler_Delete(t *testing.T) {
	tokens := newTokenService(t)

	t.Run("missing target is 404 even with a valid owner token", func(t *testing.T) {
		svc := &fakeAccountService{getFn: func(int64) (model.User, error) {
			return model.User{}, model.ErrUserNotFound
		}}
		h := NewUserHandler(svc, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
		req.Header.Set("Authorization", bearerFor(t, tokens, 5))
		h.Delete(rec, req, []string{"5"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong subject is 403", func(t *testing.T) {
		h := NewUserHandler(&fakeAccountService{}, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
		req.Header.Set("Authorization", bearerFor(t, tokens, 6))
		h.Delete(rec, req, []string{"5"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("successful delete", func(t *testing.T) {
		svc := &fakeAccountService{
			getFn:    func(int64) (model.User, error) { return model.User{ID: 5}, nil },
			deleteFn: func(id int64) error { assert.Equal(t, int64(5), id); return nil },
		}
		h := NewUserHandler(svc, tokens, policy.NewOwnership())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/users/5", nil)
		req.Header.Set("Authorization", bearerFor(t, tokens, 5))
		h.Delete(rec, req, []string{"5"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"user deleted"}`, rec.Body.String())
	})
}

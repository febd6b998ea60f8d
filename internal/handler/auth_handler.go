package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikif9/user-account-service/internal/model"
)

type AuthHandler struct {
	users  accountService
	issuer tokenIssuer
}

func NewAuthHandler(users accountService, issuer tokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer}
}

// Login handles POST /login. A failed lookup and a failed password check
// produce the same 401 so the endpoint cannot enumerate usernames.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ []string) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeServiceError(w, err, "could not authenticate")
		return
	}

	tokenString, err := h.issuer.Issue(user.ID)
	if err != nil {
		slog.Error("token issuance failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not authenticate")
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Message: "login successful",
		UserID:  user.ID,
		Token:   tokenString,
	})
}

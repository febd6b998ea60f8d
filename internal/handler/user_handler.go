package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nikif9/user-account-service/internal/model"
	"github.com/nikif9/user-account-service/internal/token"
)

type UserHandler struct {
	users    accountService
	verifier tokenVerifier
	policy   accessPolicy
}

func NewUserHandler(users accountService, verifier tokenVerifier, policy accessPolicy) *UserHandler {
	return &UserHandler{users: users, verifier: verifier, policy: policy}
}

// Create handles POST /users. No auth; all three fields must be present.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request, _ []string) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(payload.Username) == "" ||
		payload.Password == "" ||
		strings.TrimSpace(payload.Email) == "" {
		writeError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}

	id, err := h.users.Register(r.Context(), payload.Username, payload.Password, payload.Email)
	if err != nil {
		writeServiceError(w, err, "could not create user")
		return
	}

	writeJSON(w, http.StatusCreated, model.CreatedResponse{Message: "user created", ID: id})
}

// Get handles GET /users/{id}. No auth.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request, params []string) {
	id, ok := parseUserID(params)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "could not load user")
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// Update handles PUT /users/{id}. Check order is a contract: malformed id
// before any auth work, token before ownership, ownership before body and
// existence checks.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request, params []string) {
	defer r.Body.Close()

	id, ok := parseUserID(params)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.authorizeOwner(r, id); err != nil {
		writeServiceError(w, err, "could not update user")
		return
	}

	var payload model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := payload.Patch()
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	if _, err := h.users.Get(r.Context(), id); err != nil {
		writeServiceError(w, err, "could not update user")
		return
	}

	if err := h.users.Update(r.Context(), id, patch); err != nil {
		writeServiceError(w, err, "could not update user")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "user updated"})
}

// Delete handles DELETE /users/{id}, with the same check order as Update.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, params []string) {
	id, ok := parseUserID(params)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.authorizeOwner(r, id); err != nil {
		writeServiceError(w, err, "could not delete user")
		return
	}

	if _, err := h.users.Get(r.Context(), id); err != nil {
		writeServiceError(w, err, "could not delete user")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "could not delete user")
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "user deleted"})
}

// authorizeOwner verifies the bearer token and applies the ownership
// policy. It never touches the store, so an unauthenticated caller learns
// nothing about whether the target exists.
func (h *UserHandler) authorizeOwner(r *http.Request, targetID int64) error {
	tokenString, ok := token.FromAuthorizationHeader(r.Header.Get("Authorization"))
	if !ok {
		return model.ErrUnauthorized
	}

	principal, err := h.verifier.Verify(tokenString)
	if err != nil {
		return model.ErrUnauthorized
	}

	return h.policy.Authorize(principal, targetID)
}

func parseUserID(params []string) (int64, bool) {
	if len(params) == 0 {
		return 0, false
	}

	id, err := strconv.ParseInt(params[0], 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

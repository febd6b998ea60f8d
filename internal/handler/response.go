package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikif9/user-account-service/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps the error taxonomy to its fixed status. Anything
// outside the taxonomy is a store failure and surfaces as a generic 500;
// duplicate-username rejections deliberately share that shape.
func writeServiceError(w http.ResponseWriter, err error, storeFailureMessage string) {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, model.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, model.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, model.ErrUserAlreadyExists):
		slog.Warn("store rejected duplicate username")
		writeError(w, http.StatusInternalServerError, storeFailureMessage)
	default:
		slog.Error("store operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, storeFailureMessage)
	}
}

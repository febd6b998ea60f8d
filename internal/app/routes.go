package app

import (
	"net/http"

	"github.com/nikif9/user-account-service/internal/handler"
	"github.com/nikif9/user-account-service/internal/router"
)

func newRouter(userHandler *handler.UserHandler, authHandler *handler.AuthHandler) *router.Router {
	rt := router.New()

	rt.Get("/health", router.HandlerFunc(func(w http.ResponseWriter, _ *http.Request, _ []string) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	rt.Post("/users", router.HandlerFunc(userHandler.Create))
	rt.Get("/users/{id}", router.HandlerFunc(userHandler.Get))
	rt.Put("/users/{id}", router.HandlerFunc(userHandler.Update))
	rt.Delete("/users/{id}", router.HandlerFunc(userHandler.Delete))

	rt.Post("/login", router.HandlerFunc(authHandler.Login))

	return rt
}

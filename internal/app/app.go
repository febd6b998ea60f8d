package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikif9/user-account-service/internal/config"
	"github.com/nikif9/user-account-service/internal/database"
	"github.com/nikif9/user-account-service/internal/handler"
	"github.com/nikif9/user-account-service/internal/middleware"
	"github.com/nikif9/user-account-service/internal/policy"
	"github.com/nikif9/user-account-service/internal/repository"
	"github.com/nikif9/user-account-service/internal/service"
	"github.com/nikif9/user-account-service/internal/token"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	userService := service.NewUserService(userRepo)

	tokenService, err := token.NewService(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	userHandler := handler.NewUserHandler(userService, tokenService, policy.NewOwnership())
	authHandler := handler.NewAuthHandler(userService, tokenService)

	rt := newRouter(userHandler, authHandler)

	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)
	chain := middleware.Recovery(
		middleware.Logging(
			middleware.CORS(cfg.CORSOrigins)(
				rateLimit.Handler(
					middleware.Timeout(cfg.RequestTimeout)(rt),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      chain,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}

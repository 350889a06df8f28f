package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagebound/pagebound/internal/config"
	"github.com/pagebound/pagebound/internal/database"
	"github.com/pagebound/pagebound/internal/handlers"
	"github.com/pagebound/pagebound/internal/logging"
	"github.com/pagebound/pagebound/internal/middleware"
	"github.com/pagebound/pagebound/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{
			"env": cfg.Server.Environment,
		})
	}

	logger.Info("Starting Pagebound server...")

	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Services
	dbAdapter := services.NewPoolAdapter(db.Pool)

	userService := services.NewUserService(dbAdapter)
	friendService := services.NewFriendService(dbAdapter)
	inviteService := services.NewInviteService(dbAdapter)
	emailService := services.NewEmailService(&cfg.Email)
	identity := services.NewConsoleIdentityProvider()

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, redisDB)
	userHandler := handlers.NewUserHandler(userService, emailService, identity, cfg.Admin.SuperAdminEmail)
	friendHandler := handlers.NewFriendHandler(friendService)
	inviteHandler := handlers.NewInviteHandler(inviteService, cfg.Email.BaseURL)

	// Middleware
	requestLogger := middleware.NewRequestLogger(logger)
	cors := middleware.NewCORS()
	recoverer := middleware.NewRecover(logger)
	signupLimiter := middleware.NewSignupRateLimiter(redisDB.Client)
	inviteLimiter := middleware.NewInviteRateLimiter(redisDB.Client)

	mux := http.NewServeMux()

	// Health endpoints (no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Friendship directory
	mux.HandleFunc("GET /friends/{userId}/list", friendHandler.List)
	mux.HandleFunc("GET /friends/{userId}/requests", friendHandler.Requests)
	mux.HandleFunc("POST /friends/{userId}/requests", friendHandler.SendRequest)
	mux.HandleFunc("PUT /friends/{userId}/requests/{fromUserId}", friendHandler.Respond)
	mux.HandleFunc("DELETE /friends/{userId}/remove/{friendUserId}", friendHandler.Remove)
	mux.HandleFunc("GET /friends/{userId}/search", friendHandler.Search)
	mux.Handle("POST /friends/{userId}/invite", inviteLimiter.Limit(http.HandlerFunc(inviteHandler.Create)))
	mux.HandleFunc("GET /friends/{userId}/invite/{inviteCode}", inviteHandler.Resolve)

	// User profiles
	mux.Handle("POST /users", signupLimiter.Limit(http.HandlerFunc(userHandler.Create)))
	mux.HandleFunc("GET /users/check-username/{username}", userHandler.CheckUsername)
	mux.HandleFunc("GET /users/{email}", userHandler.Get)
	mux.HandleFunc("PUT /users/{email}/username", userHandler.UpdateUsername)

	// Admin
	mux.HandleFunc("GET /admin/users", userHandler.AdminList)
	mux.HandleFunc("PUT /admin/users/{email}/admin", userHandler.AdminSetAdmin)
	mux.HandleFunc("POST /admin/reset-password", userHandler.AdminResetPassword)

	// Middleware chain (order matters: outermost first). CORS sits outside
	// the recoverer so even a panic response carries the headers.
	var handler http.Handler = handlers.WithNotFound(mux)
	handler = recoverer.Apply(handler)
	handler = cors.Apply(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

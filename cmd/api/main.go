package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/Vinith1801/Growfinix-Tech/docs" // Swagger docs (generated)
	"github.com/Vinith1801/Growfinix-Tech/internal/auth"
	"github.com/Vinith1801/Growfinix-Tech/internal/config"
	"github.com/Vinith1801/Growfinix-Tech/internal/database"
	httpServer "github.com/Vinith1801/Growfinix-Tech/internal/http"
	"github.com/Vinith1801/Growfinix-Tech/internal/logging"
	"github.com/Vinith1801/Growfinix-Tech/internal/note"
	"github.com/Vinith1801/Growfinix-Tech/internal/ratelimit"
	"github.com/Vinith1801/Growfinix-Tech/internal/user"
)

// @title           Notes API
// @version         1.0
// @description     REST API for a personal markdown note-taking application with cookie-session authentication.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Database connection is established once; failure here is fatal
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := user.NewRepository(db)
	noteRepo := note.NewRepository(db)

	// Rate limiter for the credential endpoints
	rateLimiter := ratelimit.NewLimiter(redisClient)

	// Session token service
	pasetoService, err := auth.NewPasetoService(cfg.Auth.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize PASETO service: %w", err)
	}

	// Services
	authService := auth.NewService(userRepo, pasetoService, logger, cfg.Auth.SessionDuration)
	noteService := note.NewService(noteRepo)

	// HTTP handlers
	authHandler := auth.NewHandler(
		authService,
		rateLimiter,
		!cfg.Server.IsDevelopment(), // isProduction
		cfg.Auth.SessionDuration,
	)
	noteHandler := note.NewHandler(noteService)
	authMiddleware := auth.NewMiddleware(pasetoService)

	router := httpServer.NewRouter(cfg, authHandler, noteHandler, authMiddleware, logger)

	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		logger,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB opens the Postgres connection, applies migrations and returns a Bun
// DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := database.RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

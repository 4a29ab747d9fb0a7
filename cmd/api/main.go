package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/go-auth-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/go-auth-api/internal/auth"
	"github.com/redmonkez12/go-auth-api/internal/config"
	"github.com/redmonkez12/go-auth-api/internal/database"
	httpServer "github.com/redmonkez12/go-auth-api/internal/http"
	"github.com/redmonkez12/go-auth-api/internal/logging"
	"github.com/redmonkez12/go-auth-api/internal/metrics"
	"github.com/redmonkez12/go-auth-api/internal/user"
)

// @title           Go Auth API
// @version         1.0
// @description     User registration, login and profile lookup with bearer tokens.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token. The x-auth-token header is also accepted.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"directory", cfg.Directory.Driver,
		"token_format", cfg.Auth.TokenFormat,
		"password_hasher", cfg.Auth.PasswordHasher,
	)

	// Bound the time spent connecting to backing services
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize user directory (postgres, mongo or memory)
	directory, closeDirectory, err := initDirectory(startCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize user directory: %w", err)
	}
	defer closeDirectory()

	// Optional Redis profile cache in front of the directory
	if cfg.Redis.CacheEnabled() {
		redisClient, err := initRedis(startCtx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		directory = user.NewCachedDirectory(directory, redisClient, cfg.Redis.ProfileCacheTTL, logger)
		logger.Info("profile cache enabled", "ttl", cfg.Redis.ProfileCacheTTL.String())
	}

	// Initialize token service (JWT or PASETO)
	tokens, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize auth service
	authService := auth.NewService(
		directory,
		initHasher(cfg.Auth),
		tokens,
		user.DefaultAvatar,
		logger,
	)

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	// Initialize HTTP handlers and router
	authHandler := auth.NewHandler(authService, collector)
	router := httpServer.NewRouter(cfg, authHandler, collector, reg, logger)

	// Initialize HTTP server
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
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

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDirectory opens the configured user store. The returned func releases it.
func initDirectory(ctx context.Context, cfg *config.Config, logger *logging.Logger) (user.Directory, func(), error) {
	switch cfg.Directory.Driver {
	case config.DriverPostgres:
		sqlDB, err := database.OpenPostgres(ctx, cfg.Database.ConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, nil, err
		}
		// Apply schema migrations before serving
		if err := database.Migrate(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		db := database.NewBunDB(sqlDB)
		return user.NewRepository(db), func() { _ = db.Close() }, nil

	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		repo := user.NewMongoRepository(client.Database(cfg.Mongo.Database))
		// Unique email index backs duplicate detection
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		logger.Warn("using in-memory user directory, users are lost on restart")
		return user.NewMemoryRepository(), func() {}, nil
	}
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenFormat == config.TokenFormatPaseto {
		return auth.NewPasetoService(cfg.Secret, cfg.TokenTTL)
	}
	return auth.NewJWTService(cfg.Secret, cfg.TokenTTL), nil
}

func initHasher(cfg config.AuthConfig) auth.Hasher {
	var inner auth.Hasher
	if cfg.PasswordHasher == config.HasherArgon2id {
		inner = auth.NewArgon2Hasher(auth.DefaultArgon2Params)
	} else {
		inner = auth.NewBcryptHasher(cfg.BcryptCost)
	}
	// At most HashConcurrency hashes run at once
	return auth.NewBoundedHasher(inner, cfg.HashConcurrency)
}

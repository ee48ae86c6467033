package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ardenlx/book-go/internal/auth"
	"github.com/ardenlx/book-go/internal/config"
	"github.com/ardenlx/book-go/internal/notify"
	"github.com/ardenlx/book-go/internal/postgres"
	"github.com/ardenlx/book-go/internal/redis"
	"github.com/ardenlx/book-go/internal/reference"
	postgresrepo "github.com/ardenlx/book-go/internal/repository/postgres"
	redisrepo "github.com/ardenlx/book-go/internal/repository/redis"
	"github.com/ardenlx/book-go/internal/service"
	"github.com/ardenlx/book-go/internal/service/query"
	httpgin "github.com/ardenlx/book-go/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewCalendarPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(
		rdb,
		"bookings",
		cfg.RateLimit.Limit,
		cfg.RateLimit.Window,
	)

	// Initialize services
	services := service.NewServices(
		store,
		cache,
		pubsub,
		notify.NewLogNotifier(logger),
		reference.NewGenerator(cfg.Booking.ReferencePrefix),
		service.Config{
			Query: query.Config{},
		},
	)

	// Initialize Gin router
	verifier := auth.NewTokenVerifier(cfg.Booking.AdminToken)
	router := httpgin.NewRouter(services, limiter, verifier, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

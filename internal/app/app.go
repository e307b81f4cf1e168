package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/auth"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/config"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/event"
	handler "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/handler/http"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository/memory"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository/postgres"
	rediscache "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/repository/redis"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/internal/service"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/migrations"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/database"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/health"
	pkgkafka "github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/kafka"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/middleware"
	"github.com/dnd-mentee-4th/dnd-mentee-4th-5-backend/pkg/tracing"
)

const serviceName = "drinks-api"

// App wires together all dependencies and runs the drinks API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *goredis.Client
	publisher      pkgkafka.Publisher
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

type repositories struct {
	drinks  repository.DrinkRepository
	reviews repository.ReviewRepository
	users   repository.UserRepository
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	healthHandler := health.NewHandler()

	repos, err := a.initStorage(ctx, healthHandler)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	if err := a.initCache(ctx, healthHandler, &repos); err != nil {
		a.closeResources()
		return nil, err
	}

	a.initPublisher(healthHandler)

	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTExpiry)
	if err != nil {
		a.closeResources()
		return nil, fmt.Errorf("init jwt manager: %w", err)
	}

	// Build the dependency graph.
	eventProducer := event.NewProducer(a.publisher, logger)
	drinkService := service.NewDrinkService(repos.drinks, eventProducer, logger)
	reviewService := service.NewReviewService(repos.reviews, eventProducer, logger)
	userService := service.NewUserService(repos.users, eventProducer, logger, service.WithBcryptCost(cfg.BcryptCost))
	authService := service.NewAuthService(userService, tokens, logger)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(handler.Services{
		Drinks:  drinkService,
		Reviews: reviewService,
		Users:   userService,
		Auth:    authService,
	}, healthHandler, handler.RouterConfig{
		CORS:           cors,
		CacheMaxAge:    cfg.CacheControlMaxAge,
		TokenRateLimit: cfg.TokenRateLimitRPS,
		TokenBurst:     cfg.TokenRateLimitBurst,
	}, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Handler returns the HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

func (a *App) initStorage(ctx context.Context, healthHandler *health.Handler) (repositories, error) {
	if a.cfg.StorageBackend == config.StorageMemory {
		a.logger.Warn("using in-memory storage; data is lost on restart")
		return repositories{
			drinks:  memory.NewDrinkRepository(),
			reviews: memory.NewReviewRepository(),
			users:   memory.NewUserRepository(),
		}, nil
	}

	pgCfg := a.cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
	if err != nil {
		return repositories{}, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	a.logger.Info("connected to PostgreSQL",
		slog.String("host", pgCfg.Host),
		slog.Int("port", pgCfg.Port),
		slog.String("database", pgCfg.DBName),
	)

	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		a.logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, a.logger); err != nil {
		return repositories{}, fmt.Errorf("run migrations: %w", err)
	}

	if threshold := a.cfg.SlowQueryThreshold(); threshold > 0 {
		database.SetSlowQueryLogging(threshold, a.logger)
	}

	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	return repositories{
		drinks:  postgres.NewDrinkRepository(pool),
		reviews: postgres.NewReviewRepository(pool),
		users:   postgres.NewUserRepository(pool),
	}, nil
}

func (a *App) initCache(ctx context.Context, healthHandler *health.Handler, repos *repositories) error {
	if a.cfg.RedisAddr == "" {
		return nil
	}

	client, err := database.NewRedisClient(ctx, a.cfg.Redis())
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = client
	a.logger.Info("drink cache enabled",
		slog.String("addr", a.cfg.RedisAddr),
		slog.Duration("ttl", a.cfg.DrinkCacheTTL),
	)

	healthHandler.Register("redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})

	repos.drinks = rediscache.NewCachedDrinkRepository(repos.drinks, client, a.cfg.DrinkCacheTTL, a.logger)
	return nil
}

func (a *App) initPublisher(healthHandler *health.Handler) {
	if len(a.cfg.KafkaBrokers) == 0 {
		a.logger.Info("no kafka brokers configured; events are discarded")
		a.publisher = pkgkafka.NopPublisher{}
		return
	}

	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	a.publisher = producer
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))

	healthHandler.Register("kafka", producer.Ping)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeResources()
		return err
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests, then flushes spans and releases the
// publisher, cache and database in that order.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	return errors.Join(errs...)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/OrderEntryGo/internal/config"
	"github.com/utafrali/OrderEntryGo/internal/domain"
	"github.com/utafrali/OrderEntryGo/internal/event"
	handler "github.com/utafrali/OrderEntryGo/internal/handler/http"
	"github.com/utafrali/OrderEntryGo/internal/receipt"
	"github.com/utafrali/OrderEntryGo/internal/refdata"
	"github.com/utafrali/OrderEntryGo/internal/repository/postgres"
	"github.com/utafrali/OrderEntryGo/internal/sender"
	sendermock "github.com/utafrali/OrderEntryGo/internal/sender/mock"
	"github.com/utafrali/OrderEntryGo/internal/service"
	"github.com/utafrali/OrderEntryGo/migrations"
	"github.com/utafrali/OrderEntryGo/pkg/database"
	"github.com/utafrali/OrderEntryGo/pkg/health"
	"github.com/utafrali/OrderEntryGo/pkg/httpclient"
	pkgkafka "github.com/utafrali/OrderEntryGo/pkg/kafka"
	"github.com/utafrali/OrderEntryGo/pkg/middleware"
	"github.com/utafrali/OrderEntryGo/pkg/tracing"
)

// App wires together all dependencies and runs the order entry service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	refdata        *refdata.Store
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "order-entry",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "order-entry")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis backs the exchange-rate cache. It is optional: when it is
	// unreachable the service degrades to fetching rates without a cache.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host: cfg.RedisHost,
		Port: cfg.RedisPort,
		DB:   cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, rate caching disabled", slog.String("error", err.Error()))
		rdb = nil
	} else {
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr()))
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Optional upstream exchange-rate provider behind a circuit breaker.
	var ratesProvider refdata.RatesProvider
	if cfg.RatesProviderURL != "" {
		client := httpclient.New(httpclient.DefaultConfig())
		cbClient := httpclient.NewCircuitBreakerClient(
			client,
			httpclient.DefaultCircuitBreakerConfig("rates-provider"),
			logger,
		)
		ratesProvider = refdata.NewHTTPRatesProvider(cbClient, cfg.RatesProviderURL, logger)
		if rdb != nil {
			ttl := time.Duration(cfg.RatesCacheTTLMin) * time.Minute
			ratesProvider = refdata.NewCachedRatesProvider(ratesProvider, rdb, ttl, logger)
		}
		logger.Info("rates provider enabled", slog.String("url", cfg.RatesProviderURL))
	}

	// Build the dependency graph.
	orderRepo := postgres.NewOrderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	rateRepo := postgres.NewRateRepository(pool)
	refdataStore := refdata.NewStore(productRepo, rateRepo, ratesProvider, logger)
	eventProducer := event.NewProducer(producer, logger)
	renderer := receipt.NewRenderer(cfg.CompanyName)

	var emailSender sender.Sender
	if cfg.SMTPHost != "" {
		emailSender = sender.NewSMTPSender(sender.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger)
	} else {
		logger.Info("SMTP not configured, using mock email sender")
		emailSender = sendermock.NewMockSender(logger)
	}

	validateOpts := domain.ValidateOptions{StrictProductNames: cfg.StrictProductNames}
	orderService := service.NewOrderService(
		orderRepo, refdataStore, eventProducer, renderer, emailSender, validateOpts, logger,
	)

	// Load the initial reference-data snapshot. Failure is not fatal:
	// readiness stays red until a reload succeeds.
	if _, err := refdataStore.Reload(ctx); err != nil {
		logger.Error("initial reference data load failed", slog.String("error", err.Error()))
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("refdata", refdataStore.CheckReady)

	// HTTP router.
	router := handler.NewRouter(orderService, healthHandler, logger, handler.RouterConfig{
		CORS:           middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		OrderRateLimit: cfg.OrderRateLimit,
		OrderRateBurst: cfg.OrderRateBurst,
		CacheMaxAge:    cfg.RefDataCacheMaxAge,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		rdb:            rdb,
		producer:       producer,
		refdata:        refdataStore,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client and PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

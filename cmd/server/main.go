package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/cart/api/handler"
	"github.com/fastygo/cart/internal/config"
	"github.com/fastygo/cart/internal/infrastructure/buffer"
	kafkaInfra "github.com/fastygo/cart/internal/infrastructure/kafka"
	"github.com/fastygo/cart/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/cart/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/cart/internal/infrastructure/redis"
	"github.com/fastygo/cart/internal/middleware"
	"github.com/fastygo/cart/internal/router"
	"github.com/fastygo/cart/internal/services"
	"github.com/fastygo/cart/internal/services/lifecycle"
	"github.com/fastygo/cart/pkg/httpcontext"
	"github.com/fastygo/cart/pkg/logger"
	"github.com/fastygo/cart/repository"
	"github.com/fastygo/cart/repository/cached"
	"github.com/fastygo/cart/repository/memory"
	"github.com/fastygo/cart/repository/postgres"
	redisRepo "github.com/fastygo/cart/repository/redis"
	"github.com/fastygo/cart/usecase"
	cartUC "github.com/fastygo/cart/usecase/cart"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var probes []monitor.Probe

	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err = pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})
		probes = append(probes, monitor.PostgresProbe(pool))
	}

	var redisClient *redislib.Client
	if cfg.UsesRedis() {
		redisClient, err = redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient)
		probes = append(probes, monitor.RedisProbe(redisClient))
	}

	outboxStore, err := buffer.Open(cfg.Outbox.Path, "outbox", cfg.Outbox.MaxSize)
	if err != nil {
		zapLogger.Fatal("failed to open outbox store", zap.Error(err))
	}
	manager.RegisterCloser("outbox_store", outboxStore)

	mon := monitor.New(outboxStore, 0, zapLogger, probes...)
	mon.Start()
	manager.RegisterStop("monitor", mon.Stop)

	carts := buildCartRepository(cfg, pool, redisClient, zapLogger)

	publisher, closePublisher := buildPublisher(cfg, pool, zapLogger)
	if closePublisher != nil {
		manager.Register("event_publisher", func(ctx context.Context) error {
			return closePublisher()
		})
	}

	relay := services.NewOutboxRelay(
		outboxStore,
		mon,
		publisher,
		zapLogger,
		services.RelayConfig{
			Interval:   cfg.Outbox.Interval,
			BatchSize:  cfg.Outbox.BatchSize,
			MaxRetries: cfg.Outbox.MaxRetries,
			Retention:  cfg.Outbox.RetentionAge,
		},
	)
	relay.Start()
	manager.Register("outbox_relay", func(ctx context.Context) error {
		relay.Stop(ctx)
		return nil
	})

	cartService := cartUC.NewService(carts, services.NewOutboxBridge(outboxStore), zapLogger)

	dispatcher := usecase.NewDispatcher(usecase.LoggingMiddleware(zapLogger))
	if err := cartUC.Register(dispatcher, cartService, cfg.Cart.DefaultCurrency); err != nil {
		zapLogger.Fatal("handler registration failed", zap.Error(err))
	}

	tokens := middleware.NewCartTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL)
	if !tokens.Enabled() {
		zapLogger.Warn("JWT_SECRET not set, cart routes are unauthenticated")
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Cart:   apiHandler.NewCartHandler(dispatcher, cartService, tokens, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.CartGuard(tokens, zapLogger))

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("cart_store", cfg.Cart.Store),
			zap.Bool("cart_cache", cfg.Cart.CacheEnabled))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func buildCartRepository(cfg *config.Config, pool *pgxpool.Pool, client *redislib.Client, logger *zap.Logger) repository.CartRepository {
	var carts repository.CartRepository
	switch cfg.Cart.Store {
	case config.StoreRedis:
		carts = redisRepo.NewCartRepository(client, cfg.Cart.TTL)
	case config.StoreMemory:
		logger.Warn("using in-memory cart store, carts are lost on restart")
		carts = memory.NewCartRepository()
	default:
		carts = postgres.NewCartRepository(pool)
	}

	if cfg.Cart.CacheEnabled {
		carts = cached.NewCartRepository(carts, redisRepo.NewCartCache(client, cfg.Cart.CacheTTL), logger)
	}
	return carts
}

// buildPublisher prefers kafka, then the postgres event log, then the application log.
func buildPublisher(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) (services.EventPublisher, func() error) {
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := kafkaInfra.NewPublisher(cfg.Kafka, logger)
		if err != nil {
			logger.Fatal("kafka publisher failed", zap.Error(err))
		}
		logger.Info("publishing cart events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
		return publisher, publisher.Close
	}
	if pool != nil {
		logger.Info("appending cart events to postgres")
		return services.NewEventLogPublisher(postgres.NewEventLog(pool)), nil
	}
	return services.NewLogPublisher(logger), nil
}

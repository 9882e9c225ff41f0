package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/infrastructure/cache"
	"github.com/shopcore/fulfillment/internal/infrastructure/config"
	"github.com/shopcore/fulfillment/internal/infrastructure/event"
	"github.com/shopcore/fulfillment/internal/infrastructure/logger"
	"github.com/shopcore/fulfillment/internal/infrastructure/messaging"
	"github.com/shopcore/fulfillment/internal/infrastructure/persistence"
	"github.com/shopcore/fulfillment/internal/infrastructure/telemetry"
	"github.com/shopcore/fulfillment/internal/interfaces/http/handler"
	"github.com/shopcore/fulfillment/internal/interfaces/http/middleware"
	"github.com/shopcore/fulfillment/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/shopcore/fulfillment/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const version = "1.0.0"

//	@title			Fulfillment API
//	@version		1.0
//	@description	Order checkout, payment transitions and shipment provisioning
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/shopcore/fulfillment

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Logs are bridged to the collector when enabled, so the provider comes first
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	var extraCores []zapcore.Core
	if loggerProvider.IsEnabled() {
		extraCores = append(extraCores, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          logger.ParseLevel(cfg.Telemetry.LogsLevel),
		}))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting fulfillment service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing, metrics and profiling
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	if cfg.Profiler.Enabled && cfg.Profiler.SpanProfiles && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	meter := meterProvider.Meter("fulfillment")

	// Database with zap-backed GORM logger, tracing and metrics plugins
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:         "postgresql",
		WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
	dbMetricsCfg.Enabled = meterProvider.IsEnabled()
	dbMetricsCfg.SlowQueryThreshold = cfg.Telemetry.DBSlowQueryThresh
	dbMetrics, err := telemetry.NewDBMetrics(meter, dbMetricsCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize database metrics", zap.Error(err))
	}
	if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		dbMetrics.SetSQLDB(sqlDB)
		dbMetrics.StartPoolStatsCollection(ctx)
	}
	defer dbMetrics.Stop()

	// Ledger, repositories and outbox
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	eventSerializer := event.NewFulfillmentEventSerializer()
	outboxPublisher := event.NewOutboxPublisher(eventSerializer, event.WithMaxRetries(cfg.Event.MaxRetries))

	ledger := persistence.NewGormLedger(db.DB, outboxPublisher)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	// Fulfillment services
	generator, err := fulfillment.NewIdentifierGenerator(cfg.Fulfillment.IdentifierStrategy)
	if err != nil {
		log.Fatal("Invalid identifier strategy", zap.Error(err))
	}
	provisioner := fulfillmentapp.NewShipmentProvisioner(fulfillment.ShipmentPolicy{
		ShipOffset:     cfg.Fulfillment.ShipOffset,
		DeliveryOffset: cfg.Fulfillment.DeliveryOffset,
		DefaultCarrier: cfg.Fulfillment.DefaultCarrier,
	}, generator)
	orderService := fulfillmentapp.NewOrderCreationService(ledger, provisioner, generator, log,
		fulfillmentapp.WithShippingFee(cfg.Fulfillment.ShippingFee))
	paymentService := fulfillmentapp.NewPaymentTransitionService(ledger, provisioner, log)
	queryService := fulfillmentapp.NewOrderQueryService(orderRepo, paymentRepo)

	// Idempotency store shared by the Kafka forwarder and the payment consumer
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithBackend(cfg.Idempotency.Backend),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:          meter,
		Logger:         log,
		OutboxProvider: outboxRepo,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	businessMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	defer businessMetrics.Stop()

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(fulfillmentapp.NewFulfillmentMetricsHandler(businessMetrics))
	eventBus.Subscribe(fulfillmentapp.NewShipmentNotificationLogger(log))

	if cfg.Kafka.Enabled {
		producer, err := messaging.NewSyncProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error("Error closing Kafka producer", zap.Error(err))
			}
		}()
		forwarder := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic, log)
		eventBus.Subscribe(event.NewIdempotentHandler(forwarder, idempotencyStore, log,
			event.WithIdempotencyKeyPrefix("kafka-forward"),
			event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Idempotency.TTL, Enabled: true}),
		))
		log.Info("Kafka event forwarding enabled", zap.String("topic", cfg.Kafka.EventsTopic))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// The outbox processor relays committed ledger events to the event bus
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.DefaultOutboxProcessorConfig()
		processorCfg.BatchSize = cfg.Event.BatchSize
		processorCfg.PollInterval = cfg.Event.PollInterval
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		processorCfg.CleanupRetention = cfg.Event.CleanupRetention
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorCfg, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorCfg.BatchSize),
			zap.Duration("poll_interval", processorCfg.PollInterval),
		)
	}

	// Gateway payment confirmations arrive on Kafka and go through the same transition
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	if cfg.Kafka.Enabled {
		group, err := messaging.NewConsumerGroup(cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to create Kafka consumer group", zap.Error(err))
		}
		consumer := messaging.NewPaymentStatusConsumer(group, cfg.Kafka.PaymentStatusTopic, paymentService, idempotencyStore, log,
			messaging.WithMaxAttempts(cfg.Kafka.ConsumerMaxAttempts),
			messaging.WithDedupTTL(cfg.Idempotency.TTL),
		)
		go func() {
			if err := consumer.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("Payment status consumer stopped", zap.Error(err))
			}
		}()
		defer func() {
			if err := consumer.Close(); err != nil {
				log.Error("Error closing payment status consumer", zap.Error(err))
			}
		}()
		log.Info("Payment status consumer started", zap.String("topic", cfg.Kafka.PaymentStatusTopic))
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	prom := middleware.NewPrometheusMetrics()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(prom.Middleware())
	engine.Use(middleware.HTTPMetricsWithMeter(meter, meterProvider.IsEnabled()))
	if cfg.Profiler.Enabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(db, log, version)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/metrics", prom.Handler())
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	var writeGuards []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		defer limiter.Close()
		writeGuards = append(writeGuards, middleware.RateLimit(limiter))
	}

	r := router.NewRouter(engine)
	for _, registrar := range router.FulfillmentRoutes(router.FulfillmentHandlers{
		Orders:   handler.NewOrderHandler(orderService, queryService),
		Payments: handler.NewPaymentHandler(paymentService, queryService),
		System:   systemHandler,
	}, writeGuards...) {
		r.Register(registrar)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	businessapp "github.com/saleledger/backend/internal/application/business"
	saleapp "github.com/saleledger/backend/internal/application/sale"
	syncapp "github.com/saleledger/backend/internal/application/sync"
	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/infrastructure/cache"
	"github.com/saleledger/backend/internal/infrastructure/config"
	"github.com/saleledger/backend/internal/infrastructure/connectivity"
	"github.com/saleledger/backend/internal/infrastructure/logger"
	"github.com/saleledger/backend/internal/infrastructure/persistence"
	"github.com/saleledger/backend/internal/interfaces/http/handler"
	"github.com/saleledger/backend/internal/interfaces/http/middleware"
	"github.com/saleledger/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SaleLedger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Authoritative sale store (postgres)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Authoritative store connected")

	// Production runs cmd/migrate; development keeps the schema current
	// on startup
	if cfg.App.Env == "development" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	// Local durable queue (sqlite). Failing to open it is fatal: without
	// the queue, offline captures would be silently lost.
	queueDB, err := persistence.OpenLocalQueue(&cfg.LocalQueue, gormLog)
	if err != nil {
		log.Fatal("Failed to open local queue", zap.Error(err))
	}
	log.Info("Local queue opened", zap.String("path", cfg.LocalQueue.Path))

	// Repositories
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	businessRepo := persistence.NewGormBusinessRepository(db.DB)
	queue := persistence.NewGormPendingSaleRepository(queueDB)

	// Redis is optional: without it the VAT rate cache degrades to its
	// in-process map and deduplication runs in memory
	var redisClient *redis.Client
	var dedupe shared.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unreachable, falling back to in-process caching", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}
	if redisClient != nil {
		dedupe = cache.NewRedisIdempotencyStoreWithClient(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		dedupe = cache.NewInMemoryIdempotencyStore()
	}
	defer dedupe.Close()

	rateCache := cache.NewVATRateCache(businessRepo, redisClient, 5*time.Minute)

	// Connectivity monitor
	probe := connectivity.HTTPProbe(cfg.Connectivity.ProbeURL, cfg.Connectivity.ProbeTimeout)
	monitor := connectivity.NewMonitor(probe, connectivity.Config{
		Interval: cfg.Connectivity.ProbeInterval,
		Debounce: cfg.Connectivity.Debounce,
	}, log)
	monitor.Start(context.Background())
	defer monitor.Stop()

	// Application services
	captureService := saleapp.NewCaptureService(saleRepo, queue, rateCache, monitor, log)
	directoryService := businessapp.NewDirectoryService(businessRepo, rateCache, log)
	submitter := syncapp.NewLedgerSubmitter(saleRepo, dedupe, cfg.Sync.DedupTTL, log)
	coordinator := syncapp.NewCoordinator(queue, submitter, monitor, nil, syncapp.Config{
		PerRecordTimeout: cfg.Sync.PerRecordTimeout,
		AutoSyncEnabled:  cfg.Sync.AutoSyncEnabled,
	}, log)

	// Regaining connectivity drains the queue automatically
	unsubscribe := coordinator.AttachTo(monitor)
	defer unsubscribe()

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSaleHandler(captureService, coordinator)).
		Register(handler.NewBusinessHandler(directoryService)).
		Register(handler.NewSystemHandler(db, monitor))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

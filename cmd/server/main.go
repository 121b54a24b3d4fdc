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
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storeadmin/backend/internal/application/catalog"
	identityapp "github.com/storeadmin/backend/internal/application/identity"
	inventoryapp "github.com/storeadmin/backend/internal/application/inventory"
	partnerapp "github.com/storeadmin/backend/internal/application/partner"
	salesapp "github.com/storeadmin/backend/internal/application/sales"
	"github.com/storeadmin/backend/internal/domain/sales"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/auth"
	"github.com/storeadmin/backend/internal/infrastructure/cache"
	"github.com/storeadmin/backend/internal/infrastructure/config"
	"github.com/storeadmin/backend/internal/infrastructure/event"
	"github.com/storeadmin/backend/internal/infrastructure/logger"
	"github.com/storeadmin/backend/internal/infrastructure/persistence"
	"github.com/storeadmin/backend/internal/infrastructure/storage"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"github.com/storeadmin/backend/internal/interfaces/http/handler"
	"github.com/storeadmin/backend/internal/interfaces/http/middleware"
	"github.com/storeadmin/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting store admin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to flush traces", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	dbTracing.DBName = cfg.Database.DBName
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Idempotency keys and revoked tokens live in Redis when it is configured
	healthChecks := map[string]handler.Pinger{"database": db}
	var (
		idempotency shared.IdempotencyStore
		blacklist   auth.TokenBlacklist
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = client.Close()
		}()
		idempotency = cache.NewRedisIdempotencyStore(client, "store:")
		blacklist = auth.NewRedisTokenBlacklist(client)
		healthChecks["redis"] = redisPinger{client}
		log.Info("Redis connected", zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	} else {
		store := cache.NewInMemoryIdempotencyStore(5 * time.Minute)
		defer func() {
			_ = store.Close()
		}()
		idempotency = store
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled; idempotency keys and token revocations are kept in memory")
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Events are dispatched after commit on a background worker
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())

	locale, err := language.Parse(cfg.POS.Locale)
	if err != nil {
		log.Warn("Invalid receipt locale, using en-US", zap.String("locale", cfg.POS.Locale), zap.Error(err))
		locale = language.AmericanEnglish
	}
	renderer := salesapp.NewReceiptRenderer(cfg.POS.StoreName, cfg.POS.Currency, locale)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)

	customerService := partnerapp.NewCustomerService(customerRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, log)
	warehouseService := partnerapp.NewWarehouseService(txScope, warehouseRepo, stockItemRepo, log)

	unitService := catalogapp.NewUnitService(unitRepo, productRepo, log)
	brandService := catalogapp.NewBrandService(brandRepo, productRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	productService := catalogapp.NewProductService(catalogapp.ProductRepositories{
		Products:   productRepo,
		Categories: categoryRepo,
		Brands:     brandRepo,
		Units:      unitRepo,
		Stock:      stockItemRepo,
		Movements:  movementRepo,
		Sales:      saleRepo,
	}, log)

	stockService := inventoryapp.NewStockService(stockItemRepo, movementRepo, productRepo)
	adjustmentService := inventoryapp.NewAdjustmentService(txScope, adjustmentRepo, warehouseRepo, productRepo, log)
	adjustmentService.SetEventPublisher(eventBus)
	transferService := inventoryapp.NewTransferService(txScope, transferRepo, warehouseRepo, productRepo, log)
	transferService.SetEventPublisher(eventBus)

	posService := salesapp.NewPOSService(
		txScope,
		salesapp.POSRepositories{
			Products:   productRepo,
			Warehouses: warehouseRepo,
			Customers:  customerRepo,
			Sales:      saleRepo,
		},
		salesapp.POSSettings{
			DefaultTaxRate: decimal.NewFromFloat(cfg.POS.DefaultTaxRate),
			IdempotencyTTL: cfg.POS.IdempotencyTTL,
		},
		idempotency,
		renderer,
		log,
	)
	posService.SetEventPublisher(eventBus)

	// Receipt archiving to S3-compatible storage
	if cfg.Storage.Enabled {
		objectStorage, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := objectStorage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare receipt bucket", zap.Error(err))
		}
		archiver := salesapp.NewReceiptArchiver(saleRepo, objectStorage, renderer, log)
		archiver.SetKeyPrefix(cfg.Storage.ReceiptPrefix)
		eventBus.Subscribe(archiver, sales.EventTypeSaleCompleted)
		posService.SetReceiptStorage(objectStorage)
		log.Info("Receipt archiving enabled", zap.String("bucket", objectStorage.Bucket()))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Event bus did not drain", zap.Error(err))
		}
	}()

	created, err := userService.EnsureBootstrapAdmin(ctx, identityapp.BootstrapAdmin{
		Username: cfg.Bootstrap.AdminUsername,
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
	})
	if err != nil {
		log.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}
	if created {
		log.Warn("Created bootstrap admin; change its password", zap.String("username", cfg.Bootstrap.AdminUsername))
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	serviceName := ""
	if tp.IsEnabled() {
		serviceName = cfg.Telemetry.ServiceName
	}
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine := router.New(router.Options{
		Logger:      log,
		JWT:         middleware.JWTConfig{JWTService: jwtService, Blacklist: blacklist, Logger: log},
		CORS:        corsConfig,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		ServiceName: serviceName,
	}, router.Handlers{
		System:     handler.NewSystemHandler(version, healthChecks),
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Role:       handler.NewRoleHandler(roleService),
		Customer:   handler.NewCustomerHandler(customerService),
		Supplier:   handler.NewSupplierHandler(supplierService),
		Warehouse:  handler.NewWarehouseHandler(warehouseService),
		Unit:       handler.NewUnitHandler(unitService),
		Brand:      handler.NewBrandHandler(brandService),
		Category:   handler.NewCategoryHandler(categoryService),
		Product:    handler.NewProductHandler(productService, stockService),
		Stock:      handler.NewStockHandler(stockService),
		Adjustment: handler.NewAdjustmentHandler(adjustmentService),
		Transfer:   handler.NewTransferHandler(transferService),
		POS:        handler.NewPOSHandler(posService),
	})
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

// redisPinger adapts the Redis client to the health check
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

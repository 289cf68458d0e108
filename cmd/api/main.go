// @title        SupzG Inventory API
// @version      1.0
// @description  Inventario de almacén: items, transacciones con aprobación, categorías, ubicaciones y usuarios.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	_ "github.com/dehaep/Project-SupzG/docs"
	appanalytics "github.com/dehaep/Project-SupzG/internal/application/analytics"
	"github.com/dehaep/Project-SupzG/internal/application/auth"
	"github.com/dehaep/Project-SupzG/internal/application/inventory"
	"github.com/dehaep/Project-SupzG/internal/application/ports"
	"github.com/dehaep/Project-SupzG/internal/application/usecase"
	"github.com/dehaep/Project-SupzG/internal/infrastructure/cache"
	"github.com/dehaep/Project-SupzG/internal/infrastructure/postgres"
	httpRouter "github.com/dehaep/Project-SupzG/internal/interfaces/http"
	"github.com/dehaep/Project-SupzG/pkg/config"
	"github.com/dehaep/Project-SupzG/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	// Caché de items opcional: sin REDIS_URL o si Redis no responde se lee siempre de PostgreSQL.
	var (
		rdb       *redis.Client
		itemCache ports.ItemCache = ports.NopItemCache{}
	)
	if cfg.Redis.Enabled() {
		rdb, err = cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, caché deshabilitada")
			rdb = nil
		} else {
			defer rdb.Close()
			itemCache = cache.NewItemCache(rdb, cfg.Redis.TTL, log.Named("item_cache"))
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	approver := inventory.NewApproveTransactionUseCase(txRunner, itemCache, log.Named("approval"))
	transactionUC := inventory.NewTransactionUseCase(txRunner, txRepo, itemRepo, approver)
	itemUC := usecase.NewItemUseCase(itemRepo, categoryRepo, locationRepo, itemCache)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(dashboardRepo, itemRepo, txRepo)
	authUC := auth.NewAuthUseCase(userRepo, userUC, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    1 << 20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSAllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))
	app.Use(httpRouter.RequestTimeout(cfg.HTTP.RequestTimeout))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SupzG Inventory API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:             itemUC,
		CategoryUC:         categoryUC,
		LocationUC:         locationUC,
		UserUC:             userUC,
		TransactionUC:      transactionUC,
		DashboardUC:        dashboardUC,
		AuthUC:             authUC,
		Users:              userRepo,
		DB:                 pool,
		Redis:              rdb,
		JWTSecret:          cfg.JWT.Secret,
		SecureCookie:       cfg.App.IsProduction(),
		LoginRatePerMinute: cfg.HTTP.LoginRatePerMinute,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

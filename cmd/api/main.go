package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appaudit "github.com/jhoicas/almacen-api/internal/application/audit"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	movementUC := ledger.NewMovementUseCase(txRunner, locationRepo, supplierRepo, movementRepo)
	transferUC := ledger.NewTransferUseCase(txRunner, locationRepo)
	damageUC := ledger.NewDamageUseCase(txRunner, itemRepo, cfg.Inventory.DamageApprovers)
	auditUC := appaudit.NewUseCase(txRunner, itemRepo, locationRepo, auditRepo)
	itemUC := usecase.NewItemUseCase(txRunner, itemRepo, locationRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	activityUC := usecase.NewActivityUseCase(activityRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		database := "up"
		status := "ok"
		if err := pool.Ping(c.Context()); err != nil {
			database = "down"
			status = "degraded"
		}
		return c.JSON(fiber.Map{"status": status, "service": cfg.App.Name, "database": database})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC:      movementUC,
		TransferUC:      transferUC,
		DamageUC:        damageUC,
		AuditUC:         auditUC,
		ItemUC:          itemUC,
		LocationUC:      locationUC,
		SupplierUC:      supplierUC,
		ActivityUC:      activityUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
		DamageApprovers: cfg.Inventory.DamageApprovers,
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

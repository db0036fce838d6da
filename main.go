package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/swasthyaflow/backend/config"
	authControllers "github.com/swasthyaflow/backend/internal/auth/controllers"
	authRoutes "github.com/swasthyaflow/backend/internal/auth/routes"
	authServices "github.com/swasthyaflow/backend/internal/auth/services"
	billingControllers "github.com/swasthyaflow/backend/internal/billing/controllers"
	billingRoutes "github.com/swasthyaflow/backend/internal/billing/routes"
	billingServices "github.com/swasthyaflow/backend/internal/billing/services"
	inventoryControllers "github.com/swasthyaflow/backend/internal/inventory/controllers"
	inventoryRoutes "github.com/swasthyaflow/backend/internal/inventory/routes"
	inventoryServices "github.com/swasthyaflow/backend/internal/inventory/services"
	opdControllers "github.com/swasthyaflow/backend/internal/opd/controllers"
	opdRoutes "github.com/swasthyaflow/backend/internal/opd/routes"
	opdServices "github.com/swasthyaflow/backend/internal/opd/services"
	registryControllers "github.com/swasthyaflow/backend/internal/registry/controllers"
	registryRoutes "github.com/swasthyaflow/backend/internal/registry/routes"
	registryServices "github.com/swasthyaflow/backend/internal/registry/services"
	"github.com/swasthyaflow/backend/pkg/logger"
	"github.com/swasthyaflow/backend/pkg/storage/mariadb"
	"github.com/swasthyaflow/backend/ws"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.New("main")

	db := mariadb.Connect()
	store := mariadb.NewOPDStore(db)

	hub := ws.NewHub(logger.New("ws"))
	go hub.Run()

	// OPD queue engine.
	ledger := opdServices.NewLedgerService(store,
		time.Duration(cfg.ETASlotMinutes*float64(time.Minute)),
		logger.New("ledger"))
	if err := ledger.Restore(context.Background()); err != nil {
		log.Warn().Err(err).Msg("could not restore queue ledger from storage")
	}
	estimator := opdServices.NewEstimatorService(store, ledger, hub, cfg.ServiceTimeMinutes, logger.New("estimator"))
	dispatch := opdServices.NewDispatchService(opdServices.NewPriorityDispatchQueue(), ledger, hub, logger.New("dispatch"))
	ingest := opdServices.NewIngestService(cfg.IngestWorkers, cfg.IngestBuffer, ledger, store, estimator, hub, logger.New("ingest"))
	ingest.Start(context.Background())
	defer ingest.Stop()

	// Supporting services.
	authService := authServices.NewAuthService(db)
	registryService := registryServices.NewRegistryService(db)
	inventoryService := inventoryServices.NewInventoryService(db)
	billingService := billingServices.NewBillingService(db)

	queueController := opdControllers.NewQueueController(ingest, ledger, estimator, dispatch)
	authController := authControllers.NewAuthController(authService)
	registryController := registryControllers.NewRegistryController(registryService, hub)
	inventoryController := inventoryControllers.NewInventoryController(inventoryService, hub)
	billingController := billingControllers.NewBillingController(billingService)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	opdRoutes.RegisterOPDRoutes(e, queueController)
	authRoutes.RegisterAuthRoutes(e, authController)
	registryRoutes.RegisterRegistryRoutes(e, registryController)
	inventoryRoutes.RegisterInventoryRoutes(e, inventoryController)
	billingRoutes.RegisterBillingRoutes(e, billingController)
	e.GET("/ws", ws.ServeWS(hub, ingest, estimator, logger.New("ws")))

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

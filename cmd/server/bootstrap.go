package main

import (
	"github.com/haaslab/hwtracker/backend/internal/config"
	"github.com/haaslab/hwtracker/backend/internal/handlers"
	"github.com/haaslab/hwtracker/backend/internal/models"
	"github.com/haaslab/hwtracker/backend/internal/services"
	"github.com/haaslab/hwtracker/backend/internal/utils"
	"github.com/haaslab/hwtracker/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	authHandler      *handlers.AuthHandler
	hardwareHandler  *handlers.HardwareHandler
	projectHandler   *handlers.ProjectHandler
	dashboardHandler *handlers.DashboardHandler
	systemLogHandler *handlers.SystemLogHandler
	healthHandler    *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, schedulers,
// seed data. A database failure is not fatal; the server comes up in
// degraded mode and every store-backed endpoint answers 503 until the
// next restart.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database, starting in degraded mode")
	} else {
		if err := models.AutoMigrate(); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}

		// Provision configured hardware sets. Re-provisioning an existing
		// name is a no-op, so restarts and concurrent replicas are safe.
		hardwareService := services.NewHardwareService(models.GetDB())
		for _, seed := range cfg.Hardware.Sets {
			if err := hardwareService.Provision(seed.Name, seed.Capacity); err != nil {
				logger.Warn().Err(err).Str("name", seed.Name).Msg("Failed to provision hardware set")
			}
		}

		services.InitSystemLogger(models.GetDB())
		services.StartLogCleanupScheduler(models.GetDB(), cfg.Log.RetentionDays)
	}

	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if models.GetDB() != nil {
		if err := authHandler.CreateAdminIfNotExists(); err != nil {
			logger.Warn().Err(err).Msg("Failed to create admin user")
		}
	}

	return &appServices{
		authHandler:      authHandler,
		hardwareHandler:  handlers.NewHardwareHandler(models.GetDB()),
		projectHandler:   handlers.NewProjectHandler(models.GetDB()),
		dashboardHandler: handlers.NewDashboardHandler(models.GetDB()),
		systemLogHandler: handlers.NewSystemLogHandler(models.GetDB()),
		healthHandler:    handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")
}

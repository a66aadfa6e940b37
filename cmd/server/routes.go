package main

import (
	"github.com/gin-gonic/gin"
	"github.com/haaslab/hwtracker/backend/internal/handlers"
	"github.com/haaslab/hwtracker/backend/internal/middleware"
	"github.com/haaslab/hwtracker/backend/internal/models"
	"github.com/haaslab/hwtracker/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the checkout/checkin ledger routes
	ledgerLimiter := middleware.NewRateLimiter(10, 20)

	// Health check and metrics
	r.GET("/health", svc.healthHandler.CheckHealth)
	r.GET("/metrics", handlers.Metrics)

	// Root-level hardware routes (without /api prefix for compatibility
	// with existing lab clients)
	hardware := r.Group("/hardware", ledgerLimiter.Middleware())
	{
		hardware.GET("", svc.hardwareHandler.List)
		hardware.POST("/checkout", middleware.AuditLog(), svc.hardwareHandler.Checkout)
		hardware.POST("/checkin", middleware.AuditLog(), svc.hardwareHandler.Checkin)
	}

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.AuditLog(), svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Hardware catalog mirror under /api for newer clients
		apiHardware := api.Group("/hardware", ledgerLimiter.Middleware())
		{
			apiHardware.GET("", svc.hardwareHandler.List)
			apiHardware.POST("/checkout", middleware.AuditLog(), svc.hardwareHandler.Checkout)
			apiHardware.POST("/checkin", middleware.AuditLog(), svc.hardwareHandler.Checkin)
		}

		// Projects. Reads are open so the portal can render project lists
		// before login; writes carry the audit trail.
		projects := api.Group("/projects")
		{
			projects.GET("", svc.projectHandler.List)
			projects.GET("/user/:username", svc.projectHandler.ListForUser)
			projects.GET("/:project_id", svc.projectHandler.GetByID)
			projects.POST("", middleware.AuditLog(), svc.projectHandler.Create)
			projects.POST("/join", middleware.AuditLog(), svc.projectHandler.Join)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			protected.GET("/dashboard/stats", svc.dashboardHandler.GetStats)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			userHandler := handlers.NewUserHandler(models.GetDB())
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
			admin.POST("/system-logs/cleanup", svc.systemLogHandler.Cleanup)
		}
	}
}

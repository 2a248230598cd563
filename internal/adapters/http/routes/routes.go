package routes

import (
	"sahaayak-api/internal/adapters/http/handlers"
	"sahaayak-api/internal/adapters/http/middleware"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/config"
	"sahaayak-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services bundles the long-lived services that main needs to shut down
type Services struct {
	Audit *services.AuditService
	Cron  *services.CronService
}

// Setup configures all routes for the application and returns the services
// that need a graceful shutdown
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *Services {
	// Initialize repositories
	identityRepo := repositories.NewIdentityRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	officerRepo := repositories.NewOfficerRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	grievanceRepo := repositories.NewGrievanceRepository(db)

	// Initialize services
	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(officerRepo, refreshTokenRepo, auditService, cfg)
	officerService := services.NewOfficerService(officerRepo, auditService)
	appService := services.NewApplicationService(db, identityRepo, appRepo, officerRepo, auditService)
	grievanceService := services.NewGrievanceService(grievanceRepo, appRepo, auditService)
	statsService := services.NewStatsService(appRepo, identityRepo, grievanceRepo)
	cronService := services.NewCronService(cfg, appRepo, refreshTokenRepo, auditService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	appHandler := handlers.NewApplicationHandler(appService)
	statsHandler := handlers.NewStatsHandler(statsService)
	grievanceHandler := handlers.NewGrievanceHandler(grievanceService)
	officerHandler := handlers.NewOfficerHandler(officerService, auditService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Public routes
	setupPublicRoutes(apiV1, appHandler, statsHandler, grievanceHandler)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Officer application queue routes
	appRoutes := apiV1.Group("/applications")
	appRoutes.Use(middleware.AuthMiddleware(cfg))
	setupApplicationRoutes(appRoutes, appHandler)

	// Officer grievance queue routes
	grievanceRoutes := apiV1.Group("/grievances")
	grievanceRoutes.Use(middleware.AuthMiddleware(cfg))
	setupGrievanceRoutes(grievanceRoutes, grievanceHandler)

	// Officer management routes (Admin only)
	officerRoutes := apiV1.Group("/officers")
	officerRoutes.Use(middleware.AuthMiddleware(cfg))
	setupOfficerRoutes(officerRoutes, officerHandler)

	// Audit log routes (Supervisor/Admin)
	auditRoutes := apiV1.Group("/audit-logs")
	auditRoutes.Use(middleware.AuthMiddleware(cfg))
	auditRoutes.Use(middleware.SupervisorOrAdmin())
	auditRoutes.Get("/", officerHandler.AuditLogs)

	return &Services{
		Audit: auditService,
		Cron:  cronService,
	}
}

// setupPublicRoutes configures routes that require no authentication
func setupPublicRoutes(
	router fiber.Router,
	appHandler *handlers.ApplicationHandler,
	statsHandler *handlers.StatsHandler,
	grievanceHandler *handlers.GrievanceHandler,
) {
	// Submissions are rate limited per IP
	router.Post("/public/applications/victim", middleware.SubmissionRateLimiter(), appHandler.SubmitVictim)
	router.Post("/public/applications/marriage", middleware.SubmissionRateLimiter(), appHandler.SubmitMarriage)

	// Status tracking always returns fresh state
	router.Get("/public/applications/track/:trackingCode", middleware.NoCacheHeaders(), appHandler.Track)

	// Grievances
	router.Post("/public/grievances", middleware.SubmissionRateLimiter(), grievanceHandler.File)
	router.Get("/public/grievances/:grievanceId", middleware.NoCacheHeaders(), grievanceHandler.Track)

	// Aggregate statistics
	router.Get("/public/stats", middleware.StatsCache(), statsHandler.Overview)
}

// setupAuthRoutes configures officer authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupApplicationRoutes configures the officer application queue
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	router.Get("/", handler.List)
	router.Get("/:trackingCode", handler.Track)
	router.Patch("/:trackingCode/status", handler.UpdateStatus)

	// Reassignment needs elevated rights
	router.Patch("/:trackingCode/assign", middleware.SupervisorOrAdmin(), handler.Assign)
}

// setupGrievanceRoutes configures the officer grievance queue
func setupGrievanceRoutes(router fiber.Router, handler *handlers.GrievanceHandler) {
	router.Get("/", handler.List)
	router.Patch("/:grievanceId/status", handler.UpdateStatus)
}

// setupOfficerRoutes configures officer management routes
func setupOfficerRoutes(router fiber.Router, handler *handlers.OfficerHandler) {
	// Any authenticated officer can change their own password
	router.Put("/password", handler.ChangePassword)

	// Admin only
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/", handler.Create)
	adminRoutes.Get("/", handler.List)
	adminRoutes.Get("/:id", handler.GetByID)
	adminRoutes.Put("/:id", handler.Update)
	adminRoutes.Delete("/:id", handler.Deactivate)
}

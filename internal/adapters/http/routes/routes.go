package routes

import (
	"apexdrive/internal/adapters/http/handlers"
	"apexdrive/internal/adapters/http/middleware"
	"apexdrive/internal/adapters/persistence/repositories"
	"apexdrive/internal/config"
	"apexdrive/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	vehicleRepo := repositories.NewVehicleRepository(db)

	// Services
	mailService := services.NewMailService(cfg.Mail)
	authService := services.NewAuthService(userRepo, cfg)
	appService := services.NewApplicationService(appRepo, mailService)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	appHandler := handlers.NewApplicationHandler(appService)
	contactHandler := handlers.NewContactHandler(contactRepo)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo)
	userHandler := handlers.NewUserHandler(userRepo)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg)
	setupApplicationRoutes(apiV1.Group("/loan-applications"), appHandler, cfg)
	setupContactRoutes(apiV1.Group("/contact-messages"), contactHandler, cfg)
	setupVehicleRoutes(apiV1.Group("/vehicles"), vehicleHandler, cfg)
	setupUserRoutes(apiV1.Group("/users"), userHandler, cfg)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/admin-login", middleware.AuthRateLimiter(), handler.AdminLogin)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupApplicationRoutes configures loan application routes.
// Submission is public; every other operation is admin only.
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler, cfg *config.Config) {
	router.Post("/", middleware.StrictRateLimiter(), handler.Submit)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Get("/", handler.List)
	adminRoutes.Patch("/:id", handler.MarkProcessed)
	adminRoutes.Patch("/:id/cancel", handler.Cancel)
	adminRoutes.Delete("/:id", handler.Delete)
}

// setupContactRoutes configures contact message routes
func setupContactRoutes(router fiber.Router, handler *handlers.ContactHandler, cfg *config.Config) {
	router.Post("/", middleware.StrictRateLimiter(), handler.Submit)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Get("/", handler.List)
	adminRoutes.Get("/:id", handler.Get)
	adminRoutes.Delete("/:id", handler.Delete)
}

// setupVehicleRoutes configures storefront inventory routes
func setupVehicleRoutes(router fiber.Router, handler *handlers.VehicleHandler, cfg *config.Config) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Post("/", handler.Create)
	adminRoutes.Put("/:id", handler.Update)
	adminRoutes.Delete("/:id", handler.Delete)
}

// setupUserRoutes configures user management routes (admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, cfg *config.Config) {
	router.Use(middleware.AuthMiddleware(cfg))
	router.Use(middleware.AdminOnly())

	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Delete("/:id", handler.Delete)
}

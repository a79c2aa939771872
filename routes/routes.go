package routes

import (
	"CareLink/cache"
	"CareLink/config"
	"CareLink/controllers"
	"CareLink/handlers"
	"CareLink/middlewares"
	"CareLink/repositories"
	"CareLink/services"
	"CareLink/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Apply CORS middleware for the browser frontends
	router.Use(middlewares.CorsMiddleware(middlewares.DefaultCorsConfig()))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(db, cache)
	recordRepo := repositories.NewRecordRepository(db, cache)
	appointmentRepo := repositories.NewAppointmentRepository(db, cache)
	prescriptionRepo := repositories.NewPrescriptionRepository(db, cache)
	pharmacyRepo := repositories.NewPharmacyRepository(db, cache)
	productRepo := repositories.NewProductRepository(db, cache)
	orderRepo := repositories.NewOrderRepository(db, cache)
	cartRepo := repositories.NewCartRepository(cache)

	mailer := utils.NewSMTPMailer(config)

	userService := services.NewUserService(userRepo, mailer)
	recordService := services.NewRecordService(recordRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo, mailer)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo)
	pharmacyService := services.NewPharmacyService(pharmacyRepo)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, productRepo, productRepo, userRepo, mailer)

	// Register routes
	controllers.SetupAPIRoutes(router, controllers.APIHandlers{
		Records:       handlers.NewRecordHandler(recordService, config.UploadDir),
		Appointments:  handlers.NewAppointmentHandler(appointmentService),
		Prescriptions: handlers.NewPrescriptionHandler(prescriptionService),
		Pharmacies:    handlers.NewPharmacyHandler(pharmacyService),
		Products:      handlers.NewProductHandler(productService),
		Cart:          handlers.NewCartHandler(cartService),
		Orders:        handlers.NewOrderHandler(orderService),
	})

	authController := controllers.NewAuthController(handlers.NewAuthHandler(userService))
	authController.RegisterRoutes(router)

	controllers.SetupRootRoute(router)

	// Serve stored record attachments directly
	router.Static("/uploads/records", config.UploadDir)

	return router
}

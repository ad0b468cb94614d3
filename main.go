package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/vitalroots/referral_backend/config"
	"github.com/vitalroots/referral_backend/controllers"
	"github.com/vitalroots/referral_backend/middleware"
	"github.com/vitalroots/referral_backend/routes"
	"github.com/vitalroots/referral_backend/services"
	"github.com/vitalroots/referral_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional, dashboard cache only)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  true,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Referral program backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Admin credential verification is injected; the ledger only sees a
	// boolean gate.
	verifyAdmin := middleware.EnvTokenVerifier()

	// Initialize services
	registry := services.NewRegistryService(db)
	engine := services.NewCommissionEngine(db, registry, services.LoadRateTable())
	completion := services.NewCompletionService(db, engine)
	wallet := services.NewWalletService(db)

	// Initialize controllers
	patientController := controllers.NewPatientController(db, registry, wsHub)
	referralController := controllers.NewReferralController(db, registry, wsHub)
	walletController := controllers.NewWalletController(db, wallet, wsHub)
	notificationController := controllers.NewNotificationController(db)
	adminController := controllers.NewAdminController(db, completion, wallet, redisClient, wsHub, verifyAdmin)

	// Register routes
	routes.RegisterPublicRoutes(e, patientController, referralController, walletController, notificationController, wsHub, verifyAdmin)
	routes.RegisterAdminRoutes(e, adminController, verifyAdmin)

	// Ensure the QR output directory exists and serve it
	os.MkdirAll("uploads/qr", 0755)
	e.Static("/qr", "uploads/qr")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

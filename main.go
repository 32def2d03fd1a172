package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/mec-app/mec-backend/database"
	"github.com/mec-app/mec-backend/internal/config"
	"github.com/mec-app/mec-backend/internal/handlers"
	"github.com/mec-app/mec-backend/internal/jobs"
	"github.com/mec-app/mec-backend/internal/models"
	"github.com/mec-app/mec-backend/internal/routes"
	"github.com/mec-app/mec-backend/internal/services"
	"github.com/mec-app/mec-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found - checking environment variables")
	}

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize storage
	var store storage.Store
	var db *gorm.DB

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()
		db = database.DB

		log.Println("🔄 Running database migrations...")
		err := db.AutoMigrate(
			&models.User{},
			&models.Mechanic{},
			&models.ServiceRequest{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(db)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Initialize Twilio service
	twilioService, err := services.NewTwilioService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize Twilio service:", err)
	}
	log.Println("✅ Twilio service initialized")

	// OTP store lives in process memory, single-instance only
	otpStore := services.NewMemoryOTPStore(cfg.OTPExpiry, cfg.OTPMaxAttempts)

	// Set global instances
	storage.SetStore(store)
	services.SetSMSSender(twilioService)
	services.SetOTPStore(otpStore)

	// Start the expired-OTP sweeper
	cleanupJob := jobs.NewCleanupJob(otpStore, time.Minute)
	cleanupJob.Start()

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "MEC Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(db)
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Health)

	// API routes
	routes.SetupRoutes(app, store, otpStore, twilioService, cfg)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		cleanupJob.Stop()
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 MEC Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType(cfg))
	log.Printf("📱 SMS: %s", smsStatus(cfg))
	log.Printf("⏲️  OTP expiry: %v, rate limit: %d/%v",
		cfg.OTPExpiry, cfg.RateLimitPoints, cfg.RateLimitDuration)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func storageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func smsStatus(cfg *config.Config) string {
	if cfg.TwilioAccountSID == "" {
		return "Not configured"
	}
	return "Configured"
}

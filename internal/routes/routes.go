package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/mec-app/mec-backend/internal/config"
	"github.com/mec-app/mec-backend/internal/handlers"
	"github.com/mec-app/mec-backend/internal/middleware"
	"github.com/mec-app/mec-backend/internal/services"
	"github.com/mec-app/mec-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, otpStore services.OTPStore, sms services.SMSSender, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(store, otpStore, sms, cfg)
	mechanicHandler := handlers.NewMechanicHandler(store, cfg)
	serviceHandler := handlers.NewServiceHandler(store)
	userHandler := handlers.NewUserHandler(store)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/send-otp", middleware.SendOTPRateLimit(cfg), authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)

	// Mechanic routes
	mechanic := api.Group("/mechanic")
	mechanic.Post("/register", mechanicHandler.Register)
	mechanic.Get("/profile", mechanicHandler.GetProfile)
	mechanic.Put("/profile", mechanicHandler.UpdateProfile)
	mechanic.Put("/duty", mechanicHandler.UpdateDuty)
	mechanic.Get("/nearby", mechanicHandler.Nearby)

	// Service request routes
	service := api.Group("/service")
	service.Post("/create", serviceHandler.Create)
	service.Post("/accept", serviceHandler.Accept)
	service.Post("/cancel", serviceHandler.Cancel)
	service.Post("/complete", serviceHandler.Complete)
	service.Post("/update-location", serviceHandler.UpdateLocation)
	service.Get("/request/:id", serviceHandler.GetByID)
	service.Get("/user-history", serviceHandler.UserHistory)
	service.Get("/mechanic-history", serviceHandler.MechanicHistory)
	service.Get("/", serviceHandler.Active)

	// User routes (session token required)
	user := api.Group("/user", middleware.RequireAuth(cfg.JWTSecret))
	user.Put("/profile", userHandler.UpdateProfile)

	// Twilio delivery-status webhook — signature validation skipped for
	// local development behind ngrok
	webhooks := app.Group("/webhook")
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		webhooks.Post("/sms-status", handlers.SMSStatusWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			log.Println("⚠️  SMS webhook validation DISABLED for development")
		}
	} else {
		webhooks.Post("/sms-status", middleware.ValidateTwilioSignature(), handlers.SMSStatusWebhook)
	}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/mec-app/mec-backend/internal/config"
)

// SendOTPRateLimit limits OTP sends per source IP: RateLimitPoints requests
// per RateLimitDuration window, 429 beyond that. The limit is checked before
// any code is generated.
func SendOTPRateLimit(cfg *config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.RateLimitPoints,
		Expiration: cfg.RateLimitDuration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"ok":      false,
				"message": "Too many requests. Please try again later.",
			})
		},
	})
}

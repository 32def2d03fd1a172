package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mec-app/mec-backend/internal/services"
)

// Locals keys set by RequireAuth.
const (
	LocalPhone = "auth_phone"
	LocalRole  = "auth_role"
)

// RequireAuth validates the Bearer session token issued at OTP verification
// and stores the caller's phone and role in locals.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Missing or malformed token",
			})
		}

		phone, role, err := services.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Locals(LocalPhone, phone)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/mec-app/mec-backend/internal/middleware"
	"github.com/mec-app/mec-backend/internal/models"
	"github.com/mec-app/mec-backend/internal/storage"
)

// UserHandler handles user profile requests
type UserHandler struct {
	store storage.Store
}

// NewUserHandler creates a new user handler
func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

// UpdateProfile handles PUT /api/user/profile. Requires a session token; the
// phone comes from the token, never from the body.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	phone, _ := c.Locals(middleware.LocalPhone).(string)
	role, _ := c.Locals(middleware.LocalRole).(string)
	if phone == "" || role != "user" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "User session required",
		})
	}

	var req models.UserProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	user, err := h.store.GetUserByPhone(phone)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}
	if err != nil {
		log.Printf("UpdateProfile (user): %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	if err := h.store.UpdateUser(user); err != nil {
		log.Printf("UpdateProfile (user): %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
	})
}

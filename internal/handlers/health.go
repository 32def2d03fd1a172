package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mec-app/mec-backend/internal/models"
)

// HealthHandler reports service and database health
type HealthHandler struct {
	db *gorm.DB // nil when running on the memory store
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root handles GET / with a service summary
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	response := fiber.Map{
		"service": "MEC Backend API",
		"version": "1.0.0",
		"status":  "healthy",
	}

	if h.db != nil {
		dbStatus := "connected"
		if sqlDB, err := h.db.DB(); err != nil {
			dbStatus = "error: " + err.Error()
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error: " + err.Error()
		}

		var userCount, mechanicCount, requestCount int64
		h.db.Model(&models.User{}).Count(&userCount)
		h.db.Model(&models.Mechanic{}).Count(&mechanicCount)
		h.db.Model(&models.ServiceRequest{}).Count(&requestCount)

		response["database"] = fiber.Map{
			"status":    dbStatus,
			"users":     userCount,
			"mechanics": mechanicCount,
			"requests":  requestCount,
		}
	}

	return c.JSON(response)
}

// Health handles GET /health for monitoring
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := fiber.StatusOK

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = "unhealthy"
			statusCode = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status": status,
	})
}

package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/mec-app/mec-backend/internal/models"
	"github.com/mec-app/mec-backend/internal/storage"
	"github.com/mec-app/mec-backend/internal/utils"
)

// ServiceHandler handles the service-request lifecycle
type ServiceHandler struct {
	store storage.Store
}

// NewServiceHandler creates a new service request handler
func NewServiceHandler(store storage.Store) *ServiceHandler {
	return &ServiceHandler{store: store}
}

// Create handles POST /api/service/create
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var req models.CreateRequestInput

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.UserPhone == "" || req.UserLat == nil || req.UserLng == nil ||
		req.Service == "" || req.VehicleType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing required fields",
		})
	}

	request := &models.ServiceRequest{
		UserPhone:   utils.NormalizePhone(req.UserPhone),
		UserLat:     *req.UserLat,
		UserLng:     *req.UserLng,
		Service:     req.Service,
		VehicleType: req.VehicleType,
		Status:      models.StatusPending,
	}

	created, err := h.store.CreateServiceRequest(request)
	if err != nil {
		log.Printf("Create request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    created,
	})
}

// GetByID handles GET /api/service/request/:id
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")

	request, err := h.store.GetServiceRequest(id)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}
	if err != nil {
		log.Printf("Get request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}

// Accept handles POST /api/service/accept. The transition is a conditional
// update in the store, so of two concurrent acceptors exactly one succeeds
// and the other gets a 409.
func (h *ServiceHandler) Accept(c *fiber.Ctx) error {
	var req models.AcceptRequestInput

	if err := c.BodyParser(&req); err != nil || req.RequestID == "" || req.MechanicPhone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "requestId and mechanic_phone are required",
		})
	}

	updated, err := h.store.AcceptServiceRequest(
		req.RequestID,
		utils.NormalizePhone(req.MechanicPhone),
		req.MechanicLat,
		req.MechanicLng,
	)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}
	if errors.Is(err, storage.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Request already accepted or closed",
		})
	}
	if err != nil {
		log.Printf("Accept request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}

// Cancel handles POST /api/service/cancel. Only pending requests can be
// cancelled.
func (h *ServiceHandler) Cancel(c *fiber.Ctx) error {
	var req struct {
		RequestID string `json:"requestId"`
	}

	if err := c.BodyParser(&req); err != nil || req.RequestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "requestId is required",
		})
	}

	updated, err := h.store.CancelServiceRequest(req.RequestID, "user")
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}
	if errors.Is(err, storage.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Cannot cancel this request",
		})
	}
	if err != nil {
		log.Printf("Cancel request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}

// Complete handles POST /api/service/complete — the accepting mechanic
// closes out an accepted job.
func (h *ServiceHandler) Complete(c *fiber.Ctx) error {
	var req struct {
		RequestID     string `json:"requestId"`
		MechanicPhone string `json:"mechanic_phone"`
	}

	if err := c.BodyParser(&req); err != nil || req.RequestID == "" || req.MechanicPhone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "requestId and mechanic_phone are required",
		})
	}

	updated, err := h.store.CompleteServiceRequest(req.RequestID, utils.NormalizePhone(req.MechanicPhone))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}
	if errors.Is(err, storage.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "Cannot complete this request",
		})
	}
	if err != nil {
		log.Printf("Complete request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}

// UpdateLocation handles POST /api/service/update-location — live mechanic
// position while en route. No status check, matching existing clients.
func (h *ServiceHandler) UpdateLocation(c *fiber.Ctx) error {
	var req struct {
		RequestID   string   `json:"requestId"`
		MechanicLat *float64 `json:"mechanic_lat"`
		MechanicLng *float64 `json:"mechanic_lng"`
	}

	if err := c.BodyParser(&req); err != nil || req.RequestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "requestId is required",
		})
	}

	updated, err := h.store.UpdateRequestLocation(req.RequestID, req.MechanicLat, req.MechanicLng)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}
	if err != nil {
		log.Printf("Update location: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    updated,
	})
}

// Active handles GET /api/service?mechanicPhone= — every pending request
// plus this mechanic's own accepted job. Clients poll this.
func (h *ServiceHandler) Active(c *fiber.Ctx) error {
	phone := c.Query("mechanicPhone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "mechanicPhone is required",
		})
	}

	requests, err := h.store.GetActiveRequestsForMechanic(utils.NormalizePhone(phone))
	if err != nil {
		log.Printf("Active requests: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"requests": requests,
	})
}

// UserHistory handles GET /api/service/user-history?phone=
func (h *ServiceHandler) UserHistory(c *fiber.Ctx) error {
	return h.history(c, h.store.GetRequestsByUserPhone)
}

// MechanicHistory handles GET /api/service/mechanic-history?phone=
func (h *ServiceHandler) MechanicHistory(c *fiber.Ctx) error {
	return h.history(c, h.store.GetRequestsByMechanicPhone)
}

func (h *ServiceHandler) history(c *fiber.Ctx, query func(string) ([]*models.ServiceRequest, error)) error {
	phone := c.Query("phone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Phone is required",
		})
	}

	requests, err := query(utils.NormalizePhone(phone))
	if err != nil {
		log.Printf("History: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
	})
}

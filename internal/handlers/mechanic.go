package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mec-app/mec-backend/internal/config"
	"github.com/mec-app/mec-backend/internal/models"
	"github.com/mec-app/mec-backend/internal/storage"
	"github.com/mec-app/mec-backend/internal/utils"
)

// DefaultNearbyRadiusKm is used when the nearby query omits radius.
const DefaultNearbyRadiusKm = 10.0

// MechanicHandler handles mechanic profile and discovery requests
type MechanicHandler struct {
	store storage.Store
	cfg   *config.Config
}

// NewMechanicHandler creates a new mechanic handler
func NewMechanicHandler(store storage.Store, cfg *config.Config) *MechanicHandler {
	return &MechanicHandler{store: store, cfg: cfg}
}

// Register handles POST /api/mechanic/register — completes the profile that
// was created empty at first login.
func (h *MechanicHandler) Register(c *fiber.Ctx) error {
	var req models.MechanicRegistration

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if req.FirstName == "" || req.LastName == "" || req.Phone == "" ||
		len(req.ServiceTypes) == 0 || req.Address == "" || req.Aadhaar == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing or invalid required fields",
		})
	}

	if len(req.Aadhaar) != 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Aadhaar must be 12 digits",
		})
	}

	if len(h.cfg.AadhaarKey) == 0 {
		log.Println("Register: AADHAAR_SECRET not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	encrypted, err := utils.EncryptAadhaar(req.Aadhaar, h.cfg.AadhaarKey)
	if err != nil {
		log.Printf("Register: aadhaar encryption failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	fields := map[string]interface{}{
		"Name":              req.FirstName + " " + req.LastName,
		"TypeOfService":     strings.Join(req.ServiceTypes, ", "),
		"Role":              strings.Join(req.Roles, ", "),
		"TypeOfVehicle":     strings.Join(req.VehicleTypes, ", "),
		"Address":           req.Address,
		"Aadhaar_Number":    encrypted,
		"latitude":          req.Latitude,
		"longitude":         req.Longitude,
		"profile_completed": true,
	}

	_, err = h.store.UpdateMechanicFields(utils.NormalizePhone(req.Phone), fields)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Mechanic not found. Login again.",
		})
	}
	if err != nil {
		log.Printf("Register: update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Mechanic profile registered successfully",
	})
}

// GetProfile handles GET /api/mechanic/profile?phone=
func (h *MechanicHandler) GetProfile(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "phone is required",
		})
	}

	mechanic, err := h.store.GetMechanicByPhone(utils.NormalizePhone(phone))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Mechanic not found",
		})
	}
	if err != nil {
		log.Printf("GetProfile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"name":    mechanic.Name,
			"phone":   mechanic.MobileNumber,
			"rating":  mechanic.Rating,
			"service": mechanic.TypeOfService,
			"address": mechanic.Address,
			"state":   mechanic.State,
		},
	})
}

// UpdateProfile handles PUT /api/mechanic/profile
func (h *MechanicHandler) UpdateProfile(c *fiber.Ctx) error {
	var req models.MechanicProfileUpdate

	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "phone is required",
		})
	}

	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["Name"] = req.Name
	}
	if req.Service != "" {
		fields["TypeOfService"] = req.Service
	}
	if req.Address != "" {
		fields["Address"] = req.Address
	}

	_, err := h.store.UpdateMechanicFields(utils.NormalizePhone(req.Phone), fields)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Mechanic not found",
		})
	}
	if err != nil {
		log.Printf("UpdateProfile: %v", err)
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

// UpdateDuty handles PUT /api/mechanic/duty
func (h *MechanicHandler) UpdateDuty(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		State string `json:"state"`
	}

	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "phone is required",
		})
	}

	if req.State != models.DutyOn && req.State != models.DutyOff {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "state must be OnDuty or OffDuty",
		})
	}

	_, err := h.store.UpdateMechanicFields(utils.NormalizePhone(req.Phone), map[string]interface{}{
		"state": req.State,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Mechanic not found",
		})
	}
	if err != nil {
		log.Printf("UpdateDuty: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Duty status updated",
	})
}

// Nearby handles GET /api/mechanic/nearby?lat=&lng=&radius=&role=
// Scan-and-filter over on-duty completed profiles; fine at current fleet
// sizes, the storage interface hides it so a spatial index can replace it.
func (h *MechanicHandler) Nearby(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "lat and lng are required",
		})
	}

	radius := DefaultNearbyRadiusKm
	if v := c.Query("radius"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "radius must be a positive number",
			})
		}
		radius = parsed
	}
	role := c.Query("role")

	mechanics, err := h.store.GetOnDutyMechanics()
	if err != nil {
		log.Printf("Nearby: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	nearby := make([]models.NearbyMechanic, 0)
	for _, mech := range mechanics {
		distance := utils.HaversineKm(lat, lng, mech.Latitude, mech.Longitude)
		if distance > radius {
			continue
		}
		if role != "" && !strings.Contains(strings.ToLower(mech.Role), strings.ToLower(role)) {
			continue
		}
		nearby = append(nearby, models.NearbyMechanic{
			ID:        mech.ID,
			Name:      mech.Name,
			Phone:     mech.MobileNumber,
			Service:   mech.TypeOfService,
			Role:      mech.Role,
			Rating:    mech.Rating,
			Latitude:  mech.Latitude,
			Longitude: mech.Longitude,
			Distance:  distance,
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"mechanics": nearby,
	})
}

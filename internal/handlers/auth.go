package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/mec-app/mec-backend/internal/config"
	"github.com/mec-app/mec-backend/internal/services"
	"github.com/mec-app/mec-backend/internal/storage"
	"github.com/mec-app/mec-backend/internal/utils"
)

// AuthHandler handles OTP send/verify and role dispatch
type AuthHandler struct {
	store    storage.Store
	otpStore services.OTPStore
	sms      services.SMSSender
	cfg      *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store storage.Store, otpStore services.OTPStore, sms services.SMSSender, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		store:    store,
		otpStore: otpStore,
		sms:      sms,
		cfg:      cfg,
	}
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}

	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "Phone is required in E.164 format (ex: +919876543210)",
		})
	}

	// Phones are normalized once, here at the boundary; the normalized form
	// is the only key the OTP store and profiles ever see. The SMS still
	// goes to the number exactly as the client sent it.
	normalized := utils.NormalizePhone(req.Phone)
	if normalized == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "Phone is required in E.164 format (ex: +919876543210)",
		})
	}

	code, err := h.otpStore.Create(normalized)
	if err != nil {
		log.Printf("SendOTP: failed to generate code: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error",
		})
	}

	text := fmt.Sprintf("Your MEC App OTP is %s. It expires in %d minutes.",
		code, int(h.cfg.OTPExpiry.Minutes()))

	if err := h.sms.SendSMS(req.Phone, text); err != nil {
		log.Printf("SendOTP: SMS delivery failed for %s: %v", normalized, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error",
		})
	}

	log.Printf("[OTP] Sent to %s", normalized)

	return c.JSON(fiber.Map{
		"ok":      true,
		"message": "OTP sent successfully",
	})
}

// VerifyOTP handles POST /api/auth/verify-otp. On success it upserts the
// role-scoped profile and issues a session token.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
		Role  string `json:"role"`
	}

	if err := c.BodyParser(&req); err != nil || req.Phone == "" || req.OTP == "" || req.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "phone, otp and role are required",
		})
	}

	if req.Role != "user" && req.Role != "mechanic" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": "Invalid role",
		})
	}

	normalized := utils.NormalizePhone(req.Phone)

	result := h.otpStore.Verify(normalized, req.OTP)
	if !result.OK {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":      false,
			"message": result.Reason,
		})
	}

	token, err := services.GenerateToken(h.cfg.JWTSecret, normalized, req.Role, h.cfg.TokenExpires)
	if err != nil {
		log.Printf("VerifyOTP: token generation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":      false,
			"message": "Server error",
		})
	}

	if req.Role == "user" {
		if _, err := h.store.UpsertUserByPhone(normalized); err != nil {
			log.Printf("VerifyOTP: user upsert failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"ok":      false,
				"message": "Server error",
			})
		}

		return c.JSON(fiber.Map{
			"ok":    true,
			"role":  "user",
			"token": token,
			"profile": fiber.Map{
				"exists": true,
			},
		})
	}

	mechanic, err := h.store.UpsertMechanicByPhone(normalized)
	if err != nil {
		log.Printf("VerifyOTP: mechanic upsert failed: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"ok":      false,
			"message": "Failed to create mechanic profile",
		})
	}

	log.Printf("[VerifyOTP] mechanic %d profile_completed=%v", mechanic.ID, mechanic.ProfileDone)

	return c.JSON(fiber.Map{
		"ok":         true,
		"role":       "mechanic",
		"message":    "OTP verified successfully",
		"token":      token,
		"mechanicId": mechanic.ID,
		"profile": fiber.Map{
			"exists":    true,
			"completed": mechanic.ProfileDone,
		},
	})
}

package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// SMSStatusWebhook handles POST /webhook/sms-status, Twilio's delivery
// status callback for outbound OTP messages. Delivery failures are only
// logged; the client retries by requesting a new code.
func SMSStatusWebhook(c *fiber.Ctx) error {
	sid := c.FormValue("MessageSid")
	status := c.FormValue("MessageStatus")
	to := c.FormValue("To")

	switch status {
	case "failed", "undelivered":
		errCode := c.FormValue("ErrorCode")
		log.Printf("⚠️  SMS %s to %s %s (error %s)", sid, to, status, errCode)
	default:
		log.Printf("📨 SMS %s status: %s", sid, status)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

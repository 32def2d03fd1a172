package services

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/mec-app/mec-backend/internal/config"
)

// SMSSender sends a text message to an E.164 phone number. Satisfied by
// TwilioService in production and stubbed in tests.
type SMSSender interface {
	SendSMS(to, body string) error
}

type TwilioService struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(cfg *config.Config) (*TwilioService, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioService{
		client: client,
		from:   cfg.TwilioFrom,
	}, nil
}

// SendSMS sends an SMS via Twilio. Single round-trip, no retries; the caller
// surfaces the failure to the client.
func (t *TwilioService) SendSMS(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS: %v", err)
		return err
	}

	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return nil
}

var smsSenderInstance SMSSender

// SetSMSSender sets the global SMS sender instance (call from main.go)
func SetSMSSender(s SMSSender) {
	smsSenderInstance = s
}

// GetSMSSender returns the global SMS sender instance
func GetSMSSender() SMSSender {
	return smsSenderInstance
}

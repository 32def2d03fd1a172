package services

import (
	"log"
	"sync"
	"time"

	"github.com/mec-app/mec-backend/internal/utils"
)

// OTP verification failure reasons, returned verbatim to clients.
const (
	OTPReasonNotFound        = "not_found"
	OTPReasonExpired         = "expired"
	OTPReasonTooManyAttempts = "too_many_attempts"
	OTPReasonInvalid         = "invalid"
)

// VerifyResult is the outcome of an OTP verification attempt.
type VerifyResult struct {
	OK     bool
	Reason string
}

// OTPStore is a keyed store of short-lived phone verification codes. The
// in-memory implementation below is single-instance only; a multi-instance
// deployment would back this interface with a shared cache instead.
type OTPStore interface {
	Create(phone string) (string, error)
	Verify(phone, code string) VerifyResult
	SweepExpired() int
}

type otpRecord struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// MemoryOTPStore keeps OTP records in process memory. Records are deleted on
// success, expiry, or after the attempt cap, so a code can never be replayed.
type MemoryOTPStore struct {
	mu          sync.Mutex
	records     map[string]*otpRecord
	expiry      time.Duration
	maxAttempts int
}

// NewMemoryOTPStore creates an OTP store with the given code lifetime and
// attempt cap.
func NewMemoryOTPStore(expiry time.Duration, maxAttempts int) *MemoryOTPStore {
	return &MemoryOTPStore{
		records:     make(map[string]*otpRecord),
		expiry:      expiry,
		maxAttempts: maxAttempts,
	}
}

// Create generates a fresh 6-digit code for the phone, unconditionally
// replacing any outstanding record.
func (s *MemoryOTPStore) Create(phone string) (string, error) {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[phone] = &otpRecord{
		code:      code,
		expiresAt: time.Now().Add(s.expiry),
		attempts:  0,
	}
	return code, nil
}

// Verify checks the submitted code. The attempt counter is incremented on
// every call; a wrong code keeps the record (and the counter), everything
// else removes it.
func (s *MemoryOTPStore) Verify(phone, code string) VerifyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[phone]
	if !exists {
		return VerifyResult{OK: false, Reason: OTPReasonNotFound}
	}

	if time.Now().After(record.expiresAt) {
		delete(s.records, phone)
		return VerifyResult{OK: false, Reason: OTPReasonExpired}
	}

	record.attempts++
	if record.attempts > s.maxAttempts {
		delete(s.records, phone)
		return VerifyResult{OK: false, Reason: OTPReasonTooManyAttempts}
	}

	if record.code != code {
		return VerifyResult{OK: false, Reason: OTPReasonInvalid}
	}

	delete(s.records, phone)
	return VerifyResult{OK: true}
}

// SweepExpired removes records past their expiry and returns how many were
// dropped. Called periodically by the cleanup job.
func (s *MemoryOTPStore) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for phone, record := range s.records {
		if now.After(record.expiresAt) {
			delete(s.records, phone)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("🧹 Swept %d expired OTP record(s)", removed)
	}
	return removed
}

var otpStoreInstance OTPStore

// SetOTPStore sets the global OTP store instance (call from main.go)
func SetOTPStore(s OTPStore) {
	otpStoreInstance = s
}

// GetOTPStore returns the global OTP store instance
func GetOTPStore() OTPStore {
	return otpStoreInstance
}

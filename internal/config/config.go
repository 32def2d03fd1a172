package config

import (
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Port string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	OTPExpiry      time.Duration
	OTPMaxAttempts int

	RateLimitPoints   int
	RateLimitDuration time.Duration

	JWTSecret    string
	TokenExpires time.Duration

	AadhaarKey []byte // 32-byte AES key, decoded from 64 hex chars

	UseMemoryStore bool
}

// Load reads environment variables and returns a populated Config.
// Call after godotenv has loaded the .env file.
func Load() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:        getEnv("TWILIO_FROM", ""),
		OTPExpiry:         time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 5)) * time.Minute,
		OTPMaxAttempts:    getEnvInt("OTP_MAX_ATTEMPTS", 5),
		RateLimitPoints:   getEnvInt("RATE_LIMIT_POINTS", 5),
		RateLimitDuration: time.Duration(getEnvInt("RATE_LIMIT_DURATION", 60)) * time.Second,
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenExpires:      time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		UseMemoryStore:    getEnv("USE_MEMORY_STORE", "") == "true",
	}

	if secret := getEnv("AADHAAR_SECRET", ""); secret != "" {
		key, err := hex.DecodeString(secret)
		if err != nil || len(key) != 32 {
			log.Fatal("AADHAAR_SECRET must be 64 hex characters (32 bytes)")
		}
		cfg.AadhaarKey = key
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

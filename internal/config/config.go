package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	DatabaseURL             string
	BaseURL                 string
	AdminUser               string
	AdminPassword           string
	RateLimitPerMinute      int
	RateLimitBurst          int
	GuestRateLimitPerMinute int
	GuestRateLimitBurst     int
	OTLPEndpoint            string
	OTLPInsecure            bool
}

func Load() Config {
	// Local development reads a .env file; deployed environments set real
	// variables and the missing file is not an error.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}
	adminUser := os.Getenv("ADMIN_USER")
	if adminUser == "" {
		adminUser = "admin"
	}

	return Config{
		Port:                    port,
		DatabaseURL:             os.Getenv("DB_DSN"),
		BaseURL:                 baseURL,
		AdminUser:               adminUser,
		AdminPassword:           os.Getenv("ADMIN_PASSWORD"),
		RateLimitPerMinute:      readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:          readInt("RATE_LIMIT_BURST", 30),
		GuestRateLimitPerMinute: readInt("GUEST_RATE_LIMIT_PER_MIN", 60),
		GuestRateLimitBurst:     readInt("GUEST_RATE_LIMIT_BURST", 20),
		OTLPEndpoint:            os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:            readBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

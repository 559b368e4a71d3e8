package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string `validate:"required"`
	BackendURL           string `validate:"required,url"`
	DBPath               string `validate:"required"`
	AuthToken            string
	LogLevel             string `validate:"required,oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
	HTTPTimeoutSeconds   int    `validate:"gt=0"`
	ConnectivityInterval int    `validate:"gt=0"` // seconds between connectivity probes
	QueueRetryLimit      int    `validate:"gte=0"`
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", "127.0.0.1:8484"),
		BackendURL:           envOr("BACKEND_URL", "https://dfselitelearningplatform.vercel.app"),
		DBPath:               envOr("DB_PATH", "file:studypilot.db"),
		AuthToken:            os.Getenv("AUTH_TOKEN"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		HTTPTimeoutSeconds:   envIntOr("HTTP_TIMEOUT_SECONDS", 15),
		ConnectivityInterval: envIntOr("CONNECTIVITY_INTERVAL_SECONDS", 10),
		QueueRetryLimit:      envIntOr("QUEUE_RETRY_LIMIT", 5),
	}
}

// Validate checks the configuration via struct tags and returns a wrapped
// validator error on the first offending field.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid config: field %s failed %q validation", e.Field(), e.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

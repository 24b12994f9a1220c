package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the ServiceSync server.
type Config struct {
	Port         string
	DatabasePath string

	OllamaURL     string
	OllamaModel   string
	OllamaTimeout time.Duration

	JWTSecret string
	JWTExpiry time.Duration

	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	SeedData bool
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults for anything unset.
func Load() *Config {
	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "servicesync.db"),
		OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.2"),
		OllamaTimeout: getDuration("OLLAMA_TIMEOUT", 30*time.Second),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-key-change-in-production"),
		JWTExpiry:     getDuration("JWT_EXPIRY", 24*time.Hour),
		MQTTBroker:    getEnv("MQTT_BROKER", ""),
		MQTTClientID:  getEnv("MQTT_CLIENT_ID", "servicesync-server"),
		MQTTUsername:  getEnv("MQTT_USERNAME", ""),
		MQTTPassword:  getEnv("MQTT_PASSWORD", ""),
		SeedData:      getBool("SEED_DATA", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. It is built once at startup and
// passed explicitly to the components that need it; nothing mutates it
// afterwards.
type Config struct {
	MongoURI      string
	DBName        string
	JWTSecret     string
	TokenTTL      time.Duration
	GeocodeAPIKey string
	UploadDir     string
	Port          string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	return Config{
		MongoURI:      mustEnv("MONGO_URI"),
		DBName:        getEnvOrDefault("DB_NAME", "placeshare"),
		JWTSecret:     mustEnv("JWT_SECRET"),
		TokenTTL:      getDurationEnv("TOKEN_TTL", 60, time.Minute),
		GeocodeAPIKey: mustEnv("GOOGLE_API_KEY"),
		UploadDir:     getEnvOrDefault("UPLOAD_DIR", "uploads/images"),
		Port:          getEnvOrDefault("PORT", "5001"),
	}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		log.Fatalf("ENV %s is required", key)
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

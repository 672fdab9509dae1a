package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string
	Environment   string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	JWTExpiration time.Duration
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	// .env is optional; deployments set real env vars.
	_ = godotenv.Load()

	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGODB_DB", "echo"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration: 24 * time.Hour,
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@echo.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

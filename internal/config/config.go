package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret          string
	JWTExpiration      time.Duration
	JWTRememberExpires time.Duration

	AdminPassword     string
	DemoAdminPassword string

	GinMode    string
	ServerPort string
}

func Load() *Config {
	// A local .env is optional; real deployments set env vars directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "mealcheck"),
		DBPassword: getEnv("DB_PASSWORD", "mealcheck"),
		DBName:     getEnv("DB_NAME", "meal_attendance"),

		JWTSecret:          getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTExpiration:      getDurationEnv("JWT_EXPIRATION", 24*time.Hour),
		JWTRememberExpires: getDurationEnv("JWT_REMEMBER_EXPIRATION", 30*24*time.Hour),

		AdminPassword:     getEnv("APP_ADMIN_PASSWORD", "change_me_admin_password"),
		DemoAdminPassword: getEnv("APP_DEMO_ADMIN_PASSWORD", "change_me_demo_password"),

		GinMode:    getEnv("GIN_MODE", "debug"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBPath     string
	SeedPath   string
	AdminUser  string
	AdminPass  string
	JWTSecret  string
	ContactLog string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBPath:     getEnv("DB_PATH", "./data/dashboard.db"),
		SeedPath:   getEnv("SEED_PATH", ""),
		AdminUser:  getEnv("ADMIN_USER", "admin"),
		AdminPass:  getEnv("ADMIN_PASS", "admin123"),
		JWTSecret:  getEnv("JWT_SECRET", "changeme-secret"),
		ContactLog: getEnv("CONTACT_LOG", "./logs/contact-messages.log"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

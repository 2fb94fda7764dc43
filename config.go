package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

// Config is read from the environment; .env is loaded by godotenv/autoload
type Config struct {
	Port        string
	ContentPath string // portfolio TOML, embedded default when empty
	DBPath      string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	ToEmail  string

	AdminUsername string
	AdminPassword string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadConfig() Config {
	cfg := Config{
		Port:        envOr("PORT", "8080"),
		ContentPath: os.Getenv("CONTENT_PATH"),
		DBPath:      envOr("DB_PATH", "portfolio.db"),

		// Default values for development
		SMTPHost: envOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: envOr("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		ToEmail:  os.Getenv("TO_EMAIL"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if cfg.ToEmail == "" {
		cfg.ToEmail = cfg.SMTPUser
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}
	return cfg
}

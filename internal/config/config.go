package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	TelegramToken    string
	DatabaseURL      string
	ReminderInterval time.Duration
	SessionSecret    string

	// The single known identity. Placeholder gate, not a security
	// boundary; a real deployment replaces this with a credential service.
	AuthUserID   string
	AuthUsername string
	AuthPassword string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honoured when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:    strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReminderInterval: parseSeconds(strings.TrimSpace(os.Getenv("REMINDER_INTERVAL_SECONDS"))),
		SessionSecret:    strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		AuthUserID:       strings.TrimSpace(os.Getenv("AUTH_USER_ID")),
		AuthUsername:     strings.TrimSpace(os.Getenv("AUTH_USERNAME")),
		AuthPassword:     os.Getenv("AUTH_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "task_tracker.db"
	}

	if cfg.ReminderInterval == 0 {
		cfg.ReminderInterval = time.Minute
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "task-tracker-dev-secret"
	}

	// Demo identity, matching the documented single-tenant gate.
	if cfg.AuthUserID == "" {
		cfg.AuthUserID = "1234"
	}
	if cfg.AuthUsername == "" {
		cfg.AuthUsername = "1234"
	}
	if cfg.AuthPassword == "" {
		cfg.AuthPassword = "1234"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

package config

import (
	"os"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Database
	DatabaseURL string

	// Redis (optional; posting registry falls back to in-process storage)
	RedisURL string

	// Operator API
	APIToken string // Bearer token for the operator API; empty disables auth (dev only)

	// Chat platform
	ChatAPIURL     string
	ChatGatewayURL string
	ChatToken      string

	// Channel routing
	SubmissionsChannelID string
	ReviewChannelID      string
	NotifyChannelIDs     []string

	// Reaction affordances
	ApproveEmoji string
	RejectEmoji  string
	DeleteEmoji  string

	// Downloads
	DownloadDir  string
	PollInterval time.Duration

	// Media server (publish-refresh signal)
	MediaServerURL   string
	MediaServerToken string
	MediaLibraryID   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/vidgate?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),
		APIToken:    getEnv("API_TOKEN", ""),

		ChatAPIURL:     getEnv("CHAT_API_URL", ""),
		ChatGatewayURL: getEnv("CHAT_GATEWAY_URL", ""),
		ChatToken:      getEnv("CHAT_TOKEN", ""),

		SubmissionsChannelID: getEnv("SUBMISSIONS_CHANNEL_ID", ""),
		ReviewChannelID:      getEnv("REVIEW_CHANNEL_ID", ""),

		ApproveEmoji: getEnv("APPROVE_EMOJI", "✅"),
		RejectEmoji:  getEnv("REJECT_EMOJI", "❌"),
		DeleteEmoji:  getEnv("DELETE_EMOJI", "\U0001f5d1️"),

		DownloadDir:  getEnv("DOWNLOAD_DIR", "/downloads"),
		PollInterval: getDurationEnv("POLL_INTERVAL", 60*time.Second),

		MediaServerURL:   getEnv("MEDIA_SERVER_URL", ""),
		MediaServerToken: getEnv("MEDIA_SERVER_TOKEN", ""),
		MediaLibraryID:   getEnv("MEDIA_LIBRARY_ID", ""),
	}

	// Completion notices go to both operator-facing channels unless the
	// channels file overrides the list.
	if cfg.SubmissionsChannelID != "" {
		cfg.NotifyChannelIDs = append(cfg.NotifyChannelIDs, cfg.SubmissionsChannelID)
	}
	if cfg.ReviewChannelID != "" && cfg.ReviewChannelID != cfg.SubmissionsChannelID {
		cfg.NotifyChannelIDs = append(cfg.NotifyChannelIDs, cfg.ReviewChannelID)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Encryption key: only needed when tokens live in postgres
	if c.Clients.Source == "postgres" {
		if c.Clients.EncryptionKey == "" {
			errs = append(errs, "ENCRYPTION_KEY is required when CLIENTS_SOURCE=postgres")
		} else if len(c.Clients.EncryptionKey) != 64 {
			errs = append(errs, "ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes)")
		} else if _, err := hex.DecodeString(c.Clients.EncryptionKey); err != nil {
			errs = append(errs, "ENCRYPTION_KEY must be valid hex")
		}
		if c.DB.Password == "" {
			errs = append(errs, "DB_PASSWORD is required when CLIENTS_SOURCE=postgres")
		}
	}
	if c.Clients.Source != "postgres" && c.Clients.Source != "file" {
		errs = append(errs, fmt.Sprintf("CLIENTS_SOURCE must be postgres or file, got %q", c.Clients.Source))
	}

	switch c.Conversation.Backend {
	case "redis", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("CONVERSATION_BACKEND must be redis or sqlite, got %q", c.Conversation.Backend))
	}
	if c.Conversation.MaxTurns < 2 {
		errs = append(errs, "CONVERSATION_MAX_TURNS must be at least 2")
	}
	if c.Conversation.ContextTurns > c.Conversation.MaxTurns {
		errs = append(errs, "CONVERSATION_CONTEXT_TURNS must not exceed CONVERSATION_MAX_TURNS")
	}
	if c.Conversation.TTL <= 0 {
		errs = append(errs, "CONVERSATION_TTL must be positive")
	}
	if c.Dedupe.TTL <= 0 {
		errs = append(errs, "DEDUPE_TTL must be positive")
	}

	if !c.LLM.Enabled() {
		errs = append(errs, "ARK_MODEL and ARK_API_KEY (or ARK_ACCESS_KEY + ARK_SECRET_KEY) are required")
	}
	if c.WhatsApp.VerifyToken == "" {
		errs = append(errs, "WHATSAPP_VERIFY_TOKEN is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	// Warn only
	if c.WhatsApp.AppSecret == "" {
		slog.Warn("WHATSAPP_APP_SECRET is empty, webhook signatures are not verified")
	}
	if c.WhatsApp.DefaultAccessToken == "" {
		slog.Warn("WHATSAPP_ACCESS_TOKEN is empty, tenants without their own token cannot be answered")
	}
	if c.Admin.APIKey == "" {
		slog.Warn("ADMIN_API_KEY is empty, lead API is disabled")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

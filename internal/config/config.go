// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"eventscout/internal/model"
)

// Default search parameters used when the environment provides none.
var (
	defaultCities    = []string{"Osaka", "Kobe", "Kyoto"}
	defaultPlatforms = []model.Platform{
		model.PlatformConnpass,
		model.PlatformPeatix,
		model.PlatformMeetup,
	}
	defaultKeywords = []string{
		"startup", "AI", "artificial intelligence", "HR tech", "expat",
		"business", "innovation", "hiring", "tech", "technology",
		"entrepreneur", "venture", "funding", "networking", "machine learning",
		"digital transformation", "partnership", "client", "investment",
	}
)

// Contact identifies who the registrar signs up as.
type Contact struct {
	Name     string
	Company  string
	Email    string
	Phone    string
	Position string
}

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	DatabasePath    string
	LogLevel        string

	Cities    []string
	Platforms []model.Platform
	Keywords  []string

	TelegramBotToken string
	TelegramChatID   int64

	SMTPServer    string
	SMTPPort      int
	EmailUsername string
	EmailPassword string
	EmailTo       string

	Contact Contact

	ScoutInterval time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	cfg := &Config{
		AnthropicAPIKey:  apiKey,
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/scout.db"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		Cities:           defaultCities,
		Platforms:        defaultPlatforms,
		Keywords:         defaultKeywords,
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		SMTPServer:       envOrDefault("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:         587,
		EmailUsername:    os.Getenv("EMAIL_USERNAME"),
		EmailPassword:    os.Getenv("EMAIL_PASSWORD"),
		ScoutInterval:    7 * 24 * time.Hour,
		Contact: Contact{
			Name:     envOrDefault("CONTACT_NAME", "Event Scout"),
			Company:  envOrDefault("COMPANY_NAME", "Event Scout"),
			Email:    os.Getenv("CONTACT_EMAIL"),
			Phone:    os.Getenv("CONTACT_PHONE"),
			Position: os.Getenv("CONTACT_POSITION"),
		},
	}

	if raw := os.Getenv("SCOUT_CITIES"); raw != "" {
		cfg.Cities = splitList(raw)
	}
	if raw := os.Getenv("SCOUT_PLATFORMS"); raw != "" {
		var platforms []model.Platform
		for _, s := range splitList(raw) {
			p, err := model.ParsePlatform(s)
			if err != nil {
				return nil, fmt.Errorf("SCOUT_PLATFORMS: %w", err)
			}
			platforms = append(platforms, p)
		}
		cfg.Platforms = platforms
	}
	if raw := os.Getenv("RELEVANCE_KEYWORDS"); raw != "" {
		cfg.Keywords = splitList(raw)
	}
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", raw, err)
		}
		cfg.TelegramChatID = id
	}
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", raw, err)
		}
		cfg.SMTPPort = port
	}
	if raw := os.Getenv("SCOUT_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SCOUT_INTERVAL %q: %w", raw, err)
		}
		cfg.ScoutInterval = d
	}

	// Digest emails go to the contact address, falling back to the sender.
	cfg.EmailTo = envOrDefault("EMAIL_TO", cfg.Contact.Email)
	if cfg.EmailTo == "" {
		cfg.EmailTo = cfg.EmailUsername
	}

	return cfg, nil
}

// TelegramConfigured reports whether the Telegram channel can be used.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// EmailConfigured reports whether the email channel can be used.
func (c *Config) EmailConfigured() bool {
	return c.EmailUsername != "" && c.EmailPassword != "" && c.EmailTo != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL         string
	MigrationsAutoApply bool
	HTTPAddr            string
	RequestTimeout      time.Duration
	CORSAllowedOrigins  []string

	SendGridAPIKey string // Empty means emails are only logged
	SenderEmail    string
	SenderName     string

	ReminderTimezone  *time.Location
	CronSpecMissedDay string
	SweepTimeout      time.Duration

	TelegramToken   string // Optional ops channel
	AdminTelegramID int64

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.MigrationsAutoApply, err = boolEnv("MIGRATIONS_AUTO_APPLY", true)
	if err != nil {
		return nil, err
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = cfg.CORSAllowedOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.SenderEmail = os.Getenv("SENDER_EMAIL")
	if cfg.SendGridAPIKey != "" && cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SENDER_EMAIL is required when SENDGRID_API_KEY is set")
	}
	cfg.SenderName = os.Getenv("SENDER_NAME")
	if cfg.SenderName == "" {
		cfg.SenderName = "Study Planner"
	}

	tz := os.Getenv("REMINDER_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	cfg.ReminderTimezone, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TIMEZONE: %w", err)
	}

	cfg.CronSpecMissedDay = os.Getenv("CRON_SPEC_MISSED_DAY")
	if cfg.CronSpecMissedDay == "" {
		cfg.CronSpecMissedDay = "0 9 * * *" // Default: 9 AM daily
	}

	cfg.SweepTimeout, err = durationEnv("SWEEP_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.AdminTelegramID == 0 {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is required when TELEGRAM_TOKEN is set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// TelegramEnabled reports whether the ops bot should be started.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

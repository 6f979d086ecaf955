package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DATABASE_URL", "MIGRATIONS_AUTO_APPLY", "HTTP_ADDR", "REQUEST_TIMEOUT", "CORS_ALLOWED_ORIGINS",
	"SENDGRID_API_KEY", "SENDER_EMAIL", "SENDER_NAME", "REMINDER_TIMEZONE", "CRON_SPEC_MISSED_DAY",
	"SWEEP_TIMEOUT", "TELEGRAM_TOKEN", "ADMIN_TELEGRAM_ID", "LOG_LEVEL", "ENVIRONMENT",
}

// clearEnv blanks every key Load reads so a stray .env or shell variable cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/study?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.UTC.String(), cfg.ReminderTimezone.String())
	assert.Equal(t, "0 9 * * *", cfg.CronSpecMissedDay)
	assert.Equal(t, 10*time.Minute, cfg.SweepTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.MigrationsAutoApply)
	assert.False(t, cfg.TelegramEnabled())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://db/study")
	t.Setenv("REMINDER_TIMEZONE", "Asia/Kolkata")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("SENDER_EMAIL", "noreply@example.com")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_TELEGRAM_ID", "987654")
	t.Setenv("SWEEP_TIMEOUT", "90s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", cfg.ReminderTimezone.String())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, int64(987654), cfg.AdminTelegramID)
	assert.Equal(t, 90*time.Second, cfg.SweepTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"bad timezone", map[string]string{"DATABASE_URL": "x", "REMINDER_TIMEZONE": "Mars/Olympus"}},
		{"sendgrid without sender", map[string]string{"DATABASE_URL": "x", "SENDGRID_API_KEY": "SG.key"}},
		{"telegram without admin", map[string]string{"DATABASE_URL": "x", "TELEGRAM_TOKEN": "123:abc"}},
		{"bad admin id", map[string]string{"DATABASE_URL": "x", "ADMIN_TELEGRAM_ID": "admin"}},
		{"bad duration", map[string]string{"DATABASE_URL": "x", "SWEEP_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Names of the variables without which the bot cannot start.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken    string
	PracticumEndpoint string // Empty means the public Practicum endpoint
	TelegramToken     string
	TelegramChatID    int64
	RetryInterval     time.Duration // Pause between two polls
	HTTPTimeout       time.Duration
	NotifyAttempts    uint
	NotifyRetryDelay  time.Duration
	LogLevel          string
	Environment       string
	LogFile           string
	LogMaxSizeMB      int
	LogMaxBackups     int

	missing []string
}

// MissingError lists required variables that are unset or empty.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("required environment variables are not set: %s", strings.Join(e.Keys, ", "))
}

// Load reads configuration from environment variables and .env file (if present).
// Missing required values do not fail Load; check them with Validate once logging is up.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.PracticumToken = cfg.require(EnvPracticumToken)
	cfg.TelegramToken = cfg.require(EnvTelegramToken)
	if chatIDStr := cfg.require(EnvTelegramChatID); chatIDStr != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", EnvTelegramChatID)
		}
	}

	cfg.PracticumEndpoint = os.Getenv("PRACTICUM_ENDPOINT")

	if cfg.RetryInterval, err = durationEnv("RETRY_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.NotifyRetryDelay, err = durationEnv("NOTIFY_RETRY_DELAY", 2*time.Second); err != nil {
		return nil, err
	}

	attempts, err := intEnv("NOTIFY_ATTEMPTS", 1)
	if err != nil {
		return nil, err
	}
	if attempts < 1 {
		return nil, fmt.Errorf("NOTIFY_ATTEMPTS must be at least 1, got %d", attempts)
	}
	cfg.NotifyAttempts = uint(attempts)

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	if cfg.LogFile == "" {
		cfg.LogFile = "main.log"
	}
	if cfg.LogMaxSizeMB, err = intEnv("LOG_MAX_SIZE_MB", 10); err != nil {
		return nil, err
	}
	if cfg.LogMaxBackups, err = intEnv("LOG_MAX_BACKUPS", 3); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MissingRequired returns the names of required variables that were not set, in declaration order.
func (c *AppConfig) MissingRequired() []string {
	return c.missing
}

// Validate returns a *MissingError when any required variable is absent.
func (c *AppConfig) Validate() error {
	if len(c.missing) == 0 {
		return nil
	}
	return &MissingError{Keys: c.missing}
}

func (c *AppConfig) require(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		c.missing = append(c.missing, key)
	}
	return value
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return v, nil
}

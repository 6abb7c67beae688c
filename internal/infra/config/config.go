package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken string `env:"PRACTICUM_TOKEN"`
	TelegramToken  string `env:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	Endpoint        string        `env:"PRACTICUM_ENDPOINT"` // empty means practicum.DefaultEndpoint
	RetryPeriod     time.Duration `env:"RETRY_PERIOD" envDefault:"600s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	TelegramTimeout time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"10s"`
	TelegramRate    int           `env:"TELEGRAM_RATE_PER_SEC" envDefault:"1"`
	TelegramAPIURL  string        `env:"TELEGRAM_API_URL"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogFile     string `env:"LOG_FILE"`

	MetricsAddr       string `env:"METRICS_ADDR"`
	CronSpecHeartbeat string `env:"CRON_SPEC_HEARTBEAT" envDefault:"0 */6 * * *"`
}

// MissingTokensError lists the secrets that were not provided.
type MissingTokensError struct {
	Names []string
}

func (e *MissingTokensError) Error() string {
	return fmt.Sprintf("missing required tokens: %s", strings.Join(e.Names, ", "))
}

// Load reads configuration from environment variables and .env file (if present).
// Secrets are not checked here; call CheckTokens before starting the bot.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	if cfg.RetryPeriod <= 0 {
		return nil, fmt.Errorf("RETRY_PERIOD must be positive, got %s", cfg.RetryPeriod)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.TelegramTimeout <= 0 {
		return nil, fmt.Errorf("TELEGRAM_TIMEOUT must be positive, got %s", cfg.TelegramTimeout)
	}

	return cfg, nil
}

// CheckTokens reports every required secret that is empty.
func CheckTokens(cfg *AppConfig) error {
	var missing []string
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if cfg.TelegramChatID == 0 {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return &MissingTokensError{Names: missing}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultFile = "checklists.yaml"

// Config keeps runtime settings for the API server and the bot.
type Config struct {
	DatabaseURL    string        `yaml:"database_url"`
	HTTPAddr       string        `yaml:"http_addr"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	TelegramToken  string        `yaml:"telegram_token"`
	ReportInterval time.Duration `yaml:"report_interval"`
	ReportTime     string        `yaml:"report_time"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		DatabaseURL:    "checklists.db",
		HTTPAddr:       ":8080",
		CORSOrigins:    []string{"*"},
		TokenTTL:       24 * time.Hour,
		ReportInterval: 5 * time.Hour,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// Load applies defaults, then the YAML file at path (or $CHECKLISTS_CONFIG,
// or ./checklists.yaml when present), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	path = resolvePath(path)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "checklists.db"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.ReportTime != "" {
		if _, _, err := ParseClock(cfg.ReportTime); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Validate checks the settings required to serve requests.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	return nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func resolvePath(path string) string {
	if path != "" {
		return path
	}
	if env := strings.TrimSpace(os.Getenv("CHECKLISTS_CONFIG")); env != "" {
		return env
	}
	if _, err := os.Stat(defaultFile); err == nil {
		return defaultFile
	}
	return ""
}

func applyEnv(cfg *Config) {
	if v := env("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := env("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if origins := splitList(env("CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	if v := env("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := env("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := env("TELEGRAM_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if d := parseInterval(env("REPORT_INTERVAL_HOURS")); d > 0 {
		cfg.ReportInterval = d
	}
	if v := env("REPORT_TIME"); v != "" {
		cfg.ReportTime = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// splitList parses a comma-separated value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(raw string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	return t.Hour(), t.Minute(), nil
}

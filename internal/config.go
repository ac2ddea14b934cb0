package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"http_server"`
	Budget  BudgetConfig  `mapstructure:"budget"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type BudgetConfig struct {
	// Ceiling is kept as text so it reaches the ledger without float rounding.
	Ceiling  string `mapstructure:"ceiling"`
	Currency string `mapstructure:"currency"`
}

type SessionConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxSessions   int           `mapstructure:"max_sessions"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults mirrors the keys of Config. cmd registers them on viper so a
// missing config file still produces a usable configuration.
func Defaults() map[string]any {
	return map[string]any{
		"http_server.port":                8080,
		"http_server.read_header_timeout": "5s",
		"http_server.read_timeout":        "10s",
		"http_server.write_timeout":       "10s",
		"http_server.idle_timeout":        "60s",
		"http_server.shutdown_timeout":    "30s",
		"budget.ceiling":                  "5000",
		"budget.currency":                 "",
		"session.idle_timeout":            "30m",
		"session.sweep_interval":          "1m",
		"session.max_sessions":            1000,
		"logging.level":                   "info",
		"logging.format":                  "text",
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Budget.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("budget config: %v", err))
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("session config: %v", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *BudgetConfig) Validate() error {
	_, err := c.CeilingAmount()
	return err
}

// CeilingAmount parses the configured ceiling, which must be positive.
func (c *BudgetConfig) CeilingAmount() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.Ceiling))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ceiling %q: %w", c.Ceiling, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("ceiling must be greater than 0, got %s", d)
	}
	return d, nil
}

func (c *SessionConfig) Validate() error {
	if c.IdleTimeout <= 0 {
		return errors.New("idle_timeout must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("sweep_interval must be positive")
	}
	if c.MaxSessions < 0 {
		return errors.New("max_sessions cannot be negative")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-onboarding/internal/logging"
	"github.com/goliatone/go-onboarding/pkg/submission"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "ONBOARDING_"

// Config is the service configuration. Values come from Default, then an
// optional YAML file, then ONBOARDING_* environment variables; CLI flags are
// applied last by the caller.
type Config struct {
	Addr           string            `yaml:"addr" env:"ADDR"`
	LogLevel       string            `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat      string            `yaml:"log_format" env:"LOG_FORMAT"`
	AllowedOrigins []string          `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	SessionTTL     time.Duration     `yaml:"session_ttl" env:"SESSION_TTL"`
	EditPolicy     string            `yaml:"edit_policy" env:"EDIT_POLICY"`
	Submission     submission.Config `yaml:"submission" envPrefix:"SUBMISSION_"`
	Theme          Theme             `yaml:"theme" envPrefix:"THEME_"`
}

// Theme selects the page theme and optional brand icon.
type Theme struct {
	Name    string            `yaml:"name" env:"NAME"`
	Variant string            `yaml:"variant" env:"VARIANT"`
	Tokens  map[string]string `yaml:"tokens" env:"TOKENS"`
	Icon    string            `yaml:"icon" env:"ICON"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           ":8000",
		LogLevel:       "info",
		LogFormat:      logging.FormatText,
		AllowedOrigins: []string{"http://localhost:3000"},
		SessionTTL:     30 * time.Minute,
		EditPolicy:     "clear",
		Submission: submission.Config{
			Kind:    submission.KindSimulated,
			Timeout: 30 * time.Second,
		},
		Theme: Theme{
			Name:    "onboarding",
			Variant: "light",
		},
	}
}

// Load reads path (when non-empty) and the process environment on top of
// Default.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment. A nil environ reads the
// process environment.
func LoadWithEnv(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session_ttl must be positive"))
	}
	switch c.EditPolicy {
	case "clear", "revalidate":
	default:
		errs = append(errs, fmt.Errorf("unknown edit_policy %q", c.EditPolicy))
	}
	switch strings.ToLower(c.Submission.Kind) {
	case "", submission.KindSimulated, submission.KindHTTP, submission.KindRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown submission.kind %q", c.Submission.Kind))
	}
	if c.Submission.Timeout < 0 {
		errs = append(errs, errors.New("submission.timeout must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

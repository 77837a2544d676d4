package submission

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.opentelemetry.io/otel/trace"
)

// Backend kinds selectable from configuration.
const (
	KindSimulated = "simulated"
	KindHTTP      = "http"
	KindRedis     = "redis"
)

// Config selects and configures a backend. Settings holds backend specific
// keys and is decoded into SimulatedConfig, HTTPConfig or RedisConfig.
type Config struct {
	Kind     string         `yaml:"kind" env:"KIND"`
	Timeout  time.Duration  `yaml:"timeout" env:"TIMEOUT"`
	Settings map[string]any `yaml:"settings"`
}

// SimulatedConfig configures the simulated backend.
type SimulatedConfig struct {
	Delay time.Duration `mapstructure:"delay"`
	Fail  string        `mapstructure:"fail"`
}

// Dependencies are the ambient collaborators wired around a backend.
type Dependencies struct {
	Logger   *slog.Logger
	Recorder Recorder
	Tracer   trace.TracerProvider
}

// Built is the configured service plus a release hook for backends that hold
// connections.
type Built struct {
	Service Service
	Close   func() error
}

// FromConfig builds the configured backend and wraps it with tracing,
// metrics, logging and the configured timeout, outermost first.
func FromConfig(cfg Config, deps Dependencies) (Built, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var (
		service Service
		closer  = func() error { return nil }
	)

	switch kind := strings.ToLower(strings.TrimSpace(cfg.Kind)); kind {
	case "", KindSimulated:
		sim := SimulatedConfig{Delay: DefaultSimulatedDelay}
		if err := decodeSettings(cfg.Settings, &sim); err != nil {
			return Built{}, err
		}
		backend := &Simulated{Delay: sim.Delay, Logger: logger}
		if sim.Fail != "" {
			backend.Result = fmt.Errorf("submission: %s", sim.Fail)
		}
		service = backend
	case KindHTTP:
		var httpCfg HTTPConfig
		if err := decodeSettings(cfg.Settings, &httpCfg); err != nil {
			return Built{}, err
		}
		backend, err := NewHTTP(httpCfg)
		if err != nil {
			return Built{}, err
		}
		service = backend
	case KindRedis:
		redisCfg := RedisConfig{Addr: "127.0.0.1:6379"}
		if err := decodeSettings(cfg.Settings, &redisCfg); err != nil {
			return Built{}, err
		}
		queue := NewRedisQueueFromConfig(redisCfg)
		service = queue
		closer = queue.Close
	default:
		return Built{}, fmt.Errorf("submission: unknown backend kind %q", kind)
	}

	middlewares := []Middleware{WithTracing(deps.Tracer)}
	if deps.Recorder != nil {
		middlewares = append(middlewares, WithMetrics(deps.Recorder))
	}
	middlewares = append(middlewares, WithLogging(logger), WithTimeout(cfg.Timeout))

	return Built{
		Service: Chain(service, middlewares...),
		Close:   closer,
	}, nil
}

func decodeSettings(settings map[string]any, out any) error {
	if len(settings) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("submission: settings decoder: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return fmt.Errorf("submission: decode settings: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel           string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr           string        `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	StaticDir          string        `yaml:"static-dir" env:"STATIC_DIR" env-default:"./web"`
	SessionIdleTimeout time.Duration `yaml:"session-idle-timeout" env:"SESSION_IDLE_TIMEOUT" env-default:"30m"`
	ShutdownTimeout    time.Duration `yaml:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	Telemetry          Telemetry     `yaml:"telemetry"`
}

type Telemetry struct {
	// Telemetry is disabled when Endpoint is empty.
	Endpoint       string `yaml:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-toe"`
	ServiceVersion string `yaml:"service-version" env:"OTEL_SERVICE_VERSION" env-default:"v0.1.0"`
}

// Enabled reports whether an OTLP collector is configured.
func (t Telemetry) Enabled() bool {
	return t.Endpoint != ""
}

// Load reads the YAML file at path, if there is one, and then applies
// environment overrides. An empty path or a missing file means env only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("unable to load config file %s: %w", path, err)
			}
			return cfg, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("unable to stat config file %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to read config from environment: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

package observability

import (
	"strings"

	"github.com/smallbiznis/rides/internal/config"
)

// Config is the observability view of the application configuration.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "rides"
	}

	return Config{
		ServiceName:          serviceName,
		Environment:          cfg.Environment,
		Version:              cfg.AppVersion,
		LogLevel:             cfg.Telemetry.LogLevel,
		LogFormat:            cfg.Telemetry.LogFormat,
		OtelEnabled:          cfg.Telemetry.OtelEnabled,
		OtelExporterEndpoint: cfg.Telemetry.OtelEndpoint,
		OtelExporterProtocol: cfg.Telemetry.OtelProtocol,
		OtelSamplingRatio:    cfg.Telemetry.OtelSamplingRatio,
	}
}

// Debug reports whether verbose logging applies: an explicit debug level or a
// non-production environment.
func (c Config) Debug() bool {
	if strings.TrimSpace(c.LogLevel) == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", config.EnvDevelopment, "local", "test":
		return true
	default:
		return false
	}
}

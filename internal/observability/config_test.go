package observability

import (
	"testing"

	"github.com/smallbiznis/rides/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigMapsTelemetry(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppVersion:  "1.2.3",
		Environment: config.EnvProduction,
		Telemetry: config.TelemetryConfig{
			LogLevel:          "warn",
			OtelEnabled:       true,
			OtelEndpoint:      "collector:4317",
			OtelProtocol:      "grpc",
			OtelSamplingRatio: 0.5,
		},
	})

	assert.Equal(t, "rides", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, "collector:4317", cfg.OtelExporterEndpoint)
	assert.False(t, cfg.Debug())
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{Environment: "development"}.Debug())
	assert.True(t, Config{Environment: "test"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "debug"}.Debug())
	assert.False(t, Config{Environment: "production", LogLevel: "info"}.Debug())
}

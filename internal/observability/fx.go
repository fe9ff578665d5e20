package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/rides/internal/observability/logger"
	"github.com/smallbiznis/rides/internal/observability/metrics"
	"github.com/smallbiznis/rides/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(LoadConfig),
	loggingModule,
	tracingModule,
	metricsModule,
)

var loggingModule = fx.Provide(
	func(cfg Config) logger.Config {
		return logger.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			Version:     cfg.Version,
			Level:       cfg.LogLevel,
			Format:      cfg.LogFormat,
			Debug:       cfg.Debug(),
		}
	},
	logger.New,
)

// The tracer provider has no consumers in the graph, so it is invoked to make
// sure propagators and the global provider are installed at startup.
var tracingModule = fx.Options(
	fx.Provide(
		func(cfg Config) tracing.Config {
			return tracing.Config{
				Enabled:          cfg.OtelEnabled,
				ServiceName:      cfg.ServiceName,
				ServiceVersion:   cfg.Version,
				Environment:      cfg.Environment,
				ExporterEndpoint: cfg.OtelExporterEndpoint,
				ExporterProtocol: cfg.OtelExporterProtocol,
				SamplingRatio:    cfg.OtelSamplingRatio,
			}
		},
		tracing.NewProvider,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

// HTTP and pool collectors go to the default registry served on /metrics.
var metricsModule = fx.Provide(
	func(cfg Config) metrics.Config {
		return metrics.Config{
			Enabled:          cfg.OtelEnabled,
			ExporterEndpoint: cfg.OtelExporterEndpoint,
			ExporterProtocol: cfg.OtelExporterProtocol,
			ServiceName:      cfg.ServiceName,
			Environment:      cfg.Environment,
		}
	},
	metrics.NewProvider,
	metrics.New,
	func() prometheus.Registerer { return prometheus.DefaultRegisterer },
	metrics.NewHTTPMetrics,
)

package tracing

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/rides/internal/observability/context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "rides/http"

// untracedRoutes are polled by orchestrators and scrapers and produce no spans.
var untracedRoutes = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// GinMiddleware starts one server span per request, continuing any trace
// carried by the inbound headers and echoing the trace context on the response.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *gin.Context) {
		if _, skip := untracedRoutes[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+c.Request.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()

		propagator.Inject(ctx, propagation.HeaderCarrier(c.Writer.Header()))
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		span.SetName(c.Request.Method + " " + route)
		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.Int64("http.server_duration_ms", time.Since(start).Milliseconds()),
		}
		if requestID := obscontext.RequestIDFromContext(c.Request.Context()); requestID != "" {
			attrs = append(attrs, attribute.String("request_id", requestID))
		}
		span.SetAttributes(SafeAttributes(attrs...)...)

		if status < http.StatusInternalServerError {
			return
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			span.RecordError(SafeError(lastErr.Err))
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/rides/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	HeaderRequestID  = "X-Request-Id"
	contextRequestID = "request_id"
)

// MiddlewareConfig controls request logging.
type MiddlewareConfig struct {
	// Logger defaults to the zap global.
	Logger *zap.Logger
	Debug  bool
	// ErrorClassifier maps the last handler error to error_type and error_code.
	ErrorClassifier func(err error) (string, string)
	// QuietRoutes log successful requests at debug only.
	QuietRoutes []string
}

// GinMiddleware assigns a request id and writes one http_request line per
// request. Ride payloads are never logged.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	quiet := make(map[string]struct{}, len(cfg.QuietRoutes))
	for _, route := range cfg.QuietRoutes {
		quiet[route] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		base := cfg.Logger
		if base == nil {
			base = zap.L()
		}
		log := WithContext(c.Request.Context(), base)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if cfg.Debug {
			fields = append(fields, zap.String("client_ip", c.ClientIP()))
		}

		var errorType string
		if lastErr := c.Errors.Last(); lastErr != nil {
			errorType = "internal_error"
			errorCode := "internal_error"
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
			}
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
			if status >= http.StatusInternalServerError {
				fields = append(fields, zap.Error(lastErr.Err))
			}
		}

		_, isQuiet := quiet[route]
		if ce := log.Check(requestLevel(status, errorType, isQuiet), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(contextRequestID, requestID)
	c.Header(HeaderRequestID, requestID)
	return requestID
}

// requestLevel keeps validation failures at debug whatever the status.
func requestLevel(status int, errorType string, quiet bool) zapcore.Level {
	switch {
	case errorType == "validation_error":
		return zapcore.DebugLevel
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case quiet:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

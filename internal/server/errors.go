package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	ridedomain "github.com/smallbiznis/rides/internal/ride/domain"
)

// ValidationError is a client error answered with 400 and its message.
type ValidationError struct {
	Message string
}

func (v *ValidationError) Error() string {
	if v.Message != "" {
		return v.Message
	}
	return "validation error"
}

// PublicError carries the message shown to clients for a failure whose cause
// stays in the logs.
type PublicError struct {
	Message string
	Err     error
}

func (e *PublicError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *PublicError) Unwrap() error {
	return e.Err
}

type errorResponse struct {
	Error string `json:"error"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

const (
	msgInvalidBody   = "Invalid request body"
	msgNotFound      = "Not found"
	msgInternalError = "Internal server error"
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError(err error) error {
	return fmt.Errorf("%w: %w", &ValidationError{Message: msgInvalidBody}, err)
}

func internalError(message string, err error) error {
	return &PublicError{Message: message, Err: err}
}

// mapError returns the status and client message for err.
func mapError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, msgInternalError
	}

	var missing *ridedomain.MissingFieldsError
	if errors.As(err, &missing) {
		return http.StatusBadRequest, missing.Error()
	}

	if vErr := asValidationError(err); vErr != nil {
		return http.StatusBadRequest, vErr.Error()
	}

	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest, msgInvalidBody
	}

	var pubErr *PublicError
	if errors.As(err, &pubErr) {
		return http.StatusInternalServerError, pubErr.Message
	}

	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound, msgNotFound
	}
	return http.StatusInternalServerError, msgInternalError
}

func asValidationError(err error) *ValidationError {
	var vErr *ValidationError
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// classifyErrorForLog returns the error_type and error_code fields of the
// request log line.
func classifyErrorForLog(err error) (string, string) {
	var missing *ridedomain.MissingFieldsError
	switch {
	case errors.As(err, &missing), asValidationError(err) != nil, errors.Is(err, ErrInvalidRequest):
		return "validation_error", "invalid_request"
	case errors.Is(err, ErrNotFound):
		return "not_found", "not_found"
	case errors.Is(err, ridedomain.ErrConnection):
		return "internal_error", ridedomain.ErrConnection.Error()
	case errors.Is(err, ridedomain.ErrConstraintViolation):
		return "internal_error", ridedomain.ErrConstraintViolation.Error()
	case errors.Is(err, ridedomain.ErrStore):
		return "internal_error", ridedomain.ErrStore.Error()
	default:
		return "internal_error", "internal_error"
	}
}

package tracing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsUnknownKeys(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/rides"),
		attribute.String("city_code", "NYC"),
		attribute.Int("http.status_code", 201),
	)
	assert.Len(t, attrs, 2)
	for _, attr := range attrs {
		assert.NotEqual(t, attribute.Key("city_code"), attr.Key)
	}
}

func TestSafeErrorStripsWrappedCause(t *testing.T) {
	cause := errors.New(`pq: password authentication failed for user "postgres"`)
	err := SafeError(fmt.Errorf("insert ride: %w", cause))
	assert.EqualError(t, err, "insert ride")

	assert.EqualError(t, SafeError(errors.New("plain")), "plain")
	assert.Nil(t, SafeError(nil))
}

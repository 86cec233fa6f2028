package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsDraftContent(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("invoice.to_email", "billing@example.com"),
		attribute.String("invoice.from_address", "1 Main St"),
		attribute.Int("invoice.items", 3),
		attribute.String("export.generator", "native"),
	)

	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, string(a.Key))
	}
	assert.Equal(t, []string{"invoice.items", "export.generator"}, keys)
}

func TestSafeError(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.Equal(t, "*errors.errorString", SafeError(errors.New("secret detail")).Error())
}

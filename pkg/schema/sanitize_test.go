package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_StaleAndNullKeys(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}, "b": {"type": "string"}}}`)
	props := map[string]any{"a": "x", "b": nil, "z": "orphan"}

	changed := Sanitize(props, flat, SanitizeOptions{DropUnknown: true, DropNull: true})

	assert.True(t, changed)
	assert.Equal(t, map[string]any{"a": "x"}, props)
}

func TestSanitize_Idempotent(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}}}`)
	props := map[string]any{"a": "x", "gone": 1, "empty": nil}
	opts := SanitizeOptions{DropUnknown: true, DropNull: true}

	assert.True(t, Sanitize(props, flat, opts))
	assert.False(t, Sanitize(props, flat, opts))
	assert.Equal(t, map[string]any{"a": "x"}, props)
}

func TestSanitize_PassesAreIndependent(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}}}`)

	props := map[string]any{"a": nil, "gone": 1}
	assert.True(t, Sanitize(props, flat, SanitizeOptions{DropUnknown: true}))
	assert.Equal(t, map[string]any{"a": nil}, props)

	props = map[string]any{"a": nil, "gone": 1}
	assert.True(t, Sanitize(props, flat, SanitizeOptions{DropNull: true}))
	assert.Equal(t, map[string]any{"gone": 1}, props)

	props = map[string]any{"a": nil, "gone": 1}
	assert.False(t, Sanitize(props, flat, SanitizeOptions{}))
	assert.Len(t, props, 2)
}

func TestSanitize_EmptySchemaStripsNothingUnknown(t *testing.T) {
	props := map[string]any{"a": "x", "b": nil}

	// a layer without a schema must not cause data loss through the
	// drift pass; the null pass still applies when asked for
	for _, flat := range []*Schema{nil, New()} {
		copyProps := map[string]any{"a": "x", "b": nil}
		assert.False(t, Sanitize(copyProps, flat, SanitizeOptions{DropUnknown: true}))
		assert.Len(t, copyProps, 2)
	}

	flat := New()
	assert.True(t, Sanitize(props, flat, SanitizeOptions{DropUnknown: true, DropNull: true}))
	assert.Equal(t, map[string]any{"a": "x"}, props)
}

func TestStaleKeys(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}, "b": {"type": "string"}}}`)

	stale := StaleKeys(map[string]any{"b": 1, "z": 2, "y": 3}, flat)

	assert.Equal(t, []string{"y", "z"}, stale)
	assert.Nil(t, StaleKeys(map[string]any{"zzz": 1}, New()))
}

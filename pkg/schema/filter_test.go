package schema

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEligibleProperties(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {
			"name": {"type": "string"},
			"photo": {"type": "string", "format": "data-url"},
			"logs": {"type": "array", "items": {"type": "object"}},
			"tags": {"type": "array", "items": {"type": "string"}},
			"notes": {"type": "string"},
			"body": {"type": "string"},
			"age": {"type": "integer"}
		}
	}`)
	ui := UISchema{
		"notes": map[string]any{"ui:widget": "textarea"},
		"body":  map[string]any{"ui:field": "rte"},
	}

	eligible := ListEligibleProperties(flat, ui)

	// data-url, array-of-object, textarea and rte fields are excluded;
	// arrays of scalars stay
	assert.Equal(t, []string{"name", "tags", "age"}, eligible)
}

func TestDefaultListProperties_ConfiguredWins(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}, "b": {"type": "string"}}}`)

	got := DefaultListProperties([]string{"b"}, flat, nil)

	assert.Equal(t, []string{"b"}, got)
}

func TestDefaultListProperties_FallbackFirstEight(t *testing.T) {
	doc := map[string]any{"properties": map[string]any{}}
	props := doc["properties"].(map[string]any)
	var order []string
	for i := 0; i < 12; i++ {
		key := fmt.Sprintf("p%02d", i)
		props[key] = map[string]any{"type": "string"}
		order = append(order, key)
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	flat := mustSchema(t, string(raw))

	got := DefaultListProperties(nil, flat, nil)

	assert.Equal(t, order[:DefaultListSize], got)
}

func TestDefaultListProperties_FewerThanEight(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}, "b": {"type": "string"}}}`)

	got := DefaultListProperties(nil, flat, nil)

	assert.Equal(t, []string{"a", "b"}, got)
}

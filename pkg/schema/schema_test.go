package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaKeys_DocumentOrderPreserved(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {
			"zulu": {"type": "string"},
			"alpha": {"type": "integer"},
			"mike": {"type": "boolean"}
		},
		"required": ["alpha"]
	}`)

	assert.Equal(t, []string{"zulu", "alpha", "mike"}, flat.Keys())
	assert.Equal(t, []string{"alpha"}, flat.Required)
}

func TestSchemaKeys_SortedWhenBuiltInCode(t *testing.T) {
	flat := New()
	flat.Properties["b"] = Descriptor{"type": "string"}
	flat.Properties["a"] = Descriptor{"type": "string"}

	assert.Equal(t, []string{"a", "b"}, flat.Keys())
}

func TestSchemaUnmarshal_IgnoresOtherMembers(t *testing.T) {
	flat := mustSchema(t, `{
		"type": "object",
		"title": "whatever",
		"properties": {"only": {"type": "string"}}
	}`)

	assert.Equal(t, []string{"only"}, flat.Keys())
}

func TestSchemaUnmarshal_RoundTrip(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {"a": {"type": "string", "format": "date", "x-custom": 3}},
		"required": ["a"]
	}`)

	// unknown descriptor keywords survive a decode/encode cycle
	raw, err := json.Marshal(flat)
	require.NoError(t, err)
	again := New()
	require.NoError(t, json.Unmarshal(raw, again))
	assert.Equal(t, flat.Properties, again.Properties)
	assert.Equal(t, flat.Required, again.Required)
}

func TestSchemaMarshal_KeepsComposedOrder(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {
			"mike": {"type": "string"},
			"alpha": {"type": "integer"},
			"zulu": {"type": "boolean"}
		}
	}`)
	groups := []Group{
		{Slug: "grp", Label: "Grp", Order: 0, Properties: []string{"zulu"}},
	}

	composed := ComposeSchema(flat, groups)
	require.Equal(t, []string{"grp", "mike", "alpha"}, composed.Keys())

	// serialization must keep the group sub-object first
	raw, err := json.Marshal(composed)
	require.NoError(t, err)
	again := New()
	require.NoError(t, json.Unmarshal(raw, again))
	assert.Equal(t, []string{"grp", "mike", "alpha"}, again.Keys())
}

func TestDescriptorHelpers(t *testing.T) {
	d := Descriptor{
		"type":   "array",
		"format": "data-url",
		"items":  map[string]any{"type": "object"},
	}

	assert.Equal(t, "array", d.Type())
	assert.Equal(t, "data-url", d.Format())
	assert.Equal(t, "object", d.ItemsType())

	empty := Descriptor{}
	assert.Equal(t, "", empty.Type())
	assert.Equal(t, "", empty.Format())
	assert.Equal(t, "", empty.ItemsType())
}

func TestKeySet(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}}}`)

	set := flat.KeySet()
	assert.True(t, set["a"])
	assert.False(t, set["b"])
	assert.Empty(t, (*Schema)(nil).KeySet())
}

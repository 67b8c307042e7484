package schema

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchema(t *testing.T, raw string) *Schema {
	t.Helper()
	s := New()
	require.NoError(t, json.Unmarshal([]byte(raw), s))
	return s
}

func TestComposeSchema_GroupsAndRequired(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "string"},
			"c": {"type": "string"}
		},
		"required": ["a", "b"]
	}`)
	groups := []Group{
		{Slug: "g1", Label: "G1", Order: 0, Properties: []string{"a", "b"}},
	}

	grouped := ComposeSchema(flat, groups)

	require.Contains(t, grouped.Properties, "g1")
	sub := grouped.Properties["g1"]
	assert.Equal(t, "object", sub["type"])
	assert.Equal(t, "G1", sub["title"])
	assert.Equal(t, []string{"a", "b"}, sub["required"])

	subProps, ok := sub["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, subProps, 2)
	assert.Contains(t, subProps, "a")
	assert.Contains(t, subProps, "b")

	// ungrouped key kept at top level, after the group
	require.Contains(t, grouped.Properties, "c")
	assert.Equal(t, []string{"g1", "c"}, grouped.Keys())

	// requiredness of grouped keys now lives inside the sub-object
	assert.Empty(t, grouped.Required)
}

func TestComposeSchema_NoGroupsIsIdentity(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		},
		"required": ["name"]
	}`)

	grouped := ComposeSchema(flat, nil)

	assert.Equal(t, flat.Keys(), grouped.Keys())
	assert.Equal(t, flat.Required, grouped.Required)
	for _, key := range flat.Keys() {
		assert.Equal(t, flat.Properties[key], grouped.Properties[key])
	}
}

func TestComposeSchema_DoesNotAliasInput(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {"a": {"type": "string", "enum": ["x", "y"]}},
		"required": ["a"]
	}`)
	groups := []Group{{Slug: "g1", Label: "G1", Properties: []string{"a"}}}

	grouped := ComposeSchema(flat, groups)
	sub := grouped.Properties["g1"]["properties"].(map[string]any)
	sub["a"].(map[string]any)["type"] = "mutated"

	assert.Equal(t, "string", flat.Properties["a"]["type"])
	assert.Equal(t, []string{"a"}, flat.Required)
}

func TestComposeSchema_Partition(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "string"},
			"c": {"type": "integer"},
			"d": {"type": "boolean"},
			"e": {"type": "number"}
		},
		"required": ["a", "c", "e"]
	}`)
	groups := []Group{
		{Slug: "first", Label: "First", Order: 0, Properties: []string{"c", "a"}},
		{Slug: "second", Label: "Second", Order: 1, Properties: []string{"d"}},
	}

	grouped := ComposeSchema(flat, groups)

	// every original key appears exactly once across groups and top level
	var keys []string
	var required []string
	for _, slug := range []string{"first", "second"} {
		sub := grouped.Properties[slug]
		for key := range sub["properties"].(map[string]any) {
			keys = append(keys, key)
		}
		required = append(required, sub["required"].([]string)...)
	}
	for _, key := range grouped.Keys() {
		if key != "first" && key != "second" {
			keys = append(keys, key)
		}
	}
	required = append(required, grouped.Required...)

	sort.Strings(keys)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, keys)

	sort.Strings(required)
	assert.Equal(t, []string{"a", "c", "e"}, required)
}

func TestComposeSchema_OverlapFirstGroupWins(t *testing.T) {
	flat := mustSchema(t, `{
		"properties": {
			"a": {"type": "string"},
			"b": {"type": "string"}
		}
	}`)
	groups := []Group{
		{Slug: "late", Label: "Late", Order: 5, Properties: []string{"a", "b"}},
		{Slug: "early", Label: "Early", Order: 1, Properties: []string{"a"}},
	}

	grouped := ComposeSchema(flat, groups)

	earlyProps := grouped.Properties["early"]["properties"].(map[string]any)
	lateProps := grouped.Properties["late"]["properties"].(map[string]any)
	assert.Contains(t, earlyProps, "a")
	assert.NotContains(t, lateProps, "a")
	assert.Contains(t, lateProps, "b")

	// groups placed by ascending order regardless of input slice order
	assert.Equal(t, []string{"early", "late"}, grouped.Keys())
}

func TestComposeSchema_SkipsKeysMissingFromSchema(t *testing.T) {
	flat := mustSchema(t, `{"properties": {"a": {"type": "string"}}}`)
	groups := []Group{{Slug: "g1", Label: "G1", Properties: []string{"a", "ghost"}}}

	grouped := ComposeSchema(flat, groups)

	subProps := grouped.Properties["g1"]["properties"].(map[string]any)
	assert.Contains(t, subProps, "a")
	assert.NotContains(t, subProps, "ghost")
}

func TestComposeSchema_MissingSchema(t *testing.T) {
	groups := []Group{{Slug: "g1", Label: "G1", Properties: []string{"a"}}}

	for _, flat := range []*Schema{nil, New()} {
		grouped := ComposeSchema(flat, groups)
		require.NotNil(t, grouped)
		assert.Empty(t, grouped.Properties)
		assert.Empty(t, grouped.Required)
	}
}

func TestComposeUISchema_GroupedHints(t *testing.T) {
	flat := UISchema{
		"a":      map[string]any{"ui:widget": "textarea"},
		"c":      map[string]any{"ui:field": "rte"},
		OrderKey: []any{"b", "a", "c"},
	}
	groups := []Group{
		{Slug: "g1", Label: "G1", Order: 0, Properties: []string{"a", "b"}},
	}

	grouped := ComposeUISchema(flat, groups)

	sub, ok := grouped["g1"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"ui:widget": "textarea"}, sub["a"])

	// grouped keys leave the top-level order, are re-ordered following the
	// group's own property order, and always end with the wildcard
	assert.Equal(t, []string{"a", "b", Wildcard}, sub[OrderKey])

	// top level lists group slugs before the wildcard
	assert.Equal(t, []string{"g1", Wildcard}, grouped[OrderKey])

	// hint of an ungrouped key is untouched
	assert.Equal(t, map[string]any{"ui:field": "rte"}, grouped["c"])

	// moved hints no longer exist at top level
	assert.NotContains(t, grouped, "a")
}

func TestComposeUISchema_GroupOrderAlwaysEndsWithWildcard(t *testing.T) {
	groups := []Group{
		{Slug: "empty", Label: "Empty", Order: 0, Properties: []string{"nope"}},
	}

	grouped := ComposeUISchema(UISchema{}, groups)

	sub := grouped["empty"].(map[string]any)
	assert.Equal(t, []string{Wildcard}, sub[OrderKey])
	assert.Equal(t, []string{"empty", Wildcard}, grouped[OrderKey])
}

func TestComposeUISchema_NoGroupsLeavesDocument(t *testing.T) {
	flat := UISchema{
		"a":      map[string]any{"ui:widget": "textarea"},
		OrderKey: []any{"a"},
	}

	grouped := ComposeUISchema(flat, nil)

	assert.Equal(t, map[string]any{"ui:widget": "textarea"}, grouped["a"])
	assert.Equal(t, []string{"a"}, grouped.Order())
}

func TestDuplicateClaims(t *testing.T) {
	groups := []Group{
		{Slug: "one", Label: "One", Order: 0, Properties: []string{"a", "b"}},
		{Slug: "two", Label: "Two", Order: 1, Properties: []string{"b", "c"}},
	}

	dups := DuplicateClaims(groups)

	require.Len(t, dups, 1)
	assert.Equal(t, []string{"one", "two"}, dups["b"])
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func availableKeys(keys ...string) map[string]bool {
	set := map[string]bool{}
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func TestValidateGroup(t *testing.T) {
	tests := []struct {
		name        string
		properties  []string
		available   map[string]bool
		wantMissing []string
	}{
		{"all known", []string{"a", "b"}, availableKeys("a", "b", "c"), nil},
		{"empty group", nil, availableKeys("a"), nil},
		{"one unknown", []string{"a", "ghost"}, availableKeys("a"), []string{"ghost"}},
		{"all unknown", []string{"x", "y"}, availableKeys("a"), []string{"x", "y"}},
		{"duplicate unknown reported once", []string{"x", "x"}, availableKeys("a"), []string{"x"}},
		{"empty schema", []string{"a"}, availableKeys(), []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroup(Group{Slug: "g", Label: "G", Properties: tt.properties}, tt.available)
			if tt.wantMissing == nil {
				assert.NoError(t, err)
				return
			}
			var unknown *UnknownPropertyError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tt.wantMissing, unknown.Keys)
		})
	}
}

func TestValidateRenderingRule(t *testing.T) {
	assert.NoError(t, ValidateRenderingRule("a", availableKeys("a")))

	err := ValidateRenderingRule("ghost", availableKeys("a"))
	var unknown *UnknownPropertyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"ghost"}, unknown.Keys)
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidateView(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		defaultList []string
		available   map[string]bool
		wantMissing []string
	}{
		{"all known", "a", []string{"a", "b"}, availableKeys("a", "b"), nil},
		{"no title configured", "", []string{"a"}, availableKeys("a"), nil},
		{"unknown title", "ghost", nil, availableKeys("a"), []string{"ghost"}},
		{"unknown list entry", "", []string{"a", "ghost"}, availableKeys("a"), []string{"ghost"}},
		{
			"all violations collected",
			"missing-title",
			[]string{"a", "gone", "also-gone"},
			availableKeys("a"),
			[]string{"missing-title", "gone", "also-gone"},
		},
		{
			"title repeated in list reported once",
			"ghost",
			[]string{"ghost"},
			availableKeys("a"),
			[]string{"ghost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateView(tt.title, tt.defaultList, tt.available)
			if tt.wantMissing == nil {
				assert.NoError(t, err)
				return
			}
			var unknown *UnknownPropertyError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tt.wantMissing, unknown.Keys)
		})
	}
}

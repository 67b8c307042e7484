package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsRegistered(t *testing.T) {
	choices := Choices()

	assert.Equal(t, []string{
		"array-object-table",
		"data-url-to-img",
		"date-format",
		"file-link",
	}, choices)

	for _, name := range choices {
		assert.True(t, Valid(name))
	}
	assert.False(t, Valid("does-not-exist"))
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(Renderer{Name: "date-format"})
	})
}

func TestDateFormatRenderer(t *testing.T) {
	r, ok := Get("date-format")
	require.True(t, ok)

	tests := []struct {
		name  string
		value any
		args  map[string]any
		want  string
	}{
		{"default layout", "2023-04-05", nil, "05/04/2023"},
		{"custom layout", "2023-04-05", map[string]any{"format": "2006"}, "2023"},
		{"unparseable kept", "not-a-date", nil, "not-a-date"},
		{"empty value", "", nil, ""},
		{"non string value", 42, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Render(tt.value, tt.args))
		})
	}
}

func TestDataURLImgRenderer(t *testing.T) {
	r, ok := Get("data-url-to-img")
	require.True(t, ok)

	got := r.Render("data:image/png;base64,AAAA", map[string]any{"alt": "picto"})
	assert.Equal(t, `<img src="data:image/png;base64,AAAA" alt="picto" />`, got)
	assert.Equal(t, "", r.Render(nil, nil))
}

func TestFileLinkRenderer(t *testing.T) {
	r, ok := Get("file-link")
	require.True(t, ok)

	got := r.Render("https://example.org/doc.pdf", map[string]any{"label": "Download"})
	assert.Equal(t, `<a href="https://example.org/doc.pdf">Download</a>`, got)

	// label falls back to the url itself
	got = r.Render("https://example.org/doc.pdf", nil)
	assert.Equal(t, `<a href="https://example.org/doc.pdf">https://example.org/doc.pdf</a>`, got)
}

func TestArrayObjectTableRenderer(t *testing.T) {
	r, ok := Get("array-object-table")
	require.True(t, ok)

	got := r.Render([]any{
		map[string]any{"name": "a", "count": 1},
		map[string]any{"name": "b"},
	}, nil)

	assert.Contains(t, got, "<th>count</th>")
	assert.Contains(t, got, "<th>name</th>")
	assert.Contains(t, got, "<td>a</td>")
	assert.Contains(t, got, "<td>1</td>")
	// sparse rows render empty cells instead of shifting columns
	assert.Contains(t, got, "<td></td>")

	assert.Equal(t, "", r.Render(nil, nil))
	assert.Equal(t, "", r.Render([]any{}, nil))
}

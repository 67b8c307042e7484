// Package widget holds the registry of property rendering widgets. Rendering
// rules reference widgets by identifier; the set of valid identifiers is
// whatever has been registered at process start. Adding a widget means
// registering a new entry here, not editing an enumeration.
package widget

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"
)

// Renderer turns a feature property value into display HTML.
// Args come from the rendering rule's opaque options.
type Renderer struct {
	Name        string
	Description string
	Render      func(value any, args map[string]any) string
}

var (
	mu       sync.RWMutex
	registry = map[string]Renderer{}
)

// Register adds a renderer under its name. Registering the same name twice
// is a programming error.
func Register(r Renderer) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[r.Name]; exists {
		panic(fmt.Sprintf("widget: duplicate renderer %q", r.Name))
	}
	registry[r.Name] = r
}

// Valid reports whether a widget identifier is registered.
func Valid(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[name]
	return ok
}

// Get returns the renderer registered under name.
func Get(name string) (Renderer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := registry[name]
	return r, ok
}

// Choices returns the registered identifiers, sorted. Used by the
// configuration API to expose the closed set of allowed widgets.
func Choices() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(Renderer{
		Name:        "data-url-to-img",
		Description: "Render a data-url property as an inline image",
		Render:      renderDataURLImg,
	})
	Register(Renderer{
		Name:        "file-link",
		Description: "Render a file property as a download link",
		Render:      renderFileLink,
	})
	Register(Renderer{
		Name:        "date-format",
		Description: "Reformat an ISO date value",
		Render:      renderDateFormat,
	})
	Register(Renderer{
		Name:        "array-object-table",
		Description: "Render an array of objects as an HTML table",
		Render:      renderArrayObjectTable,
	})
}

func renderDataURLImg(value any, args map[string]any) string {
	src, _ := value.(string)
	if src == "" {
		return ""
	}
	alt, _ := args["alt"].(string)
	return fmt.Sprintf(`<img src=%q alt=%q />`, src, alt)
}

func renderFileLink(value any, args map[string]any) string {
	url, _ := value.(string)
	if url == "" {
		return ""
	}
	label, _ := args["label"].(string)
	if label == "" {
		label = url
	}
	return fmt.Sprintf(`<a href=%q>%s</a>`, url, html.EscapeString(label))
}

func renderDateFormat(value any, args map[string]any) string {
	raw, _ := value.(string)
	if raw == "" {
		return ""
	}
	layout, _ := args["format"].(string)
	if layout == "" {
		layout = "02/01/2006"
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		// leave unparseable values as-is rather than hiding data
		return html.EscapeString(raw)
	}
	return parsed.Format(layout)
}

func renderArrayObjectTable(value any, args map[string]any) string {
	rows, _ := value.([]any)
	if len(rows) == 0 {
		return ""
	}

	// collect column names over all rows so sparse objects still line up
	colSet := map[string]bool{}
	var cols []string
	for _, row := range rows {
		obj, _ := row.(map[string]any)
		for col := range obj {
			if !colSet[col] {
				colSet[col] = true
				cols = append(cols, col)
			}
		}
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, col := range cols {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(col))
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		obj, _ := row.(map[string]any)
		b.WriteString("<tr>")
		for _, col := range cols {
			cell := ""
			if v, ok := obj[col]; ok && v != nil {
				cell = html.EscapeString(fmt.Sprintf("%v", v))
			}
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

package schema

// DefaultListSize is how many eligible properties a view shows in its
// feature datatable when no explicit selection is configured.
const DefaultListSize = 8

// ListEligibleProperties returns the property keys usable as datatable
// columns, in schema order. Excluded: data-url formatted fields (file
// uploads), arrays of objects, and textarea / rich-text-editor fields.
// Purely a read-time derivation, never persisted.
func ListEligibleProperties(flat *Schema, ui UISchema) []string {
	var eligible []string
	for _, key := range flat.Keys() {
		desc := flat.Properties[key]
		if desc.Format() == "data-url" {
			continue
		}
		if desc.Type() == "array" && desc.ItemsType() == "object" {
			continue
		}
		if ui.Widget(key) == "textarea" || ui.Field(key) == "rte" {
			continue
		}
		eligible = append(eligible, key)
	}
	return eligible
}

// DefaultListProperties returns the configured datatable columns, falling
// back to the first DefaultListSize eligible keys in schema order.
func DefaultListProperties(configured []string, flat *Schema, ui UISchema) []string {
	if len(configured) > 0 {
		return configured
	}
	eligible := ListEligibleProperties(flat, ui)
	if len(eligible) > DefaultListSize {
		eligible = eligible[:DefaultListSize]
	}
	return eligible
}

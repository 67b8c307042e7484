package schema

import "sort"

// SanitizeOptions selects which maintenance passes Sanitize applies.
// Schema drift and sparse data are distinct concerns; they can be toggled
// independently.
type SanitizeOptions struct {
	// DropUnknown removes keys no longer present in the layer schema.
	DropUnknown bool
	// DropNull removes keys holding a null value.
	DropNull bool
}

// StaleKeys returns the keys of props that are not in the schema's property
// key set, sorted. A schema with no properties yields no stale keys: an
// empty or missing schema must never cause data loss.
func StaleKeys(props map[string]any, flat *Schema) []string {
	if flat == nil || len(flat.Properties) == 0 {
		return nil
	}
	var stale []string
	for key := range props {
		if _, ok := flat.Properties[key]; !ok {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)
	return stale
}

// Sanitize prunes a feature's property map in place and reports whether it
// changed. Idempotent: a second run over the same map removes nothing.
func Sanitize(props map[string]any, flat *Schema, opts SanitizeOptions) bool {
	changed := false
	if opts.DropUnknown {
		for _, key := range StaleKeys(props, flat) {
			delete(props, key)
			changed = true
		}
	}
	if opts.DropNull {
		for key, value := range props {
			if value == nil {
				delete(props, key)
				changed = true
			}
		}
	}
	return changed
}

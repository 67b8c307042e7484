// Package schema implements the dynamic form schema engine: composition of
// grouped JSON schemas and UI schemas from a layer's flat property schema,
// reference validation for configuration writes, list-eligibility filtering
// and feature property sanitation.
//
// Everything in this package is pure computation over in-memory documents.
// Persistence and transport live in internal/service and internal/controller.
package schema

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Descriptor is a single property's JSON Schema fragment, kept as a raw map
// so unknown keywords round-trip unchanged.
type Descriptor map[string]any

// Type returns the descriptor's "type" keyword, or "".
func (d Descriptor) Type() string {
	s, _ := d["type"].(string)
	return s
}

// Format returns the descriptor's "format" keyword, or "".
func (d Descriptor) Format() string {
	s, _ := d["format"].(string)
	return s
}

// ItemsType returns the "type" of the descriptor's "items" sub-schema, or "".
func (d Descriptor) ItemsType() string {
	items, _ := d["items"].(map[string]any)
	s, _ := items["type"].(string)
	return s
}

// Schema is a layer's flat property schema: property key to descriptor,
// plus the list of required keys.
type Schema struct {
	Properties map[string]Descriptor `json:"properties"`
	Required   []string              `json:"required,omitempty"`

	// propertyOrder keeps the key order of the "properties" object as it
	// appeared in the source JSON. Empty for schemas built in code.
	propertyOrder []string
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{Properties: map[string]Descriptor{}}
}

// Keys returns the property keys in document order when the schema was
// decoded from JSON, otherwise sorted. The result is stable across calls.
func (s *Schema) Keys() []string {
	if s == nil {
		return nil
	}
	if len(s.propertyOrder) > 0 {
		keys := make([]string, 0, len(s.propertyOrder))
		for _, k := range s.propertyOrder {
			if _, ok := s.Properties[k]; ok {
				keys = append(keys, k)
			}
		}
		return keys
	}
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeySet returns the property keys as a membership set. Validators always
// derive this fresh from the current schema, never from a cache.
func (s *Schema) KeySet() map[string]bool {
	set := map[string]bool{}
	if s == nil {
		return set
	}
	for k := range s.Properties {
		set[k] = true
	}
	return set
}

// IsRequired reports whether key is in the schema's required list.
func (s *Schema) IsRequired(key string) bool {
	if s == nil {
		return false
	}
	for _, k := range s.Required {
		if k == key {
			return true
		}
	}
	return false
}

// SetPropertyOrder overrides the key order reported by Keys.
// The composer uses it to place groups before ungrouped properties.
func (s *Schema) SetPropertyOrder(keys []string) {
	s.propertyOrder = append([]string(nil), keys...)
}

// MarshalJSON encodes the schema with the "properties" members in the order
// reported by Keys. Composed documents keep their group sub-objects ahead of
// ungrouped properties; plain map marshalling would re-sort them.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"properties":{`)
	for i, key := range s.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.Properties[key])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	if len(s.Required) > 0 {
		required, err := json.Marshal(s.Required)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"required":`)
		buf.Write(required)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the schema and records the key order of the
// "properties" object by re-scanning the raw tokens.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type plain Schema
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Schema(p)
	if s.Properties == nil {
		s.Properties = map[string]Descriptor{}
	}
	order, err := propertyKeyOrder(data)
	if err != nil {
		return err
	}
	s.propertyOrder = order
	return nil
}

// propertyKeyOrder scans raw JSON for the top-level "properties" object and
// returns its member keys in document order.
func propertyKeyOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != "properties" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		open, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := open.(json.Delim); !ok || delim != '{' {
			return nil, nil
		}
		var keys []string
		for dec.More() {
			propTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, _ := propTok.(string)
			keys = append(keys, name)
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		return keys, nil
	}
	return nil, nil
}

// UISchema is a react-jsonschema-form style ui:schema document: property key
// to hint object, plus the reserved "ui:order" member.
type UISchema map[string]any

// OrderKey is the reserved ordering member of a ui:schema document.
const OrderKey = "ui:order"

// Wildcard is the ordering token meaning "all remaining fields, default order".
const Wildcard = "*"

// Order returns the document's ui:order list normalized to strings.
func (u UISchema) Order() []string {
	return stringList(u[OrderKey])
}

// Widget returns the ui:widget hint configured for key, or "".
func (u UISchema) Widget(key string) string {
	hint, _ := u[key].(map[string]any)
	s, _ := hint["ui:widget"].(string)
	return s
}

// Field returns the ui:field hint configured for key, or "".
func (u UISchema) Field(key string) string {
	hint, _ := u[key].(map[string]any)
	s, _ := hint["ui:field"].(string)
	return s
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Group is the composer's view of a property display group: an ordered,
// labelled subset of a schema's property keys.
type Group struct {
	Slug       string
	Label      string
	Order      int
	Properties []string
}

// sortGroups returns groups sorted by ascending (Order, Label), matching the
// registry's display ordering. The input slice is not modified.
func sortGroups(groups []Group) []Group {
	sorted := append([]Group(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].Label < sorted[j].Label
	})
	return sorted
}

// deepCopy clones a decoded JSON value (maps, slices, scalars).
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case Descriptor:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}

// copyDescriptor clones a descriptor so composed documents never alias the
// source schema.
func copyDescriptor(d Descriptor) Descriptor {
	return Descriptor(deepCopy(d).(map[string]any))
}

package schema

import (
	"fmt"
	"strings"
)

// UnknownPropertyError reports configuration referencing property keys that
// do not exist in the layer schema. Keys are kept verbatim, in the order they
// were encountered, so a UI can show every violation at once.
type UnknownPropertyError struct {
	Keys []string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown schema properties: %s", strings.Join(e.Keys, ", "))
}

// ValidateGroup checks that every property of a display group exists in the
// layer schema. Called before a group create or update is committed; the key
// set must be derived fresh from the current schema.
func ValidateGroup(group Group, available map[string]bool) error {
	var missing []string
	seen := map[string]bool{}
	for _, key := range group.Properties {
		if !available[key] && !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &UnknownPropertyError{Keys: missing}
	}
	return nil
}

// ValidateRenderingRule checks that a rendering rule's property exists in the
// layer schema.
func ValidateRenderingRule(property string, available map[string]bool) error {
	if !available[property] {
		return &UnknownPropertyError{Keys: []string{property}}
	}
	return nil
}

// ValidateView checks a view's title property and default list properties
// against the layer schema. All violations are collected into one error.
func ValidateView(titleProperty string, defaultListProperties []string, available map[string]bool) error {
	var missing []string
	seen := map[string]bool{}
	if titleProperty != "" && !available[titleProperty] {
		seen[titleProperty] = true
		missing = append(missing, titleProperty)
	}
	for _, key := range defaultListProperties {
		if !available[key] && !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &UnknownPropertyError{Keys: missing}
	}
	return nil
}

package schema

// ComposeSchema regroups a flat layer schema according to the view's property
// display groups. Each group becomes a synthetic object property keyed by the
// group slug, holding the group's properties in group order; keys claimed by
// a group are removed from the top-level required list and re-expressed
// inside the sub-object. Ungrouped keys keep their original descriptor at top
// level, after all groups.
//
// The result never aliases the input and the function is deterministic:
// callers may cache per (schema revision, group revision).
func ComposeSchema(flat *Schema, groups []Group) *Schema {
	out := New()
	if flat == nil || len(flat.Properties) == 0 {
		return out
	}

	claimed := map[string]bool{}
	order := make([]string, 0, len(groups)+len(flat.Properties))

	for _, group := range sortGroups(groups) {
		sub := Descriptor{
			"type":  "object",
			"title": group.Label,
		}
		subProps := map[string]any{}
		subRequired := []string{}
		for _, key := range group.Properties {
			desc, ok := flat.Properties[key]
			if !ok || claimed[key] {
				// absent from the schema (store edited out-of-band) or
				// already claimed by an earlier group: first group wins
				continue
			}
			claimed[key] = true
			subProps[key] = map[string]any(copyDescriptor(desc))
			if flat.IsRequired(key) {
				subRequired = append(subRequired, key)
			}
		}
		sub["properties"] = subProps
		sub["required"] = subRequired
		out.Properties[group.Slug] = sub
		order = append(order, group.Slug)
	}

	for _, key := range flat.Keys() {
		if claimed[key] {
			continue
		}
		out.Properties[key] = copyDescriptor(flat.Properties[key])
		order = append(order, key)
	}

	remaining := []string{}
	for _, key := range flat.Required {
		if !claimed[key] {
			remaining = append(remaining, key)
		}
	}
	out.Required = remaining
	out.SetPropertyOrder(order)
	return out
}

// ComposeUISchema regroups a flat ui:schema the same way ComposeSchema
// regroups the layer schema. Per-property hints move under their group's
// slug; each group gets a ui:order listing its explicitly ordered members
// followed by the wildcard, and when at least one group exists the top-level
// ui:order becomes the group slugs followed by the wildcard. Hints for
// ungrouped properties are left untouched.
func ComposeUISchema(flat UISchema, groups []Group) UISchema {
	out := UISchema{}
	for k, v := range flat {
		out[k] = deepCopy(v)
	}

	sorted := sortGroups(groups)
	topOrder := out.Order()

	for _, group := range sorted {
		groupHints := map[string]any{}
		groupOrder := []string{}

		for _, key := range group.Properties {
			if hint, ok := out[key]; ok && key != OrderKey {
				groupHints[key] = hint
				delete(out, key)
			}
			if idx := indexOf(topOrder, key); idx >= 0 {
				topOrder = append(topOrder[:idx], topOrder[idx+1:]...)
				groupOrder = append(groupOrder, key)
			}
		}

		// wildcard in all cases, so later-added properties still render
		groupHints[OrderKey] = append(groupOrder, Wildcard)
		out[group.Slug] = groupHints
	}

	if len(sorted) > 0 {
		slugs := make([]string, 0, len(sorted)+1)
		for _, group := range sorted {
			slugs = append(slugs, group.Slug)
		}
		out[OrderKey] = append(slugs, Wildcard)
	} else if _, ok := out[OrderKey]; ok {
		out[OrderKey] = topOrder
	}
	return out
}

// DuplicateClaims returns the property keys claimed by more than one group,
// mapped to the slugs of every claimant in display order. The composer keeps
// the first claimant; hosts should surface the rest as warnings.
func DuplicateClaims(groups []Group) map[string][]string {
	claimants := map[string][]string{}
	for _, group := range sortGroups(groups) {
		for _, key := range group.Properties {
			claimants[key] = append(claimants[key], group.Slug)
		}
	}
	dups := map[string][]string{}
	for key, slugs := range claimants {
		if len(slugs) > 1 {
			dups[key] = slugs
		}
	}
	return dups
}

func indexOf(list []string, s string) int {
	for i, item := range list {
		if item == s {
			return i
		}
	}
	return -1
}

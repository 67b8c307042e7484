package model

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/pkg/schema"
)

// CrudView configures how one layer's features are displayed and edited:
// form grouping, UI hints, datatable columns, feature title. Exactly one
// view per layer.
type CrudView struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Order       int    `json:"order" gorm:"index;default:0"`
	MenuGroupID *uint  `json:"menu_group_id" gorm:"index"`
	LayerID     uint   `json:"layer_id" gorm:"uniqueIndex;not null"`
	Pictogram   string `json:"pictogram"`

	MapStyle datatypes.JSON `json:"map_style"`
	UISchema datatypes.JSON `json:"ui_schema"`
	Settings datatypes.JSON `json:"settings"`

	DefaultListProperties datatypes.JSONSlice[string] `json:"default_list_properties"`
	FeatureTitleProperty  string                      `json:"feature_title_property"`
	Visible               bool                        `json:"visible" gorm:"index;default:true"`

	MenuGroup      *MenuGroup      `json:"-" gorm:"foreignKey:MenuGroupID"`
	Layer          Layer           `json:"-" gorm:"foreignKey:LayerID"`
	PropertyGroups []PropertyGroup `json:"-" gorm:"foreignKey:CrudViewID;constraint:OnDelete:CASCADE"`
	RenderingRules []RenderingRule `json:"-" gorm:"foreignKey:CrudViewID;constraint:OnDelete:CASCADE"`
}

// UISchemaDocument decodes the view's flat ui:schema column.
func (v *CrudView) UISchemaDocument() (schema.UISchema, error) {
	ui := schema.UISchema{}
	if len(v.UISchema) == 0 {
		return ui, nil
	}
	if err := json.Unmarshal(v.UISchema, &ui); err != nil {
		return nil, err
	}
	return ui, nil
}

// SchemaGroups maps the view's property groups (must be preloaded) to the
// composer's representation, in display order.
func (v *CrudView) SchemaGroups() []schema.Group {
	groups := make([]schema.Group, 0, len(v.PropertyGroups))
	for _, pg := range v.PropertyGroups {
		groups = append(groups, pg.SchemaGroup())
	}
	return groups
}

// GroupedSchema recomputes the grouped form schema from the live layer
// schema and property groups. Never persisted; stale caches are impossible.
func (v *CrudView) GroupedSchema() (*schema.Schema, error) {
	flat, err := v.Layer.SchemaDocument()
	if err != nil {
		return nil, err
	}
	return schema.ComposeSchema(flat, v.SchemaGroups()), nil
}

// GroupedUISchema recomputes the grouped ui:schema the same way.
func (v *CrudView) GroupedUISchema() (schema.UISchema, error) {
	ui, err := v.UISchemaDocument()
	if err != nil {
		return nil, err
	}
	return schema.ComposeUISchema(ui, v.SchemaGroups()), nil
}

// ListAvailableProperties returns the layer's datatable-eligible keys.
func (v *CrudView) ListAvailableProperties() ([]string, error) {
	flat, err := v.Layer.SchemaDocument()
	if err != nil {
		return nil, err
	}
	ui, err := v.UISchemaDocument()
	if err != nil {
		return nil, err
	}
	return schema.ListEligibleProperties(flat, ui), nil
}

// DefaultListOrFallback returns the configured datatable columns or the
// first eligible keys when none are configured.
func (v *CrudView) DefaultListOrFallback() ([]string, error) {
	flat, err := v.Layer.SchemaDocument()
	if err != nil {
		return nil, err
	}
	ui, err := v.UISchemaDocument()
	if err != nil {
		return nil, err
	}
	return schema.DefaultListProperties(v.DefaultListProperties, flat, ui), nil
}

// FeatureTitle resolves the feature's display title through the view's
// title property, falling back to the feature identifier.
func (v *CrudView) FeatureTitle(f *Feature) string {
	if v.FeatureTitleProperty == "" {
		return f.Identifier
	}
	props, err := f.PropertyMap()
	if err != nil {
		return f.Identifier
	}
	if title, ok := props[v.FeatureTitleProperty].(string); ok && title != "" {
		return title
	}
	return f.Identifier
}

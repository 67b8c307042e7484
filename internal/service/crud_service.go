// Package service wires the pure schema engine to the database: loading
// views with their layer and groups, recomputing derived documents, syncing
// schemas and cleaning feature properties.
package service

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/schema"
)

// GetView loads a view with its layer and ordered property groups. Groups
// are always read fresh so derived documents can never go stale.
func GetView(viewID uint) (*model.CrudView, error) {
	var view model.CrudView
	err := database.GetDB().
		Preload("Layer").
		Preload("PropertyGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_groups.order ASC, property_groups.label ASC")
		}).
		First(&view, viewID).Error
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetGroupedSchema recomputes the grouped form schema for a view.
func GetGroupedSchema(viewID uint) (*schema.Schema, error) {
	view, err := GetView(viewID)
	if err != nil {
		return nil, err
	}
	return view.GroupedSchema()
}

// GetGroupedUISchema recomputes the grouped ui:schema for a view.
func GetGroupedUISchema(viewID uint) (schema.UISchema, error) {
	view, err := GetView(viewID)
	if err != nil {
		return nil, err
	}
	return view.GroupedUISchema()
}

// GetListProperties returns the view's datatable-eligible property keys.
func GetListProperties(viewID uint) ([]string, error) {
	view, err := GetView(viewID)
	if err != nil {
		return nil, err
	}
	return view.ListAvailableProperties()
}

// GetDefaultListProperties returns the view's configured datatable columns,
// or the eligible fallback.
func GetDefaultListProperties(viewID uint) ([]string, error) {
	view, err := GetView(viewID)
	if err != nil {
		return nil, err
	}
	return view.DefaultListOrFallback()
}

// AvailableKeys derives the membership set of a view's layer schema, fresh
// from the database. Every configuration write validates against this.
func AvailableKeys(viewID uint) (map[string]bool, error) {
	var view model.CrudView
	if err := database.GetDB().Preload("Layer").First(&view, viewID).Error; err != nil {
		return nil, err
	}
	flat, err := view.Layer.SchemaDocument()
	if err != nil {
		return nil, err
	}
	return flat.KeySet(), nil
}

// SyncLayerSchema replaces a layer's flat schema with the given property
// descriptors and required keys.
func SyncLayerSchema(layerID uint, properties map[string]schema.Descriptor, required []string) error {
	doc := schema.Schema{Required: required}
	doc.Properties = properties
	encoded, err := json.Marshal(&doc)
	if err != nil {
		return err
	}
	return database.GetDB().Model(&model.Layer{}).
		Where("id = ?", layerID).
		Update("schema", encoded).Error
}

// SyncUISchema replaces a view's flat ui:schema, dropping empty hints.
func SyncUISchema(viewID uint, hints schema.UISchema) error {
	cleaned := schema.UISchema{}
	for key, hint := range hints {
		if m, ok := hint.(map[string]any); ok && len(m) == 0 {
			continue
		}
		cleaned[key] = hint
	}
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return err
	}
	return database.GetDB().Model(&model.CrudView{}).
		Where("id = ?", viewID).
		Update("ui_schema", encoded).Error
}

package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/pkg/schema"
)

// Geometry Types
type GeometryType string

const (
	GeometryPoint           GeometryType = "Point"
	GeometryLineString      GeometryType = "LineString"
	GeometryPolygon         GeometryType = "Polygon"
	GeometryMultiPoint      GeometryType = "MultiPoint"
	GeometryMultiLineString GeometryType = "MultiLineString"
	GeometryMultiPolygon    GeometryType = "MultiPolygon"
)

// Layer owns the geospatial features and the flat property schema that is
// the source of truth for every view built on top of it.
type Layer struct {
	gorm.Model
	Name     string         `json:"name" gorm:"uniqueIndex;not null"`
	GeomType GeometryType   `json:"geom_type" gorm:"not null"`
	Schema   datatypes.JSON `json:"schema"`

	Features []Feature `json:"-" gorm:"foreignKey:LayerID;constraint:OnDelete:CASCADE"`
}

// SchemaDocument decodes the layer's flat property schema. A layer without a
// schema yields an empty document, never nil.
func (l *Layer) SchemaDocument() (*schema.Schema, error) {
	if len(l.Schema) == 0 {
		return schema.New(), nil
	}
	doc := schema.New()
	if err := json.Unmarshal(l.Schema, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Feature is a single row of a layer: a GeoJSON geometry plus a flat
// property map validated against the layer schema keys.
type Feature struct {
	gorm.Model
	LayerID    uint           `json:"layer_id" gorm:"index;not null"`
	Identifier string         `json:"identifier" gorm:"uniqueIndex;not null"`
	Geom       datatypes.JSON `json:"geom"`
	Properties datatypes.JSON `json:"properties"`

	Layer       Layer               `json:"-" gorm:"foreignKey:LayerID"`
	Attachments []FeatureAttachment `json:"-" gorm:"foreignKey:FeatureID;constraint:OnDelete:CASCADE"`
	Pictures    []FeaturePicture    `json:"-" gorm:"foreignKey:FeatureID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a stable external identifier.
func (f *Feature) BeforeCreate(tx *gorm.DB) error {
	if f.Identifier == "" {
		f.Identifier = uuid.NewString()
	}
	return nil
}

// PropertyMap decodes the feature's property column.
func (f *Feature) PropertyMap() (map[string]any, error) {
	props := map[string]any{}
	if len(f.Properties) == 0 {
		return props, nil
	}
	if err := json.Unmarshal(f.Properties, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// SetPropertyMap encodes props back into the property column.
func (f *Feature) SetPropertyMap(props map[string]any) error {
	encoded, err := json.Marshal(props)
	if err != nil {
		return err
	}
	f.Properties = encoded
	return nil
}

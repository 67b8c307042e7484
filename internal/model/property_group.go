package model

import (
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/pkg/schema"
)

// PropertyGroup is an ordered, labelled subset of a view's property keys,
// used purely for display grouping in forms and feature details.
type PropertyGroup struct {
	gorm.Model
	CrudViewID uint   `json:"crud_view_id" gorm:"uniqueIndex:idx_view_group_label;uniqueIndex:idx_view_group_slug;not null"`
	Order      int    `json:"order" gorm:"index;default:0"`
	Label      string `json:"label" gorm:"uniqueIndex:idx_view_group_label;not null"`
	Slug       string `json:"slug" gorm:"uniqueIndex:idx_view_group_slug"`
	Pictogram  string `json:"pictogram"`

	Properties datatypes.JSONSlice[string] `json:"properties"`

	CrudView CrudView `json:"-" gorm:"foreignKey:CrudViewID"`
}

// BeforeSave recomputes the slug from the label on every save.
func (g *PropertyGroup) BeforeSave(tx *gorm.DB) error {
	g.Slug = slug.Make(g.Label)
	return nil
}

// SchemaGroup maps the group to the composer's representation.
func (g *PropertyGroup) SchemaGroup() schema.Group {
	return schema.Group{
		Slug:       g.Slug,
		Label:      g.Label,
		Order:      g.Order,
		Properties: g.Properties,
	}
}

package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RenderingRule overrides how one property of a view is rendered in feature
// details, referencing a widget from the registry with opaque options.
type RenderingRule struct {
	gorm.Model
	CrudViewID uint           `json:"crud_view_id" gorm:"uniqueIndex:idx_view_rule_property;not null"`
	Property   string         `json:"property" gorm:"uniqueIndex:idx_view_rule_property;not null"`
	Widget     string         `json:"widget" gorm:"not null"`
	Args       datatypes.JSON `json:"args"`

	CrudView CrudView `json:"-" gorm:"foreignKey:CrudViewID"`
}

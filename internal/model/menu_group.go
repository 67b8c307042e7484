package model

import "gorm.io/gorm"

// MenuGroup groups views together in the left navigation menu.
type MenuGroup struct {
	gorm.Model
	Name      string `json:"name" gorm:"uniqueIndex;not null"`
	Order     int    `json:"order" gorm:"index;default:0"`
	Pictogram string `json:"pictogram"`

	CrudViews []CrudView `json:"crud_views" gorm:"foreignKey:MenuGroupID;constraint:OnDelete:SET NULL"`
}

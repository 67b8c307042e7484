package model

import "gorm.io/gorm"

// User is an operator account able to edit CRUD configuration.
type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin" gorm:"default:false"`
}

// PublicProfile returns the fields safe to expose on /me.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"email":    u.Email,
		"name":     u.Name,
		"is_admin": u.IsAdmin,
	}
}

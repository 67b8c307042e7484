package model

import "gorm.io/gorm"

// AttachmentCategory classifies feature attachments and pictures.
type AttachmentCategory struct {
	gorm.Model
	Name      string `json:"name" gorm:"uniqueIndex;not null"`
	Pictogram string `json:"pictogram"`
}

// FeatureAttachment is an arbitrary file attached to a feature.
type FeatureAttachment struct {
	gorm.Model
	FeatureID  uint   `json:"feature_id" gorm:"index;not null"`
	CategoryID uint   `json:"category_id" gorm:"not null"`
	Legend     string `json:"legend" gorm:"not null"`
	FileURL    string `json:"file_url" gorm:"not null"`

	Feature  Feature            `json:"-" gorm:"foreignKey:FeatureID"`
	Category AttachmentCategory `json:"category" gorm:"foreignKey:CategoryID"`
}

// FeaturePicture is an image attached to a feature, with a generated
// thumbnail for list display.
type FeaturePicture struct {
	gorm.Model
	FeatureID    uint   `json:"feature_id" gorm:"index;not null"`
	CategoryID   uint   `json:"category_id" gorm:"not null"`
	Legend       string `json:"legend" gorm:"not null"`
	ImageURL     string `json:"image_url" gorm:"not null"`
	ThumbnailURL string `json:"thumbnail_url"`

	Feature  Feature            `json:"-" gorm:"foreignKey:FeatureID"`
	Category AttachmentCategory `json:"category" gorm:"foreignKey:CategoryID"`
}

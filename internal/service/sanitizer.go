package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/schema"
)

const sanitizeBatchSize = 500

// CleanFeatureProperties prunes stored feature properties of a layer
// according to opts and returns how many features were mutated. Features are
// processed independently in batches; only changed features are saved, so a
// second run is a no-op.
func CleanFeatureProperties(layerID uint, opts schema.SanitizeOptions) (int64, error) {
	var layer model.Layer
	if err := database.GetDB().First(&layer, layerID).Error; err != nil {
		return 0, err
	}
	flat, err := layer.SchemaDocument()
	if err != nil {
		return 0, fmt.Errorf("layer %d: invalid schema: %w", layerID, err)
	}

	var mutated int64
	var features []model.Feature
	err = database.GetDB().
		Where("layer_id = ?", layerID).
		FindInBatches(&features, sanitizeBatchSize, func(tx *gorm.DB, batch int) error {
			for i := range features {
				props, err := features[i].PropertyMap()
				if err != nil {
					return fmt.Errorf("feature %s: invalid properties: %w", features[i].Identifier, err)
				}
				if !schema.Sanitize(props, flat, opts) {
					continue
				}
				if err := features[i].SetPropertyMap(props); err != nil {
					return err
				}
				if err := tx.Save(&features[i]).Error; err != nil {
					return err
				}
				mutated++
			}
			return nil
		}).Error
	if err != nil {
		return mutated, err
	}
	return mutated, nil
}

// CleanAllLayers runs the sanitizer over every layer and returns the total
// number of mutated features.
func CleanAllLayers(opts schema.SanitizeOptions) (int64, error) {
	var layerIDs []uint
	if err := database.GetDB().Model(&model.Layer{}).Pluck("id", &layerIDs).Error; err != nil {
		return 0, err
	}
	var total int64
	for _, id := range layerIDs {
		count, err := CleanFeatureProperties(id, opts)
		total += count
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

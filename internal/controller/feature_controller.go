package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/widget"
)

type FeatureInput struct {
	Geom       json.RawMessage `json:"geom"`
	Properties json.RawMessage `json:"properties"`
}

// ListFeatures returns a layer's features with the columns configured (or
// derived) for the datatable.
func ListFeatures(c *fiber.Ctx) error {
	layerID, err := paramID(c, "layer_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid layer id",
		})
	}

	var view model.CrudView
	if err := database.GetDB().Preload("Layer").
		Where("layer_id = ?", layerID).First(&view).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found for layer",
		})
	}

	columns, err := view.DefaultListOrFallback()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not compute list columns",
		})
	}

	var features []model.Feature
	if err := database.GetDB().
		Where("layer_id = ?", layerID).
		Order("created_at desc").
		Find(&features).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch features",
		})
	}

	rows := make([]fiber.Map, 0, len(features))
	for i := range features {
		props, err := features[i].PropertyMap()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not read feature properties",
			})
		}
		cells := map[string]any{}
		for _, key := range columns {
			cells[key] = props[key]
		}
		rows = append(rows, fiber.Map{
			"id":         features[i].ID,
			"identifier": features[i].Identifier,
			"title":      view.FeatureTitle(&features[i]),
			"geom":       features[i].Geom,
			"properties": cells,
		})
	}

	return c.JSON(fiber.Map{
		"columns":  columns,
		"features": rows,
	})
}

// GetFeatureDetail returns a feature with its properties organized by the
// view's display groups and rendered through the configured widgets.
func GetFeatureDetail(c *fiber.Ctx) error {
	layerID, err := paramID(c, "layer_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid layer id",
		})
	}
	identifier := c.Params("identifier")

	var view model.CrudView
	if err := database.GetDB().
		Preload("Layer").
		Preload("PropertyGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("property_groups.order ASC, property_groups.label ASC")
		}).
		Preload("RenderingRules").
		Where("layer_id = ?", layerID).First(&view).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found for layer",
		})
	}

	var feature model.Feature
	if err := database.GetDB().
		Where("layer_id = ? AND identifier = ?", layerID, identifier).
		First(&feature).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feature not found",
		})
	}

	props, err := feature.PropertyMap()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read feature properties",
		})
	}

	display, err := displayProperties(&view, props)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not build display properties",
		})
	}

	return c.JSON(fiber.Map{
		"id":                 feature.ID,
		"identifier":         feature.Identifier,
		"title":              view.FeatureTitle(&feature),
		"geom":               feature.Geom,
		"properties":         props,
		"display_properties": display,
	})
}

// displayProperties partitions a feature's property values by the view's
// display groups, group order first, then an unlabelled bucket for the rest.
// Values with a rendering rule are replaced by the widget's HTML output.
func displayProperties(view *model.CrudView, props map[string]any) ([]fiber.Map, error) {
	rules := map[string]model.RenderingRule{}
	for _, rule := range view.RenderingRules {
		rules[rule.Property] = rule
	}

	renderValue := func(key string) any {
		value := props[key]
		rule, ok := rules[key]
		if !ok {
			return value
		}
		renderer, ok := widget.Get(rule.Widget)
		if !ok {
			return value
		}
		args := map[string]any{}
		if len(rule.Args) > 0 {
			if err := json.Unmarshal(rule.Args, &args); err != nil {
				return value
			}
		}
		return renderer.Render(value, args)
	}

	claimed := map[string]bool{}
	sections := []fiber.Map{}
	for _, group := range view.PropertyGroups {
		values := map[string]any{}
		for _, key := range group.Properties {
			if claimed[key] {
				continue
			}
			if _, ok := props[key]; !ok {
				continue
			}
			claimed[key] = true
			values[key] = renderValue(key)
		}
		sections = append(sections, fiber.Map{
			"title":      group.Label,
			"slug":       group.Slug,
			"order":      group.Order,
			"pictogram":  group.Pictogram,
			"properties": values,
		})
	}

	flat, err := view.Layer.SchemaDocument()
	if err != nil {
		return nil, err
	}
	rest := map[string]any{}
	for _, key := range flat.Keys() {
		if claimed[key] {
			continue
		}
		if _, ok := props[key]; !ok {
			continue
		}
		rest[key] = renderValue(key)
	}
	if len(rest) > 0 {
		sections = append(sections, fiber.Map{
			"title":      "",
			"slug":       "",
			"order":      len(sections),
			"pictogram":  "",
			"properties": rest,
		})
	}

	return sections, nil
}

func CreateFeature(c *fiber.Ctx) error {
	layerID, err := paramID(c, "layer_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid layer id",
		})
	}

	input := new(FeatureInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var layer model.Layer
	if err := database.GetDB().First(&layer, layerID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Layer not found",
		})
	}

	feature := model.Feature{
		LayerID:    layer.ID,
		Geom:       []byte(input.Geom),
		Properties: []byte(input.Properties),
	}

	if err := database.GetDB().Create(&feature).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create feature",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(feature)
}

func UpdateFeature(c *fiber.Ctx) error {
	layerID, err := paramID(c, "layer_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid layer id",
		})
	}
	identifier := c.Params("identifier")

	input := new(FeatureInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var feature model.Feature
	if err := database.GetDB().
		Where("layer_id = ? AND identifier = ?", layerID, identifier).
		First(&feature).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feature not found",
		})
	}

	feature.Geom = []byte(input.Geom)
	feature.Properties = []byte(input.Properties)

	if err := database.GetDB().Save(&feature).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update feature",
		})
	}

	return c.JSON(feature)
}

func DeleteFeature(c *fiber.Ctx) error {
	layerID, err := paramID(c, "layer_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid layer id",
		})
	}
	identifier := c.Params("identifier")

	var feature model.Feature
	if err := database.GetDB().
		Where("layer_id = ? AND identifier = ?", layerID, identifier).
		First(&feature).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feature not found",
		})
	}

	if err := database.GetDB().Delete(&feature).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete feature",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/internal/service"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/schema"
)

type LayerInput struct {
	Name     string             `json:"name" validate:"required"`
	GeomType model.GeometryType `json:"geom_type" validate:"required"`
	Schema   json.RawMessage    `json:"schema"`
}

type CleanPropertiesInput struct {
	DropUnknown bool `json:"drop_unknown"`
	DropNull    bool `json:"drop_null"`
}

func ListLayers(c *fiber.Ctx) error {
	var layers []model.Layer
	if err := database.GetDB().Order("layers.name ASC").Find(&layers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch layers",
		})
	}
	return c.JSON(layers)
}

func GetLayer(c *fiber.Ctx) error {
	id := c.Params("id")

	var layer model.Layer
	if err := database.GetDB().First(&layer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Layer not found",
		})
	}
	return c.JSON(layer)
}

func CreateLayer(c *fiber.Ctx) error {
	input := new(LayerInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	layer := model.Layer{
		Name:     input.Name,
		GeomType: input.GeomType,
		Schema:   []byte(input.Schema),
	}

	if _, err := layer.SchemaDocument(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schema document",
		})
	}

	if err := database.GetDB().Create(&layer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create layer",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(layer)
}

// UpdateLayer replaces the layer's metadata and flat schema. Configuration
// referencing removed keys becomes invalid on its next write; stored feature
// properties are cleaned separately via CleanLayerProperties.
func UpdateLayer(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(LayerInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var layer model.Layer
	if err := database.GetDB().First(&layer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Layer not found",
		})
	}

	layer.Name = input.Name
	layer.GeomType = input.GeomType
	layer.Schema = []byte(input.Schema)

	if _, err := layer.SchemaDocument(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid schema document",
		})
	}

	if err := database.GetDB().Save(&layer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update layer",
		})
	}

	return c.JSON(layer)
}

func DeleteLayer(c *fiber.Ctx) error {
	id := c.Params("id")

	var layer model.Layer
	if err := database.GetDB().First(&layer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Layer not found",
		})
	}

	tx := database.GetDB().Begin()

	if err := tx.Where("layer_id = ?", layer.ID).Delete(&model.Feature{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete layer features",
		})
	}
	if err := tx.Delete(&layer).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete layer",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete deletion",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type LayerSchemaInput struct {
	Properties map[string]schema.Descriptor `json:"properties"`
	Required   []string                     `json:"required"`
}

// UpdateLayerSchema rebuilds the layer's flat schema from explicit property
// descriptors and the required key list.
func UpdateLayerSchema(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid layer id",
		})
	}

	var layer model.Layer
	if err := database.GetDB().First(&layer, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Layer not found",
		})
	}

	input := new(LayerSchemaInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := service.SyncLayerSchema(id, input.Properties, input.Required); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update layer schema",
		})
	}

	database.GetDB().First(&layer, id)
	return c.JSON(layer)
}

// CleanLayerProperties runs the feature property sanitizer for one layer,
// returning how many features were mutated.
func CleanLayerProperties(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid layer id",
		})
	}

	input := CleanPropertiesInput{DropUnknown: true, DropNull: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid input",
			})
		}
	}

	mutated, err := service.CleanFeatureProperties(id, schema.SanitizeOptions{
		DropUnknown: input.DropUnknown,
		DropNull:    input.DropNull,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Could not clean feature properties",
			"mutated": mutated,
		})
	}

	return c.JSON(fiber.Map{
		"mutated": mutated,
	})
}

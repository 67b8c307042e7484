package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/internal/service"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/schema"
)

type PropertyGroupInput struct {
	Label      string   `json:"label" validate:"required"`
	Order      int      `json:"order"`
	Pictogram  string   `json:"pictogram"`
	Properties []string `json:"properties"`
}

// ListPropertyGroups returns a view's display groups in display order, with
// overlap warnings: a key claimed by several groups is kept by the first one
// only.
func ListPropertyGroups(c *fiber.Ctx) error {
	viewID, err := paramID(c, "view_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	var groups []model.PropertyGroup
	if err := database.GetDB().
		Where("crud_view_id = ?", viewID).
		Order("property_groups.order ASC, property_groups.label ASC").
		Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch property groups",
		})
	}

	schemaGroups := make([]schema.Group, 0, len(groups))
	for _, g := range groups {
		schemaGroups = append(schemaGroups, g.SchemaGroup())
	}

	return c.JSON(fiber.Map{
		"groups":           groups,
		"duplicate_claims": schema.DuplicateClaims(schemaGroups),
	})
}

func CreatePropertyGroup(c *fiber.Ctx) error {
	viewID, err := paramID(c, "view_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	input := new(PropertyGroupInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	available, err := service.AvailableKeys(viewID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}

	group := model.PropertyGroup{
		CrudViewID: viewID,
		Label:      input.Label,
		Order:      input.Order,
		Pictogram:  input.Pictogram,
		Properties: input.Properties,
	}

	if err := schema.ValidateGroup(group.SchemaGroup(), available); err != nil {
		return unknownPropertyResponse(c, err)
	}

	if err := database.GetDB().Create(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property group",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func UpdatePropertyGroup(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(PropertyGroupInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var group model.PropertyGroup
	if err := database.GetDB().First(&group, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property group not found",
		})
	}

	available, err := service.AvailableKeys(group.CrudViewID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read layer schema",
		})
	}

	group.Label = input.Label
	group.Order = input.Order
	group.Pictogram = input.Pictogram
	group.Properties = input.Properties

	if err := schema.ValidateGroup(group.SchemaGroup(), available); err != nil {
		return unknownPropertyResponse(c, err)
	}

	if err := database.GetDB().Save(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update property group",
		})
	}

	return c.JSON(group)
}

func DeletePropertyGroup(c *fiber.Ctx) error {
	id := c.Params("id")

	var group model.PropertyGroup
	if err := database.GetDB().First(&group, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property group not found",
		})
	}

	if err := database.GetDB().Delete(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property group",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

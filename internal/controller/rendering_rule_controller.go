package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/internal/service"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/schema"
	"github.com/Terralego/terra-crud/pkg/widget"
)

type RenderingRuleInput struct {
	Property string          `json:"property" validate:"required"`
	Widget   string          `json:"widget" validate:"required"`
	Args     json.RawMessage `json:"args"`
}

// ListWidgets exposes the closed set of registered widget identifiers.
func ListWidgets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"widgets": widget.Choices(),
	})
}

func ListRenderingRules(c *fiber.Ctx) error {
	viewID, err := paramID(c, "view_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	var rules []model.RenderingRule
	if err := database.GetDB().
		Where("crud_view_id = ?", viewID).
		Order("rendering_rules.property ASC").
		Find(&rules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch rendering rules",
		})
	}

	return c.JSON(rules)
}

func CreateRenderingRule(c *fiber.Ctx) error {
	viewID, err := paramID(c, "view_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	input := new(RenderingRuleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !widget.Valid(input.Widget) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":           "Unknown widget",
			"allowed_widgets": widget.Choices(),
		})
	}

	available, err := service.AvailableKeys(viewID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}
	if err := schema.ValidateRenderingRule(input.Property, available); err != nil {
		return unknownPropertyResponse(c, err)
	}

	rule := model.RenderingRule{
		CrudViewID: viewID,
		Property:   input.Property,
		Widget:     input.Widget,
		Args:       []byte(input.Args),
	}

	if err := database.GetDB().Create(&rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create rendering rule",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

func UpdateRenderingRule(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(RenderingRuleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var rule model.RenderingRule
	if err := database.GetDB().First(&rule, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Rendering rule not found",
		})
	}

	if !widget.Valid(input.Widget) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":           "Unknown widget",
			"allowed_widgets": widget.Choices(),
		})
	}

	available, err := service.AvailableKeys(rule.CrudViewID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read layer schema",
		})
	}
	if err := schema.ValidateRenderingRule(input.Property, available); err != nil {
		return unknownPropertyResponse(c, err)
	}

	rule.Property = input.Property
	rule.Widget = input.Widget
	rule.Args = []byte(input.Args)

	if err := database.GetDB().Save(&rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update rendering rule",
		})
	}

	return c.JSON(rule)
}

func DeleteRenderingRule(c *fiber.Ctx) error {
	id := c.Params("id")

	var rule model.RenderingRule
	if err := database.GetDB().First(&rule, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Rendering rule not found",
		})
	}

	if err := database.GetDB().Delete(&rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete rendering rule",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/pkg/database"
)

type MenuGroupInput struct {
	Name      string `json:"name" validate:"required"`
	Order     int    `json:"order"`
	Pictogram string `json:"pictogram"`
}

// ListMenuGroups returns the navigation groups with their views, in menu order.
func ListMenuGroups(c *fiber.Ctx) error {
	var groups []model.MenuGroup
	if err := database.GetDB().
		Preload("CrudViews", func(db *gorm.DB) *gorm.DB {
			return db.Order("crud_views.order ASC")
		}).
		Order("menu_groups.order ASC").
		Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch menu groups",
		})
	}

	return c.JSON(groups)
}

func CreateMenuGroup(c *fiber.Ctx) error {
	input := new(MenuGroupInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	group := model.MenuGroup{
		Name:      input.Name,
		Order:     input.Order,
		Pictogram: input.Pictogram,
	}

	if err := database.GetDB().Create(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create menu group",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func UpdateMenuGroup(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(MenuGroupInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var group model.MenuGroup
	if err := database.GetDB().First(&group, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Menu group not found",
		})
	}

	group.Name = input.Name
	group.Order = input.Order
	group.Pictogram = input.Pictogram

	if err := database.GetDB().Save(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update menu group",
		})
	}

	return c.JSON(group)
}

func DeleteMenuGroup(c *fiber.Ctx) error {
	id := c.Params("id")

	var group model.MenuGroup
	if err := database.GetDB().First(&group, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Menu group not found",
		})
	}

	if err := database.GetDB().Delete(&group).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete menu group",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/widget"
)

// GetCrudSettings returns the navigation menu (groups with their views plus
// an "Unclassified" bucket for ungrouped views) and the frontend config
// section.
func GetCrudSettings(c *fiber.Ctx) error {
	var groups []model.MenuGroup
	if err := database.GetDB().
		Preload("CrudViews", func(db *gorm.DB) *gorm.DB {
			return db.Where("visible = ?", true).Order("crud_views.order ASC")
		}).
		Order("menu_groups.order ASC").
		Find(&groups).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch menu",
		})
	}

	menu := make([]fiber.Map, 0, len(groups)+1)
	for _, group := range groups {
		menu = append(menu, fiber.Map{
			"id":         group.ID,
			"name":       group.Name,
			"order":      group.Order,
			"pictogram":  group.Pictogram,
			"crud_views": group.CrudViews,
		})
	}

	var ungrouped []model.CrudView
	if err := database.GetDB().
		Where("menu_group_id IS NULL AND visible = ?", true).
		Order("crud_views.order ASC").
		Find(&ungrouped).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch ungrouped views",
		})
	}
	menu = append(menu, fiber.Map{
		"id":         nil,
		"name":       "Unclassified",
		"order":      nil,
		"pictogram":  nil,
		"crud_views": ungrouped,
	})

	return c.JSON(fiber.Map{
		"menu": menu,
		"config": fiber.Map{
			"widgets": widget.Choices(),
		},
	})
}

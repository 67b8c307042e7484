package controller

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/internal/service"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/schema"
)

type ViewInput struct {
	Name                  string          `json:"name" validate:"required"`
	Order                 int             `json:"order"`
	MenuGroupID           *uint           `json:"menu_group_id"`
	LayerID               uint            `json:"layer_id" validate:"required"`
	Pictogram             string          `json:"pictogram"`
	MapStyle              json.RawMessage `json:"map_style"`
	UISchema              json.RawMessage `json:"ui_schema"`
	Settings              json.RawMessage `json:"settings"`
	DefaultListProperties []string        `json:"default_list_properties"`
	FeatureTitleProperty  string          `json:"feature_title_property"`
	Visible               *bool           `json:"visible"`
}

// unknownPropertyResponse turns a reference validation error into a 400
// carrying every offending key, so a configuration UI can display all
// violations in one round trip.
func unknownPropertyResponse(c *fiber.Ctx, err error) error {
	var unknown *schema.UnknownPropertyError
	if errors.As(err, &unknown) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":              err.Error(),
			"unknown_properties": unknown.Keys,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	return uint(id), err
}

func ListViews(c *fiber.Ctx) error {
	var views []model.CrudView
	if err := database.GetDB().Order("crud_views.order ASC").Find(&views).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch views",
		})
	}
	return c.JSON(views)
}

func GetViewDetail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	view, err := service.GetView(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}

	grouped, err := view.GroupedSchema()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not compose form schema",
		})
	}
	groupedUI, err := view.GroupedUISchema()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not compose ui schema",
		})
	}
	listProps, err := view.ListAvailableProperties()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not compute list properties",
		})
	}
	defaultProps, err := view.DefaultListOrFallback()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not compute default list properties",
		})
	}

	return c.JSON(fiber.Map{
		"view":                            view,
		"form_schema":                     grouped,
		"ui_schema":                       groupedUI,
		"feature_list_properties":         listProps,
		"feature_list_default_properties": defaultProps,
	})
}

func CreateView(c *fiber.Ctx) error {
	input := new(ViewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var layer model.Layer
	if err := database.GetDB().First(&layer, input.LayerID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Layer not found",
		})
	}

	flat, err := layer.SchemaDocument()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read layer schema",
		})
	}
	if err := schema.ValidateView(input.FeatureTitleProperty, input.DefaultListProperties, flat.KeySet()); err != nil {
		return unknownPropertyResponse(c, err)
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}

	view := model.CrudView{
		Name:                  input.Name,
		Order:                 input.Order,
		MenuGroupID:           input.MenuGroupID,
		LayerID:               input.LayerID,
		Pictogram:             input.Pictogram,
		MapStyle:              []byte(input.MapStyle),
		UISchema:              []byte(input.UISchema),
		Settings:              []byte(input.Settings),
		DefaultListProperties: input.DefaultListProperties,
		FeatureTitleProperty:  input.FeatureTitleProperty,
		Visible:               visible,
	}

	if err := database.GetDB().Create(&view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create view",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

func UpdateView(c *fiber.Ctx) error {
	id := c.Params("id")
	input := new(ViewInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var view model.CrudView
	if err := database.GetDB().Preload("Layer").First(&view, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}

	// keys are always re-derived from the current layer schema
	flat, err := view.Layer.SchemaDocument()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read layer schema",
		})
	}
	if err := schema.ValidateView(input.FeatureTitleProperty, input.DefaultListProperties, flat.KeySet()); err != nil {
		return unknownPropertyResponse(c, err)
	}

	view.Name = input.Name
	view.Order = input.Order
	view.MenuGroupID = input.MenuGroupID
	view.Pictogram = input.Pictogram
	view.MapStyle = []byte(input.MapStyle)
	view.UISchema = []byte(input.UISchema)
	view.Settings = []byte(input.Settings)
	view.DefaultListProperties = input.DefaultListProperties
	view.FeatureTitleProperty = input.FeatureTitleProperty
	if input.Visible != nil {
		view.Visible = *input.Visible
	}

	if err := database.GetDB().Save(&view).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update view",
		})
	}

	return c.JSON(view)
}

func DeleteView(c *fiber.Ctx) error {
	id := c.Params("id")

	var view model.CrudView
	if err := database.GetDB().First(&view, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}

	tx := database.GetDB().Begin()

	// groups and rendering rules cascade with the view
	if err := tx.Where("crud_view_id = ?", view.ID).Delete(&model.PropertyGroup{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete view groups",
		})
	}
	if err := tx.Where("crud_view_id = ?", view.ID).Delete(&model.RenderingRule{}).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete view rendering rules",
		})
	}
	if err := tx.Delete(&view).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete view",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete deletion",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateViewUISchema replaces the view's flat ui:schema, dropping hints
// that are empty objects.
func UpdateViewUISchema(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	var view model.CrudView
	if err := database.GetDB().First(&view, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}

	hints := schema.UISchema{}
	if err := json.Unmarshal(c.Body(), &hints); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ui schema document",
		})
	}

	if err := service.SyncUISchema(id, hints); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update ui schema",
		})
	}

	database.GetDB().First(&view, id)
	return c.JSON(view)
}

// GetViewSchema returns the grouped form schema, recomputed on every call.
func GetViewSchema(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	grouped, err := service.GetGroupedSchema(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}
	return c.JSON(grouped)
}

// GetViewUISchema returns the grouped ui:schema, recomputed on every call.
func GetViewUISchema(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	grouped, err := service.GetGroupedUISchema(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}
	return c.JSON(grouped)
}

// GetViewListProperties returns datatable-eligible keys and the default
// column selection.
func GetViewListProperties(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid view id",
		})
	}

	available, err := service.GetListProperties(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}
	defaults, err := service.GetDefaultListProperties(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "View not found",
		})
	}

	return c.JSON(fiber.Map{
		"available": available,
		"default":   defaults,
	})
}

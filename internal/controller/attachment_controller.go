package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/pkg/database"
	imageutil "github.com/Terralego/terra-crud/pkg/utils/image"
	"github.com/Terralego/terra-crud/pkg/utils/storage"
)

// UploadFeatureAttachment stores a file on S3 and records it against the
// feature.
func UploadFeatureAttachment(c *fiber.Ctx) error {
	featureID, err := paramID(c, "feature_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feature id",
		})
	}

	var feature model.Feature
	if err := database.GetDB().First(&feature, featureID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feature not found",
		})
	}

	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category id",
		})
	}
	var category model.AttachmentCategory
	if err := database.GetDB().First(&category, categoryID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Attachment category not found",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	url, err := storage.UploadFile(file, storage.AttachmentKey(feature.ID, file.Filename))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload file",
		})
	}

	attachment := model.FeatureAttachment{
		FeatureID:  feature.ID,
		CategoryID: uint(categoryID),
		Legend:     c.FormValue("legend"),
		FileURL:    url,
	}
	if err := database.GetDB().Create(&attachment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save attachment",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(attachment)
}

// UploadFeaturePicture stores an optimized image and its thumbnail on S3.
func UploadFeaturePicture(c *fiber.Ctx) error {
	featureID, err := paramID(c, "feature_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feature id",
		})
	}

	var feature model.Feature
	if err := database.GetDB().First(&feature, featureID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feature not found",
		})
	}

	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category id",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing image",
		})
	}
	if file.Size > imageutil.MaxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image too large",
		})
	}
	if !imageutil.AllowedImageTypes[file.Header.Get("Content-Type")] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image type. Allowed types are: jpeg, png, webp",
		})
	}

	buf, contentType, err := imageutil.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	url, err := storage.UploadBytes(buf, contentType, storage.PictureKey(feature.ID, file.Filename))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload image",
		})
	}

	thumbBuf, thumbType, err := imageutil.Thumbnail(file)
	thumbURL := ""
	if err == nil {
		thumbURL, _ = storage.UploadBytes(thumbBuf, thumbType, storage.PictureKey(feature.ID, "thumb_"+file.Filename))
	}

	picture := model.FeaturePicture{
		FeatureID:    feature.ID,
		CategoryID:   uint(categoryID),
		Legend:       c.FormValue("legend"),
		ImageURL:     url,
		ThumbnailURL: thumbURL,
	}
	if err := database.GetDB().Create(&picture).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save picture",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(picture)
}

// DeleteFeatureAttachment removes the record and the stored file.
func DeleteFeatureAttachment(c *fiber.Ctx) error {
	id := c.Params("id")

	var attachment model.FeatureAttachment
	if err := database.GetDB().First(&attachment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attachment not found",
		})
	}

	if err := storage.DeleteFile(attachment.FileURL); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete stored file",
		})
	}
	if err := database.GetDB().Delete(&attachment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete attachment",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListAttachmentCategories returns the available categories.
func ListAttachmentCategories(c *fiber.Ctx) error {
	var categories []model.AttachmentCategory
	if err := database.GetDB().Order("name ASC").Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch categories",
		})
	}
	return c.JSON(categories)
}

// CreateAttachmentCategory adds a category.
func CreateAttachmentCategory(c *fiber.Ctx) error {
	input := new(struct {
		Name      string `json:"name" validate:"required"`
		Pictogram string `json:"pictogram"`
	})
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	category := model.AttachmentCategory{Name: input.Name, Pictogram: input.Pictogram}
	if err := database.GetDB().Create(&category).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create category",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

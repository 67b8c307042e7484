package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/Terralego/terra-crud/internal/controller"
	"github.com/Terralego/terra-crud/internal/middleware"
	"github.com/Terralego/terra-crud/internal/model"
	"github.com/Terralego/terra-crud/pkg/config"
	"github.com/Terralego/terra-crud/pkg/cron"
	"github.com/Terralego/terra-crud/pkg/database"
	"github.com/Terralego/terra-crud/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	// Frontend bootstrap: menu + config
	api.Get("/crud/settings", controller.GetCrudSettings)
	api.Get("/crud/widgets", controller.ListWidgets)

	// Protected Routes
	protected := api.Group("/crud", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Menu groups
	menuGroups := protected.Group("/menu-groups")
	menuGroups.Get("/", controller.ListMenuGroups)
	menuGroups.Post("/", middleware.RequireAdmin(), controller.CreateMenuGroup)
	menuGroups.Put("/:id", middleware.RequireAdmin(), controller.UpdateMenuGroup)
	menuGroups.Delete("/:id", middleware.RequireAdmin(), controller.DeleteMenuGroup)

	// Layers and their features
	layers := protected.Group("/layers")
	layers.Get("/", controller.ListLayers)
	layers.Get("/:id", controller.GetLayer)
	layers.Post("/", middleware.RequireAdmin(), controller.CreateLayer)
	layers.Put("/:id", middleware.RequireAdmin(), controller.UpdateLayer)
	layers.Delete("/:id", middleware.RequireAdmin(), controller.DeleteLayer)
	layers.Put("/:id/schema", middleware.RequireAdmin(), controller.UpdateLayerSchema)
	layers.Post("/:id/clean-properties", middleware.RequireAdmin(), controller.CleanLayerProperties)

	features := layers.Group("/:layer_id/features")
	features.Get("/", controller.ListFeatures)
	features.Get("/:identifier", controller.GetFeatureDetail)
	features.Post("/", controller.CreateFeature)
	features.Put("/:identifier", controller.UpdateFeature)
	features.Delete("/:identifier", controller.DeleteFeature)

	// Views and their configuration
	views := protected.Group("/views")
	views.Get("/", controller.ListViews)
	views.Get("/:id", controller.GetViewDetail)
	views.Post("/", middleware.RequireAdmin(), controller.CreateView)
	views.Put("/:id", middleware.RequireAdmin(), controller.UpdateView)
	views.Delete("/:id", middleware.RequireAdmin(), controller.DeleteView)

	views.Put("/:id/ui-schema", middleware.RequireAdmin(), controller.UpdateViewUISchema)

	// Derived documents, recomputed per read
	views.Get("/:id/schema", controller.GetViewSchema)
	views.Get("/:id/ui-schema", controller.GetViewUISchema)
	views.Get("/:id/list-properties", controller.GetViewListProperties)

	groups := views.Group("/:view_id/groups")
	groups.Get("/", controller.ListPropertyGroups)
	groups.Post("/", middleware.RequireAdmin(), controller.CreatePropertyGroup)

	rules := views.Group("/:view_id/rendering-rules")
	rules.Get("/", controller.ListRenderingRules)
	rules.Post("/", middleware.RequireAdmin(), controller.CreateRenderingRule)

	protected.Put("/groups/:id", middleware.RequireAdmin(), controller.UpdatePropertyGroup)
	protected.Delete("/groups/:id", middleware.RequireAdmin(), controller.DeletePropertyGroup)
	protected.Put("/rendering-rules/:id", middleware.RequireAdmin(), controller.UpdateRenderingRule)
	protected.Delete("/rendering-rules/:id", middleware.RequireAdmin(), controller.DeleteRenderingRule)

	// Attachments and pictures
	protected.Get("/attachment-categories", controller.ListAttachmentCategories)
	protected.Post("/attachment-categories", middleware.RequireAdmin(), controller.CreateAttachmentCategory)
	protected.Post("/features/:feature_id/attachments", controller.UploadFeatureAttachment)
	protected.Post("/features/:feature_id/pictures", controller.UploadFeaturePicture)
	protected.Delete("/attachments/:id", controller.DeleteFeatureAttachment)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	if err := storage.InitStorage(cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		log.Fatal("Could not initialize storage:", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.DBName)
	}

	database.InitDB(dbURL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Layer{},
		&model.Feature{},
		&model.MenuGroup{},
		&model.CrudView{},
		&model.PropertyGroup{},
		&model.RenderingRule{},
		&model.AttachmentCategory{},
		&model.FeatureAttachment{},
		&model.FeaturePicture{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	cron.InitFeatureCleanupCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}

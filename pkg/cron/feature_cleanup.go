package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/Terralego/terra-crud/internal/service"
	"github.com/Terralego/terra-crud/pkg/schema"
)

// InitFeatureCleanupCron schedules the nightly feature property cleanup:
// drop keys removed from layer schemas, drop null values.
func InitFeatureCleanupCron() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		cleanAllFeatureProperties()
	})

	if err != nil {
		log.Printf("Could not initialize feature cleanup cron: %v", err)
		return
	}

	c.Start()
}

func cleanAllFeatureProperties() {
	log.Println("Cleaning feature properties on all layers...")

	mutated, err := service.CleanAllLayers(schema.SanitizeOptions{
		DropUnknown: true,
		DropNull:    true,
	})
	if err != nil {
		log.Printf("Error cleaning feature properties: %v", err)
		return
	}

	log.Printf("Feature cleanup done, %d features updated", mutated)
}

package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

// Seeds the tag and ingredient reference catalog from JSON fixtures.
// Existing rows are left alone so the command is safe to re-run.

type tagFixture struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type ingredientFixture struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func main() {
	tagsPath := flag.String("tags", "data/tags.json", "path to tag fixtures")
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "path to ingredient fixtures")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var tags []tagFixture
	if err := loadJSON(*tagsPath, &tags); err != nil {
		log.Fatalf("Failed to load tags: %v", err)
	}
	created := 0
	for _, t := range tags {
		var count int64
		if err := db.Model(&models.Tag{}).Where("slug = ?", t.Slug).Count(&count).Error; err != nil {
			log.Fatalf("Failed to look up tag %q: %v", t.Name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&models.Tag{Name: t.Name, Color: t.Color, Slug: t.Slug}).Error; err != nil {
			log.Fatalf("Failed to create tag %q: %v", t.Name, err)
		}
		created++
	}
	log.Printf("Seeded %d tags", created)

	var ingredients []ingredientFixture
	if err := loadJSON(*ingredientsPath, &ingredients); err != nil {
		log.Fatalf("Failed to load ingredients: %v", err)
	}
	created = 0
	for _, i := range ingredients {
		var count int64
		if err := db.Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", i.Name, i.MeasurementUnit).
			Count(&count).Error; err != nil {
			log.Fatalf("Failed to look up ingredient %q: %v", i.Name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&models.Ingredient{Name: i.Name, MeasurementUnit: i.MeasurementUnit}).Error; err != nil {
			log.Fatalf("Failed to create ingredient %q: %v", i.Name, err)
		}
		created++
	}
	log.Printf("Seeded %d ingredients", created)
}

func loadJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

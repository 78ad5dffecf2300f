package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()

	tag := models.Tag{
		Name: name,
		// Colors are unique; derive one per tag.
		Color: "#" + uuid.NewString()[:6],
		Slug:  slug,
	}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func testRecipeInput(name string, tag models.Tag, entries ...IngredientEntry) RecipeInput {
	return RecipeInput{
		Name:        name,
		Text:        "Mix everything and cook.",
		CookingTime: 30,
		ImageURL:    "https://example.com/images/" + name + ".png",
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: entries,
	}
}

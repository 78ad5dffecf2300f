package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
)

func TestListTags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)

	createTestTag(t, db, "Dinner", "dinner")
	createTestTag(t, db, "Breakfast", "breakfast")

	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "Dinner", tags[1].Name)
}

func TestGetTagNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)

	_, err := svc.GetTag(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTagDuplicateSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateTag(ctx, &models.Tag{Name: "Lunch", Color: "#49B64E", Slug: "lunch"}))
	err := svc.CreateTag(ctx, &models.Tag{Name: "Midday", Color: "#8775D2", Slug: "lunch"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestListIngredientsPrefix(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	createTestIngredient(t, db, "Sugar", "g")
	createTestIngredient(t, db, "Salt", "g")
	createTestIngredient(t, db, "Flour", "g")

	all, err := svc.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := svc.ListIngredients(ctx, "Sa")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Salt", matched[0].Name)

	// Prefix match only, not substring.
	matched, err = svc.ListIngredients(ctx, "our")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestDeleteIngredient(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)
	recipes := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")
	unused := createTestIngredient(t, db, "Saffron", "g")

	_, err := recipes.Create(ctx, author.ID, testRecipeInput("Bread", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 500}))
	require.NoError(t, err)

	assert.ErrorIs(t, catalog.DeleteIngredient(ctx, flour.ID), ErrIngredientInUse)
	require.NoError(t, catalog.DeleteIngredient(ctx, unused.ID))
	assert.ErrorIs(t, catalog.DeleteIngredient(ctx, unused.ID), ErrNotFound)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
)

func TestCreateRecipe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast")
	dinner := createTestTag(t, db, "Dinner", "dinner")
	flour := createTestIngredient(t, db, "Flour", "g")
	milk := createTestIngredient(t, db, "Milk", "ml")

	in := RecipeInput{
		Name:        "Pancakes",
		Text:        "Whisk and fry.",
		CookingTime: 20,
		ImageURL:    "https://example.com/pancakes.png",
		TagIDs:      []uuid.UUID{breakfast.ID, dinner.ID},
		Ingredients: []IngredientEntry{
			{IngredientID: flour.ID, Amount: 200},
			{IngredientID: milk.ID, Amount: 300},
		},
	}

	detail, err := svc.Create(ctx, author.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", detail.Recipe.Name)
	assert.Equal(t, 20, detail.Recipe.CookingTime)
	assert.Equal(t, author.ID, detail.Author.ID)
	assert.Len(t, detail.Tags, 2)
	require.Len(t, detail.Ingredients, 2)
	amounts := map[string]int{}
	for _, ia := range detail.Ingredients {
		amounts[ia.Ingredient.Name] = ia.Amount
	}
	assert.Equal(t, 200, amounts["Flour"])
	assert.Equal(t, 300, amounts["Milk"])
	assert.False(t, detail.IsFavorited)
	assert.False(t, detail.IsInCart)
}

func TestCreateRecipeValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	tests := []struct {
		name    string
		mutate  func(*RecipeInput)
		wantErr error
	}{
		{
			name:    "zero cooking time",
			mutate:  func(in *RecipeInput) { in.CookingTime = 0 },
			wantErr: ErrInvalidCookingTime,
		},
		{
			name:    "no ingredients",
			mutate:  func(in *RecipeInput) { in.Ingredients = nil },
			wantErr: ErrNoIngredients,
		},
		{
			name:    "no tags",
			mutate:  func(in *RecipeInput) { in.TagIDs = nil },
			wantErr: ErrNoTags,
		},
		{
			name: "zero amount",
			mutate: func(in *RecipeInput) {
				in.Ingredients = []IngredientEntry{{IngredientID: flour.ID, Amount: 0}}
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			mutate: func(in *RecipeInput) {
				in.Ingredients = []IngredientEntry{{IngredientID: flour.ID, Amount: -5}}
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "duplicate ingredient",
			mutate: func(in *RecipeInput) {
				in.Ingredients = []IngredientEntry{
					{IngredientID: flour.ID, Amount: 100},
					{IngredientID: flour.ID, Amount: 50},
				}
			},
			wantErr: ErrDuplicateIngredient,
		},
		{
			name: "duplicate tag",
			mutate: func(in *RecipeInput) {
				in.TagIDs = []uuid.UUID{tag.ID, tag.ID}
			},
			wantErr: ErrDuplicateTag,
		},
		{
			name: "bad amount wins over duplicate",
			mutate: func(in *RecipeInput) {
				in.Ingredients = []IngredientEntry{
					{IngredientID: flour.ID, Amount: 100},
					{IngredientID: flour.ID, Amount: 0},
				}
			},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testRecipeInput("Recipe "+tt.name, tag, IngredientEntry{IngredientID: flour.ID, Amount: 100})
			tt.mutate(&in)
			_, err := svc.Create(ctx, author.ID, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// None of the rejected payloads may leave rows behind.
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRecipeUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	in := testRecipeInput("Soup", tag, IngredientEntry{IngredientID: uuid.New(), Amount: 10})
	_, err := svc.Create(ctx, author.ID, in)
	assert.ErrorIs(t, err, ErrUnknownIngredient)

	in = testRecipeInput("Soup", tag, IngredientEntry{IngredientID: flour.ID, Amount: 10})
	in.TagIDs = []uuid.UUID{uuid.New()}
	_, err = svc.Create(ctx, author.ID, in)
	assert.ErrorIs(t, err, ErrUnknownTag)

	// The transaction must have rolled back completely.
	var recipes, joins int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&joins).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, joins)
}

func TestCreateRecipeNameTaken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	other := createTestUser(t, db, "other")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	_, err := svc.Create(ctx, author.ID, testRecipeInput("Bread", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 500}))
	require.NoError(t, err)

	// Reposting the same name is rejected, for any author.
	_, err = svc.Create(ctx, author.ID, testRecipeInput("Bread", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 500}))
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = svc.Create(ctx, other.ID, testRecipeInput("Bread", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 500}))
	assert.ErrorIs(t, err, ErrNameTaken)

	// Renaming onto an existing name fails the same way.
	soup, err := svc.Create(ctx, author.ID, testRecipeInput("Soup", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 100}))
	require.NoError(t, err)
	_, err = svc.Update(ctx, soup.Recipe.ID, author.ID, testRecipeInput("Bread", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 100}))
	assert.ErrorIs(t, err, ErrNameTaken)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestUpdateRecipeReplacesSets(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	lunch := createTestTag(t, db, "Lunch", "lunch")
	dinner := createTestTag(t, db, "Dinner", "dinner")
	flour := createTestIngredient(t, db, "Flour", "g")
	sugar := createTestIngredient(t, db, "Sugar", "g")

	created, err := svc.Create(ctx, author.ID, testRecipeInput("Cake", lunch,
		IngredientEntry{IngredientID: flour.ID, Amount: 300}))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.Recipe.ID, author.ID, RecipeInput{
		Name:        "Sugar Cake",
		Text:        "Now with sugar.",
		CookingTime: 45,
		TagIDs:      []uuid.UUID{dinner.ID},
		Ingredients: []IngredientEntry{{IngredientID: sugar.ID, Amount: 150}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sugar Cake", updated.Recipe.Name)
	assert.Equal(t, 45, updated.Recipe.CookingTime)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, dinner.ID, updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, sugar.ID, updated.Ingredients[0].Ingredient.ID)
	assert.Equal(t, 150, updated.Ingredients[0].Amount)

	// Empty image keeps the stored one.
	assert.Equal(t, created.Recipe.ImageURL, updated.Recipe.ImageURL)

	// The old join rows are gone, not just superseded.
	var joins int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).
		Where("recipe_id = ?", created.Recipe.ID).Count(&joins).Error)
	assert.EqualValues(t, 1, joins)
}

func TestUpdateRecipeForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	intruder := createTestUser(t, db, "intruder")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	created, err := svc.Create(ctx, author.ID, testRecipeInput("Bread", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 500}))
	require.NoError(t, err)

	in := testRecipeInput("Stolen Bread", tag, IngredientEntry{IngredientID: flour.ID, Amount: 500})
	_, err = svc.Update(ctx, created.Recipe.ID, intruder.ID, in)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, created.Recipe.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The recipe is untouched.
	got, err := svc.Get(ctx, created.Recipe.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.Recipe.Name)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)

	user := createTestUser(t, db, "chef")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	in := testRecipeInput("Ghost", tag, IngredientEntry{IngredientID: flour.ID, Amount: 1})
	_, err := svc.Update(context.Background(), uuid.New(), user.ID, in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	social := NewSocialService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	fan := createTestUser(t, db, "fan")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	created, err := svc.Create(ctx, author.ID, testRecipeInput("Pie", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 400}))
	require.NoError(t, err)

	_, err = social.Favorite(ctx, fan.ID, created.Recipe.ID)
	require.NoError(t, err)
	_, err = social.AddToCart(ctx, fan.ID, created.Recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.Recipe.ID, author.ID))

	_, err = svc.Get(ctx, created.Recipe.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, m := range []interface{}{&models.RecipeTag{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("recipe_id = ?", created.Recipe.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestGetRecipeViewerFlags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	social := NewSocialService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	fan := createTestUser(t, db, "fan")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	created, err := svc.Create(ctx, author.ID, testRecipeInput("Stew", tag,
		IngredientEntry{IngredientID: flour.ID, Amount: 50}))
	require.NoError(t, err)

	_, err = social.Favorite(ctx, fan.ID, created.Recipe.ID)
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.Recipe.ID, &fan.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)
	assert.False(t, got.IsInCart)

	// Anonymous viewers never see flags set.
	got, err = svc.Get(ctx, created.Recipe.ID, nil)
	require.NoError(t, err)
	assert.False(t, got.IsFavorited)
	assert.False(t, got.IsInCart)
}

func TestListRecipesFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	social := NewSocialService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast")
	dinner := createTestTag(t, db, "Dinner", "dinner")
	flour := createTestIngredient(t, db, "Flour", "g")

	pancakes, err := svc.Create(ctx, alice.ID, testRecipeInput("Pancakes", breakfast,
		IngredientEntry{IngredientID: flour.ID, Amount: 200}))
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob.ID, testRecipeInput("Lasagna", dinner,
		IngredientEntry{IngredientID: flour.ID, Amount: 300}))
	require.NoError(t, err)

	all, total, err := svc.List(ctx, nil, RecipeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	byAuthor, total, err := svc.List(ctx, nil, RecipeFilter{AuthorID: &alice.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Pancakes", byAuthor[0].Recipe.Name)

	byTag, _, err := svc.List(ctx, nil, RecipeFilter{TagSlugs: []string{"dinner"}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Lasagna", byTag[0].Recipe.Name)

	_, err = social.Favorite(ctx, bob.ID, pancakes.Recipe.ID)
	require.NoError(t, err)

	favorites, _, err := svc.List(ctx, &bob.ID, RecipeFilter{OnlyFavorited: true})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Pancakes", favorites[0].Recipe.Name)
	assert.True(t, favorites[0].IsFavorited)

	// The favorited filter is ignored for anonymous viewers.
	anon, _, err := svc.List(ctx, nil, RecipeFilter{OnlyFavorited: true})
	require.NoError(t, err)
	assert.Len(t, anon, 2)
}

func TestListRecipesPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "chef")
	tag := createTestTag(t, db, "Lunch", "lunch")
	flour := createTestIngredient(t, db, "Flour", "g")

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := svc.Create(ctx, author.ID, testRecipeInput(name, tag,
			IngredientEntry{IngredientID: flour.ID, Amount: 10}))
		require.NoError(t, err)
	}

	page, total, err := svc.List(ctx, nil, RecipeFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)

	page, total, err = svc.List(ctx, nil, RecipeFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// IngredientEntry is one (ingredient, amount) pair of a recipe payload.
type IngredientEntry struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries all author-editable fields of a recipe. On update an
// empty ImageURL keeps the stored image.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	ImageURL    string
	TagIDs      []uuid.UUID
	Ingredients []IngredientEntry
}

// IngredientAmount is a resolved ingredient of a recipe.
type IngredientAmount struct {
	Ingredient models.Ingredient
	Amount     int
}

// RecipeDetail is the read model for a recipe: the row plus its resolved
// associations and the viewer-dependent flags.
type RecipeDetail struct {
	Recipe      models.Recipe
	Author      models.User
	Tags        []models.Tag
	Ingredients []IngredientAmount
	IsFavorited bool
	IsInCart    bool
}

// RecipeFilter narrows List results. OnlyFavorited and OnlyInCart require
// a viewer and are ignored for anonymous requests.
type RecipeFilter struct {
	AuthorID      *uuid.UUID
	TagSlugs      []string
	OnlyFavorited bool
	OnlyInCart    bool
	Page          int
	Limit         int
}

// RecipeService validates and persists recipes with their tag and
// ingredient associations.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// validateInput checks the payload in a fixed order: amounts first, then
// duplicate ingredients, so a duplicated entry with a bad amount reports
// the amount problem. Existence of ingredients and tags is checked inside
// the write transaction.
func validateInput(in *RecipeInput) error {
	if in.CookingTime < 1 {
		return ErrInvalidCookingTime
	}
	if len(in.Ingredients) == 0 {
		return ErrNoIngredients
	}
	if len(in.TagIDs) == 0 {
		return ErrNoTags
	}
	for _, entry := range in.Ingredients {
		if entry.Amount <= 0 {
			return ErrInvalidAmount
		}
	}
	seen := make(map[uuid.UUID]struct{}, len(in.Ingredients))
	for _, entry := range in.Ingredients {
		if _, ok := seen[entry.IngredientID]; ok {
			return ErrDuplicateIngredient
		}
		seen[entry.IngredientID] = struct{}{}
	}
	seenTags := make(map[uuid.UUID]struct{}, len(in.TagIDs))
	for _, tagID := range in.TagIDs {
		if _, ok := seenTags[tagID]; ok {
			return ErrDuplicateTag
		}
		seenTags[tagID] = struct{}{}
	}
	return nil
}

// checkReferences verifies every ingredient and tag id exists.
func checkReferences(tx *gorm.DB, in *RecipeInput) error {
	ingredientIDs := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, entry := range in.Ingredients {
		ingredientIDs = append(ingredientIDs, entry.IngredientID)
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ingredientIDs)) {
		return ErrUnknownIngredient
	}
	if err := tx.Model(&models.Tag{}).Where("id IN ?", in.TagIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(in.TagIDs)) {
		return ErrUnknownTag
	}
	return nil
}

func insertAssociations(tx *gorm.DB, recipeID uuid.UUID, in *RecipeInput) error {
	for _, tagID := range in.TagIDs {
		if err := tx.Create(&models.RecipeTag{RecipeID: recipeID, TagID: tagID}).Error; err != nil {
			return err
		}
	}
	for _, entry := range in.Ingredients {
		ri := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: entry.IngredientID,
			Amount:       entry.Amount,
		}
		if err := tx.Create(&ri).Error; err != nil {
			return err
		}
	}
	return nil
}

// Create persists a recipe with its tag and ingredient rows in one
// transaction: either the recipe and all of its joins land, or nothing.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*RecipeDetail, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		ImageURL:    in.ImageURL,
		AuthorID:    authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, &in); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return insertAssociations(tx, recipe.ID, &in)
	})
	if err != nil {
		// Recipe names are unique; a collision is client input, not a
		// server fault.
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	return s.Get(ctx, recipe.ID, &authorID)
}

// Update replaces the scalar fields and the whole tag and ingredient sets
// of a recipe. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, recipeID, editorID uuid.UUID, in RecipeInput) (*RecipeDetail, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != editorID {
			return ErrForbidden
		}
		if err := checkReferences(tx, &in); err != nil {
			return err
		}

		recipe.Name = in.Name
		recipe.Text = in.Text
		recipe.CookingTime = in.CookingTime
		if in.ImageURL != "" {
			recipe.ImageURL = in.ImageURL
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		// Full replacement, not a diff.
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertAssociations(tx, recipeID, &in)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	return s.Get(ctx, recipeID, &editorID)
}

// Delete removes a recipe with its join rows, favorites and cart entries.
func (s *RecipeService) Delete(ctx context.Context, recipeID, editorID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != editorID {
			return ErrForbidden
		}
		for _, m := range []interface{}{&models.RecipeTag{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&recipe).Error
	})
}

// Get loads one recipe with associations. viewerID may be nil for
// anonymous requests, in which case the favorite and cart flags are false.
func (s *RecipeService) Get(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*RecipeDetail, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	details, err := s.loadDetails(ctx, []models.Recipe{recipe}, viewerID)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List returns one page of recipes newest first, plus the total count.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, f RecipeFilter) ([]RecipeDetail, int64, error) {
	// The query is rebuilt for the count and the page fetch so the two
	// chains don't share statement state.
	filtered := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Recipe{})
		if f.AuthorID != nil {
			q = q.Where("author_id = ?", *f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			sub := s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
			q = q.Where("id IN (?)", sub)
		}
		if viewerID != nil && f.OnlyFavorited {
			sub := s.db.Table("favorites").Select("recipe_id").Where("user_id = ?", *viewerID)
			q = q.Where("id IN (?)", sub)
		}
		if viewerID != nil && f.OnlyInCart {
			sub := s.db.Table("shopping_carts").Select("recipe_id").Where("user_id = ?", *viewerID)
			q = q.Where("id IN (?)", sub)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 6
	}

	var recipes []models.Recipe
	err := filtered().Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	details, err := s.loadDetails(ctx, recipes, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// loadDetails batch-resolves authors, tags, ingredients and the viewer's
// favorite/cart membership for a page of recipes.
func (s *RecipeService) loadDetails(ctx context.Context, recipes []models.Recipe, viewerID *uuid.UUID) ([]RecipeDetail, error) {
	if len(recipes) == 0 {
		return []RecipeDetail{}, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	db := s.db.WithContext(ctx)

	var authors []models.User
	if err := db.Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	authorByID := make(map[uuid.UUID]models.User, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	var tagRows []models.RecipeTag
	if err := db.Where("recipe_id IN ?", recipeIDs).Find(&tagRows).Error; err != nil {
		return nil, err
	}
	tagIDs := make([]uuid.UUID, 0, len(tagRows))
	for _, tr := range tagRows {
		tagIDs = append(tagIDs, tr.TagID)
	}
	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := db.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return nil, err
		}
	}
	tagByID := make(map[uuid.UUID]models.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	tagsByRecipe := make(map[uuid.UUID][]models.Tag)
	for _, tr := range tagRows {
		if t, ok := tagByID[tr.TagID]; ok {
			tagsByRecipe[tr.RecipeID] = append(tagsByRecipe[tr.RecipeID], t)
		}
	}

	var ingredientRows []models.RecipeIngredient
	if err := db.Where("recipe_id IN ?", recipeIDs).Find(&ingredientRows).Error; err != nil {
		return nil, err
	}
	ingredientIDs := make([]uuid.UUID, 0, len(ingredientRows))
	for _, ir := range ingredientRows {
		ingredientIDs = append(ingredientIDs, ir.IngredientID)
	}
	var ingredients []models.Ingredient
	if len(ingredientIDs) > 0 {
		if err := db.Where("id IN ?", ingredientIDs).Find(&ingredients).Error; err != nil {
			return nil, err
		}
	}
	ingredientByID := make(map[uuid.UUID]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientByID[ing.ID] = ing
	}
	ingredientsByRecipe := make(map[uuid.UUID][]IngredientAmount)
	for _, ir := range ingredientRows {
		if ing, ok := ingredientByID[ir.IngredientID]; ok {
			ingredientsByRecipe[ir.RecipeID] = append(ingredientsByRecipe[ir.RecipeID], IngredientAmount{
				Ingredient: ing,
				Amount:     ir.Amount,
			})
		}
	}

	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	if viewerID != nil {
		var favs []models.Favorite
		if err := db.Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).Find(&favs).Error; err != nil {
			return nil, err
		}
		for _, f := range favs {
			favorited[f.RecipeID] = true
		}
		var carts []models.ShoppingCart
		if err := db.Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).Find(&carts).Error; err != nil {
			return nil, err
		}
		for _, c := range carts {
			inCart[c.RecipeID] = true
		}
	}

	details := make([]RecipeDetail, 0, len(recipes))
	for _, r := range recipes {
		details = append(details, RecipeDetail{
			Recipe:      r,
			Author:      authorByID[r.AuthorID],
			Tags:        tagsByRecipe[r.ID],
			Ingredients: ingredientsByRecipe[r.ID],
			IsFavorited: favorited[r.ID],
			IsInCart:    inCart[r.ID],
		})
	}
	return details, nil
}

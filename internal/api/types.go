package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

// Request payloads. Structural constraints live in binding tags; the
// value-level rules (amounts, duplicates, unknown ids) belong to the
// services so the API and any other caller share them.

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type IngredientEntryRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

type RecipeRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Text        string                   `json:"text" binding:"required"`
	CookingTime int                      `json:"cooking_time" binding:"required"`
	Image       string                   `json:"image"`
	Tags        []uuid.UUID              `json:"tags" binding:"required"`
	Ingredients []IngredientEntryRequest `json:"ingredients" binding:"required"`
}

func (r *RecipeRequest) toInput() service.RecipeInput {
	entries := make([]service.IngredientEntry, 0, len(r.Ingredients))
	for _, e := range r.Ingredients {
		entries = append(entries, service.IngredientEntry{
			IngredientID: e.ID,
			Amount:       e.Amount,
		})
	}
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		ImageURL:    r.Image,
		TagIDs:      r.Tags,
		Ingredients: entries,
	}
}

// Response shapes.

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func toUserResponse(u models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Author           UserResponse               `json:"author"`
	Name             string                     `json:"name"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	Image            string                     `json:"image"`
	Tags             []models.Tag               `json:"tags"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	CreatedAt        time.Time                  `json:"created_at"`
}

func toRecipeResponse(d service.RecipeDetail, authorSubscribed bool) RecipeResponse {
	tags := d.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	ingredients := make([]RecipeIngredientResponse, 0, len(d.Ingredients))
	for _, ia := range d.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              ia.Ingredient.ID,
			Name:            ia.Ingredient.Name,
			MeasurementUnit: ia.Ingredient.MeasurementUnit,
			Amount:          ia.Amount,
		})
	}
	return RecipeResponse{
		ID:               d.Recipe.ID,
		Author:           toUserResponse(d.Author, authorSubscribed),
		Name:             d.Recipe.Name,
		Text:             d.Recipe.Text,
		CookingTime:      d.Recipe.CookingTime,
		Image:            d.Recipe.ImageURL,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      d.IsFavorited,
		IsInShoppingCart: d.IsInCart,
		CreatedAt:        d.Recipe.CreatedAt,
	}
}

// ShortRecipeResponse is the projection returned by favorite and cart
// adds and embedded in subscriptions.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func toShortRecipeResponse(r models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func toSubscriptionResponse(d service.SubscriptionDetail) SubscriptionResponse {
	recipes := make([]ShortRecipeResponse, 0, len(d.Recipes))
	for _, r := range d.Recipes {
		recipes = append(recipes, toShortRecipeResponse(r))
	}
	return SubscriptionResponse{
		UserResponse: toUserResponse(d.Author, true),
		Recipes:      recipes,
		RecipesCount: d.RecipesCount,
	}
}

// PageResponse is the envelope for every paginated listing.
type PageResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// CartService aggregates the ingredients of every recipe in a user's cart.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// BuildShoppingList sums ingredient amounts across the user's cart,
// grouped by (name, measurement unit) so that two catalog rows with the
// same name and unit collapse into one line. Ordered by name so repeated
// calls yield identical output. An empty cart yields an empty list.
func (s *CartService) BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error) {
	items := []ShoppingItem{}
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

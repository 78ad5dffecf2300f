package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a recipe as a favorite of a user.
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ShoppingCart puts a whole recipe into a user's shopping list.
type ShoppingCart struct {
	UserID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every model in AutoMigrate order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Follower{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCart{},
	}
}

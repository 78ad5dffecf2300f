package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	CookingTime int            `gorm:"not null" json:"cooking_time"`
	ImageURL    string         `gorm:"size:10000" json:"image"`
	AuthorID    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"author_id"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient holds the amount of one ingredient in one recipe.
// At most one row per (recipe, ingredient); amount is always > 0.
type RecipeIngredient struct {
	RecipeID     uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`
}

// RecipeTag links a recipe to a tag, at most one row per pair.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"tag_id"`
}

package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Validation-level failures surfaced to handlers. None are transient and
// none are retried; handlers translate them to HTTP statuses.
var (
	ErrInvalidAmount       = errors.New("ingredient amount must be greater than 0")
	ErrInvalidCookingTime  = errors.New("cooking time must be at least 1 minute")
	ErrDuplicateIngredient = errors.New("ingredient is already in the recipe")
	ErrDuplicateTag        = errors.New("tag is already on the recipe")
	ErrNameTaken           = errors.New("recipe with this name already exists")
	ErrUnknownIngredient   = errors.New("ingredient does not exist")
	ErrUnknownTag          = errors.New("tag does not exist")
	ErrNoIngredients       = errors.New("recipe must contain at least one ingredient")
	ErrNoTags              = errors.New("recipe must have at least one tag")
	ErrForbidden           = errors.New("operation is allowed only for the author")
	ErrAlreadyExists       = errors.New("relation already exists")
	ErrNotFound            = errors.New("not found")
	ErrSelfFollow          = errors.New("subscribing to yourself is not allowed")
	ErrIngredientInUse     = errors.New("ingredient is referenced by a recipe")
)

// isUniqueViolation reports whether err comes from a unique constraint.
// The constraint is the only concurrency mechanism for relation rows, so
// concurrent duplicate inserts must surface as ErrAlreadyExists rather
// than a 500. Covers gorm's translated error plus the raw postgres and
// sqlite messages.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/service"
)

// respondError translates a service failure into an HTTP status. Every
// member of the validation taxonomy is a 400 except Forbidden and
// NotFound; anything unrecognized is a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCookingTime),
		errors.Is(err, service.ErrDuplicateIngredient),
		errors.Is(err, service.ErrDuplicateTag),
		errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrUnknownIngredient),
		errors.Is(err, service.ErrUnknownTag),
		errors.Is(err, service.ErrNoIngredients),
		errors.Is(err, service.ErrNoTags),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrIngredientInUse),
		errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[api] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

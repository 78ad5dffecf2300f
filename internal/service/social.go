package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// SubscriptionDetail is a followed author together with their recipes.
type SubscriptionDetail struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// SocialService manages the three user relation kinds: follows, favorites
// and shopping-cart membership. All three share the add/remove contract:
// adding an existing pair fails with ErrAlreadyExists, removing a missing
// pair fails with ErrNotFound. Uniqueness is enforced by the composite
// primary keys, so concurrent duplicate adds lose at the constraint.
type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

func (s *SocialService) Follow(ctx context.Context, userID, authorID uuid.UUID) (*SubscriptionDetail, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	row := models.Follower{UserID: userID, FollowingID: authorID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return s.subscriptionDetail(ctx, author, 0)
}

func (s *SocialService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, authorID).
		Delete(&models.Follower{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsSubscribed reports whether viewer follows author. A nil viewer is
// anonymous and follows nobody.
func (s *SocialService) IsSubscribed(ctx context.Context, viewerID *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if viewerID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follower{}).
		Where("user_id = ? AND following_id = ?", *viewerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Subscriptions lists the authors the user follows, each with their
// recipes. recipesLimit > 0 caps the recipes per author.
func (s *SocialService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, page, limit int) ([]SubscriptionDetail, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Follower{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 6
	}

	var rows []models.Follower
	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	details := make([]SubscriptionDetail, 0, len(rows))
	for _, row := range rows {
		var author models.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", row.FollowingID).Error; err != nil {
			return nil, 0, err
		}
		d, err := s.subscriptionDetail(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, *d)
	}
	return details, total, nil
}

func (s *SocialService) subscriptionDetail(ctx context.Context, author models.User, recipesLimit int) (*SubscriptionDetail, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("author_id = ?", author.ID).Order("created_at DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}

	return &SubscriptionDetail{
		Author:       author,
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}

// Favorite adds a recipe to the user's favorites and returns the recipe.
func (s *SocialService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	row := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return recipe, nil
}

func (s *SocialService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToCart puts a recipe into the user's shopping cart and returns it.
func (s *SocialService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	row := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return recipe, nil
}

func (s *SocialService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SocialService) findRecipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

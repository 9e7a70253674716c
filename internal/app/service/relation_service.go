package service

import (
	"errors"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RelationService adds and removes recipes in a per-user set.
type RelationService interface {
	Add(userID, recipeID uint) (*RecipeSummary, error)
	Remove(userID, recipeID uint) error
}

type relationService[T repository.UserRecipeRelation] struct {
	relations  repository.RelationRepository[T]
	recipeRepo repository.RecipeRepository
	name       string
	errExists  error
	errMissing error
}

func NewFavoriteService(
	favoriteRepo repository.RelationRepository[model.FavoriteRecipe],
	recipeRepo repository.RecipeRepository,
) RelationService {
	return &relationService[model.FavoriteRecipe]{
		relations:  favoriteRepo,
		recipeRepo: recipeRepo,
		name:       "favorites",
		errExists:  ErrAlreadyFavorited,
		errMissing: ErrNotFavorited,
	}
}

func NewShoppingCartService(
	cartRepo repository.RelationRepository[model.ShoppingCart],
	recipeRepo repository.RecipeRepository,
) RelationService {
	return &relationService[model.ShoppingCart]{
		relations:  cartRepo,
		recipeRepo: recipeRepo,
		name:       "shopping_cart",
		errExists:  ErrAlreadyInCart,
		errMissing: ErrNotInCart,
	}
}

func (s *relationService[T]) findRecipe(recipeID uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *relationService[T]) Add(userID, recipeID uint) (*RecipeSummary, error) {
	recipe, err := s.findRecipe(recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.relations.Add(userID, recipeID); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Recipe already in set", map[string]interface{}{
				"set":       s.name,
				"user_id":   userID,
				"recipe_id": recipeID,
			})
			return nil, s.errExists
		}
		if apperrors.IsForeignKeyViolation(err) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	logger.Info("Recipe added to set", map[string]interface{}{
		"set":       s.name,
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	summary := newRecipeSummary(recipe)
	return &summary, nil
}

func (s *relationService[T]) Remove(userID, recipeID uint) error {
	if _, err := s.findRecipe(recipeID); err != nil {
		return err
	}

	removed, err := s.relations.Remove(userID, recipeID)
	if err != nil {
		return err
	}
	if removed == 0 {
		logger.Warn("Recipe not in set", map[string]interface{}{
			"set":       s.name,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return s.errMissing
	}

	logger.Info("Recipe removed from set", map[string]interface{}{
		"set":       s.name,
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return nil
}

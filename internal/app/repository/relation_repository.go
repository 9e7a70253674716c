package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserRecipeRelation is a (user_id, recipe_id) table with a unique index on the pair.
type UserRecipeRelation interface {
	model.FavoriteRecipe | model.ShoppingCart
	TableName() string
}

// RelationRepository stores membership of recipes in a per-user set such as
// favorites or the shopping cart.
type RelationRepository[T UserRecipeRelation] interface {
	Add(userID, recipeID uint) error
	Remove(userID, recipeID uint) (int64, error)
	Contains(userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type relationRepository[T UserRecipeRelation] struct {
	db     *gorm.DB
	newRow func(userID, recipeID uint) *T
}

func NewFavoriteRepository(db *gorm.DB) RelationRepository[model.FavoriteRecipe] {
	return &relationRepository[model.FavoriteRecipe]{
		db: db,
		newRow: func(userID, recipeID uint) *model.FavoriteRecipe {
			return &model.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewShoppingCartRepository(db *gorm.DB) RelationRepository[model.ShoppingCart] {
	return &relationRepository[model.ShoppingCart]{
		db: db,
		newRow: func(userID, recipeID uint) *model.ShoppingCart {
			return &model.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}
}

func (r *relationRepository[T]) table() string {
	var zero T
	return zero.TableName()
}

// Add inserts the pair. A pair that already exists fails on the unique index.
func (r *relationRepository[T]) Add(userID, recipeID uint) error {
	logger.Debug("Adding recipe relation in database", map[string]interface{}{
		"table":     r.table(),
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	if err := r.db.Create(r.newRow(userID, recipeID)).Error; err != nil {
		logger.Error("Failed to add recipe relation in database", err, map[string]interface{}{
			"table":     r.table(),
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return err
	}

	logger.Debug("Recipe relation added in database", map[string]interface{}{
		"table":     r.table(),
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return nil
}

// Remove deletes the pair and reports how many rows were deleted.
func (r *relationRepository[T]) Remove(userID, recipeID uint) (int64, error) {
	logger.Debug("Removing recipe relation from database", map[string]interface{}{
		"table":     r.table(),
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(new(T))
	if result.Error != nil {
		logger.Error("Failed to remove recipe relation from database", result.Error, map[string]interface{}{
			"table":     r.table(),
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return 0, result.Error
	}

	logger.Debug("Recipe relation removed from database", map[string]interface{}{
		"table":         r.table(),
		"rows_affected": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

// Contains returns which of recipeIDs are in the user's set.
func (r *relationRepository[T]) Contains(userID uint, recipeIDs []uint) (map[uint]bool, error) {
	found := make(map[uint]bool)
	if len(recipeIDs) == 0 {
		return found, nil
	}

	var ids []uint
	err := r.db.Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load recipe relations from database", err, map[string]interface{}{
			"table":   r.table(),
			"user_id": userID,
		})
		return nil, err
	}

	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

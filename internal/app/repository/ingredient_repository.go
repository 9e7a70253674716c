package repository

import (
	"strings"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const importBatchSize = 500

type IngredientRepository interface {
	List(namePrefix string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
	Create(ingredient *model.Ingredient) error
	Import(ingredients []model.Ingredient) (int64, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns ingredients whose name starts with namePrefix, ignoring case.
// An empty prefix returns the whole catalog.
func (r *ingredientRepository) List(namePrefix string) ([]model.Ingredient, error) {
	logger.Debug("Listing ingredients from database", map[string]interface{}{
		"name_prefix": namePrefix,
	})

	query := r.db.Model(&model.Ingredient{})
	if namePrefix != "" {
		pattern := likeEscaper.Replace(strings.ToLower(namePrefix)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}

	var ingredients []model.Ingredient
	if err := query.Order("name ASC, measurement_unit ASC").Find(&ingredients).Error; err != nil {
		logger.Error("Failed to list ingredients from database", err, map[string]interface{}{
			"name_prefix": namePrefix,
		})
		return nil, err
	}

	logger.Debug("Ingredients listed from database", map[string]interface{}{
		"count": len(ingredients),
	})
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	logger.Debug("Finding ingredient by ID in database", map[string]interface{}{
		"ingredient_id": id,
	})

	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		logger.Error("Failed to find ingredient by ID in database", err, map[string]interface{}{
			"ingredient_id": id,
		})
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDs returns the ingredients that exist among ids.
func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}

	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by IDs in database", err, map[string]interface{}{
			"ingredient_ids": ids,
		})
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) Create(ingredient *model.Ingredient) error {
	logger.Debug("Creating ingredient in database", map[string]interface{}{
		"name": ingredient.Name,
		"unit": ingredient.MeasurementUnit,
	})

	if err := r.db.Create(ingredient).Error; err != nil {
		logger.Error("Failed to create ingredient in database", err, map[string]interface{}{
			"name": ingredient.Name,
			"unit": ingredient.MeasurementUnit,
		})
		return err
	}

	logger.Debug("Ingredient created in database", map[string]interface{}{
		"ingredient_id": ingredient.ID,
	})
	return nil
}

// Import bulk-inserts ingredients, skipping (name, unit) pairs that already
// exist, and returns the number of new rows.
func (r *ingredientRepository) Import(ingredients []model.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}

	logger.Debug("Importing ingredients into database", map[string]interface{}{
		"count": len(ingredients),
	})

	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&ingredients, importBatchSize)
	if result.Error != nil {
		logger.Error("Failed to import ingredients into database", result.Error, map[string]interface{}{
			"count": len(ingredients),
		})
		return 0, result.Error
	}

	logger.Info("Ingredients imported into database", map[string]interface{}{
		"received": len(ingredients),
		"inserted": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

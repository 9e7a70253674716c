package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows a recipe listing. Nil and empty fields do not filter.
type RecipeFilter struct {
	AuthorID    *uint
	TagSlugs    []string // recipes carrying any of these tags
	FavoritedBy *uint
	InCartOf    *uint
}

// ShoppingListLine is one aggregated row of a user's shopping list.
type ShoppingListLine struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

type RecipeRepository interface {
	Create(recipe *model.Recipe, ingredients []model.RecipeIngredient, tagIDs []uint) error
	Update(recipe *model.Recipe, ingredients []model.RecipeIngredient, tagIDs []uint) error
	FindByID(id uint) (*model.Recipe, error)
	FindDetailedByID(id uint) (*model.Recipe, error)
	List(filter RecipeFilter, offset, limit int) ([]model.Recipe, int64, error)
	ListByAuthor(authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthors(authorIDs []uint) (map[uint]int64, error)
	Delete(id uint) error
	ShoppingList(userID uint) ([]ShoppingListLine, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create inserts the recipe row and its ingredient and tag rows in one transaction.
func (r *recipeRepository) Create(recipe *model.Recipe, ingredients []model.RecipeIngredient, tagIDs []uint) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"author_id":         recipe.AuthorID,
		"name":              recipe.Name,
		"ingredients_count": len(ingredients),
		"tags_count":        len(tagIDs),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return insertComponents(tx, recipe.ID, ingredients, tagIDs)
	})
	if err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
			"name":      recipe.Name,
		})
		return err
	}

	logger.Debug("Recipe created in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

// Update overwrites the scalar fields and replaces every ingredient and tag
// row of the recipe in one transaction.
func (r *recipeRepository) Update(recipe *model.Recipe, ingredients []model.RecipeIngredient, tagIDs []uint) error {
	logger.Debug("Updating recipe in database", map[string]interface{}{
		"recipe_id":         recipe.ID,
		"ingredients_count": len(ingredients),
		"tags_count":        len(tagIDs),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Recipe{ID: recipe.ID}).
			Select("name", "text", "image", "cooking_time", "updated_at").
			Updates(recipe).Error
		if err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		return insertComponents(tx, recipe.ID, ingredients, tagIDs)
	})
	if err != nil {
		logger.Error("Failed to update recipe in database", err, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return err
	}

	logger.Debug("Recipe updated in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

func insertComponents(tx *gorm.DB, recipeID uint, ingredients []model.RecipeIngredient, tagIDs []uint) error {
	rows := make([]model.RecipeIngredient, len(ingredients))
	for i, ing := range ingredients {
		rows[i] = model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ing.IngredientID,
			Amount:       ing.Amount,
		}
	}
	if len(rows) > 0 {
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}

	tags := make([]model.RecipeTag, len(tagIDs))
	for i, tagID := range tagIDs {
		tags[i] = model.RecipeTag{TagID: tagID, RecipeID: recipeID}
	}
	if len(tags) > 0 {
		if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads the recipe row only.
func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	logger.Debug("Finding recipe by ID in database", map[string]interface{}{
		"recipe_id": id,
	})

	var recipe model.Recipe
	if err := r.db.First(&recipe, id).Error; err != nil {
		logger.Error("Failed to find recipe by ID in database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return &recipe, nil
}

// FindDetailedByID loads the recipe with its author, tags and ingredients.
func (r *recipeRepository) FindDetailedByID(id uint) (*model.Recipe, error) {
	logger.Debug("Finding detailed recipe by ID in database", map[string]interface{}{
		"recipe_id": id,
	})

	var recipe model.Recipe
	if err := preloadDetails(r.db).First(&recipe, id).Error; err != nil {
		logger.Error("Failed to find detailed recipe by ID in database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}

	logger.Debug("Detailed recipe found in database", map[string]interface{}{
		"recipe_id":         recipe.ID,
		"ingredients_count": len(recipe.Ingredients),
		"tags_count":        len(recipe.Tags),
	})
	return &recipe, nil
}

func preloadDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_tags.tag_id ASC")
		}).
		Preload("Tags.Tag").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) filtered(filter RecipeFilter) *gorm.DB {
	query := r.db.Model(&model.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.FavoritedBy != nil {
		favorited := r.db.Model(&model.FavoriteRecipe{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InCartOf != nil {
		inCart := r.db.Model(&model.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", *filter.InCartOf)
		query = query.Where("recipes.id IN (?)", inCart)
	}
	return query
}

// List returns one page of recipes, newest first, and the total matching count.
func (r *recipeRepository) List(filter RecipeFilter, offset, limit int) ([]model.Recipe, int64, error) {
	logger.Debug("Listing recipes from database", map[string]interface{}{
		"author_id":    filter.AuthorID,
		"tags":         filter.TagSlugs,
		"favorited_by": filter.FavoritedBy,
		"in_cart_of":   filter.InCartOf,
		"offset":       offset,
		"limit":        limit,
	})

	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count recipes in database", err)
		return nil, 0, err
	}

	var recipes []model.Recipe
	err := preloadDetails(r.filtered(filter)).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to list recipes from database", err)
		return nil, 0, err
	}

	logger.Debug("Recipes listed from database", map[string]interface{}{
		"count": len(recipes),
		"total": total,
	})
	return recipes, total, nil
}

// ListByAuthor returns the author's newest recipes; limit <= 0 returns all.
func (r *recipeRepository) ListByAuthor(authorID uint, limit int) ([]model.Recipe, error) {
	query := r.db.Where("author_id = ?", authorID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to list recipes by author from database", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count recipes by authors in database", err, map[string]interface{}{
			"author_ids": authorIDs,
		})
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// Delete removes the recipe; ingredient, tag, favorite and cart rows go with
// it through ON DELETE CASCADE.
func (r *recipeRepository) Delete(id uint) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	result := r.db.Delete(&model.Recipe{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete recipe from database", result.Error, map[string]interface{}{
			"recipe_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Recipe deleted from database", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}

// ShoppingList sums ingredient amounts across every recipe in the user's
// cart, one line per (name, unit), ordered by name then unit.
func (r *recipeRepository) ShoppingList(userID uint) ([]ShoppingListLine, error) {
	logger.Debug("Aggregating shopping list in database", map[string]interface{}{
		"user_id": userID,
	})

	var lines []ShoppingListLine
	err := r.db.Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&lines).Error
	if err != nil {
		logger.Error("Failed to aggregate shopping list in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shopping list aggregated in database", map[string]interface{}{
		"user_id": userID,
		"lines":   len(lines),
	})
	return lines, nil
}

package db

import (
	"fmt"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every table in creation order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.RecipeIngredient{},
		&model.RecipeTag{},
		&model.Subscription{},
		&model.FavoriteRecipe{},
		&model.ShoppingCart{},
	}
}

// Migrate creates or updates the schema and seeds the default tags.
func Migrate(database *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := database.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := SeedTags(database); err != nil {
		logger.Error("Failed to seed tags during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// DefaultTags are the meal tags every installation starts with.
var DefaultTags = []model.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
}

// SeedTags inserts DefaultTags, leaving existing rows untouched.
func SeedTags(database *gorm.DB) error {
	tags := make([]model.Tag, len(DefaultTags))
	copy(tags, DefaultTags)

	result := database.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	if result.Error != nil {
		return fmt.Errorf("failed to seed tags: %w", result.Error)
	}

	logger.Info("Default tags seeded", map[string]interface{}{
		"inserted": result.RowsAffected,
	})
	return nil
}

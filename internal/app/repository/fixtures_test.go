package repository

import (
	"fmt"
	"testing"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTag(t *testing.T, testDB *gorm.DB, slug, color string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: "Tag " + slug, Slug: slug, Color: color}
	require.NoError(t, testDB.Create(tag).Error)
	return tag
}

func createIngredient(t *testing.T, testDB *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()
	ingredient := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, testDB.Create(ingredient).Error)
	return ingredient
}

// createRecipe stores a recipe through the repository with amounts keyed by ingredient.
func createRecipe(t *testing.T, repo RecipeRepository, author *model.User, name string, amounts map[*model.Ingredient]int, tags ...*model.Tag) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       "/media/recipes/test.png",
		CookingTime: 10,
	}

	var lines []model.RecipeIngredient
	for ingredient, amount := range amounts {
		lines = append(lines, model.RecipeIngredient{IngredientID: ingredient.ID, Amount: amount})
	}
	var tagIDs []uint
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	require.NoError(t, repo.Create(recipe, lines, tagIDs))
	return recipe
}

func countRows(t *testing.T, testDB *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, testDB.Table(table).Count(&count).Error)
	return count
}

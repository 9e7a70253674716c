package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeService_Create(t *testing.T) {
	env := setupEnv(t)
	author := env.user(t, "chef")
	lunch := env.tag(t, "lunch", "#49B64E")
	salt := env.ingredient(t, "salt", "g")
	potato := env.ingredient(t, "potato", "pcs")

	view := env.recipe(t, author, "Baked potato", []uint{lunch.ID},
		IngredientAmount{ID: potato.ID, Amount: 3},
		IngredientAmount{ID: salt.ID, Amount: 5},
	)

	assert.NotZero(t, view.ID)
	assert.Equal(t, "chef", view.Author.Username)
	assert.False(t, view.Author.IsSubscribed)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "lunch", view.Tags[0].Slug)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, IngredientAmountView{ID: potato.ID, Name: "potato", MeasurementUnit: "pcs", Amount: 3}, view.Ingredients[0])
	assert.Contains(t, view.Image, "/media/recipes/")
	assert.Equal(t, 1, env.images.count())
}

func TestRecipeService_CreateValidation(t *testing.T) {
	env := setupEnv(t)
	author := env.user(t, "chef")
	tag := env.tag(t, "lunch", "#49B64E")
	salt := env.ingredient(t, "salt", "g")
	okLines := []IngredientAmount{{ID: salt.ID, Amount: 1}}

	tests := []struct {
		name    string
		mutate  func(in *RecipeInput)
		field   string
		message string
	}{
		{name: "Zero cooking time", mutate: func(in *RecipeInput) { in.CookingTime = 0 }, field: "cooking_time", message: "cooking time must be at least 1"},
		{name: "Cooking time checked first", mutate: func(in *RecipeInput) { in.CookingTime = -1; in.Tags = nil }, field: "cooking_time", message: "cooking time must be at least 1"},
		{name: "No tags", mutate: func(in *RecipeInput) { in.Tags = nil }, field: "tags", message: "tags required"},
		{name: "Duplicate tags", mutate: func(in *RecipeInput) { in.Tags = []uint{tag.ID, tag.ID} }, field: "tags", message: "tags must be unique"},
		{name: "Unknown tag", mutate: func(in *RecipeInput) { in.Tags = []uint{999} }, field: "tags", message: "tag not found"},
		{name: "No ingredients", mutate: func(in *RecipeInput) { in.Ingredients = nil }, field: "ingredients", message: "ingredients required"},
		{name: "Repeated ingredient", mutate: func(in *RecipeInput) {
			in.Ingredients = []IngredientAmount{{ID: salt.ID, Amount: 1}, {ID: salt.ID, Amount: 2}}
		}, field: "ingredients", message: "ingredient repeated"},
		{name: "Zero amount", mutate: func(in *RecipeInput) { in.Ingredients = []IngredientAmount{{ID: salt.ID, Amount: 0}} }, field: "ingredients", message: "amount must be positive"},
		{name: "Amount checked before existence", mutate: func(in *RecipeInput) { in.Ingredients = []IngredientAmount{{ID: 999, Amount: 0}} }, field: "ingredients", message: "amount must be positive"},
		{name: "Unknown ingredient", mutate: func(in *RecipeInput) { in.Ingredients = []IngredientAmount{{ID: 999, Amount: 1}} }, field: "ingredients", message: "ingredient not found"},
		{name: "Blank name", mutate: func(in *RecipeInput) { in.Name = "   " }, field: "name", message: "name required"},
		{name: "Name too long", mutate: func(in *RecipeInput) { in.Name = strings.Repeat("щ", 201) }, field: "name", message: "name must be at most 200 characters"},
		{name: "Blank text", mutate: func(in *RecipeInput) { in.Text = "\n\t " }, field: "text", message: "text required"},
		{name: "Missing image", mutate: func(in *RecipeInput) { in.Image = nil }, field: "image", message: "image required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := RecipeInput{
				Name:        "Soup",
				Text:        "Boil",
				Image:       testImage(),
				CookingTime: 10,
				Ingredients: okLines,
				Tags:        []uint{tag.ID},
			}
			tt.mutate(&input)

			view, err := env.recipeService.Create(context.Background(), author.ID, input)
			assert.Nil(t, view)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, map[string]string{tt.field: tt.message}, verr.Fields)

			assert.Zero(t, env.count(t, "recipes"))
			assert.Zero(t, env.count(t, "recipe_ingredients"))
			assert.Zero(t, env.count(t, "recipe_tags"))
			assert.Zero(t, env.images.count())
		})
	}
}

func TestRecipeService_CreateTrimsName(t *testing.T) {
	env := setupEnv(t)
	author := env.user(t, "chef")
	tag := env.tag(t, "lunch", "#49B64E")
	salt := env.ingredient(t, "salt", "g")

	view, err := env.recipeService.Create(context.Background(), author.ID, RecipeInput{
		Name:        "  Soup  ",
		Text:        "Boil",
		Image:       testImage(),
		CookingTime: 10,
		Ingredients: []IngredientAmount{{ID: salt.ID, Amount: 1}},
		Tags:        []uint{tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Soup", view.Name)

	view, err = env.recipeService.Create(context.Background(), author.ID, RecipeInput{
		Name:        strings.Repeat("щ", 200),
		Text:        "Boil",
		Image:       testImage(),
		CookingTime: 10,
		Ingredients: []IngredientAmount{{ID: salt.ID, Amount: 1}},
		Tags:        []uint{tag.ID},
	})
	require.NoError(t, err)
	assert.Len(t, []rune(view.Name), 200)
}

func TestRecipeService_Update(t *testing.T) {
	env := setupEnv(t)
	author := env.user(t, "chef")
	other := env.user(t, "other")
	lunch := env.tag(t, "lunch", "#49B64E")
	dinner := env.tag(t, "dinner", "#8775D2")
	x := env.ingredient(t, "x", "g")
	y := env.ingredient(t, "y", "g")
	ctx := context.Background()

	created := env.recipe(t, author, "Soup", []uint{lunch.ID}, IngredientAmount{ID: x.ID, Amount: 1})
	input := RecipeInput{
		Name:        "Stew",
		Text:        "Simmer",
		CookingTime: 90,
		Ingredients: []IngredientAmount{{ID: y.ID, Amount: 2}},
		Tags:        []uint{dinner.ID},
	}

	_, err := env.recipeService.Update(ctx, other.ID, created.ID, input)
	assert.ErrorIs(t, err, ErrNotRecipeAuthor)

	_, err = env.recipeService.Update(ctx, author.ID, 999, input)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	updated, err := env.recipeService.Update(ctx, author.ID, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Stew", updated.Name)
	assert.Equal(t, 90, updated.CookingTime)
	assert.Equal(t, created.Image, updated.Image)
	assert.Equal(t, []IngredientAmountView{{ID: y.ID, Name: "y", MeasurementUnit: "g", Amount: 2}}, updated.Ingredients)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, dinner.ID, updated.Tags[0].ID)
	assert.Equal(t, int64(1), env.count(t, "recipe_ingredients"))

	input.Image = testImage()
	replaced, err := env.recipeService.Update(ctx, author.ID, created.ID, input)
	require.NoError(t, err)
	assert.NotEqual(t, created.Image, replaced.Image)
	assert.Equal(t, 1, env.images.count())

	input.Ingredients = nil
	_, err = env.recipeService.Update(ctx, author.ID, created.ID, input)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ingredients required", verr.Fields["ingredients"])
	assert.Equal(t, int64(1), env.count(t, "recipe_ingredients"))
}

func TestRecipeService_Delete(t *testing.T) {
	env := setupEnv(t)
	author := env.user(t, "chef")
	fan := env.user(t, "fan")
	tag := env.tag(t, "lunch", "#49B64E")
	salt := env.ingredient(t, "salt", "g")
	ctx := context.Background()

	view := env.recipe(t, author, "Soup", []uint{tag.ID}, IngredientAmount{ID: salt.ID, Amount: 2})
	_, err := env.favoriteService.Add(fan.ID, view.ID)
	require.NoError(t, err)
	_, err = env.cartService.Add(fan.ID, view.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.recipeService.Delete(ctx, fan.ID, view.ID), ErrNotRecipeAuthor)
	require.NoError(t, env.recipeService.Delete(ctx, author.ID, view.ID))
	assert.ErrorIs(t, env.recipeService.Delete(ctx, author.ID, view.ID), ErrRecipeNotFound)

	for _, table := range []string{"recipes", "recipe_ingredients", "recipe_tags", "favorite_recipes", "shopping_carts"} {
		assert.Zero(t, env.count(t, table), table)
	}
	assert.Zero(t, env.images.count())
}

func TestRecipeService_ListAnnotatesViewer(t *testing.T) {
	env := setupEnv(t)
	author := env.user(t, "chef")
	viewer := env.user(t, "viewer")
	lunch := env.tag(t, "lunch", "#49B64E")
	dinner := env.tag(t, "dinner", "#8775D2")
	salt := env.ingredient(t, "salt", "g")
	line := IngredientAmount{ID: salt.ID, Amount: 1}

	soup := env.recipe(t, author, "Soup", []uint{lunch.ID}, line)
	stew := env.recipe(t, author, "Stew", []uint{dinner.ID}, line)

	_, err := env.favoriteService.Add(viewer.ID, soup.ID)
	require.NoError(t, err)
	_, err = env.cartService.Add(viewer.ID, stew.ID)
	require.NoError(t, err)
	_, err = env.userService.Subscribe(viewer.ID, author.ID, 0)
	require.NoError(t, err)

	page, err := env.recipeService.List(&viewer.ID, RecipeQuery{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, stew.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsInShoppingCart)
	assert.False(t, page.Results[0].IsFavorited)
	assert.True(t, page.Results[1].IsFavorited)
	assert.True(t, page.Results[1].Author.IsSubscribed)

	page, err = env.recipeService.List(&viewer.ID, RecipeQuery{IsFavorited: true}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, soup.ID, page.Results[0].ID)

	page, err = env.recipeService.List(nil, RecipeQuery{IsInShoppingCart: true}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.Empty(t, page.Results)

	page, err = env.recipeService.List(nil, RecipeQuery{Tags: []string{"dinner"}, AuthorID: ptr(author.ID)}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.False(t, page.Results[0].IsInShoppingCart)
	assert.False(t, page.Results[0].Author.IsSubscribed)

	_, err = env.recipeService.Get(nil, 999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

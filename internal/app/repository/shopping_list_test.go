package repository

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRepository_ShoppingList(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewRecipeRepository(testDB)
	cart := NewShoppingCartRepository(testDB)
	author := createUser(t, testDB, "chef")
	user := createUser(t, testDB, "shopper")
	tag := createTag(t, testDB, "lunch", "#49B64E")
	saltG := createIngredient(t, testDB, "Salt", "g")
	saltPinch := createIngredient(t, testDB, "Salt", "pinch")
	apple := createIngredient(t, testDB, "Apple", "pcs")

	r1 := createRecipe(t, repo, author, "r1", map[*model.Ingredient]int{saltG: 5, apple: 2}, tag)
	r2 := createRecipe(t, repo, author, "r2", map[*model.Ingredient]int{saltG: 3, saltPinch: 1}, tag)
	createRecipe(t, repo, author, "not in cart", map[*model.Ingredient]int{saltG: 100}, tag)

	lines, err := repo.ShoppingList(user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, cart.Add(user.ID, r1.ID))
	require.NoError(t, cart.Add(user.ID, r2.ID))

	lines, err = repo.ShoppingList(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingListLine{
		{Name: "Apple", MeasurementUnit: "pcs", Amount: 2},
		{Name: "Salt", MeasurementUnit: "g", Amount: 8},
		{Name: "Salt", MeasurementUnit: "pinch", Amount: 1},
	}, lines)
}

// Random carts must aggregate to the same totals as summing in memory.
func TestRecipeRepository_ShoppingListMatchesInMemorySum(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewRecipeRepository(testDB)
	cart := NewShoppingCartRepository(testDB)
	author := createUser(t, testDB, "chef")
	user := createUser(t, testDB, "shopper")
	tag := createTag(t, testDB, "lunch", "#49B64E")

	rng := rand.New(rand.NewSource(42))
	names := []string{"flour", "milk", "egg", "salt", "sugar"}
	units := []string{"g", "ml"}

	var catalog []*model.Ingredient
	for _, name := range names {
		for _, unit := range units {
			catalog = append(catalog, createIngredient(t, testDB, name, unit))
		}
	}

	type key struct{ name, unit string }
	want := make(map[key]int64)

	for i := 0; i < 20; i++ {
		amounts := make(map[*model.Ingredient]int)
		for _, idx := range rng.Perm(len(catalog))[:1+rng.Intn(5)] {
			amounts[catalog[idx]] = 1 + rng.Intn(500)
		}
		recipe := createRecipe(t, repo, author, "random", amounts, tag)

		if rng.Intn(2) == 0 {
			continue
		}
		require.NoError(t, cart.Add(user.ID, recipe.ID))
		for ing, amount := range amounts {
			want[key{ing.Name, ing.MeasurementUnit}] += int64(amount)
		}
	}

	var expected []ShoppingListLine
	for k, total := range want {
		expected = append(expected, ShoppingListLine{Name: k.name, MeasurementUnit: k.unit, Amount: total})
	}
	sort.Slice(expected, func(i, j int) bool {
		if expected[i].Name != expected[j].Name {
			return expected[i].Name < expected[j].Name
		}
		return expected[i].MeasurementUnit < expected[j].MeasurementUnit
	})

	lines, err := repo.ShoppingList(user.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, lines)
}

package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/foodgram/foodgram-backend/internal/media"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryImages is an in-memory ImageStorage.
type memoryImages struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryImages() *memoryImages {
	return &memoryImages{files: map[string][]byte{}}
}

func (m *memoryImages) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "/media/" + key
	m.files[url] = data
	return url, nil
}

func (m *memoryImages) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	return nil
}

func (m *memoryImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// revokedTokens records Revoke calls.
type revokedTokens struct {
	ttl map[string]time.Duration
}

func (r *revokedTokens) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.ttl[tokenID] = ttl
	return nil
}

type testEnv struct {
	db            *gorm.DB
	images        *memoryImages
	users         repository.UserRepository
	tags          repository.TagRepository
	ingredients   repository.IngredientRepository
	recipes       repository.RecipeRepository
	subscriptions repository.SubscriptionRepository
	favorites     repository.RelationRepository[model.FavoriteRecipe]
	carts         repository.RelationRepository[model.ShoppingCart]

	recipeService   RecipeService
	userService     UserService
	favoriteService RelationService
	cartService     RelationService
	shoppingList    ShoppingListService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:            testDB,
		images:        newMemoryImages(),
		users:         repository.NewUserRepository(testDB),
		tags:          repository.NewTagRepository(testDB),
		ingredients:   repository.NewIngredientRepository(testDB),
		recipes:       repository.NewRecipeRepository(testDB),
		subscriptions: repository.NewSubscriptionRepository(testDB),
		favorites:     repository.NewFavoriteRepository(testDB),
		carts:         repository.NewShoppingCartRepository(testDB),
	}
	env.recipeService = NewRecipeService(env.recipes, env.tags, env.ingredients, env.favorites, env.carts, env.subscriptions, env.images)
	env.userService = NewUserService(env.users, env.subscriptions, env.recipes)
	env.favoriteService = NewFavoriteService(env.favorites, env.recipes)
	env.cartService = NewShoppingCartService(env.carts, env.recipes)
	env.shoppingList = NewShoppingListService(env.recipes)
	return env
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		LastName:     "Cook",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) tag(t *testing.T, slug, color string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: strings.ToUpper(slug[:1]) + slug[1:], Slug: slug, Color: color}
	require.NoError(t, e.tags.Create(tag))
	return tag
}

func (e *testEnv) ingredient(t *testing.T, name, unit string) *model.Ingredient {
	t.Helper()
	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, e.ingredients.Create(ing))
	return ing
}

func testImage() *media.Image {
	return &media.Image{Data: []byte("\x89PNG\r\n\x1a\n"), ContentType: "image/png", Ext: "png"}
}

func (e *testEnv) recipe(t *testing.T, author *model.User, name string, tagIDs []uint, lines ...IngredientAmount) *RecipeView {
	t.Helper()
	view, err := e.recipeService.Create(context.Background(), author.ID, RecipeInput{
		Name:        name,
		Text:        "Cook it",
		Image:       testImage(),
		CookingTime: 15,
		Ingredients: lines,
		Tags:        tagIDs,
	})
	require.NoError(t, err)
	return view
}

func (e *testEnv) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Table(table).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T {
	return &v
}

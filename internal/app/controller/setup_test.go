package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/app/service"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/foodgram/foodgram-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// pngPixel is a complete 1x1 PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR4nGMAAQAABQABDQottAAAAABJRU5ErkJggg=="

type memoryImages struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memoryImages) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files["/media/"+key] = data
	return "/media/" + key, nil
}

func (m *memoryImages) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	return nil
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryBlacklist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memoryBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

type testServer struct {
	router      *gin.Engine
	db          *gorm.DB
	users       repository.UserRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	authService service.AuthService
}

func setupControllerTest(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	ingredientRepo := repository.NewIngredientRepository(testDB)
	recipeRepo := repository.NewRecipeRepository(testDB)
	subscriptionRepo := repository.NewSubscriptionRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	cartRepo := repository.NewShoppingCartRepository(testDB)

	blacklist := &memoryBlacklist{revoked: map[string]bool{}}
	images := &memoryImages{files: map[string][]byte{}}

	authService := service.NewAuthService(userRepo, blacklist, testSecret, time.Hour)
	userService := service.NewUserService(userRepo, subscriptionRepo, recipeRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, favoriteRepo, cartRepo, subscriptionRepo, images)
	paginator := NewPaginator(config.PagingConfig{PageSize: 6, MaxLimit: 100})

	authCtrl := NewAuthController(authService)
	userCtrl := NewUserController(authService, userService, paginator)
	tagCtrl := NewTagController(service.NewTagService(tagRepo))
	ingredientCtrl := NewIngredientController(service.NewIngredientService(ingredientRepo))
	recipeCtrl := NewRecipeController(
		recipeService,
		service.NewFavoriteService(favoriteRepo, recipeRepo),
		service.NewShoppingCartService(cartRepo, recipeRepo),
		service.NewShoppingListService(recipeRepo),
		paginator,
		1<<20,
	)
	auth := middleware.NewAuthMiddleware(testSecret, blacklist)

	router := gin.New()
	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/logout", auth.Authenticate(), authCtrl.Logout)

	router.POST("/users", userCtrl.Register)
	router.GET("/users", auth.OptionalAuthenticate(), userCtrl.List)
	router.GET("/users/me", auth.Authenticate(), userCtrl.Me)
	router.POST("/users/set_password", auth.Authenticate(), userCtrl.SetPassword)
	router.GET("/users/subscriptions", auth.Authenticate(), userCtrl.Subscriptions)
	router.GET("/users/:id", auth.OptionalAuthenticate(), userCtrl.Get)
	router.POST("/users/:id/subscribe", auth.Authenticate(), userCtrl.Subscribe)
	router.DELETE("/users/:id/subscribe", auth.Authenticate(), userCtrl.Unsubscribe)

	router.GET("/tags", tagCtrl.List)
	router.GET("/tags/:id", tagCtrl.Get)
	router.POST("/tags", auth.Authenticate(), auth.RequireRole(model.RoleAdmin), tagCtrl.Create)
	router.GET("/ingredients", ingredientCtrl.List)
	router.GET("/ingredients/:id", ingredientCtrl.Get)
	router.POST("/ingredients", auth.Authenticate(), auth.RequireRole(model.RoleAdmin), ingredientCtrl.Create)

	router.GET("/recipes", auth.OptionalAuthenticate(), recipeCtrl.List)
	router.POST("/recipes", auth.Authenticate(), recipeCtrl.Create)
	router.GET("/recipes/download_shopping_cart", auth.Authenticate(), recipeCtrl.DownloadShoppingCart)
	router.GET("/recipes/:id", auth.OptionalAuthenticate(), recipeCtrl.Get)
	router.PATCH("/recipes/:id", auth.Authenticate(), recipeCtrl.Update)
	router.DELETE("/recipes/:id", auth.Authenticate(), recipeCtrl.Delete)
	router.POST("/recipes/:id/favorite", auth.Authenticate(), recipeCtrl.AddFavorite)
	router.DELETE("/recipes/:id/favorite", auth.Authenticate(), recipeCtrl.RemoveFavorite)
	router.POST("/recipes/:id/shopping_cart", auth.Authenticate(), recipeCtrl.AddToCart)
	router.DELETE("/recipes/:id/shopping_cart", auth.Authenticate(), recipeCtrl.RemoveFromCart)

	return &testServer{
		router:      router,
		db:          testDB,
		users:       userRepo,
		tags:        tagRepo,
		ingredients: ingredientRepo,
		authService: authService,
	}
}

// createUser registers a user with password "secret-pass-1" and returns a token.
func (s *testServer) createUser(t *testing.T, username string, role model.UserRole) (*model.User, string) {
	t.Helper()
	hash, err := util.HashPassword("secret-pass-1")
	require.NoError(t, err)

	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, s.users.Create(user))

	token, err := util.GenerateToken(user.ID, user.Email, string(role), testSecret, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) createTag(t *testing.T, slug, color string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: slug, Slug: slug, Color: color}
	require.NoError(t, s.tags.Create(tag))
	return tag
}

func (s *testServer) createIngredient(t *testing.T, name, unit string) *model.Ingredient {
	t.Helper()
	ing := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, s.ingredients.Create(ing))
	return ing
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

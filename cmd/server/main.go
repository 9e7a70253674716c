package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/internal/app/controller"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/app/service"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/foodgram/foodgram-backend/internal/router"
	"github.com/foodgram/foodgram-backend/internal/storage"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	pkgredis "github.com/foodgram/foodgram-backend/pkg/redis"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.LogLevel(),
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting Foodgram Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.LogLevel(),
	})

	// Initialize database
	database, err := db.Connect(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token blacklist (optional)
	var (
		revoker   service.TokenRevoker
		blacklist middleware.TokenBlacklist
	)
	if cfg.Redis.Enabled() {
		client, err := pkgredis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer client.Close()
		tokens := pkgredis.NewTokenBlacklist(client)
		revoker, blacklist = tokens, tokens
	} else {
		logger.Warn("Redis not configured; logout will not revoke tokens")
	}

	// Image storage
	var images storage.ImageStorage
	if cfg.S3.Enabled() {
		images = storage.NewS3Storage(&cfg.S3)
	} else {
		images = storage.NewLocalStorage(cfg.Media.Root, cfg.Media.URL)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	tagRepo := repository.NewTagRepository(database)
	ingredientRepo := repository.NewIngredientRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	subscriptionRepo := repository.NewSubscriptionRepository(database)
	favoriteRepo := repository.NewFavoriteRepository(database)
	cartRepo := repository.NewShoppingCartRepository(database)

	// Initialize services
	authService := service.NewAuthService(userRepo, revoker, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	userService := service.NewUserService(userRepo, subscriptionRepo, recipeRepo)
	tagService := service.NewTagService(tagRepo)
	ingredientService := service.NewIngredientService(ingredientRepo)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, favoriteRepo, cartRepo, subscriptionRepo, images)
	favoriteService := service.NewFavoriteService(favoriteRepo, recipeRepo)
	cartService := service.NewShoppingCartService(cartRepo, recipeRepo)
	shoppingListService := service.NewShoppingListService(recipeRepo)

	// Initialize controllers
	paginator := controller.NewPaginator(cfg.Paging)
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(authService, userService, paginator)
	tagController := controller.NewTagController(tagService)
	ingredientController := controller.NewIngredientController(ingredientService)
	recipeController := controller.NewRecipeController(
		recipeService,
		favoriteService,
		cartService,
		shoppingListService,
		paginator,
		cfg.Media.MaxImageBytes,
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist)
	var rateLimiter *middleware.IPRateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		rateLimiter = middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		tagController,
		ingredientController,
		recipeController,
		authMiddleware,
		rateLimiter,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	logger.Info("Server stopped successfully")
}

package router

import (
	"net/http"
	"time"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/internal/app/controller"
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController       *controller.AuthController
	userController       *controller.UserController
	tagController        *controller.TagController
	ingredientController *controller.IngredientController
	recipeController     *controller.RecipeController
	authMiddleware       *middleware.AuthMiddleware
	rateLimiter          *middleware.IPRateLimiter
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	tagController *controller.TagController,
	ingredientController *controller.IngredientController,
	recipeController *controller.RecipeController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.IPRateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		userController:       userController,
		tagController:        tagController,
		ingredientController: ingredientController,
		recipeController:     recipeController,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	if r.rateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(r.rateLimiter))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	})

	// Uploaded images are served from disk unless they live in S3
	if !r.config.S3.Enabled() {
		router.Static(r.config.Media.URL, r.config.Media.Root)
	}

	auth := r.authMiddleware
	api := router.Group("/api")
	{
		tokens := api.Group("/auth/token")
		{
			tokens.POST("/login/", r.authController.Login)
			tokens.POST("/logout/", auth.Authenticate(), r.authController.Logout)
		}

		users := api.Group("/users")
		{
			users.POST("/", r.userController.Register)
			users.GET("/", auth.OptionalAuthenticate(), r.userController.List)
			users.GET("/me/", auth.Authenticate(), r.userController.Me)
			users.POST("/set_password/", auth.Authenticate(), r.userController.SetPassword)
			users.GET("/subscriptions/", auth.Authenticate(), r.userController.Subscriptions)
			users.GET("/:id/", auth.OptionalAuthenticate(), r.userController.Get)
			users.POST("/:id/subscribe/", auth.Authenticate(), r.userController.Subscribe)
			users.DELETE("/:id/subscribe/", auth.Authenticate(), r.userController.Unsubscribe)
		}

		tags := api.Group("/tags")
		{
			tags.GET("/", r.tagController.List)
			tags.GET("/:id/", r.tagController.Get)
			tags.POST("/",
				auth.Authenticate(),
				auth.RequireRole(model.RoleAdmin),
				r.tagController.Create,
			)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("/", r.ingredientController.List)
			ingredients.GET("/:id/", r.ingredientController.Get)
			ingredients.POST("/",
				auth.Authenticate(),
				auth.RequireRole(model.RoleAdmin),
				r.ingredientController.Create,
			)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("/", auth.OptionalAuthenticate(), r.recipeController.List)
			recipes.POST("/", auth.Authenticate(), r.recipeController.Create)
			recipes.GET("/download_shopping_cart/", auth.Authenticate(), r.recipeController.DownloadShoppingCart)
			recipes.GET("/:id/", auth.OptionalAuthenticate(), r.recipeController.Get)
			recipes.PATCH("/:id/", auth.Authenticate(), r.recipeController.Update)
			recipes.DELETE("/:id/", auth.Authenticate(), r.recipeController.Delete)
			recipes.POST("/:id/favorite/", auth.Authenticate(), r.recipeController.AddFavorite)
			recipes.DELETE("/:id/favorite/", auth.Authenticate(), r.recipeController.RemoveFavorite)
			recipes.POST("/:id/shopping_cart/", auth.Authenticate(), r.recipeController.AddToCart)
			recipes.DELETE("/:id/shopping_cart/", auth.Authenticate(), r.recipeController.RemoveFromCart)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = allowedOrigins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}

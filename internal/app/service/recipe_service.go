package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/media"
	"github.com/foodgram/foodgram-backend/internal/storage"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	recipeImageFolder  = "recipes"
	maxRecipeNameRunes = 200
)

type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput is the full writable state of a recipe. Image may be nil on
// update, which keeps the stored image.
type RecipeInput struct {
	Name        string
	Text        string
	Image       *media.Image
	CookingTime int
	Ingredients []IngredientAmount
	Tags        []uint
}

// RecipeQuery filters a listing. The favorited and cart flags only apply to
// an authenticated viewer.
type RecipeQuery struct {
	AuthorID         *uint
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

type RecipeService interface {
	Create(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, editorID, recipeID uint, input RecipeInput) (*RecipeView, error)
	Get(viewerID *uint, id uint) (*RecipeView, error)
	List(viewerID *uint, query RecipeQuery, offset, limit int) (*Page[RecipeView], error)
	Delete(ctx context.Context, editorID, recipeID uint) error
}

type recipeService struct {
	recipeRepo       repository.RecipeRepository
	tagRepo          repository.TagRepository
	ingredientRepo   repository.IngredientRepository
	favoriteRepo     repository.RelationRepository[model.FavoriteRecipe]
	cartRepo         repository.RelationRepository[model.ShoppingCart]
	subscriptionRepo repository.SubscriptionRepository
	images           storage.ImageStorage
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	favoriteRepo repository.RelationRepository[model.FavoriteRecipe],
	cartRepo repository.RelationRepository[model.ShoppingCart],
	subscriptionRepo repository.SubscriptionRepository,
	images storage.ImageStorage,
) RecipeService {
	return &recipeService{
		recipeRepo:       recipeRepo,
		tagRepo:          tagRepo,
		ingredientRepo:   ingredientRepo,
		favoriteRepo:     favoriteRepo,
		cartRepo:         cartRepo,
		subscriptionRepo: subscriptionRepo,
		images:           images,
	}
}

// validate checks input in a fixed order and reports the first failure.
func (s *recipeService) validate(input RecipeInput, requireImage bool) error {
	if input.CookingTime < 1 {
		return newValidationError("cooking_time", "cooking time must be at least 1")
	}

	if len(input.Tags) == 0 {
		return newValidationError("tags", "tags required")
	}
	seenTags := make(map[uint]bool, len(input.Tags))
	for _, id := range input.Tags {
		if seenTags[id] {
			return newValidationError("tags", "tags must be unique")
		}
		seenTags[id] = true
	}
	tags, err := s.tagRepo.FindByIDs(input.Tags)
	if err != nil {
		return err
	}
	if len(tags) != len(input.Tags) {
		return newValidationError("tags", "tag not found")
	}

	if len(input.Ingredients) == 0 {
		return newValidationError("ingredients", "ingredients required")
	}
	seenIngredients := make(map[uint]bool, len(input.Ingredients))
	ids := make([]uint, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		if seenIngredients[ing.ID] {
			return newValidationError("ingredients", "ingredient repeated")
		}
		seenIngredients[ing.ID] = true
		ids = append(ids, ing.ID)
	}
	for _, ing := range input.Ingredients {
		if ing.Amount < 1 {
			return newValidationError("ingredients", "amount must be positive")
		}
	}
	found, err := s.ingredientRepo.FindByIDs(ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return newValidationError("ingredients", "ingredient not found")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return newValidationError("name", "name required")
	}
	if utf8.RuneCountInString(name) > maxRecipeNameRunes {
		return newValidationError("name", "name must be at most 200 characters")
	}
	if strings.TrimSpace(input.Text) == "" {
		return newValidationError("text", "text required")
	}

	if requireImage && input.Image == nil {
		return newValidationError("image", "image required")
	}
	return nil
}

// translateWriteError maps constraint failures that slipped past validation,
// for example a tag deleted concurrently.
func translateWriteError(err error) error {
	switch {
	case apperrors.IsCheckViolation(err):
		if apperrors.ViolatesConstraint(err, "cooking_time") {
			return newValidationError("cooking_time", "cooking time must be at least 1")
		}
		return newValidationError("ingredients", "amount must be positive")
	case apperrors.IsUniqueViolation(err):
		return newValidationError("ingredients", "ingredient repeated")
	case apperrors.IsForeignKeyViolation(err):
		return newValidationError("ingredients", "ingredient or tag not found")
	}
	return err
}

func (s *recipeService) storeImage(ctx context.Context, img *media.Image) (string, error) {
	key := storage.NewObjectKey(recipeImageFolder, img.Ext)
	url, err := s.images.Save(ctx, key, img.Data, img.ContentType)
	if err != nil {
		logger.Error("Failed to store recipe image", err, map[string]interface{}{
			"key": key,
		})
		return "", err
	}
	return url, nil
}

// discardImage removes a stored image. Failures are logged, not returned.
func (s *recipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logger.Warn("Failed to remove recipe image", map[string]interface{}{
			"image": url,
			"error": err.Error(),
		})
	}
}

func toComponents(input RecipeInput) []model.RecipeIngredient {
	lines := make([]model.RecipeIngredient, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		lines[i] = model.RecipeIngredient{IngredientID: ing.ID, Amount: ing.Amount}
	}
	return lines
}

func (s *recipeService) Create(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id": authorID,
		"name":      input.Name,
	})

	if err := s.validate(input, true); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(input.Name),
		Text:        input.Text,
		Image:       imageURL,
		CookingTime: input.CookingTime,
	}
	if err := s.recipeRepo.Create(recipe, toComponents(input), input.Tags); err != nil {
		s.discardImage(ctx, imageURL)
		return nil, translateWriteError(err)
	}

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})
	return s.Get(&authorID, recipe.ID)
}

// findOwned loads a recipe the editor is allowed to change.
func (s *recipeService) findOwned(editorID, recipeID uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != editorID {
		logger.Warn("Recipe change rejected: not the author", map[string]interface{}{
			"recipe_id": recipeID,
			"editor_id": editorID,
			"author_id": recipe.AuthorID,
		})
		return nil, ErrNotRecipeAuthor
	}
	return recipe, nil
}

func (s *recipeService) Update(ctx context.Context, editorID, recipeID uint, input RecipeInput) (*RecipeView, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"editor_id": editorID,
	})

	recipe, err := s.findOwned(editorID, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(input, false); err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	if input.Image != nil {
		if recipe.Image, err = s.storeImage(ctx, input.Image); err != nil {
			return nil, err
		}
	}
	recipe.Name = strings.TrimSpace(input.Name)
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime

	if err := s.recipeRepo.Update(recipe, toComponents(input), input.Tags); err != nil {
		if recipe.Image != oldImage {
			s.discardImage(ctx, recipe.Image)
		}
		return nil, translateWriteError(err)
	}
	if recipe.Image != oldImage {
		s.discardImage(ctx, oldImage)
	}

	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.Get(&editorID, recipeID)
}

func (s *recipeService) Get(viewerID *uint, id uint) (*RecipeView, error) {
	recipe, err := s.recipeRepo.FindDetailedByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	views, err := s.recipeViews(viewerID, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *recipeService) List(viewerID *uint, query RecipeQuery, offset, limit int) (*Page[RecipeView], error) {
	filter := repository.RecipeFilter{
		AuthorID: query.AuthorID,
		TagSlugs: query.Tags,
	}
	if query.IsFavorited || query.IsInShoppingCart {
		if viewerID == nil {
			return &Page[RecipeView]{Results: []RecipeView{}}, nil
		}
		if query.IsFavorited {
			filter.FavoritedBy = viewerID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipeRepo.List(filter, offset, limit)
	if err != nil {
		return nil, err
	}

	views, err := s.recipeViews(viewerID, recipes)
	if err != nil {
		return nil, err
	}
	return &Page[RecipeView]{Count: total, Results: views}, nil
}

func (s *recipeService) Delete(ctx context.Context, editorID, recipeID uint) error {
	recipe, err := s.findOwned(editorID, recipeID)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	s.discardImage(ctx, recipe.Image)

	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": recipeID,
		"editor_id": editorID,
	})
	return nil
}

// recipeViews renders recipes with the viewer-relative flags filled in.
func (s *recipeService) recipeViews(viewerID *uint, recipes []model.Recipe) ([]RecipeView, error) {
	favorited := map[uint]bool{}
	inCart := map[uint]bool{}
	followed := map[uint]bool{}

	if viewerID != nil && len(recipes) > 0 {
		recipeIDs := make([]uint, len(recipes))
		authorIDs := make([]uint, len(recipes))
		for i := range recipes {
			recipeIDs[i] = recipes[i].ID
			authorIDs[i] = recipes[i].AuthorID
		}

		var err error
		if favorited, err = s.favoriteRepo.Contains(*viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = s.cartRepo.Contains(*viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if followed, err = s.subscriptionRepo.FollowedAmong(*viewerID, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]

		tags := make([]model.Tag, len(r.Tags))
		for j, rt := range r.Tags {
			tags[j] = rt.Tag
		}
		ingredients := make([]IngredientAmountView, len(r.Ingredients))
		for j, ri := range r.Ingredients {
			ingredients[j] = IngredientAmountView{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			}
		}

		views[i] = RecipeView{
			ID:               r.ID,
			Tags:             tags,
			Author:           newUserView(&r.Author, followed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
	}
	return views, nil
}

package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/media"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeText = "text/plain; charset=utf-8"
)

type RecipeController struct {
	recipeService   service.RecipeService
	favoriteService service.RelationService
	cartService     service.RelationService
	shoppingList    service.ShoppingListService
	paginator       Paginator
	maxImageBytes   int64
}

func NewRecipeController(
	recipeService service.RecipeService,
	favoriteService service.RelationService,
	cartService service.RelationService,
	shoppingList service.ShoppingListService,
	paginator Paginator,
	maxImageBytes int64,
) *RecipeController {
	return &RecipeController{
		recipeService:   recipeService,
		favoriteService: favoriteService,
		cartService:     cartService,
		shoppingList:    shoppingList,
		paginator:       paginator,
		maxImageBytes:   maxImageBytes,
	}
}

type IngredientAmountRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeWriteRequest is the body of create and update. Image is a base64
// data URI; multipart requests send it as a file part instead.
type RecipeWriteRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Tags        []uint                    `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time"`
}

func (r RecipeWriteRequest) input(img *media.Image) service.RecipeInput {
	ingredients := make([]service.IngredientAmount, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = service.IngredientAmount{ID: ing.ID, Amount: ing.Amount}
	}
	return service.RecipeInput{
		Name:        strings.TrimSpace(r.Name),
		Text:        r.Text,
		Image:       img,
		CookingTime: r.CookingTime,
		Ingredients: ingredients,
		Tags:        r.Tags,
	}
}

// bindRecipe reads a JSON or multipart recipe body. It writes the error
// response itself and returns false on failure.
func (ctrl *RecipeController) bindRecipe(c *gin.Context) (service.RecipeInput, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return ctrl.bindMultipartRecipe(c)
	}

	var req RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return service.RecipeInput{}, false
	}

	var img *media.Image
	if req.Image != "" {
		decoded, err := media.DecodeDataURI(req.Image, ctrl.maxImageBytes)
		if err != nil {
			respondImageError(c, err)
			return service.RecipeInput{}, false
		}
		img = decoded
	}
	return req.input(img), true
}

// bindMultipartRecipe reads form fields. ingredients is a JSON array; tags
// may be repeated or a JSON array.
func (ctrl *RecipeController) bindMultipartRecipe(c *gin.Context) (service.RecipeInput, bool) {
	req := RecipeWriteRequest{
		Name: c.PostForm("name"),
		Text: c.PostForm("text"),
	}
	fields := map[string]string{}

	if req.Name == "" {
		fields["name"] = "this field is required"
	}
	if req.Text == "" {
		fields["text"] = "this field is required"
	}
	if raw := c.PostForm("cooking_time"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields["cooking_time"] = "a valid integer is required"
		}
		req.CookingTime = n
	}
	if raw := c.PostForm("ingredients"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Ingredients); err != nil {
			fields["ingredients"] = "expected a JSON list of {id, amount}"
		}
	}
	tags, err := parseTagIDs(c.PostFormArray("tags"))
	if err != nil {
		fields["tags"] = err.Error()
	}
	req.Tags = tags

	if len(fields) > 0 {
		apperrors.RespondWithValidationError(c, fields)
		return service.RecipeInput{}, false
	}

	var img *media.Image
	if fh, err := c.FormFile("image"); err == nil {
		decoded, err := media.FromMultipart(fh, ctrl.maxImageBytes)
		if err != nil {
			respondImageError(c, err)
			return service.RecipeInput{}, false
		}
		img = decoded
	}
	return req.input(img), true
}

func parseTagIDs(values []string) ([]uint, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var ids []uint
		if err := json.Unmarshal([]byte(values[0]), &ids); err != nil {
			return nil, errors.New("expected a list of tag ids")
		}
		return ids, nil
	}

	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid tag id %q", v)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func respondImageError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Rejected recipe image", map[string]interface{}{
		"error": err.Error(),
	})
	msg := "upload a valid image"
	if errors.Is(err, media.ErrImageTooLarge) {
		msg = "image is too large"
	}
	apperrors.RespondWithValidationError(c, map[string]string{"image": msg})
}

// Create publishes a recipe
// POST /api/recipes/
func (ctrl *RecipeController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	input, ok := ctrl.bindRecipe(c)
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err, "create recipe")
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// Update replaces a recipe's state (author only)
// PATCH /api/recipes/:id/
func (ctrl *RecipeController) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	input, ok := ctrl.bindRecipe(c)
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		respondError(c, err, "update recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Delete removes a recipe (author only)
// DELETE /api/recipes/:id/
func (ctrl *RecipeController) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err, "delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

// Get returns one recipe
// GET /api/recipes/:id/
func (ctrl *RecipeController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.Get(middleware.GetViewerID(c), id)
	if err != nil {
		respondError(c, err, "get recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func queryFlag(c *gin.Context, name string) bool {
	switch strings.ToLower(c.Query(name)) {
	case "1", "true":
		return true
	}
	return false
}

// List returns recipes newest first
// GET /api/recipes/?author=&tags=&is_favorited=&is_in_shopping_cart=
func (ctrl *RecipeController) List(c *gin.Context) {
	req, ok := ctrl.paginator.parse(c)
	if !ok {
		return
	}

	query := service.RecipeQuery{
		Tags:             c.QueryArray("tags"),
		IsFavorited:      queryFlag(c, "is_favorited"),
		IsInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid author")
			return
		}
		id := uint(authorID)
		query.AuthorID = &id
	}

	page, err := ctrl.recipeService.List(middleware.GetViewerID(c), query, req.offset(), req.limit)
	if err != nil {
		respondError(c, err, "list recipes")
		return
	}
	respondPage(c, req, page)
}

func (ctrl *RecipeController) addRelation(c *gin.Context, relations service.RelationService, action string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := relations.Add(userID, id)
	if err != nil {
		respondError(c, err, action)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (ctrl *RecipeController) removeRelation(c *gin.Context, relations service.RelationService, action string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := relations.Remove(userID, id); err != nil {
		respondError(c, err, action)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite POST /api/recipes/:id/favorite/
func (ctrl *RecipeController) AddFavorite(c *gin.Context) {
	ctrl.addRelation(c, ctrl.favoriteService, "add favorite")
}

// RemoveFavorite DELETE /api/recipes/:id/favorite/
func (ctrl *RecipeController) RemoveFavorite(c *gin.Context) {
	ctrl.removeRelation(c, ctrl.favoriteService, "remove favorite")
}

// AddToCart POST /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) AddToCart(c *gin.Context) {
	ctrl.addRelation(c, ctrl.cartService, "add to cart")
}

// RemoveFromCart DELETE /api/recipes/:id/shopping_cart/
func (ctrl *RecipeController) RemoveFromCart(c *gin.Context) {
	ctrl.removeRelation(c, ctrl.cartService, "remove from cart")
}

// DownloadShoppingCart renders the aggregated shopping list as text, or as a
// workbook with ?format=xlsx
// GET /api/recipes/download_shopping_cart/
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lines, err := ctrl.shoppingList.Lines(userID)
	if err != nil {
		respondError(c, err, "build shopping list")
		return
	}

	if c.Query("format") == "xlsx" {
		data, err := ctrl.shoppingList.RenderXLSX(lines)
		if err != nil {
			respondError(c, err, "render shopping list")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="shopping_list.xlsx"`)
		c.Data(http.StatusOK, contentTypeXLSX, data)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, contentTypeText, ctrl.shoppingList.RenderText(lines))
}

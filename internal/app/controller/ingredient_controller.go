package controller

import (
	"net/http"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{ingredientService: ingredientService}
}

type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=200"`
}

// List searches the catalog by case-insensitive name prefix
// GET /api/ingredients/?name=
func (ctrl *IngredientController) List(c *gin.Context) {
	ingredients, err := ctrl.ingredientService.List(c.Query("name"))
	if err != nil {
		respondError(c, err, "list ingredients")
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// Get returns one ingredient
// GET /api/ingredients/:id/
func (ctrl *IngredientController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ingredient, err := ctrl.ingredientService.Get(id)
	if err != nil {
		respondError(c, err, "get ingredient")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// Create adds a catalog entry (admin only)
// POST /api/ingredients/
func (ctrl *IngredientController) Create(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ingredient, err := ctrl.ingredientService.Create(req.Name, req.MeasurementUnit)
	if err != nil {
		respondError(c, err, "create ingredient")
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

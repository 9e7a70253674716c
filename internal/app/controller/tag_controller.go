package controller

import (
	"net/http"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor"`
	Slug  string `json:"slug" binding:"max=200"`
}

// List returns every tag, unpaginated
// GET /api/tags/
func (ctrl *TagController) List(c *gin.Context) {
	tags, err := ctrl.tagService.List()
	if err != nil {
		respondError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Get returns one tag
// GET /api/tags/:id/
func (ctrl *TagController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.Get(id)
	if err != nil {
		respondError(c, err, "get tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Create adds a tag (admin only)
// POST /api/tags/
func (ctrl *TagController) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tag, err := ctrl.tagService.Create(req.Name, req.Color, req.Slug)
	if err != nil {
		respondError(c, err, "create tag")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
	})
	c.JSON(http.StatusCreated, tag)
}

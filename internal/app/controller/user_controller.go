package controller

import (
	"net/http"
	"strconv"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	authService service.AuthService
	userService service.UserService
	paginator   Paginator
}

func NewUserController(authService service.AuthService, userService service.UserService, paginator Paginator) *UserController {
	return &UserController{
		authService: authService,
		userService: userService,
		paginator:   paginator,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// Register creates an account
// POST /api/users/
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ctrl.authService.Register(service.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err, "register")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// List returns users ordered by id
// GET /api/users/
func (ctrl *UserController) List(c *gin.Context) {
	req, ok := ctrl.paginator.parse(c)
	if !ok {
		return
	}

	page, err := ctrl.userService.List(middleware.GetViewerID(c), req.offset(), req.limit)
	if err != nil {
		respondError(c, err, "list users")
		return
	}
	respondPage(c, req, page)
}

// Get returns one profile
// GET /api/users/:id/
func (ctrl *UserController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.Get(middleware.GetViewerID(c), id)
	if err != nil {
		respondError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me returns the caller's profile
// GET /api/users/me/
func (ctrl *UserController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.Get(&userID, userID)
	if err != nil {
		respondError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPassword changes the caller's password
// POST /api/users/set_password/
func (ctrl *UserController) SetPassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := ctrl.authService.SetPassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err, "set password")
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit reads the optional recipes_limit parameter; 0 means no limit.
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "recipes_limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}

// Subscriptions lists the authors the caller follows
// GET /api/users/subscriptions/
func (ctrl *UserController) Subscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	req, ok := ctrl.paginator.parse(c)
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	page, err := ctrl.userService.ListSubscriptions(userID, req.offset(), req.limit, limit)
	if err != nil {
		respondError(c, err, "list subscriptions")
		return
	}
	respondPage(c, req, page)
}

// Subscribe follows an author
// POST /api/users/:id/subscribe/
func (ctrl *UserController) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	view, err := ctrl.userService.Subscribe(userID, authorID, limit)
	if err != nil {
		respondError(c, err, "subscribe")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Unsubscribe stops following an author
// DELETE /api/users/:id/subscribe/
func (ctrl *UserController) Unsubscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.Unsubscribe(userID, authorID); err != nil {
		respondError(c, err, "unsubscribe")
		return
	}
	c.Status(http.StatusNoContent)
}

package controller

import (
	"net/http"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login issues an auth token
// POST /api/auth/token/login/
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login")
		return
	}

	log.Info("User logged in", map[string]interface{}{
		"email": req.Email,
	})
	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout revokes the presented token
// POST /api/auth/token/logout/
func (ctrl *AuthController) Logout(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err, "logout")
		return
	}
	c.Status(http.StatusNoContent)
}

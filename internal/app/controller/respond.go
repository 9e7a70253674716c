package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conflictCodes maps business conflicts to their error codes. All of them
// are reported as 400.
var conflictCodes = []struct {
	err  error
	code string
}{
	{service.ErrEmailTaken, apperrors.AuthEmailAlreadyExists},
	{service.ErrUsernameTaken, apperrors.AuthUsernameExists},
	{service.ErrWrongPassword, apperrors.AuthWrongPassword},
	{service.ErrAlreadyFavorited, apperrors.RecipeAlreadyFavorited},
	{service.ErrNotFavorited, apperrors.RecipeNotFavorited},
	{service.ErrAlreadyInCart, apperrors.RecipeAlreadyInCart},
	{service.ErrNotInCart, apperrors.RecipeNotInCart},
	{service.ErrSelfSubscription, apperrors.SubscriptionSelf},
	{service.ErrAlreadySubscribed, apperrors.SubscriptionExists},
	{service.ErrNotSubscribed, apperrors.SubscriptionMissing},
	{service.ErrTagExists, apperrors.TagAlreadyExists},
	{service.ErrIngredientExists, apperrors.IngredientAlreadyExists},
}

var notFoundErrors = []error{
	service.ErrUserNotFound,
	service.ErrRecipeNotFound,
	service.ErrTagNotFound,
	service.ErrIngredientNotFound,
}

func conflictCode(err error) (string, bool) {
	for _, cc := range conflictCodes {
		if errors.Is(err, cc.err) {
			return cc.code, true
		}
	}
	return "", false
}

// respondError maps a service error onto an HTTP response. Unknown errors
// are logged and reported as 500.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		code, ok := conflictCode(err)
		if !ok {
			code = apperrors.ValidationInvalidInput
		}
		log.Warn("Request rejected", map[string]interface{}{
			"action": action,
			"fields": verr.Fields,
		})
		apperrors.RespondWithFieldErrors(c, code, verr.Error(), verr.Fields)
		return
	}

	if code, ok := conflictCode(err); ok {
		log.Warn("Request conflicts with current state", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
		apperrors.BadRequest(c, code, err.Error())
		return
	}

	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrNotRecipeAuthor):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.BadRequest(c, apperrors.AuthInvalidCredentials, err.Error())
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.InternalError(c, "")
	}
}

// respondBindError reports a malformed request body.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the authenticated user. Routes using it sit behind
// Authenticate, so a missing ID is answered with 401.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
	}
	return userID, ok
}

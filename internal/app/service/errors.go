package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")

	ErrNotRecipeAuthor = errors.New("only the author can change this recipe")

	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("user with this username already exists")

	ErrAlreadyFavorited  = errors.New("recipe already in favorites")
	ErrNotFavorited      = errors.New("recipe not in favorites")
	ErrAlreadyInCart     = errors.New("recipe already in shopping cart")
	ErrNotInCart         = errors.New("recipe not in shopping cart")
	ErrSelfSubscription  = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")

	ErrTagExists        = errors.New("tag already exists")
	ErrIngredientExists = errors.New("ingredient already exists")
)

// ValidationError carries one message per offending field. When it was caused
// by a uniqueness conflict, errors.Is matches the conflict sentinel too.
type ValidationError struct {
	Fields map[string]string
	cause  error
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func newFieldConflict(cause error, field string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: cause.Error()}, cause: cause}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

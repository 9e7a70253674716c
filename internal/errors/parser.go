package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Database errors are classified by gorm's translated sentinels first and by
// driver message second. Postgres reports e.g. `duplicate key value violates
// unique constraint "unique_favorite"`, sqlite reports
// `UNIQUE constraint failed: favorite_recipes.user_id, favorite_recipes.recipe_id`.

// IsUniqueViolation reports whether err comes from a unique index or primary key.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}

// IsCheckViolation reports whether err comes from a CHECK constraint.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "check constraint") || strings.Contains(msg, "sqlstate 23514")
}

// IsForeignKeyViolation reports whether err comes from a missing referenced row.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") || strings.Contains(msg, "sqlstate 23503")
}

// ViolatesConstraint reports whether err mentions the named constraint, index
// or column. Used to tell apart several unique indexes on one table.
func ViolatesConstraint(err error, names ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, name := range names {
		if strings.Contains(msg, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

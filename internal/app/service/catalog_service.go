package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxTagSlugLength = 200

var tagColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

type TagService interface {
	List() ([]model.Tag, error)
	Get(id uint) (*model.Tag, error)
	Create(name, color, tagSlug string) (*model.Tag, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) List() ([]model.Tag, error) {
	return s.tagRepo.List()
}

func (s *tagService) Get(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// Create adds a tag. An empty slug is derived from the name.
func (s *tagService) Create(name, color, tagSlug string) (*model.Tag, error) {
	if !tagColorPattern.MatchString(color) {
		return nil, newValidationError("color", "enter a valid HEX color (#RRGGBB or #RGB)")
	}
	if tagSlug == "" {
		tagSlug = slug.Make(name)
	}
	if !slug.IsSlug(tagSlug) {
		return nil, newValidationError("slug", "enter a valid slug")
	}
	if len(tagSlug) > maxTagSlugLength {
		return nil, newValidationError("slug", "slug must be at most 200 characters")
	}

	tag := &model.Tag{
		Name:  strings.TrimSpace(name),
		Color: strings.ToUpper(color),
		Slug:  tagSlug,
	}
	if err := s.tagRepo.Create(tag); err != nil {
		if apperrors.IsUniqueViolation(err) {
			field := "name"
			switch {
			case apperrors.ViolatesConstraint(err, "slug"):
				field = "slug"
			case apperrors.ViolatesConstraint(err, "color"):
				field = "color"
			}
			return nil, newFieldConflict(ErrTagExists, field)
		}
		return nil, err
	}

	logger.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"slug":   tag.Slug,
	})
	return tag, nil
}

type IngredientService interface {
	List(namePrefix string) ([]model.Ingredient, error)
	Get(id uint) (*model.Ingredient, error)
	Create(name, measurementUnit string) (*model.Ingredient, error)
	Import(ingredients []model.Ingredient) (int64, error)
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientService(ingredientRepo repository.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) List(namePrefix string) ([]model.Ingredient, error) {
	return s.ingredientRepo.List(strings.TrimSpace(namePrefix))
}

func (s *ingredientService) Get(id uint) (*model.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *ingredientService) Create(name, measurementUnit string) (*model.Ingredient, error) {
	ingredient := &model.Ingredient{
		Name:            strings.TrimSpace(name),
		MeasurementUnit: strings.TrimSpace(measurementUnit),
	}
	if err := s.ingredientRepo.Create(ingredient); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, newFieldConflict(ErrIngredientExists, "name")
		}
		return nil, err
	}

	logger.Info("Ingredient created", map[string]interface{}{
		"ingredient_id": ingredient.ID,
		"name":          ingredient.Name,
		"unit":          ingredient.MeasurementUnit,
	})
	return ingredient, nil
}

// Import bulk-loads catalog entries, dropping blanks and in-batch duplicates.
func (s *ingredientService) Import(ingredients []model.Ingredient) (int64, error) {
	type key struct{ name, unit string }
	seen := make(map[key]bool, len(ingredients))

	batch := make([]model.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		k := key{strings.TrimSpace(ing.Name), strings.TrimSpace(ing.MeasurementUnit)}
		if k.name == "" || k.unit == "" || seen[k] {
			continue
		}
		seen[k] = true
		batch = append(batch, model.Ingredient{Name: k.name, MeasurementUnit: k.unit})
	}

	return s.ingredientRepo.Import(batch)
}

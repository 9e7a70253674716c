package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	List() ([]model.Tag, error)
	FindByID(id uint) (*model.Tag, error)
	FindByIDs(ids []uint) ([]model.Tag, error)
	Create(tag *model.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) List() ([]model.Tag, error) {
	logger.Debug("Listing tags from database")

	var tags []model.Tag
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to list tags from database", err)
		return nil, err
	}

	logger.Debug("Tags listed from database", map[string]interface{}{
		"count": len(tags),
	})
	return tags, nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	logger.Debug("Finding tag by ID in database", map[string]interface{}{
		"tag_id": id,
	})

	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		logger.Error("Failed to find tag by ID in database", err, map[string]interface{}{
			"tag_id": id,
		})
		return nil, err
	}
	return &tag, nil
}

// FindByIDs returns the tags that exist among ids, ordered by id.
func (r *tagRepository) FindByIDs(ids []uint) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}

	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to find tags by IDs in database", err, map[string]interface{}{
			"tag_ids": ids,
		})
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag in database", map[string]interface{}{
		"name": tag.Name,
		"slug": tag.Slug,
	})

	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag in database", err, map[string]interface{}{
			"name": tag.Name,
			"slug": tag.Slug,
		})
		return err
	}

	logger.Debug("Tag created in database", map[string]interface{}{
		"tag_id": tag.ID,
	})
	return nil
}

package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(sub *model.Subscription) error
	Delete(userID, authorID uint) (int64, error)
	FollowedAmong(userID uint, authorIDs []uint) (map[uint]bool, error)
	ListAuthors(userID uint, offset, limit int) ([]model.User, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(sub *model.Subscription) error {
	logger.Debug("Creating subscription in database", map[string]interface{}{
		"user_id":   sub.UserID,
		"author_id": sub.AuthorID,
	})

	if err := r.db.Omit("Author").Create(sub).Error; err != nil {
		logger.Error("Failed to create subscription in database", err, map[string]interface{}{
			"user_id":   sub.UserID,
			"author_id": sub.AuthorID,
		})
		return err
	}

	logger.Debug("Subscription created in database", map[string]interface{}{
		"subscription_id": sub.ID,
	})
	return nil
}

// Delete removes the subscription and reports how many rows were deleted.
func (r *subscriptionRepository) Delete(userID, authorID uint) (int64, error) {
	logger.Debug("Deleting subscription from database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&model.Subscription{})
	if result.Error != nil {
		logger.Error("Failed to delete subscription from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return 0, result.Error
	}

	logger.Debug("Subscription deleted from database", map[string]interface{}{
		"user_id":       userID,
		"author_id":     authorID,
		"rows_affected": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

// FollowedAmong returns which of authorIDs userID is subscribed to.
func (r *subscriptionRepository) FollowedAmong(userID uint, authorIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool)
	if len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []uint
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load subscriptions from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

// ListAuthors returns the authors userID follows, most recent subscription first.
func (r *subscriptionRepository) ListAuthors(userID uint, offset, limit int) ([]model.User, int64, error) {
	logger.Debug("Listing subscribed authors from database", map[string]interface{}{
		"user_id": userID,
		"offset":  offset,
		"limit":   limit,
	})

	var total int64
	if err := r.db.Model(&model.Subscription{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Error("Failed to count subscriptions in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	var authors []model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.created_at DESC, subscriptions.id DESC").
		Offset(offset).Limit(limit).
		Find(&authors).Error
	if err != nil {
		logger.Error("Failed to list subscribed authors from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("Subscribed authors listed from database", map[string]interface{}{
		"user_id": userID,
		"count":   len(authors),
		"total":   total,
	})
	return authors, total, nil
}

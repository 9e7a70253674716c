package service

import (
	"errors"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserService serves profiles and subscriptions. viewerID is nil for
// anonymous requests.
type UserService interface {
	Get(viewerID *uint, id uint) (*UserView, error)
	List(viewerID *uint, offset, limit int) (*Page[UserView], error)
	Subscribe(userID, authorID uint, recipesLimit int) (*SubscriptionView, error)
	Unsubscribe(userID, authorID uint) error
	ListSubscriptions(userID uint, offset, limit, recipesLimit int) (*Page[SubscriptionView], error)
}

type userService struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	recipeRepo       repository.RecipeRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	recipeRepo repository.RecipeRepository,
) UserService {
	return &userService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		recipeRepo:       recipeRepo,
	}
}

func (s *userService) findUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// followed reports which of users the viewer follows; empty for anonymous viewers.
func (s *userService) followed(viewerID *uint, users []model.User) (map[uint]bool, error) {
	if viewerID == nil {
		return map[uint]bool{}, nil
	}
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	return s.subscriptionRepo.FollowedAmong(*viewerID, ids)
}

func (s *userService) Get(viewerID *uint, id uint) (*UserView, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}

	followed, err := s.followed(viewerID, []model.User{*user})
	if err != nil {
		return nil, err
	}

	view := newUserView(user, followed[user.ID])
	return &view, nil
}

func (s *userService) List(viewerID *uint, offset, limit int) (*Page[UserView], error) {
	users, total, err := s.userRepo.List(offset, limit)
	if err != nil {
		return nil, err
	}

	followed, err := s.followed(viewerID, users)
	if err != nil {
		return nil, err
	}

	results := make([]UserView, len(users))
	for i := range users {
		results[i] = newUserView(&users[i], followed[users[i].ID])
	}
	return &Page[UserView]{Count: total, Results: results}, nil
}

func (s *userService) Subscribe(userID, authorID uint, recipesLimit int) (*SubscriptionView, error) {
	logger.Info("Subscribing to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	author, err := s.findUser(authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		logger.Warn("Self-subscription rejected", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrSelfSubscription
	}

	if err := s.subscriptionRepo.Create(&model.Subscription{UserID: userID, AuthorID: authorID}); err != nil {
		switch {
		case apperrors.IsUniqueViolation(err):
			return nil, ErrAlreadySubscribed
		case apperrors.IsCheckViolation(err):
			return nil, ErrSelfSubscription
		}
		return nil, err
	}

	views, err := s.subscriptionViews([]model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}

	logger.Info("Subscribed to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return &views[0], nil
}

func (s *userService) Unsubscribe(userID, authorID uint) error {
	if _, err := s.findUser(authorID); err != nil {
		return err
	}

	deleted, err := s.subscriptionRepo.Delete(userID, authorID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		logger.Warn("Unsubscribe rejected: not subscribed", map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return ErrNotSubscribed
	}

	logger.Info("Unsubscribed from author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return nil
}

func (s *userService) ListSubscriptions(userID uint, offset, limit, recipesLimit int) (*Page[SubscriptionView], error) {
	authors, total, err := s.subscriptionRepo.ListAuthors(userID, offset, limit)
	if err != nil {
		return nil, err
	}

	views, err := s.subscriptionViews(authors, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &Page[SubscriptionView]{Count: total, Results: views}, nil
}

// subscriptionViews renders followed authors. Every author passed in is
// followed by the viewer, so is_subscribed is always true.
func (s *userService) subscriptionViews(authors []model.User, recipesLimit int) ([]SubscriptionView, error) {
	ids := make([]uint, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}
	counts, err := s.recipeRepo.CountByAuthors(ids)
	if err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, len(authors))
	for i := range authors {
		recipes, err := s.recipeRepo.ListByAuthor(authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		summaries := make([]RecipeSummary, len(recipes))
		for j := range recipes {
			summaries[j] = newRecipeSummary(&recipes[j])
		}

		views[i] = SubscriptionView{
			UserView:     newUserView(&authors[i], true),
			Recipes:      summaries,
			RecipesCount: counts[authors[i].ID],
		}
	}
	return views, nil
}

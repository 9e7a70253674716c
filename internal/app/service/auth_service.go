package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"github.com/foodgram/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// reservedUsernames collide with fixed routes under /users/.
var reservedUsernames = map[string]bool{"me": true}

// TokenRevoker blacklists auth tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(email, password string) (string, error)
	Logout(ctx context.Context, claims *util.Claims) error
	SetPassword(userID uint, currentPassword, newPassword string) error
}

type authService struct {
	userRepo    repository.UserRepository
	revoker     TokenRevoker
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewAuthService wires token issuing. A nil revoker makes logout a no-op.
func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		revoker:     revoker,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    input.Email,
		"username": input.Username,
	})

	if !usernamePattern.MatchString(input.Username) {
		return nil, newValidationError("username", "enter a valid username")
	}
	if reservedUsernames[strings.ToLower(input.Username)] {
		return nil, newValidationError("username", "this username is reserved")
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooLong) {
			return nil, newValidationError("password", err.Error())
		}
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}

	// Uniqueness is enforced by the indexes; no lookup beforehand.
	if err := s.userRepo.Create(user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			if apperrors.ViolatesConstraint(err, "email") {
				logger.Warn("Registration failed: email already exists", map[string]interface{}{
					"email": input.Email,
				})
				return nil, newFieldConflict(ErrEmailTaken, "email")
			}
			logger.Warn("Registration failed: username already exists", map[string]interface{}{
				"username": input.Username,
			})
			return nil, newFieldConflict(ErrUsernameTaken, "username")
		}
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (string, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return "", ErrInvalidCredentials
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return token, nil
}

func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.revoker == nil {
		logger.Debug("Token blacklist disabled, logout is a no-op", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.TokenTTL()); err != nil {
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id":  claims.UserID,
		"token_id": claims.ID,
	})
	return nil
}

func (s *authService) SetPassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change rejected: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return newFieldConflict(ErrWrongPassword, "current_password")
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooLong) {
			return newValidationError("new_password", err.Error())
		}
		return err
	}

	if err := s.userRepo.UpdatePassword(userID, hashed); err != nil {
		return err
	}

	logger.Info("User password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

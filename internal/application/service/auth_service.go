package service

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"go.uber.org/zap"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks the cashier's credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		s.log.Info("login rejected", zap.String("username", input.Username))
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetCurrentUser returns the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the input for changing password
type ChangePasswordInput struct {
	UserID          int64
	CurrentPassword string
	NewPassword     string
}

// ChangePassword replaces the user's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return apperror.NewFieldError("new_password", "password must be at least 8 characters")
	}

	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewFieldError("current_password", "current password is incorrect")
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

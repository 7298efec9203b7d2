package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/utils"
	"go.uber.org/zap"
)

const minPasswordLength = 8

// UserService manages till operator accounts
type UserService struct {
	userRepo repository.UserRepository
	log      *zap.Logger

	mu    sync.RWMutex
	names map[int64]string
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		userRepo: userRepo,
		log:      log,
		names:    make(map[int64]string),
	}
}

// CreateUserInput represents the input for creating a user
type CreateUserInput struct {
	Username string
	FullName string
	Password string
	Role     string
}

// CreateUser registers a new cashier or manager
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)

	var fieldErrors []apperror.FieldError
	if username == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "username", Message: "username is required"})
	}
	if len(input.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	role := input.Role
	if role == "" {
		role = entity.RoleCashier
	}
	if role != entity.RoleCashier && role != entity.RoleManager {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "role", Message: "role must be cashier or manager"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewFieldError("username", "username is already taken")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username: username,
		FullName: strings.TrimSpace(input.FullName),
		Password: hashed,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("username", user.Username), zap.String("role", user.Role))
	return user, nil
}

// ListUsers returns every account ordered by username
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.List(ctx)
}

// CashierName resolves the name printed on receipts. Names are cached for
// the life of the process; an unknown id prints as "#<id>".
func (s *UserService) CashierName(ctx context.Context, id value.UserID) string {
	s.mu.RLock()
	name, ok := s.names[id.Value()]
	s.mu.RUnlock()
	if ok {
		return name
	}

	user, err := s.userRepo.GetByID(ctx, id.Value())
	if err != nil || user == nil {
		if err != nil {
			s.log.Warn("cashier lookup failed", zap.Int64("user_id", id.Value()), zap.Error(err))
		}
		return fmt.Sprintf("#%d", id.Value())
	}

	name = user.FullName
	if name == "" {
		name = user.Username
	}
	s.mu.Lock()
	s.names[id.Value()] = name
	s.mu.Unlock()
	return name
}

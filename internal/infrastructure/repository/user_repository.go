package repository

import (
	"context"
	"errors"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"gorm.io/gorm"
)

type userRepository struct {
	db *database.TxManager
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.TxManager) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Create(user).Error
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Order("username ASC").Find(&users).Error
	})
	return users, err
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Save(user).Error
	})
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	var user entity.User
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Where(query, args...).First(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

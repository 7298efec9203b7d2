package repository

import (
	"context"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
)

// UserRepository defines the interface for cashier accounts
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

package repository

import (
	"context"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
)

// ItemRepository is the inventory side of the gateway. Every method runs
// inside the transaction carried by ctx when there is one.
type ItemRepository interface {
	// FindByCode returns the sellable shelf bucket for code (earliest expiry
	// first), else any bucket of that code, else nil.
	FindByCode(ctx context.Context, code value.ItemCode) (*entity.Item, error)
	// FindSellable lists the shelf buckets of code that can be sold at now,
	// earliest expiry first.
	FindSellable(ctx context.Context, code value.ItemCode, now time.Time) ([]*entity.Item, error)
	FindByID(ctx context.Context, id int64) (*entity.Item, error)
	// FindBucket returns the bucket of code in state with the given expiry date, or nil.
	FindBucket(ctx context.Context, code value.ItemCode, state enum.ItemState, expiry *time.Time) (*entity.Item, error)
	// FindByState lists the buckets of code in state, earliest expiry first.
	FindByState(ctx context.Context, code value.ItemCode, state enum.ItemState) ([]*entity.Item, error)
	FindAll(ctx context.Context) ([]*entity.Item, error)
	// FindAvailable lists shelf buckets with stock that have not expired at now.
	FindAvailable(ctx context.Context, now time.Time) ([]*entity.Item, error)
	// FindLowStock lists the live buckets of every code whose store and shelf
	// units together fall below threshold. Emptied store batches are left out.
	FindLowStock(ctx context.Context, threshold int) ([]*entity.Item, error)
	// FindExpiringSoon lists live buckets with units expiring between now and now+days.
	FindExpiringSoon(ctx context.Context, now time.Time, days int) ([]*entity.Item, error)
	// FindExpired lists buckets whose expiry date is before now and are not yet EXPIRED.
	FindExpired(ctx context.Context, now time.Time) ([]*entity.Item, error)
	// Create persists a new bucket and records its id on item.
	Create(ctx context.Context, item *entity.Item) error
	// Update writes quantity and state back. It fails with a storage error when
	// the row changed since item was read.
	Update(ctx context.Context, item *entity.Item) error
}

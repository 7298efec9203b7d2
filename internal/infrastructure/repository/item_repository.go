package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"gorm.io/gorm"
)

// ErrStaleItem means the row changed between read and update.
var ErrStaleItem = errors.New("item was modified concurrently")

type itemRepository struct {
	db  *database.TxManager
	now func() time.Time
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.TxManager) domainRepo.ItemRepository {
	return &itemRepository{db: db, now: time.Now}
}

func (r *itemRepository) FindByCode(ctx context.Context, code value.ItemCode) (*entity.Item, error) {
	var m database.ItemModel
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		err := db.Scopes(Sellable(r.now())).
			Where("code = ?", code.String()).
			Order(expiryOrder).
			First(&m).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return db.Where("code = ?", code.String()).Order("id ASC").First(&m).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Storage("find item", err)
	}
	return toItem(&m)
}

func (r *itemRepository) FindSellable(ctx context.Context, code value.ItemCode, now time.Time) ([]*entity.Item, error) {
	return r.find(ctx, "list sellable items", func(db *gorm.DB) *gorm.DB {
		return db.Scopes(Sellable(now)).Where("code = ?", code.String()).Order(expiryOrder)
	})
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	var m database.ItemModel
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.First(&m, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Storage("find item", err)
	}
	return toItem(&m)
}

func (r *itemRepository) FindBucket(ctx context.Context, code value.ItemCode, state enum.ItemState, expiry *time.Time) (*entity.Item, error) {
	var m database.ItemModel
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		q := db.Where("code = ? AND state = ?", code.String(), int(state))
		if expiry == nil {
			q = q.Where("expiry_date IS NULL")
		} else {
			q = q.Where("expiry_date = ?", dayStart(*expiry))
		}
		return q.Order("id ASC").First(&m).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Storage("find item bucket", err)
	}
	return toItem(&m)
}

func (r *itemRepository) FindByState(ctx context.Context, code value.ItemCode, state enum.ItemState) ([]*entity.Item, error) {
	return r.find(ctx, "find items by state", func(db *gorm.DB) *gorm.DB {
		return db.Where("code = ? AND state = ?", code.String(), int(state)).Order(expiryOrder)
	})
}

func (r *itemRepository) FindAll(ctx context.Context) ([]*entity.Item, error) {
	return r.find(ctx, "list items", func(db *gorm.DB) *gorm.DB {
		return db.Order("code ASC, state ASC").Order(expiryOrder)
	})
}

func (r *itemRepository) FindAvailable(ctx context.Context, now time.Time) ([]*entity.Item, error) {
	return r.find(ctx, "list available items", func(db *gorm.DB) *gorm.DB {
		return db.Scopes(Sellable(now)).Order("code ASC").Order(expiryOrder)
	})
}

func (r *itemRepository) FindLowStock(ctx context.Context, threshold int) ([]*entity.Item, error) {
	return r.find(ctx, "list low stock", func(db *gorm.DB) *gorm.DB {
		low := db.Model(&database.ItemModel{}).
			Select("code").
			Scopes(InStates(enum.ItemStateInStore, enum.ItemStateOnShelf)).
			Group("code").
			Having("SUM(quantity) < ?", threshold)
		return db.Scopes(InStates(enum.ItemStateInStore, enum.ItemStateOnShelf)).
			Where("quantity > 0").
			Where("code IN (?)", low).
			Order("code ASC, state ASC").Order(expiryOrder)
	})
}

func (r *itemRepository) FindExpiringSoon(ctx context.Context, now time.Time, days int) ([]*entity.Item, error) {
	from := dayStart(now)
	to := from.AddDate(0, 0, days)
	return r.find(ctx, "list expiring items", func(db *gorm.DB) *gorm.DB {
		return db.Scopes(InStates(enum.ItemStateInStore, enum.ItemStateOnShelf)).
			Where("quantity > 0").
			Where("expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?", from, to).
			Order(expiryOrder)
	})
}

func (r *itemRepository) FindExpired(ctx context.Context, now time.Time) ([]*entity.Item, error) {
	return r.find(ctx, "list expired items", func(db *gorm.DB) *gorm.DB {
		return db.Scopes(InStates(enum.ItemStateInStore, enum.ItemStateOnShelf)).
			Where("expiry_date IS NOT NULL AND expiry_date < ?", dayStart(now)).
			Order(expiryOrder)
	})
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	m := toItemModel(item)
	m.ID = 0
	m.Version = 1
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Create(&m).Error
	})
	if err != nil {
		return apperror.Storage("create item", err)
	}
	item.Persisted(m.ID, m.Version)
	return nil
}

// Update writes quantity and state guarded by the row version. A concurrent
// writer bumps the version first and this update then matches no row.
func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	if item.ID() == 0 {
		return r.Create(ctx, item)
	}

	var affected int64
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		result := db.Model(&database.ItemModel{}).
			Where("id = ? AND version = ?", item.ID(), item.Version()).
			Updates(map[string]interface{}{
				"quantity": item.Quantity().Value(),
				"state":    int(item.State()),
				"version":  gorm.Expr("version + 1"),
			})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return apperror.Storage("update item", err)
	}
	if affected == 0 {
		return apperror.NewStorageError("update item "+item.Code().String(), ErrStaleItem)
	}
	item.Persisted(item.ID(), item.Version()+1)
	return nil
}

func (r *itemRepository) find(ctx context.Context, op string, query func(db *gorm.DB) *gorm.DB) ([]*entity.Item, error) {
	var models []database.ItemModel
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return query(db).Find(&models).Error
	})
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	return toItems(models)
}

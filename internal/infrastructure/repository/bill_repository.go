package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"gorm.io/gorm"
)

const billItemBatchSize = 100

type billRepository struct {
	db *database.TxManager
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *database.TxManager) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// SaveBillWithItems inserts the header, then the lines referencing its
// generated id, in one transaction. When ctx already carries a transaction
// both inserts join it and the caller owns commit and rollback.
func (r *billRepository) SaveBillWithItems(ctx context.Context, bill *entity.Bill) error {
	err := r.db.WithinTransaction(ctx, func(ctx context.Context) error {
		return r.db.Run(ctx, func(tx *gorm.DB) error {
			header := toBillModel(bill)
			if err := tx.Omit("Items").Create(&header).Error; err != nil {
				return err
			}

			lines := toBillItemModels(header.ID, bill)
			return tx.CreateInBatches(&lines, billItemBatchSize).Error
		})
	})
	return apperror.Storage("save bill "+bill.Number().String(), err)
}

func (r *billRepository) FindByNumber(ctx context.Context, number value.BillNumber) (*entity.Bill, error) {
	var m database.BillModel
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Preload("Items", orderLines).
			Where("bill_number = ?", number.Value()).
			First(&m).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Storage("find bill", err)
	}
	return toBill(&m)
}

// FindByDate returns the bills of date's calendar day in UTC.
func (r *billRepository) FindByDate(ctx context.Context, date time.Time) ([]*entity.Bill, error) {
	from := dayStart(date)
	to := from.AddDate(0, 0, 1)

	var models []database.BillModel
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Preload("Items", orderLines).
			Where("bill_date >= ? AND bill_date < ?", from, to).
			Order("bill_date ASC, bill_number ASC").
			Find(&models).Error
	})
	if err != nil {
		return nil, apperror.Storage("list bills", err)
	}

	bills := make([]*entity.Bill, 0, len(models))
	for i := range models {
		b, err := toBill(&models[i])
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, nil
}

func (r *billRepository) MaxBillNumber(ctx context.Context) (int64, error) {
	var last int64
	err := r.db.Run(ctx, func(db *gorm.DB) error {
		return db.Model(&database.BillModel{}).
			Select("COALESCE(MAX(bill_number), 0)").
			Scan(&last).Error
	})
	if err != nil {
		return 0, apperror.Storage("read last bill number", err)
	}
	return last, nil
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

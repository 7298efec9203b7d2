package repository

import (
	"context"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/value"
)

// BillRepository is the sales side of the gateway.
type BillRepository interface {
	// SaveBillWithItems stores the header and all lines as one unit. Either
	// everything is committed or nothing is.
	SaveBillWithItems(ctx context.Context, bill *entity.Bill) error
	FindByNumber(ctx context.Context, number value.BillNumber) (*entity.Bill, error)
	// FindByDate lists the bills of the calendar day containing date, oldest first.
	FindByDate(ctx context.Context, date time.Time) ([]*entity.Bill, error)
	// MaxBillNumber returns the highest stored bill number, zero when there are none.
	MaxBillNumber(ctx context.Context) (int64, error)
}

package database

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemModel is one stock bucket row. Several rows may share a code: the store
// batch of an intake and the shelf buckets moved out of it.
type ItemModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	Code         string          `gorm:"size:10;not null;index:idx_items_code_state,priority:1"`
	Name         string          `gorm:"size:255;not null"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity     int             `gorm:"not null;check:chk_items_quantity,quantity >= 0"`
	State        int             `gorm:"not null;default:0;index:idx_items_code_state,priority:2"`
	PurchaseDate time.Time       `gorm:"not null"`
	ExpiryDate   *time.Time      `gorm:"index"`
	Version      int             `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ItemModel) TableName() string {
	return "items"
}

// BillModel is a bill header. ID is generated on insert and referenced by the lines.
type BillModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	BillNumber      int64           `gorm:"uniqueIndex;not null"`
	BillDate        time.Time       `gorm:"not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Discount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CashTendered    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ChangeAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TransactionType int             `gorm:"not null;default:0"`
	CashierID       *int64          `gorm:"index"`
	CreatedAt       time.Time

	Items []BillItemModel `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

func (BillModel) TableName() string {
	return "bills"
}

// BillItemModel is one bill line with its frozen unit price.
type BillItemModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	BillID    int64           `gorm:"not null;index"`
	Position  int             `gorm:"not null"`
	ItemID    *int64          `gorm:"index"`
	ItemCode  string          `gorm:"size:10;not null;index"`
	ItemName  string          `gorm:"size:255;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (BillItemModel) TableName() string {
	return "bill_items"
}

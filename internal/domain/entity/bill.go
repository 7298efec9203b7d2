package entity

import (
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// BillItem is one line of a bill. Quantity and unit price are frozen at the
// moment of sale, so later price changes never reach historical bills.
type BillItem struct {
	itemID    int64
	code      value.ItemCode
	name      string
	quantity  value.Quantity
	unitPrice value.Money
}

// NewBillItem snapshots the item's current price.
func NewBillItem(item *Item, quantity int) (BillItem, error) {
	if quantity <= 0 {
		return BillItem{}, apperror.NewFieldError("quantity", "quantity must be greater than zero")
	}
	return BillItem{
		itemID:    item.ID(),
		code:      item.Code(),
		name:      item.Name(),
		quantity:  value.MustQuantity(quantity),
		unitPrice: item.Price(),
	}, nil
}

// RestoreBillItem rebuilds a persisted line.
func RestoreBillItem(itemID int64, code value.ItemCode, name string, quantity value.Quantity, unitPrice value.Money) BillItem {
	return BillItem{
		itemID:    itemID,
		code:      code,
		name:      name,
		quantity:  quantity,
		unitPrice: unitPrice,
	}
}

// ItemID is the stock bucket the units were sold from. Zero for restored lines.
func (b BillItem) ItemID() int64            { return b.itemID }
func (b BillItem) Code() value.ItemCode     { return b.code }
func (b BillItem) Name() string             { return b.name }
func (b BillItem) Quantity() value.Quantity { return b.quantity }
func (b BillItem) UnitPrice() value.Money   { return b.unitPrice }

// TotalPrice is unit price times quantity.
func (b BillItem) TotalPrice() value.Money {
	return b.unitPrice.Multiply(b.quantity.Value())
}

// BillParams carries everything needed to build a Bill.
type BillParams struct {
	Number          value.BillNumber
	Date            time.Time
	Items           []BillItem
	Discount        value.Money
	CashTendered    value.Money
	TransactionType enum.TransactionType
	Cashier         value.UserID
}

// Bill is the immutable record of a completed sale. Once built, neither its
// lines nor its amounts change; alternate presentations wrap it instead.
type Bill struct {
	number          value.BillNumber
	date            time.Time
	items           []BillItem
	discount        value.Money
	cashTendered    value.Money
	transactionType enum.TransactionType
	cashier         value.UserID
	subtotal        value.Money
}

// NewBill validates the params and derives the subtotal.
func NewBill(p BillParams) (*Bill, error) {
	if len(p.Items) == 0 {
		return nil, apperror.ErrEmptySale
	}
	if p.Number.IsZero() {
		return nil, apperror.NewFieldError("bill_number", "bill number is required")
	}
	if p.Discount.IsNegative() {
		return nil, apperror.NewFieldError("discount", "discount cannot be negative")
	}

	items := make([]BillItem, len(p.Items))
	copy(items, p.Items)

	subtotal := value.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice())
	}

	return &Bill{
		number:          p.Number,
		date:            p.Date,
		items:           items,
		discount:        p.Discount,
		cashTendered:    p.CashTendered,
		transactionType: p.TransactionType,
		cashier:         p.Cashier,
		subtotal:        subtotal,
	}, nil
}

func (b *Bill) Number() value.BillNumber              { return b.number }
func (b *Bill) Date() time.Time                       { return b.date }
func (b *Bill) Discount() value.Money                 { return b.discount }
func (b *Bill) CashTendered() value.Money             { return b.cashTendered }
func (b *Bill) TransactionType() enum.TransactionType { return b.transactionType }
func (b *Bill) Cashier() value.UserID                 { return b.cashier }
func (b *Bill) Subtotal() value.Money                 { return b.subtotal }
func (b *Bill) ItemCount() int                        { return len(b.items) }

// Items returns the lines in the order they were added. The slice is a copy.
func (b *Bill) Items() []BillItem {
	out := make([]BillItem, len(b.items))
	copy(out, b.items)
	return out
}

// EachItem calls fn for every line in add order without copying the lines slice.
func (b *Bill) EachItem(fn func(BillItem)) {
	for _, it := range b.items {
		fn(it)
	}
}

// FinalAmount is the subtotal less the discount.
func (b *Bill) FinalAmount() value.Money {
	return b.subtotal.Subtract(b.discount)
}

// Change is the cash tendered less the final amount. Negative when underpaid.
func (b *Bill) Change() value.Money {
	return b.cashTendered.Subtract(b.FinalAmount())
}

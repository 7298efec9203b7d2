package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// BillNumberSource hands out bill numbers.
type BillNumberSource interface {
	Next() value.BillNumber
}

// BillSequence is a process-wide increasing bill number counter.
type BillSequence struct {
	last atomic.Int64
}

// NewBillSequence continues numbering after last, normally the highest stored number.
func NewBillSequence(last int64) *BillSequence {
	s := &BillSequence{}
	s.last.Store(last)
	return s
}

func (s *BillSequence) Next() value.BillNumber {
	n, _ := value.NewBillNumber(s.last.Add(1))
	return n
}

// SaleBuilder accumulates the lines of one sale against live stock. It only
// reads inventory: nothing is written until the finished bill is saved, so an
// abandoned sale leaves no trace.
type SaleBuilder struct {
	items   repository.ItemRepository
	numbers BillNumberSource
	now     func() time.Time
	cashier value.UserID

	lines     []entity.BillItem
	reserved  map[int64]int
	subtotal  value.Money
	completed bool
}

func newSaleBuilder(items repository.ItemRepository, numbers BillNumberSource, now func() time.Time, cashier value.UserID) *SaleBuilder {
	return &SaleBuilder{
		items:    items,
		numbers:  numbers,
		now:      now,
		cashier:  cashier,
		reserved: make(map[int64]int),
		subtotal: value.Zero,
	}
}

// AddItem adds qty units of code. Units are taken from the sellable shelf
// buckets earliest expiry first, and each bucket touched becomes its own line
// priced from that bucket. Units already in this sale count against the shelf.
func (b *SaleBuilder) AddItem(ctx context.Context, code value.ItemCode, qty int) ([]entity.BillItem, error) {
	if b.completed {
		return nil, apperror.NewBadRequestError("sale already completed")
	}
	if qty <= 0 {
		return nil, apperror.NewFieldError("quantity", "quantity must be greater than zero")
	}

	buckets, err := b.items.FindSellable(ctx, code, b.now())
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		item, err := b.items.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperror.NewItemNotFoundError(code.String())
		}
	}

	available := 0
	for _, bucket := range buckets {
		available += bucket.Quantity().Value() - b.reserved[bucket.ID()]
	}
	if qty > available {
		return nil, apperror.NewInsufficientStockError(code.String(), qty, available)
	}

	var added []entity.BillItem
	need := qty
	for _, bucket := range buckets {
		if need == 0 {
			break
		}
		take := bucket.Quantity().Value() - b.reserved[bucket.ID()]
		if take <= 0 {
			continue
		}
		if take > need {
			take = need
		}
		line, err := entity.NewBillItem(bucket, take)
		if err != nil {
			return nil, err
		}
		added = append(added, line)
		need -= take
	}

	for _, line := range added {
		b.lines = append(b.lines, line)
		b.reserved[line.ItemID()] += line.Quantity().Value()
		b.subtotal = b.subtotal.Add(line.TotalPrice())
	}
	return added, nil
}

// Subtotal is the running total of the lines added so far.
func (b *SaleBuilder) Subtotal() value.Money {
	return b.subtotal
}

func (b *SaleBuilder) ItemCount() int {
	return len(b.lines)
}

// Items returns a copy of the lines in add order.
func (b *SaleBuilder) Items() []entity.BillItem {
	out := make([]entity.BillItem, len(b.lines))
	copy(out, b.lines)
	return out
}

// CompleteSale freezes the lines into an IN_STORE bill with a fresh number,
// the current time and no discount.
func (b *SaleBuilder) CompleteSale(cashTendered value.Money) (*entity.Bill, error) {
	if b.completed {
		return nil, apperror.NewBadRequestError("sale already completed")
	}
	if len(b.lines) == 0 {
		return nil, apperror.ErrEmptySale
	}
	if cashTendered.LessThan(b.subtotal) {
		return nil, apperror.NewFieldError("cash_tendered", "cash tendered "+cashTendered.String()+" is less than the amount due "+b.subtotal.String())
	}

	bill, err := entity.NewBill(entity.BillParams{
		Number:          b.numbers.Next(),
		Date:            b.now(),
		Items:           b.lines,
		Discount:        value.Zero,
		CashTendered:    cashTendered,
		TransactionType: enum.TransactionTypeInStore,
		Cashier:         b.cashier,
	})
	if err != nil {
		return nil, err
	}
	b.completed = true
	return bill, nil
}

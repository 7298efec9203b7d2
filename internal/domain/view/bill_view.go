// Package view holds read-only projections of a bill: decorators that present
// the same bill in a different context, and visitors that accumulate results
// across many bills. Neither ever mutates the bill it is given.
package view

import (
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
)

// BillView is the accessor contract shared by a Bill and every decorator wrapping it.
type BillView interface {
	Number() value.BillNumber
	Date() time.Time
	Items() []entity.BillItem
	EachItem(fn func(entity.BillItem))
	ItemCount() int
	Subtotal() value.Money
	Discount() value.Money
	FinalAmount() value.Money
	CashTendered() value.Money
	Change() value.Money
	TransactionType() enum.TransactionType
	Cashier() value.UserID
}

var _ BillView = (*entity.Bill)(nil)

// BillVisitor is invoked once per bill and keeps its own result across calls.
type BillVisitor interface {
	VisitBill(bill BillView)
}

// Walk shows every bill to every visitor, in order.
func Walk(bills []BillView, visitors ...BillVisitor) {
	for _, b := range bills {
		for _, v := range visitors {
			v.VisitBill(b)
		}
	}
}

// Bills adapts a slice of bills to views.
func Bills(bills []*entity.Bill) []BillView {
	out := make([]BillView, len(bills))
	for i, b := range bills {
		out[i] = b
	}
	return out
}

package view

import (
	"fmt"
	"strings"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/value"
)

const (
	receiptWidth      = 32 // 58mm paper
	receiptDateLayout = "2006-01-02 15:04"
)

// ReceiptVisitor turns each visited bill into a receipt value and its plain
// text rendering. Results accumulate in visit order.
type ReceiptVisitor struct {
	header      entity.ReceiptHeader
	cashierName func(value.UserID) string

	receipts []*entity.Receipt
	texts    []string
}

// ReceiptOption configures a ReceiptVisitor
type ReceiptOption func(*ReceiptVisitor)

// WithCashierNames resolves the cashier printed on each receipt.
func WithCashierNames(lookup func(value.UserID) string) ReceiptOption {
	return func(v *ReceiptVisitor) {
		v.cashierName = lookup
	}
}

func NewReceiptVisitor(header entity.ReceiptHeader, opts ...ReceiptOption) *ReceiptVisitor {
	v := &ReceiptVisitor{header: header}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *ReceiptVisitor) VisitBill(bill BillView) {
	r := &entity.Receipt{
		Header:          v.header,
		BillNo:          bill.Number().String(),
		Date:            bill.Date().Format(receiptDateLayout),
		TransactionType: bill.TransactionType().String(),
		SubTotal:        bill.Subtotal(),
		Discount:        bill.Discount(),
		Total:           bill.FinalAmount(),
		Cash:            bill.CashTendered(),
		Change:          bill.Change(),
		Items:           make([]entity.ReceiptItem, 0, bill.ItemCount()),
	}
	if v.cashierName != nil && !bill.Cashier().IsZero() {
		r.Cashier = v.cashierName(bill.Cashier())
	}
	bill.EachItem(func(it entity.BillItem) {
		r.Items = append(r.Items, entity.ReceiptItem{
			Code:      it.Code().String(),
			Name:      it.Name(),
			Quantity:  it.Quantity().Value(),
			UnitPrice: it.UnitPrice(),
			Total:     it.TotalPrice(),
		})
	})

	v.receipts = append(v.receipts, r)
	v.texts = append(v.texts, FormatReceiptText(r))
}

// Receipt returns the receipt of the last visited bill, or nil.
func (v *ReceiptVisitor) Receipt() *entity.Receipt {
	if len(v.receipts) == 0 {
		return nil
	}
	return v.receipts[len(v.receipts)-1]
}

// Text returns the rendering of the last visited bill.
func (v *ReceiptVisitor) Text() string {
	if len(v.texts) == 0 {
		return ""
	}
	return v.texts[len(v.texts)-1]
}

func (v *ReceiptVisitor) Receipts() []*entity.Receipt {
	return v.receipts
}

// FormatReceiptText renders a receipt as fixed-width text.
func FormatReceiptText(r *entity.Receipt) string {
	var sb strings.Builder
	sep := strings.Repeat("-", receiptWidth) + "\n"

	center(&sb, r.Header.StoreName)
	if r.Header.Address != "" {
		center(&sb, r.Header.Address)
	}
	if r.Header.Phone != "" {
		center(&sb, r.Header.Phone)
	}
	sb.WriteString(sep)
	keyValue(&sb, "Bill:", r.BillNo)
	keyValue(&sb, "Date:", r.Date)
	if r.Cashier != "" {
		keyValue(&sb, "Cashier:", r.Cashier)
	}
	keyValue(&sb, "Type:", r.TransactionType)
	sb.WriteString(sep)

	for _, it := range r.Items {
		keyValue(&sb, fmt.Sprintf("%dx %s", it.Quantity, it.Name), it.Total.String())
		if it.Quantity > 1 {
			fmt.Fprintf(&sb, "  @ %s each\n", it.UnitPrice)
		}
	}

	sb.WriteString(sep)
	keyValue(&sb, "Subtotal:", r.SubTotal.String())
	if !r.Discount.IsZero() {
		keyValue(&sb, "Discount:", r.Discount.String())
	}
	keyValue(&sb, "TOTAL:", r.Total.String())
	keyValue(&sb, "Cash:", r.Cash.String())
	keyValue(&sb, "Change:", r.Change.String())
	sb.WriteString(sep)
	center(&sb, "Thank you for shopping with us!")

	return sb.String()
}

func keyValue(sb *strings.Builder, key, val string) {
	pad := receiptWidth - len(key) - len(val)
	if pad < 1 {
		pad = 1
	}
	sb.WriteString(key)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(val)
	sb.WriteByte('\n')
}

func center(sb *strings.Builder, s string) {
	if pad := (receiptWidth - len(s)) / 2; pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(s)
	sb.WriteByte('\n')
}

package entity

import (
	"errors"
	"testing"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBillNumber(t *testing.T, n int64) value.BillNumber {
	t.Helper()
	bn, err := value.NewBillNumber(n)
	require.NoError(t, err)
	return bn
}

func TestBillDerivedTotals(t *testing.T) {
	milk := newShelfItem(t, 10)
	line1, err := NewBillItem(milk, 3)
	require.NoError(t, err)

	bread, err := NewItem(mustCode(t, "BREAD1"), "Bread", value.MoneyFromFloat(1.335), value.MustQuantity(4), testNow, nil)
	require.NoError(t, err)
	breadShelf, err := bread.MoveToShelf(4)
	require.NoError(t, err)
	line2, err := NewBillItem(breadShelf, 2)
	require.NoError(t, err)

	bill, err := NewBill(BillParams{
		Number:       mustBillNumber(t, 1),
		Date:         testNow,
		Items:        []BillItem{line1, line2},
		Discount:     value.MoneyFromFloat(1),
		CashTendered: value.MoneyFromFloat(20),
	})
	require.NoError(t, err)

	// 3 x 2.50 + 2 x 1.34
	assert.Equal(t, "10.18", bill.Subtotal().String())
	assert.Equal(t, "9.18", bill.FinalAmount().String())
	assert.Equal(t, "10.82", bill.Change().String())
	assert.Equal(t, enum.TransactionTypeInStore, bill.TransactionType())
	assert.Equal(t, "MILK01", bill.Items()[0].Code().String())
	assert.Equal(t, "BREAD1", bill.Items()[1].Code().String())
}

func TestBillIsImmutable(t *testing.T) {
	milk := newShelfItem(t, 10)
	line, err := NewBillItem(milk, 1)
	require.NoError(t, err)

	lines := []BillItem{line}
	bill, err := NewBill(BillParams{Number: mustBillNumber(t, 2), Date: testNow, Items: lines})
	require.NoError(t, err)

	other, err := NewBillItem(milk, 5)
	require.NoError(t, err)
	lines[0] = other
	got := bill.Items()
	got[0] = other

	assert.Equal(t, 1, bill.Items()[0].Quantity().Value())
	assert.Equal(t, "2.50", bill.Subtotal().String())
}

func TestBillItemFreezesPrice(t *testing.T) {
	store, err := NewItem(mustCode(t, "EGGS12"), "Eggs", value.MoneyFromFloat(3), value.MustQuantity(10), testNow, nil)
	require.NoError(t, err)
	shelf, err := store.MoveToShelf(10)
	require.NoError(t, err)

	line, err := NewBillItem(shelf, 2)
	require.NoError(t, err)

	repriced := RestoreItem(shelf.ID(), shelf.Code(), shelf.Name(), value.MoneyFromFloat(9), shelf.Quantity(), shelf.State(), shelf.PurchaseDate(), nil, 0)
	assert.Equal(t, "9.00", repriced.Price().String())
	assert.Equal(t, "3.00", line.UnitPrice().String())
	assert.Equal(t, "6.00", line.TotalPrice().String())
}

func TestNewBillRequiresItems(t *testing.T) {
	_, err := NewBill(BillParams{Number: mustBillNumber(t, 3), Date: testNow})
	assert.True(t, errors.Is(err, apperror.ErrEmptySale))

	_, err = NewBillItem(newShelfItem(t, 1), 0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

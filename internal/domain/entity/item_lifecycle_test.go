package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func mustCode(t *testing.T, raw string) value.ItemCode {
	t.Helper()
	c, err := value.NewItemCode(raw)
	require.NoError(t, err)
	return c
}

func newStoreItem(t *testing.T, qty int, expiry *time.Time) *Item {
	t.Helper()
	item, err := NewItem(mustCode(t, "MILK01"), "Milk 1L", value.MoneyFromFloat(2.5), value.MustQuantity(qty), testNow, expiry)
	require.NoError(t, err)
	return item
}

func newShelfItem(t *testing.T, qty int) *Item {
	t.Helper()
	shelf, err := newStoreItem(t, qty, nil).MoveToShelf(qty)
	require.NoError(t, err)
	return shelf
}

func TestNewItemStartsInStore(t *testing.T) {
	item := newStoreItem(t, 10, nil)
	assert.Equal(t, enum.ItemStateInStore, item.State())
	assert.Equal(t, 10, item.Quantity().Value())
	assert.Equal(t, "MILK01", item.Code().String())
}

func TestNewItemValidation(t *testing.T) {
	_, err := NewItem(value.ItemCode{}, " ", value.MoneyFromFloat(-1), value.MustQuantity(0), testNow, nil)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Errors, 4)
}

func TestMoveToShelf(t *testing.T) {
	item := newStoreItem(t, 10, nil)

	_, err := item.MoveToShelf(12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInsufficientStock))
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 12, appErr.Requested)
	assert.Equal(t, 10, appErr.Available)
	assert.Equal(t, 10, item.Quantity().Value(), "failed move must not change the store batch")

	shelf, err := item.MoveToShelf(6)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity().Value())
	assert.Equal(t, enum.ItemStateInStore, item.State())
	assert.Equal(t, enum.ItemStateOnShelf, shelf.State())
	assert.Equal(t, 6, shelf.Quantity().Value())
	assert.True(t, item.Price().Equal(shelf.Price()))
}

func TestMoveToShelfRequiresPositiveQuantity(t *testing.T) {
	item := newStoreItem(t, 10, nil)
	_, err := item.MoveToShelf(0)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestSellToSoldOut(t *testing.T) {
	shelf := newShelfItem(t, 5)

	require.NoError(t, shelf.Sell(5))
	assert.Equal(t, enum.ItemStateSoldOut, shelf.State())
	assert.True(t, shelf.Quantity().IsZero())

	err := shelf.Sell(1)
	assert.True(t, errors.Is(err, apperror.ErrInvalidStateTransition))
}

func TestSellMoreThanShelved(t *testing.T) {
	shelf := newShelfItem(t, 3)
	err := shelf.Sell(4)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, apperror.KindInsufficientStock, appErr.Kind)
	assert.Equal(t, 4, appErr.Requested)
	assert.Equal(t, 3, appErr.Available)
	assert.Equal(t, enum.ItemStateOnShelf, shelf.State())
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		state   enum.ItemState
		op      ItemOperation
		allowed bool
	}{
		{enum.ItemStateInStore, OpMoveToShelf, true},
		{enum.ItemStateInStore, OpSell, false},
		{enum.ItemStateInStore, OpExpire, true},
		{enum.ItemStateOnShelf, OpMoveToShelf, false},
		{enum.ItemStateOnShelf, OpSell, true},
		{enum.ItemStateOnShelf, OpExpire, true},
		{enum.ItemStateExpired, OpMoveToShelf, false},
		{enum.ItemStateExpired, OpSell, false},
		{enum.ItemStateExpired, OpExpire, true},
		{enum.ItemStateSoldOut, OpMoveToShelf, false},
		{enum.ItemStateSoldOut, OpSell, false},
		{enum.ItemStateSoldOut, OpExpire, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, Allows(tt.state, tt.op), "%s / %s", tt.state, tt.op)
	}
}

func TestInvalidTransitionsFail(t *testing.T) {
	store := newStoreItem(t, 10, nil)
	assert.True(t, errors.Is(store.Sell(1), apperror.ErrInvalidStateTransition))

	shelf := newShelfItem(t, 2)
	_, err := shelf.MoveToShelf(1)
	assert.True(t, errors.Is(err, apperror.ErrInvalidStateTransition))

	require.NoError(t, shelf.Expire())
	assert.Equal(t, enum.ItemStateExpired, shelf.State())
	require.NoError(t, shelf.Expire(), "expiring twice is a no-op")
	assert.True(t, errors.Is(shelf.Sell(1), apperror.ErrInvalidStateTransition))
	_, err = shelf.MoveToShelf(1)
	assert.True(t, errors.Is(err, apperror.ErrInvalidStateTransition))
}

func TestSoldOutCanExpire(t *testing.T) {
	shelf := newShelfItem(t, 1)
	require.NoError(t, shelf.Sell(1))
	require.NoError(t, shelf.Expire())
	assert.Equal(t, enum.ItemStateExpired, shelf.State())
}

func TestExpiryIsEvaluatedLazily(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	tomorrow := testNow.AddDate(0, 0, 1)

	fresh := newStoreItem(t, 5, &tomorrow)
	days, ok := fresh.DaysUntilExpiry(testNow)
	assert.True(t, ok)
	assert.Equal(t, 1, days)
	assert.False(t, fresh.EvaluateExpiry(testNow))
	assert.Equal(t, enum.ItemStateInStore, fresh.State())

	// the item passes its expiry date only when evaluated on a later day
	assert.True(t, fresh.EvaluateExpiry(testNow.AddDate(0, 0, 2)))
	assert.Equal(t, enum.ItemStateExpired, fresh.State())

	stale, err := NewItem(mustCode(t, "BREAD1"), "Bread", value.MoneyFromFloat(1), value.MustQuantity(3), yesterday.AddDate(0, 0, -5), &yesterday)
	require.NoError(t, err)
	assert.True(t, stale.IsExpired(testNow))
	assert.True(t, stale.EvaluateExpiry(testNow))
	assert.False(t, stale.EvaluateExpiry(testNow))

	noExpiry := newStoreItem(t, 5, nil)
	_, ok = noExpiry.DaysUntilExpiry(testNow)
	assert.False(t, ok)
	assert.False(t, noExpiry.IsExpired(testNow.AddDate(10, 0, 0)))
}

func TestIsSellable(t *testing.T) {
	store := newStoreItem(t, 5, nil)
	assert.False(t, store.IsSellable(testNow))

	shelf := newShelfItem(t, 5)
	assert.True(t, shelf.IsSellable(testNow))

	expiry := testNow.AddDate(0, 0, 3)
	batch := newStoreItem(t, 5, &expiry)
	shelved, err := batch.MoveToShelf(2)
	require.NoError(t, err)
	assert.True(t, shelved.IsSellable(testNow))
	assert.False(t, shelved.IsSellable(testNow.AddDate(0, 0, 4)))
}

func TestMergeShelfBuckets(t *testing.T) {
	expiry := testNow.AddDate(0, 1, 0)
	other := testNow.AddDate(0, 2, 0)

	batch := newStoreItem(t, 10, &expiry)
	first, err := batch.MoveToShelf(3)
	require.NoError(t, err)
	second, err := batch.MoveToShelf(4)
	require.NoError(t, err)

	require.NoError(t, first.Merge(second))
	assert.Equal(t, 7, first.Quantity().Value())
	assert.Equal(t, 3, batch.Quantity().Value())

	laterBatch := newStoreItem(t, 10, &other)
	later, err := laterBatch.MoveToShelf(1)
	require.NoError(t, err)
	assert.False(t, first.SameBatch(later))
	assert.Error(t, first.Merge(later))

	assert.True(t, errors.Is(batch.Merge(first), apperror.ErrInvalidStateTransition))
}

func TestMergeStoreBatchesOnRestock(t *testing.T) {
	expiry := testNow.AddDate(0, 1, 0)
	batch := newStoreItem(t, 10, &expiry)
	restock := newStoreItem(t, 5, &expiry)

	require.NoError(t, batch.Merge(restock))
	assert.Equal(t, 15, batch.Quantity().Value())

	repriced, err := NewItem(mustCode(t, "MILK01"), "Milk 1L", value.MoneyFromFloat(2.75), value.MustQuantity(5), testNow, &expiry)
	require.NoError(t, err)
	assert.Error(t, batch.Merge(repriced), "a different price is a different batch")

	require.NoError(t, repriced.Expire())
	assert.True(t, errors.Is(repriced.Merge(repriced), apperror.ErrInvalidStateTransition))
}

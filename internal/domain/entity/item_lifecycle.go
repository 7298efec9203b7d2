package entity

import (
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// ItemOperation is one of the capabilities a lifecycle state may grant.
type ItemOperation string

const (
	OpMoveToShelf ItemOperation = "move to shelf"
	OpSell        ItemOperation = "sell"
	OpExpire      ItemOperation = "expire"
)

type transitionKey struct {
	state enum.ItemState
	op    ItemOperation
}

// transitionFunc applies op to the item. For OpMoveToShelf it returns the
// shelf bucket holding the moved units; other operations return nil.
type transitionFunc func(i *Item, n int) (*Item, error)

// lifecycle is the complete transition table. A (state, operation) pair that
// is absent is an invalid transition.
var lifecycle = map[transitionKey]transitionFunc{
	{enum.ItemStateInStore, OpMoveToShelf}: shelveFromStore,
	{enum.ItemStateInStore, OpExpire}:      markExpired,

	{enum.ItemStateOnShelf, OpSell}:   sellFromShelf,
	{enum.ItemStateOnShelf, OpExpire}: markExpired,

	{enum.ItemStateExpired, OpExpire}: alreadyExpired,

	{enum.ItemStateSoldOut, OpExpire}: markExpired,
}

// Allows reports whether state permits op.
func Allows(state enum.ItemState, op ItemOperation) bool {
	_, ok := lifecycle[transitionKey{state, op}]
	return ok
}

func (i *Item) apply(op ItemOperation, n int) (*Item, error) {
	fn, ok := lifecycle[transitionKey{i.state, op}]
	if !ok {
		return nil, apperror.NewInvalidStateTransitionError(string(op), i.state.String())
	}
	return fn(i, n)
}

// MoveToShelf takes n units out of a store batch and returns them as a new
// ON_SHELF bucket. The caller merges it into an existing shelf bucket of the
// same batch or persists it as a new one.
func (i *Item) MoveToShelf(n int) (*Item, error) {
	if err := requirePositive(n); err != nil {
		return nil, err
	}
	return i.apply(OpMoveToShelf, n)
}

// Sell takes n units off the shelf. A bucket that reaches zero is SOLD_OUT.
func (i *Item) Sell(n int) error {
	if err := requirePositive(n); err != nil {
		return err
	}
	_, err := i.apply(OpSell, n)
	return err
}

// Expire moves the bucket to EXPIRED. Expiring an expired bucket is a no-op.
func (i *Item) Expire() error {
	_, err := i.apply(OpExpire, 0)
	return err
}

// EvaluateExpiry expires the bucket when its expiry date has passed.
// It reports whether the state changed.
func (i *Item) EvaluateExpiry(now time.Time) bool {
	if i.state == enum.ItemStateExpired || !i.IsExpired(now) {
		return false
	}
	return i.Expire() == nil
}

// Merge adds the units of another bucket of the same batch, state and price
// into this one. Store batches merge on restock, shelf buckets on shelving.
func (i *Item) Merge(other *Item) error {
	if i.state != other.state || (i.state != enum.ItemStateInStore && i.state != enum.ItemStateOnShelf) {
		return apperror.NewInvalidStateTransitionError("merge", i.state.String()+"/"+other.state.String())
	}
	if !i.SameBatch(other) || !i.price.Equal(other.price) {
		return apperror.NewBadRequestError("cannot merge buckets of different batches")
	}
	i.quantity = i.quantity.Add(other.quantity)
	return nil
}

func shelveFromStore(i *Item, n int) (*Item, error) {
	requested, err := value.NewQuantity(n)
	if err != nil {
		return nil, err
	}
	left, err := i.quantity.Subtract(requested)
	if err != nil {
		return nil, apperror.NewInsufficientStockError(i.code.String(), n, i.quantity.Value())
	}
	i.quantity = left

	return &Item{
		code:         i.code,
		name:         i.name,
		price:        i.price,
		quantity:     requested,
		state:        enum.ItemStateOnShelf,
		purchaseDate: i.purchaseDate,
		expiryDate:   copyTime(i.expiryDate),
	}, nil
}

func sellFromShelf(i *Item, n int) (*Item, error) {
	requested, err := value.NewQuantity(n)
	if err != nil {
		return nil, err
	}
	left, err := i.quantity.Subtract(requested)
	if err != nil {
		return nil, apperror.NewInsufficientStockError(i.code.String(), n, i.quantity.Value())
	}
	i.quantity = left
	if left.IsZero() {
		i.state = enum.ItemStateSoldOut
	}
	return nil, nil
}

func markExpired(i *Item, _ int) (*Item, error) {
	i.state = enum.ItemStateExpired
	return nil, nil
}

func alreadyExpired(_ *Item, _ int) (*Item, error) {
	return nil, nil
}

func requirePositive(n int) error {
	if n <= 0 {
		return apperror.NewFieldError("quantity", "quantity must be greater than zero")
	}
	return nil
}

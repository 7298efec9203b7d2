package value

import (
	"fmt"

	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// Quantity is a non-negative count of units.
type Quantity struct {
	value int
}

// NewQuantity rejects negative counts.
func NewQuantity(v int) (Quantity, error) {
	if v < 0 {
		return Quantity{}, apperror.NewFieldError("quantity", fmt.Sprintf("quantity cannot be negative: %d", v))
	}
	return Quantity{value: v}, nil
}

// MustQuantity panics on a negative count. Use it for literals only.
func MustQuantity(v int) Quantity {
	q, err := NewQuantity(v)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Value() int {
	return q.value
}

func (q Quantity) IsZero() bool {
	return q.value == 0
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// Subtract fails with an invalid quantity error instead of going below zero.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if other.value > q.value {
		return q, apperror.NewInvalidQuantityError(
			fmt.Sprintf("cannot subtract %d from %d", other.value, q.value))
	}
	return Quantity{value: q.value - other.value}, nil
}

func (q Quantity) LessThan(other Quantity) bool {
	return q.value < other.value
}

func (q Quantity) String() string {
	return fmt.Sprintf("%d", q.value)
}

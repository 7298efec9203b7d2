package value

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// moneyScale is the number of decimal places every Money value carries.
const moneyScale = 2

// Money is a fixed-point amount held at two decimal places.
// Ties round half away from zero.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// NewMoney rounds amount to two decimal places.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(moneyScale)}
}

// MoneyFromFloat builds a Money from its shortest decimal representation,
// so MoneyFromFloat(10.555) is 10.56 and not 10.55.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// MoneyFromCents builds a Money from an integer amount of cents.
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -moneyScale)}
}

// ParseMoney parses a decimal string. An empty input is rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, apperror.NewFieldError("amount", "amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, apperror.NewFieldError("amount", "invalid amount "+s)
	}
	return NewMoney(d), nil
}

// MoneyOf rejects a missing amount.
func MoneyOf(amount *decimal.Decimal) (Money, error) {
	if amount == nil {
		return Zero, apperror.NewFieldError("amount", "amount is required")
	}
	return NewMoney(*amount), nil
}

func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

func (m Money) Subtract(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// Multiply scales the amount by an integer count.
func (m Money) Multiply(n int) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(n))))
}

func (m Money) Negate() Money {
	return NewMoney(m.amount.Neg())
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Decimal returns the underlying decimal, already rounded.
func (m Money) Decimal() decimal.Decimal {
	return m.amount.Round(moneyScale)
}

// Cents returns the amount as an integer number of cents.
func (m Money) Cents() int64 {
	return m.amount.Shift(moneyScale).Round(0).IntPart()
}

// String renders the amount with exactly two decimals, e.g. "10.50".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string; null is rejected.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return apperror.NewFieldError("amount", "amount is required")
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

package entity

import (
	"math"
	"strings"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

// Item is one stock bucket of an inventory item: a store batch from an intake,
// or the units of that batch moved onto the shelf. Buckets of the same code
// share the code as their domain identity.
//
// Fields are unexported; state only changes through the lifecycle operations
// in item_lifecycle.go.
type Item struct {
	id           int64
	code         value.ItemCode
	name         string
	price        value.Money
	quantity     value.Quantity
	state        enum.ItemState
	purchaseDate time.Time
	expiryDate   *time.Time
	version      int
}

// NewItem records a stock intake. The new bucket starts IN_STORE.
func NewItem(code value.ItemCode, name string, price value.Money, quantity value.Quantity, purchaseDate time.Time, expiryDate *time.Time) (*Item, error) {
	var fieldErrors []apperror.FieldError
	if code.IsZero() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: "code is required"})
	}
	name = strings.TrimSpace(name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "price cannot be negative"})
	}
	if quantity.IsZero() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "quantity must be greater than zero"})
	}
	if expiryDate != nil && expiryDate.Before(startOfDay(purchaseDate)) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "expiry_date", Message: "expiry date is before purchase date"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	return &Item{
		code:         code,
		name:         name,
		price:        price,
		quantity:     quantity,
		state:        enum.ItemStateInStore,
		purchaseDate: purchaseDate,
		expiryDate:   copyTime(expiryDate),
	}, nil
}

// RestoreItem rebuilds a persisted bucket. Only repositories call it.
func RestoreItem(id int64, code value.ItemCode, name string, price value.Money, quantity value.Quantity, state enum.ItemState, purchaseDate time.Time, expiryDate *time.Time, version int) *Item {
	return &Item{
		id:           id,
		code:         code,
		name:         name,
		price:        price,
		quantity:     quantity,
		state:        state,
		purchaseDate: purchaseDate,
		expiryDate:   copyTime(expiryDate),
		version:      version,
	}
}

// Persisted records the storage id and row version after a write.
func (i *Item) Persisted(id int64, version int) {
	i.id = id
	i.version = version
}

func (i *Item) ID() int64                { return i.id }
func (i *Item) Code() value.ItemCode     { return i.code }
func (i *Item) Name() string             { return i.name }
func (i *Item) Price() value.Money       { return i.price }
func (i *Item) Quantity() value.Quantity { return i.quantity }
func (i *Item) State() enum.ItemState    { return i.state }
func (i *Item) PurchaseDate() time.Time  { return i.purchaseDate }
func (i *Item) Version() int             { return i.version }

// ExpiryDate returns a copy of the expiry date, or nil when the item does not expire.
func (i *Item) ExpiryDate() *time.Time {
	return copyTime(i.expiryDate)
}

// DaysUntilExpiry counts whole calendar days from now to the expiry date.
// ok is false for items without an expiry date.
func (i *Item) DaysUntilExpiry(now time.Time) (days int, ok bool) {
	if i.expiryDate == nil {
		return 0, false
	}
	expiry := startOfDay(i.expiryDate.In(now.Location()))
	return int(math.Round(expiry.Sub(startOfDay(now)).Hours() / 24)), true
}

// IsExpired reports whether the expiry date is already behind now.
func (i *Item) IsExpired(now time.Time) bool {
	days, ok := i.DaysUntilExpiry(now)
	return ok && days < 0
}

// IsSellable reports whether units of this bucket can be sold right now.
func (i *Item) IsSellable(now time.Time) bool {
	return i.state == enum.ItemStateOnShelf && !i.quantity.IsZero() && !i.IsExpired(now)
}

// SameBatch reports whether other holds units of the same code and expiry date.
func (i *Item) SameBatch(other *Item) bool {
	if i.code != other.code {
		return false
	}
	if i.expiryDate == nil || other.expiryDate == nil {
		return i.expiryDate == nil && other.expiryDate == nil
	}
	return startOfDay(*i.expiryDate).Equal(startOfDay(other.expiryDate.In(i.expiryDate.Location())))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

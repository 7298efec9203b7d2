package repository

import (
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// expiryOrder sorts earliest expiry first; items that never expire come last.
const expiryOrder = "expiry_date IS NULL, expiry_date ASC, id ASC"

// dayStart returns midnight UTC of t's calendar day. Dates are stored in UTC.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InStates limits a query to buckets in any of states.
func InStates(states ...enum.ItemState) func(db *gorm.DB) *gorm.DB {
	values := make([]int, len(states))
	for i, s := range states {
		values[i] = int(s)
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("state IN ?", values)
	}
}

// NotExpiredAt keeps buckets without an expiry date or expiring today or later.
func NotExpiredAt(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expiry_date IS NULL OR expiry_date >= ?", dayStart(now))
	}
}

// Sellable keeps shelf buckets with stock left that have not expired at now.
func Sellable(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(InStates(enum.ItemStateOnShelf), NotExpiredAt(now)).
			Where("quantity > 0")
	}
}

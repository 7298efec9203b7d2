package entity

import (
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/value"
	"gorm.io/gorm"
)

// Roles a user can hold
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
)

// User is a till operator. Bills record the id of the cashier who rang them up.
type User struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string         `gorm:"size:100;uniqueIndex;not null" json:"username"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:50;default:'cashier'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// UserID returns the value-typed reference to this user
func (u *User) UserID() (value.UserID, error) {
	return value.NewUserID(u.ID)
}

// IsManager reports whether the user may run stock intake and reports
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

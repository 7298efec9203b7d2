package value

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sangkips/retailpos-api/pkg/apperror"
)

var itemCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,10}$`)

// ItemCode identifies an inventory item. Always upper case.
type ItemCode struct {
	code string
}

// NewItemCode upper-cases the input and validates it.
func NewItemCode(raw string) (ItemCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !itemCodePattern.MatchString(code) {
		return ItemCode{}, apperror.NewFieldError("code",
			fmt.Sprintf("item code %q must be 4-10 letters or digits", raw))
	}
	return ItemCode{code: code}, nil
}

func (c ItemCode) String() string {
	return c.code
}

func (c ItemCode) IsZero() bool {
	return c.code == ""
}

// billNumberWidth is the zero-padded width of a bill label.
const billNumberWidth = 6

// BillNumber is the positive sequence number of a bill.
type BillNumber struct {
	n int64
}

func NewBillNumber(n int64) (BillNumber, error) {
	if n <= 0 {
		return BillNumber{}, apperror.NewFieldError("bill_number",
			fmt.Sprintf("bill number must be positive: %d", n))
	}
	return BillNumber{n: n}, nil
}

func (b BillNumber) Value() int64 {
	return b.n
}

func (b BillNumber) IsZero() bool {
	return b.n == 0
}

// String renders the label, e.g. "BILL-000042".
func (b BillNumber) String() string {
	return fmt.Sprintf("BILL-%0*d", billNumberWidth, b.n)
}

// UserID references a User by its positive numeric id.
type UserID struct {
	id int64
}

func NewUserID(id int64) (UserID, error) {
	if id <= 0 {
		return UserID{}, apperror.NewFieldError("user_id",
			fmt.Sprintf("user id must be positive: %d", id))
	}
	return UserID{id: id}, nil
}

func (u UserID) Value() int64 {
	return u.id
}

// IsZero reports an unset reference.
func (u UserID) IsZero() bool {
	return u.id == 0
}

package view

import (
	"strings"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/utils"
)

// DeliveryDays is how long an online order takes to arrive after the bill date.
const DeliveryDays = 3

// Contact is the customer an online order ships to.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// OnlineOrder decorates a bill as an order placed online. Every accessor
// delegates to the wrapped bill except TransactionType.
type OnlineOrder struct {
	BillView

	contact       Contact
	address       string
	trackingToken string
}

// NewOnlineOrder wraps bill. The bill itself is left untouched, so any number
// of decorators can wrap the same bill.
func NewOnlineOrder(bill BillView, contact Contact, address string) (*OnlineOrder, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)
	address = strings.TrimSpace(address)

	var fieldErrors []apperror.FieldError
	if bill == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "bill", Message: "bill is required"})
	}
	if contact.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "contact.name", Message: "customer name is required"})
	}
	if contact.Email == "" && contact.Phone == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "contact", Message: "an email or phone number is required"})
	}
	if address == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "address", Message: "delivery address is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	return &OnlineOrder{
		BillView:      bill,
		contact:       contact,
		address:       address,
		trackingToken: utils.NewTrackingToken(),
	}, nil
}

// TransactionType is always ONLINE, whatever the wrapped bill stored.
func (o *OnlineOrder) TransactionType() enum.TransactionType {
	return enum.TransactionTypeOnline
}

func (o *OnlineOrder) Contact() Contact        { return o.contact }
func (o *OnlineOrder) DeliveryAddress() string { return o.address }
func (o *OnlineOrder) TrackingToken() string   { return o.trackingToken }

// EstimatedDelivery is the bill date plus DeliveryDays.
func (o *OnlineOrder) EstimatedDelivery() time.Time {
	return o.Date().AddDate(0, 0, DeliveryDays)
}

// OriginalBill returns the wrapped view unchanged.
func (o *OnlineOrder) OriginalBill() BillView {
	return o.BillView
}

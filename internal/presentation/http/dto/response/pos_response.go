package response

import (
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/domain/view"
)

// ItemResponse is one stock bucket
type ItemResponse struct {
	ID           int64       `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Price        value.Money `json:"price"`
	Quantity     int         `json:"quantity"`
	State        string      `json:"state"`
	PurchaseDate time.Time   `json:"purchase_date"`
	ExpiryDate   *time.Time  `json:"expiry_date,omitempty"`
}

func NewItemResponse(item *entity.Item) ItemResponse {
	return ItemResponse{
		ID:           item.ID(),
		Code:         item.Code().String(),
		Name:         item.Name(),
		Price:        item.Price(),
		Quantity:     item.Quantity().Value(),
		State:        item.State().String(),
		PurchaseDate: item.PurchaseDate(),
		ExpiryDate:   item.ExpiryDate(),
	}
}

func NewItemListResponse(items []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewItemResponse(it))
	}
	return out
}

// BillLineResponse is one line of a bill
type BillLineResponse struct {
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
	UnitPrice  value.Money `json:"unit_price"`
	TotalPrice value.Money `json:"total_price"`
}

// BillResponse renders any bill view, decorated or not
type BillResponse struct {
	Number          string             `json:"bill_number"`
	Date            time.Time          `json:"date"`
	TransactionType string             `json:"transaction_type"`
	CashierID       int64              `json:"cashier_id,omitempty"`
	Items           []BillLineResponse `json:"items"`
	Subtotal        value.Money        `json:"subtotal"`
	Discount        value.Money        `json:"discount"`
	FinalAmount     value.Money        `json:"final_amount"`
	CashTendered    value.Money        `json:"cash_tendered"`
	Change          value.Money        `json:"change"`
}

func NewBillResponse(bill view.BillView) BillResponse {
	resp := BillResponse{
		Number:          bill.Number().String(),
		Date:            bill.Date(),
		TransactionType: bill.TransactionType().String(),
		CashierID:       bill.Cashier().Value(),
		Items:           make([]BillLineResponse, 0, bill.ItemCount()),
		Subtotal:        bill.Subtotal(),
		Discount:        bill.Discount(),
		FinalAmount:     bill.FinalAmount(),
		CashTendered:    bill.CashTendered(),
		Change:          bill.Change(),
	}
	bill.EachItem(func(it entity.BillItem) {
		resp.Items = append(resp.Items, BillLineResponse{
			Code:       it.Code().String(),
			Name:       it.Name(),
			Quantity:   it.Quantity().Value(),
			UnitPrice:  it.UnitPrice(),
			TotalPrice: it.TotalPrice(),
		})
	})
	return resp
}

func NewBillListResponse(bills []*entity.Bill) []BillResponse {
	out := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, NewBillResponse(b))
	}
	return out
}

// OnlineOrderResponse adds the delivery details to the bill
type OnlineOrderResponse struct {
	BillResponse
	Customer          view.Contact `json:"customer"`
	DeliveryAddress   string       `json:"delivery_address"`
	TrackingToken     string       `json:"tracking_token"`
	EstimatedDelivery time.Time    `json:"estimated_delivery"`
}

func NewOnlineOrderResponse(order *view.OnlineOrder) OnlineOrderResponse {
	return OnlineOrderResponse{
		BillResponse:      NewBillResponse(order),
		Customer:          order.Contact(),
		DeliveryAddress:   order.DeliveryAddress(),
		TrackingToken:     order.TrackingToken(),
		EstimatedDelivery: order.EstimatedDelivery(),
	}
}

// UserResponse is a till operator without credentials
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

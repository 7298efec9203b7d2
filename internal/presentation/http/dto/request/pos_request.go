package request

import "github.com/shopspring/decimal"

// AddStockRequest records a delivery into the store room
type AddStockRequest struct {
	Code       string           `json:"code" binding:"required,max=64"`
	Name       string           `json:"name" binding:"required,max=255"`
	Price      *decimal.Decimal `json:"price"`
	Quantity   int              `json:"quantity" binding:"required,min=1"`
	ExpiryDate string           `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
}

// ShelveRequest moves units from the store room to the shelf
type ShelveRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// SaleLineRequest is one scanned item
type SaleLineRequest struct {
	Code     string `json:"code" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// SaleRequest rings up and completes a sale in one call
type SaleRequest struct {
	Items        []SaleLineRequest `json:"items" binding:"dive"`
	CashTendered *decimal.Decimal  `json:"cash_tendered"`
	Print        bool              `json:"print"`
}

// OnlineOrderRequest turns a stored bill into an online order
type OnlineOrderRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Address string `json:"address" binding:"required,max=500"`
}

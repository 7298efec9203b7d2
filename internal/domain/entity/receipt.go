package entity

import "github.com/sangkips/retailpos-api/internal/domain/value"

// ReceiptHeader holds the store/business header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice value.Money `json:"unit_price"`
	Total     value.Money `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity, it is composed from a bill at print time.
type Receipt struct {
	Header          ReceiptHeader `json:"header"`
	BillNo          string        `json:"bill_no"`
	Date            string        `json:"date"`
	Cashier         string        `json:"cashier,omitempty"`
	TransactionType string        `json:"transaction_type"`
	Items           []ReceiptItem `json:"items"`
	SubTotal        value.Money   `json:"sub_total"`
	Discount        value.Money   `json:"discount"`
	Total           value.Money   `json:"total"`
	Cash            value.Money   `json:"cash"`
	Change          value.Money   `json:"change"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the immutable financial document materialized from a folio. Its
// lines are snapshots; they are never recomputed even if the originating folio
// line later changes.
type Invoice struct {
	ID       int32     `json:"id"`
	HotelID  int32     `json:"hotel_id"`
	FolioID  int32     `json:"folio_id"`
	Number   string    `json:"number"`
	Currency string    `json:"currency"`
	IssuedAt time.Time `json:"issued_at"`

	Subtotal decimal.Decimal `json:"subtotal"`
	TaxTotal decimal.Decimal `json:"tax_total"`
	Total    decimal.Decimal `json:"total"`

	Lines []InvoiceLine `json:"lines,omitempty"`
}

type InvoiceLine struct {
	ID          int32           `json:"id"`
	InvoiceID   int32           `json:"invoice_id"`
	FolioItemID int32           `json:"folio_item_id"`
	Description string          `json:"description"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FolioStatus string

const (
	FolioStatusOpen   FolioStatus = "OPEN"
	FolioStatusClosed FolioStatus = "CLOSED"
)

// Folio is the billing ledger header for a stay. The stored totals are always
// the result of summing the current items and payments; they are recomputed on
// every relevant mutation and never trusted in isolation.
type Folio struct {
	ID            int32       `json:"id"`
	TenantID      int32       `json:"tenant_id"`
	HotelID       int32       `json:"hotel_id"`
	ReservationID int32       `json:"reservation_id"`
	GuestID       int32       `json:"guest_id"`
	Code          string      `json:"code"`
	IsMain        bool        `json:"is_main"`
	Status        FolioStatus `json:"status"`
	Currency      string      `json:"currency"`

	ChargesTotal  decimal.Decimal `json:"charges_total"`
	PaymentsTotal decimal.Decimal `json:"payments_total"`
	Balance       decimal.Decimal `json:"balance"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

type FolioItemType string

const (
	FolioItemTypeStay       FolioItemType = "STAY"
	FolioItemTypeAdjustment FolioItemType = "ADJUSTMENT"
	FolioItemTypePenalty    FolioItemType = "PENALTY"
	FolioItemTypeServiceFee FolioItemType = "SERVICE_FEE"
)

type FolioItem struct {
	ID      int32         `json:"id"`
	FolioID int32         `json:"folio_id"`
	Type    FolioItemType `json:"type"`

	Description     string          `json:"description"`
	Quantity        int32           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`

	BusinessDate time.Time `json:"business_date"`
	IsStayItem   bool      `json:"is_stay_item"`

	// Meta records traceability data for stay segments (room, date bounds).
	Meta map[string]string `json:"meta,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

type PaymentStatus string

const (
	PaymentStatusPosted PaymentStatus = "POSTED"
	PaymentStatusVoided PaymentStatus = "VOIDED"
)

type FolioPayment struct {
	ID           int32           `json:"id"`
	FolioID      int32           `json:"folio_id"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Reference    string          `json:"reference,omitempty"`
	Status       PaymentStatus   `json:"status"`
	BusinessDate time.Time       `json:"business_date"`
	VoidReason   string          `json:"void_reason,omitempty"`
	VoidedBy     *int32          `json:"voided_by,omitempty"`
	VoidedAt     *time.Time      `json:"voided_at,omitempty"`
	CreatedOn    time.Time       `json:"created_on"`
}

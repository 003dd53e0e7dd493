package domain

import "time"

// Hotel carries the per-property accounting configuration: its timezone and
// the daily cutoff at which one business date rolls into the next.
type Hotel struct {
	ID       int32  `json:"id"`
	TenantID int32  `json:"tenant_id"`
	Name     string `json:"name"`

	// Timezone is an IANA zone name, e.g. "Europe/Lisbon".
	Timezone string `json:"timezone"`
	// DayCutoff is "HH:MM"; empty means the configured default (08:00).
	DayCutoff string `json:"day_cutoff"`

	Currency  string    `json:"currency"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

type ClosureStatus string

const (
	ClosureStatusOpen   ClosureStatus = "OPEN"
	ClosureStatusClosed ClosureStatus = "CLOSED"
)

// HotelDayClosure records the night-audit lock for one (hotel, business date).
type HotelDayClosure struct {
	ID           int32         `json:"id"`
	HotelID      int32         `json:"hotel_id"`
	BusinessDate time.Time     `json:"business_date"`
	Status       ClosureStatus `json:"status"`
	ClosedBy     *int32        `json:"closed_by,omitempty"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	ReopenedBy   *int32        `json:"reopened_by,omitempty"`
	ReopenedAt   *time.Time    `json:"reopened_at,omitempty"`
	// Summary is a JSON snapshot taken at close time. Reopening preserves it.
	Summary   string    `json:"summary,omitempty"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

package domain

// OfferKind drives how many billable units a stay's date range represents.
type OfferKind string

const (
	OfferKindFullDay   OfferKind = "FULL_DAY"
	OfferKindShortStay OfferKind = "SHORT_STAY"
	OfferKindWeekend   OfferKind = "WEEKEND"
)

// Offer is a rate/time-rule entity owned outside this core. It is treated as
// an opaque rate and quantity function here.
type Offer struct {
	ID      int32     `json:"id"`
	HotelID int32     `json:"hotel_id"`
	Name    string    `json:"name"`
	Kind    OfferKind `json:"kind"`
}

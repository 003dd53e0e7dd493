package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "PENDING"
	ReservationStatusConfirmed  ReservationStatus = "CONFIRMED"
	ReservationStatusInHouse    ReservationStatus = "IN_HOUSE"
	ReservationStatusCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationStatusCancelled  ReservationStatus = "CANCELLED"
	ReservationStatusNoShow     ReservationStatus = "NO_SHOW"
)

// TransitionAction identifies a requested reservation transition.
type TransitionAction string

const (
	ActionConfirm    TransitionAction = "confirm"
	ActionCheckIn    TransitionAction = "check_in"
	ActionCheckOut   TransitionAction = "check_out"
	ActionCancel     TransitionAction = "cancel"
	ActionMarkNoShow TransitionAction = "no_show"
)

// allowedTransitions is the status adjacency table. It is constructed once and
// never mutated; every status change is validated against it before any write.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:    {ReservationStatusConfirmed, ReservationStatusInHouse, ReservationStatusCancelled, ReservationStatusNoShow},
	ReservationStatusConfirmed:  {ReservationStatusInHouse, ReservationStatusCancelled, ReservationStatusNoShow},
	ReservationStatusInHouse:    {ReservationStatusCheckedOut},
	ReservationStatusCheckedOut: {},
	ReservationStatusCancelled:  {},
	ReservationStatusNoShow:     {},
}

// CanTransition reports whether the adjacency table permits from -> to.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TargetStatusFor maps a transition action to the status it drives toward.
func TargetStatusFor(action TransitionAction) (ReservationStatus, bool) {
	switch action {
	case ActionConfirm:
		return ReservationStatusConfirmed, true
	case ActionCheckIn:
		return ReservationStatusInHouse, true
	case ActionCheckOut:
		return ReservationStatusCheckedOut, true
	case ActionCancel:
		return ReservationStatusCancelled, true
	case ActionMarkNoShow:
		return ReservationStatusNoShow, true
	default:
		return "", false
	}
}

// ActiveStatuses are the statuses that count for availability purposes. A
// cancelled, no-show or checked-out reservation never blocks a room.
var ActiveStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusInHouse,
}

func IsActiveStatus(s ReservationStatus) bool {
	for _, a := range ActiveStatuses {
		if a == s {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID         int32  `json:"id"`
	TenantID   int32  `json:"tenant_id"`
	HotelID    int32  `json:"hotel_id"`
	GuestID    int32  `json:"guest_id"`
	RoomTypeID int32  `json:"room_type_id"`
	RoomID     *int32 `json:"room_id,omitempty"`
	OfferID    *int32 `json:"offer_id,omitempty"`
	Code       string `json:"code"`

	Status ReservationStatus `json:"status"`

	// CheckInDate/CheckOutDate are calendar dates (half-open range); the
	// actual arrival/departure are wall-clock timestamps stamped on transition.
	CheckInDate      time.Time  `json:"check_in_date"`
	CheckOutDate     time.Time  `json:"check_out_date"`
	ActualCheckInAt  *time.Time `json:"actual_check_in_at,omitempty"`
	ActualCheckOutAt *time.Time `json:"actual_check_out_at,omitempty"`

	Adults   int32 `json:"adults"`
	Children int32 `json:"children"`

	Currency    string          `json:"currency"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	Notes string `json:"notes,omitempty"`

	// GuestName is denormalized by overlap queries for reporting; it is never
	// written back.
	GuestName string `json:"guest_name,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

package domain

import "errors"

// Error taxonomy for the stay lifecycle core. All failures are local and
// synchronous; none are retried automatically.
var (
	// ErrIllegalTransition: the status change is not permitted from the
	// current state. Rejected before any mutation.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrUnavailable: room/room-type conflict, maintenance block or
	// overbooking. Rejected before any mutation.
	ErrUnavailable = errors.New("room not available")

	// ErrMissingRoom: the operation requires a claimed room.
	ErrMissingRoom = errors.New("reservation has no room assigned")

	// ErrLockedPeriod: the business date is closed. Bypassable only by a
	// privileged actor passing an explicit override.
	ErrLockedPeriod = errors.New("business date is closed")

	// ErrInconsistentState: an upstream programming/data error, e.g. the room
	// on the reservation does not match the room being transitioned.
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrFolioClosed: the folio no longer permits item edits.
	ErrFolioClosed = errors.New("folio is closed")

	ErrNotFound = errors.New("not found")
)

// Conflict describes a blocking reservation for reporting and notification.
// It is a descriptor, not an error: conflict detection never blocks writes.
type Conflict struct {
	ReservationID   int32  `json:"reservation_id"`
	ReservationCode string `json:"reservation_code"`
	GuestName       string `json:"guest_name,omitempty"`
	RoomNumber      string `json:"room_number,omitempty"`
	OverlapStart    string `json:"overlap_start"`
	OverlapEnd      string `json:"overlap_end"`
}

// OverbookReport names the first date in a range where demand for a room type
// meets or exceeds supply.
type OverbookReport struct {
	Date   string `json:"date"`
	Demand int32  `json:"demand"`
	Supply int32  `json:"supply"`
}

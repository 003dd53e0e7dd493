// Package service implements the stay lifecycle business logic: business-date
// resolution, the reservation and room state machines, availability checking,
// conflict detection, night-audit locking and folio billing.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

// BusinessDayService resolves wall-clock instants into hotel business dates.
type BusinessDayService interface {
	// ResolveBusinessDate maps an instant to the business date it belongs to
	// for the given hotel: the instant is converted to the hotel timezone and,
	// if it falls before the day cutoff, it belongs to the previous calendar
	// date.
	ResolveBusinessDate(ctx context.Context, hotel *domain.Hotel, at time.Time) (time.Time, error)
	// CurrentBusinessDate is ResolveBusinessDate at time.Now().
	CurrentBusinessDate(ctx context.Context, hotel *domain.Hotel) (time.Time, error)
	// BusinessWindow returns the wall-clock interval [start, end) covered by a
	// business date in the hotel's timezone.
	BusinessWindow(ctx context.Context, hotel *domain.Hotel, businessDate time.Time) (time.Time, time.Time, error)
}

// NightAuditService owns the per-day closure lock.
type NightAuditService interface {
	IsClosed(ctx context.Context, hotelID int32, businessDate time.Time) (bool, error)
	// AssertOpen returns domain.ErrLockedPeriod when the date is closed,
	// unless override is set and the actor holds an override-capable role.
	AssertOpen(ctx context.Context, r repository.Registry, hotelID int32, businessDate time.Time, actor *domain.Actor, override bool) error
	CloseDay(ctx context.Context, hotelID int32, businessDate time.Time, actor *domain.Actor) (*domain.HotelDayClosure, error)
	ReopenDay(ctx context.Context, hotelID int32, businessDate time.Time, actor *domain.Actor) (*domain.HotelDayClosure, error)
	Status(ctx context.Context, hotelID int32, businessDate time.Time) (*domain.HotelDayClosure, error)
}

// AvailabilityRequest asks whether a stay can be placed. RoomID may be nil
// when only room-type capacity matters. ExcludeReservationID lets an edit or
// transition ignore the reservation itself.
type AvailabilityRequest struct {
	HotelID              int32
	RoomID               *int32
	RoomTypeID           int32
	CheckInDate          time.Time
	CheckOutDate         time.Time
	TargetStatus         domain.ReservationStatus
	ExcludeReservationID *int32
}

// AvailabilityService is the pre-write gate every room claim passes through.
type AvailabilityService interface {
	// Check returns domain.ErrUnavailable when the requested stay cannot be
	// placed. It takes a Registry so a transition can run the check against
	// its own transaction's snapshot.
	Check(ctx context.Context, r repository.Registry, req AvailabilityRequest) error
}

// ConflictService reports blocking reservations without refusing writes.
type ConflictService interface {
	// FindRoomConflicts lists overlapping active reservations for a room.
	FindRoomConflicts(ctx context.Context, hotelID, roomID int32, checkIn, checkOut time.Time, excludeID *int32) ([]domain.Conflict, error)
	// CheckOverbooking scans a date range day by day and reports the first
	// date where active demand for the room type meets or exceeds supply.
	CheckOverbooking(ctx context.Context, hotelID, roomTypeID int32, checkIn, checkOut time.Time, excludeID *int32) (*domain.OverbookReport, error)
}

// AdjustmentRequest posts a manual folio line.
type AdjustmentRequest struct {
	Type        domain.FolioItemType
	Description string
	Quantity    int32
	UnitPrice   decimal.Decimal
	Override    bool
}

// PaymentRequest posts a payment against a folio.
type PaymentRequest struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
	Override  bool
}

// FolioService owns the billing ledger attached to a reservation.
type FolioService interface {
	// EnsureMainFolio returns the reservation's main folio, creating it if it
	// does not exist yet. Idempotent.
	EnsureMainFolio(ctx context.Context, r repository.Registry, res *domain.Reservation) (*domain.Folio, error)
	// SyncStayCharge recomputes the stay charge from the reservation's dates,
	// offer and rate, replacing any previous stay lines. Idempotent.
	SyncStayCharge(ctx context.Context, r repository.Registry, res *domain.Reservation) error
	// ResegmentForRoomChange splits the stay charge at the pivot date into a
	// segment billed on the old room at the old rate and a segment billed on
	// the new room at the new rate.
	ResegmentForRoomChange(ctx context.Context, r repository.Registry, res *domain.Reservation, oldRoom, newRoom *domain.Room, pivotDate time.Time, oldRate, newRate decimal.Decimal) error
	AddAdjustment(ctx context.Context, folioID int32, req AdjustmentRequest, actor *domain.Actor) (*domain.FolioItem, error)
	RecordPayment(ctx context.Context, folioID int32, req PaymentRequest, actor *domain.Actor) (*domain.FolioPayment, error)
	VoidPayment(ctx context.Context, paymentID int32, reason string, actor *domain.Actor) (*domain.FolioPayment, error)
	// GenerateInvoice materializes the folio into an immutable invoice.
	// closeFolio freezes the ledger afterward; leaving it open supports
	// interim invoices mid-stay.
	GenerateInvoice(ctx context.Context, folioID int32, closeFolio bool, actor *domain.Actor) (*domain.Invoice, error)
	GetFolio(ctx context.Context, folioID int32) (*domain.Folio, []domain.FolioItem, []domain.FolioPayment, error)
}

// TransitionRequest drives one reservation status change.
type TransitionRequest struct {
	ReservationID int32
	Action        domain.TransitionAction
	// RoomID optionally (re)assigns a room at check-in time.
	RoomID   *int32
	Reason   string
	Override bool
}

// ReservationService orchestrates the dual reservation/room state machine.
type ReservationService interface {
	Transition(ctx context.Context, req TransitionRequest, actor *domain.Actor) (*domain.Reservation, error)
	Confirm(ctx context.Context, reservationID int32, actor *domain.Actor) (*domain.Reservation, error)
	CheckIn(ctx context.Context, reservationID int32, roomID *int32, actor *domain.Actor) (*domain.Reservation, error)
	CheckOut(ctx context.Context, reservationID int32, actor *domain.Actor) (*domain.Reservation, error)
	Cancel(ctx context.Context, reservationID int32, reason string, actor *domain.Actor) (*domain.Reservation, error)
	MarkNoShow(ctx context.Context, reservationID int32, actor *domain.Actor) (*domain.Reservation, error)
	// ChangeRoom moves an in-house reservation to another room mid-stay,
	// resegmenting its stay charge at today's business date. A nil newRate
	// keeps the reservation's current rate for the post-pivot segment.
	ChangeRoom(ctx context.Context, reservationID, newRoomID int32, newRate *decimal.Decimal, actor *domain.Actor) (*domain.Reservation, error)
	GetReservation(ctx context.Context, reservationID int32) (*domain.Reservation, error)
}

// RoomStateService applies the room occupancy state machine.
type RoomStateService interface {
	MarkOccupied(ctx context.Context, r repository.Registry, room *domain.Room, res *domain.Reservation) error
	MarkAvailable(ctx context.Context, r repository.Registry, room *domain.Room) error
	MarkOutOfOrder(ctx context.Context, roomID int32, actor *domain.Actor) (*domain.Room, error)
	ReturnToService(ctx context.Context, roomID int32, actor *domain.Actor) (*domain.Room, error)
}

// Notifier publishes lifecycle events. Implementations must never return an
// error into the calling transition; failures are logged and dropped.
type Notifier interface {
	Notify(ctx context.Context, hotelID int32, eventKey, title, message string, attrs map[string]string)
}

// OfferTimeRule resolves the billing behavior of an offer. The offer catalog
// lives outside this core; this port is all the billing code depends on.
type OfferTimeRule interface {
	// Resolve returns the offer's billing kind and display name. Both fall
	// back to defaults when the reservation carries no resolvable offer.
	Resolve(ctx context.Context, offerID *int32) (domain.OfferKind, string, error)
}

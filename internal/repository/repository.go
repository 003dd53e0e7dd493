package repository

import (
	"context"
	"time"

	"innsync-backend/internal/domain"
)

type HotelRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Hotel, error)
	List(ctx context.Context) ([]domain.Hotel, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Room, error)
	// GetByIDForUpdate locks the room row for the rest of the transaction so a
	// concurrent check-and-claim cannot pass the same availability check.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	// CountSellableByType counts rooms of the type that are not out of order
	// and not blocked by an open blocks-sale maintenance ticket.
	CountSellableByType(ctx context.Context, hotelID, roomTypeID int32) (int32, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) error
	// ListOverlapping returns reservations in the given statuses whose
	// [check_in, check_out) range overlaps [checkIn, checkOut), optionally
	// restricted to one room and excluding one reservation (for edits).
	ListOverlapping(ctx context.Context, hotelID int32, roomID *int32, roomTypeID int32, checkIn, checkOut time.Time, statuses []domain.ReservationStatus, excludeID *int32) ([]domain.Reservation, error)
	CountOverlappingByType(ctx context.Context, hotelID, roomTypeID int32, checkIn, checkOut time.Time, statuses []domain.ReservationStatus, excludeID *int32) (int32, error)
}

type OfferRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Offer, error)
}

type FolioRepository interface {
	Create(ctx context.Context, folio *domain.Folio) error
	GetByID(ctx context.Context, id int32) (*domain.Folio, error)
	GetMainByReservation(ctx context.Context, reservationID int32) (*domain.Folio, error)
	Update(ctx context.Context, folio *domain.Folio) error

	CreateItem(ctx context.Context, item *domain.FolioItem) error
	UpdateItem(ctx context.Context, item *domain.FolioItem) error
	DeleteItem(ctx context.Context, itemID int32) error
	ListItems(ctx context.Context, folioID int32) ([]domain.FolioItem, error)
	ListStayItems(ctx context.Context, folioID int32) ([]domain.FolioItem, error)

	CreatePayment(ctx context.Context, p *domain.FolioPayment) error
	GetPayment(ctx context.Context, id int32) (*domain.FolioPayment, error)
	UpdatePayment(ctx context.Context, p *domain.FolioPayment) error
	ListPayments(ctx context.Context, folioID int32) ([]domain.FolioPayment, error)
}

type InvoiceRepository interface {
	// Create persists the invoice header and all lines.
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id int32) (*domain.Invoice, error)
}

type ClosureRepository interface {
	Get(ctx context.Context, hotelID int32, businessDate time.Time) (*domain.HotelDayClosure, error)
	// Upsert creates or updates the closure row keyed by (hotel, business date).
	Upsert(ctx context.Context, c *domain.HotelDayClosure) error
}

type MaintenanceRepository interface {
	HasBlockingTicket(ctx context.Context, roomID int32) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
}

// Registry bundles every repository so a whole set can be rebound to one
// transaction at once.
type Registry struct {
	Hotels        HotelRepository
	Rooms         RoomRepository
	Reservations  ReservationRepository
	Offers        OfferRepository
	Folios        FolioRepository
	Invoices      InvoiceRepository
	Closures      ClosureRepository
	Maintenance   MaintenanceRepository
	Notifications NotificationRepository
}

// Atomic runs fn inside a single database transaction. Every repository in
// the Registry passed to fn is bound to that transaction; if fn returns an
// error nothing is committed. This is the unit-of-work boundary the
// reservation transitions are built on.
type Atomic interface {
	WithinTx(ctx context.Context, fn func(r Registry) error) error
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"innsync-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repository code serves both plain calls and transactional ones.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Registry
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, Registry: newRegistry(db)}
}

func newRegistry(q DBTX) repository.Registry {
	return repository.Registry{
		Hotels:        NewHotelRepository(q),
		Rooms:         NewRoomRepository(q),
		Reservations:  NewReservationRepository(q),
		Offers:        NewOfferRepository(q),
		Folios:        NewFolioRepository(q),
		Invoices:      NewInvoiceRepository(q),
		Closures:      NewClosureRepository(q),
		Maintenance:   NewMaintenanceRepository(q),
		Notifications: NewNotificationRepository(q),
	}
}

// WithinTx implements repository.Atomic. All repositories handed to fn are
// bound to one transaction; an error from fn rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Registry) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(newRegistry(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

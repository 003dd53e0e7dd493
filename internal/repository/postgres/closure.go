package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

type closureRepository struct {
	db DBTX
}

func NewClosureRepository(db DBTX) repository.ClosureRepository {
	return &closureRepository{db: db}
}

func (r *closureRepository) Get(ctx context.Context, hotelID int32, businessDate time.Time) (*domain.HotelDayClosure, error) {
	c := &domain.HotelDayClosure{}
	query := `SELECT id, hotel_id, business_date, status, closed_by, closed_at, reopened_by, reopened_at,
	              COALESCE(summary, ''), created_on, updated_on
	          FROM hotel_day_closures WHERE hotel_id = $1 AND business_date = $2`
	err := r.db.QueryRowContext(ctx, query, hotelID, businessDate).Scan(
		&c.ID, &c.HotelID, &c.BusinessDate, &c.Status, &c.ClosedBy, &c.ClosedAt, &c.ReopenedBy, &c.ReopenedAt,
		&c.Summary, &c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *closureRepository) Upsert(ctx context.Context, c *domain.HotelDayClosure) error {
	// One closure row per (hotel, business_date); the natural key carries the
	// get-or-create guarantee instead of a check-then-insert.
	query := `INSERT INTO hotel_day_closures (hotel_id, business_date, status, closed_by, closed_at, reopened_by, reopened_at, summary, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (hotel_id, business_date) DO UPDATE SET
	              status = EXCLUDED.status,
	              closed_by = EXCLUDED.closed_by,
	              closed_at = EXCLUDED.closed_at,
	              reopened_by = EXCLUDED.reopened_by,
	              reopened_at = EXCLUDED.reopened_at,
	              summary = EXCLUDED.summary,
	              updated_on = EXCLUDED.updated_on
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		c.HotelID, c.BusinessDate, c.Status, c.ClosedBy, c.ClosedAt, c.ReopenedBy, c.ReopenedAt, c.Summary, now, now,
	).Scan(&c.ID)
}

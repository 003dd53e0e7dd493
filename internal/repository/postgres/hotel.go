package postgres

import (
	"context"
	"database/sql"
	"errors"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

type hotelRepository struct {
	db DBTX
}

func NewHotelRepository(db DBTX) repository.HotelRepository {
	return &hotelRepository{db: db}
}

func (r *hotelRepository) GetByID(ctx context.Context, id int32) (*domain.Hotel, error) {
	h := &domain.Hotel{}
	query := `SELECT id, tenant_id, name, timezone, day_cutoff, currency, created_on, updated_on FROM hotels WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.TenantID, &h.Name, &h.Timezone, &h.DayCutoff, &h.Currency, &h.CreatedOn, &h.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *hotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	query := `SELECT id, tenant_id, name, timezone, day_cutoff, currency, created_on, updated_on FROM hotels ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.TenantID, &h.Name, &h.Timezone, &h.DayCutoff, &h.Currency, &h.CreatedOn, &h.UpdatedOn); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

type offerRepository struct {
	db DBTX
}

func NewOfferRepository(db DBTX) repository.OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	o := &domain.Offer{}
	query := `SELECT id, hotel_id, name, kind FROM offers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.HotelID, &o.Name, &o.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

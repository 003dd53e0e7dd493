package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

type roomRepository struct {
	db DBTX
}

func NewRoomRepository(db DBTX) repository.RoomRepository {
	return &roomRepository{db: db}
}

const roomColumns = `id, tenant_id, hotel_id, room_type_id, number, status, housekeeping_status, created_on, updated_on`

func (r *roomRepository) scanRoom(row *sql.Row) (*domain.Room, error) {
	rm := &domain.Room{}
	err := row.Scan(&rm.ID, &rm.TenantID, &rm.HotelID, &rm.RoomTypeID, &rm.Number, &rm.Status, &rm.HousekeepingStatus, &rm.CreatedOn, &rm.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	return r.scanRoom(r.db.QueryRowContext(ctx, query, id))
}

func (r *roomRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	return r.scanRoom(r.db.QueryRowContext(ctx, query, id))
}

func (r *roomRepository) Update(ctx context.Context, rm *domain.Room) error {
	query := `UPDATE rooms SET status=$1, housekeeping_status=$2, updated_on=$3 WHERE id=$4`
	_, err := r.db.ExecContext(ctx, query, rm.Status, rm.HousekeepingStatus, time.Now(), rm.ID)
	return err
}

func (r *roomRepository) CountSellableByType(ctx context.Context, hotelID, roomTypeID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM rooms r
	          WHERE r.hotel_id = $1 AND r.room_type_id = $2
	            AND r.status <> 'OUT_OF_ORDER'
	            AND NOT EXISTS (
	                SELECT 1 FROM maintenance_tickets m
	                WHERE m.room_id = r.id AND m.status = 'OPEN' AND m.blocks_sale
	            )`
	err := r.db.QueryRowContext(ctx, query, hotelID, roomTypeID).Scan(&count)
	return count, err
}

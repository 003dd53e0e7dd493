package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"

	"github.com/lib/pq"
)

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, tenant_id, hotel_id, guest_id, room_type_id, room_id, offer_id, code, status,
	check_in_date, check_out_date, actual_check_in_at, actual_check_out_at,
	adults, children, currency, unit_price, base_amount, tax_amount, total_amount,
	COALESCE(notes, ''), created_on, updated_on`

func scanReservation(scan func(dest ...interface{}) error) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := scan(
		&res.ID, &res.TenantID, &res.HotelID, &res.GuestID, &res.RoomTypeID, &res.RoomID, &res.OfferID, &res.Code, &res.Status,
		&res.CheckInDate, &res.CheckOutDate, &res.ActualCheckInAt, &res.ActualCheckOutAt,
		&res.Adults, &res.Children, &res.Currency, &res.UnitPrice, &res.BaseAmount, &res.TaxAmount, &res.TotalAmount,
		&res.Notes, &res.CreatedOn, &res.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (tenant_id, hotel_id, guest_id, room_type_id, room_id, offer_id, code, status,
	              check_in_date, check_out_date, adults, children, currency, unit_price, base_amount, tax_amount, total_amount, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		res.TenantID, res.HotelID, res.GuestID, res.RoomTypeID, res.RoomID, res.OfferID, res.Code, res.Status,
		res.CheckInDate, res.CheckOutDate, res.Adults, res.Children, res.Currency,
		res.UnitPrice, res.BaseAmount, res.TaxAmount, res.TotalAmount, res.Notes, now, now,
	).Scan(&res.ID)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	res, err := scanReservation(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	query := `UPDATE reservations SET status=$1, room_id=$2, check_in_date=$3, check_out_date=$4,
	              actual_check_in_at=$5, actual_check_out_at=$6, unit_price=$7, base_amount=$8,
	              tax_amount=$9, total_amount=$10, notes=$11, updated_on=$12
	          WHERE id=$13`
	_, err := r.db.ExecContext(ctx, query,
		res.Status, res.RoomID, res.CheckInDate, res.CheckOutDate,
		res.ActualCheckInAt, res.ActualCheckOutAt, res.UnitPrice, res.BaseAmount,
		res.TaxAmount, res.TotalAmount, res.Notes, time.Now(), res.ID)
	return err
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *reservationRepository) ListOverlapping(ctx context.Context, hotelID int32, roomID *int32, roomTypeID int32, checkIn, checkOut time.Time, statuses []domain.ReservationStatus, excludeID *int32) ([]domain.Reservation, error) {
	// Half-open overlap: existing.check_in < candidate.check_out AND
	// existing.check_out > candidate.check_in.
	query := `SELECT res.id, res.tenant_id, res.hotel_id, res.guest_id, res.room_type_id, res.room_id, res.offer_id, res.code, res.status,
	              res.check_in_date, res.check_out_date, res.actual_check_in_at, res.actual_check_out_at,
	              res.adults, res.children, res.currency, res.unit_price, res.base_amount, res.tax_amount, res.total_amount,
	              COALESCE(res.notes, ''), res.created_on, res.updated_on, COALESCE(g.full_name, '')
	          FROM reservations res LEFT JOIN guests g ON g.id = res.guest_id
	          WHERE res.hotel_id = $1 AND res.status = ANY($2)
	            AND res.check_in_date < $3 AND res.check_out_date > $4`

	args := []interface{}{hotelID, pq.Array(statusStrings(statuses)), checkOut, checkIn}
	argIdx := 5
	if roomID != nil {
		query += fmt.Sprintf(" AND res.room_id = $%d", argIdx)
		args = append(args, *roomID)
		argIdx++
	} else {
		query += fmt.Sprintf(" AND res.room_type_id = $%d", argIdx)
		args = append(args, roomTypeID)
		argIdx++
	}
	if excludeID != nil {
		query += fmt.Sprintf(" AND res.id <> $%d", argIdx)
		args = append(args, *excludeID)
	}
	query += " ORDER BY res.check_in_date"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res := domain.Reservation{}
		if err := rows.Scan(
			&res.ID, &res.TenantID, &res.HotelID, &res.GuestID, &res.RoomTypeID, &res.RoomID, &res.OfferID, &res.Code, &res.Status,
			&res.CheckInDate, &res.CheckOutDate, &res.ActualCheckInAt, &res.ActualCheckOutAt,
			&res.Adults, &res.Children, &res.Currency, &res.UnitPrice, &res.BaseAmount, &res.TaxAmount, &res.TotalAmount,
			&res.Notes, &res.CreatedOn, &res.UpdatedOn, &res.GuestName,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *reservationRepository) CountOverlappingByType(ctx context.Context, hotelID, roomTypeID int32, checkIn, checkOut time.Time, statuses []domain.ReservationStatus, excludeID *int32) (int32, error) {
	query := `SELECT count(*) FROM reservations
	          WHERE hotel_id = $1 AND room_type_id = $2 AND status = ANY($3)
	            AND check_in_date < $4 AND check_out_date > $5`
	args := []interface{}{hotelID, roomTypeID, pq.Array(statusStrings(statuses)), checkOut, checkIn}
	if excludeID != nil {
		query += " AND id <> $6"
		args = append(args, *excludeID)
	}

	var count int32
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

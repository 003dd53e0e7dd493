package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

type folioRepository struct {
	db DBTX
}

func NewFolioRepository(db DBTX) repository.FolioRepository {
	return &folioRepository{db: db}
}

const folioColumns = `id, tenant_id, hotel_id, reservation_id, guest_id, code, is_main, status, currency,
	charges_total, payments_total, balance, created_on, updated_on`

func scanFolio(row *sql.Row) (*domain.Folio, error) {
	f := &domain.Folio{}
	err := row.Scan(&f.ID, &f.TenantID, &f.HotelID, &f.ReservationID, &f.GuestID, &f.Code, &f.IsMain, &f.Status, &f.Currency,
		&f.ChargesTotal, &f.PaymentsTotal, &f.Balance, &f.CreatedOn, &f.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *folioRepository) Create(ctx context.Context, f *domain.Folio) error {
	// One main folio per reservation is enforced by a partial unique index on
	// (reservation_id) WHERE is_main; a lost race surfaces as a constraint error.
	query := `INSERT INTO folios (tenant_id, hotel_id, reservation_id, guest_id, code, is_main, status, currency,
	              charges_total, payments_total, balance, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		f.TenantID, f.HotelID, f.ReservationID, f.GuestID, f.Code, f.IsMain, f.Status, f.Currency,
		f.ChargesTotal, f.PaymentsTotal, f.Balance, now, now,
	).Scan(&f.ID)
}

func (r *folioRepository) GetByID(ctx context.Context, id int32) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE id = $1`
	return scanFolio(r.db.QueryRowContext(ctx, query, id))
}

func (r *folioRepository) GetMainByReservation(ctx context.Context, reservationID int32) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE reservation_id = $1 AND is_main`
	return scanFolio(r.db.QueryRowContext(ctx, query, reservationID))
}

func (r *folioRepository) Update(ctx context.Context, f *domain.Folio) error {
	query := `UPDATE folios SET status=$1, charges_total=$2, payments_total=$3, balance=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, f.Status, f.ChargesTotal, f.PaymentsTotal, f.Balance, time.Now(), f.ID)
	return err
}

func (r *folioRepository) CreateItem(ctx context.Context, item *domain.FolioItem) error {
	meta, err := json.Marshal(item.Meta)
	if err != nil {
		return err
	}
	query := `INSERT INTO folio_items (folio_id, type, description, quantity, unit_price, discount_percent, discount_amount,
	              tax_amount, net_amount, total_amount, business_date, is_stay_item, meta, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		item.FolioID, item.Type, item.Description, item.Quantity, item.UnitPrice, item.DiscountPercent, item.DiscountAmount,
		item.TaxAmount, item.NetAmount, item.TotalAmount, item.BusinessDate, item.IsStayItem, meta, now, now,
	).Scan(&item.ID)
}

func (r *folioRepository) UpdateItem(ctx context.Context, item *domain.FolioItem) error {
	meta, err := json.Marshal(item.Meta)
	if err != nil {
		return err
	}
	query := `UPDATE folio_items SET description=$1, quantity=$2, unit_price=$3, discount_percent=$4, discount_amount=$5,
	              tax_amount=$6, net_amount=$7, total_amount=$8, business_date=$9, meta=$10, updated_on=$11
	          WHERE id=$12`
	_, err = r.db.ExecContext(ctx, query,
		item.Description, item.Quantity, item.UnitPrice, item.DiscountPercent, item.DiscountAmount,
		item.TaxAmount, item.NetAmount, item.TotalAmount, item.BusinessDate, meta, time.Now(), item.ID)
	return err
}

func (r *folioRepository) DeleteItem(ctx context.Context, itemID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM folio_items WHERE id = $1`, itemID)
	return err
}

const folioItemColumns = `id, folio_id, type, description, quantity, unit_price, discount_percent, discount_amount,
	tax_amount, net_amount, total_amount, business_date, is_stay_item, meta, created_on, updated_on`

func (r *folioRepository) listItems(ctx context.Context, query string, args ...interface{}) ([]domain.FolioItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.FolioItem
	for rows.Next() {
		var item domain.FolioItem
		var meta []byte
		if err := rows.Scan(&item.ID, &item.FolioID, &item.Type, &item.Description, &item.Quantity, &item.UnitPrice,
			&item.DiscountPercent, &item.DiscountAmount, &item.TaxAmount, &item.NetAmount, &item.TotalAmount,
			&item.BusinessDate, &item.IsStayItem, &meta, &item.CreatedOn, &item.UpdatedOn); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &item.Meta); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *folioRepository) ListItems(ctx context.Context, folioID int32) ([]domain.FolioItem, error) {
	return r.listItems(ctx, `SELECT `+folioItemColumns+` FROM folio_items WHERE folio_id = $1 ORDER BY id`, folioID)
}

func (r *folioRepository) ListStayItems(ctx context.Context, folioID int32) ([]domain.FolioItem, error) {
	return r.listItems(ctx, `SELECT `+folioItemColumns+` FROM folio_items WHERE folio_id = $1 AND is_stay_item ORDER BY id`, folioID)
}

func (r *folioRepository) CreatePayment(ctx context.Context, p *domain.FolioPayment) error {
	query := `INSERT INTO folio_payments (folio_id, amount, method, reference, status, business_date, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		p.FolioID, p.Amount, p.Method, p.Reference, p.Status, p.BusinessDate, time.Now(),
	).Scan(&p.ID)
}

func (r *folioRepository) GetPayment(ctx context.Context, id int32) (*domain.FolioPayment, error) {
	p := &domain.FolioPayment{}
	query := `SELECT id, folio_id, amount, method, COALESCE(reference, ''), status, business_date,
	              COALESCE(void_reason, ''), voided_by, voided_at, created_on
	          FROM folio_payments WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FolioID, &p.Amount, &p.Method, &p.Reference, &p.Status,
		&p.BusinessDate, &p.VoidReason, &p.VoidedBy, &p.VoidedAt, &p.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *folioRepository) UpdatePayment(ctx context.Context, p *domain.FolioPayment) error {
	query := `UPDATE folio_payments SET status=$1, void_reason=$2, voided_by=$3, voided_at=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, p.Status, p.VoidReason, p.VoidedBy, p.VoidedAt, p.ID)
	return err
}

func (r *folioRepository) ListPayments(ctx context.Context, folioID int32) ([]domain.FolioPayment, error) {
	query := `SELECT id, folio_id, amount, method, COALESCE(reference, ''), status, business_date,
	              COALESCE(void_reason, ''), voided_by, voided_at, created_on
	          FROM folio_payments WHERE folio_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, folioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.FolioPayment
	for rows.Next() {
		var p domain.FolioPayment
		if err := rows.Scan(&p.ID, &p.FolioID, &p.Amount, &p.Method, &p.Reference, &p.Status,
			&p.BusinessDate, &p.VoidReason, &p.VoidedBy, &p.VoidedAt, &p.CreatedOn); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/repository"
)

type invoiceRepository struct {
	db DBTX
}

func NewInvoiceRepository(db DBTX) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `INSERT INTO invoices (hotel_id, folio_id, number, currency, issued_at, subtotal, tax_total, total)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		inv.HotelID, inv.FolioID, inv.Number, inv.Currency, inv.IssuedAt, inv.Subtotal, inv.TaxTotal, inv.Total,
	).Scan(&inv.ID); err != nil {
		return err
	}

	lineQuery := `INSERT INTO invoice_lines (invoice_id, folio_item_id, description, quantity, unit_price, tax_amount, total_amount)
	              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.InvoiceID = inv.ID
		if err := r.db.QueryRowContext(ctx, lineQuery,
			inv.ID, line.FolioItemID, line.Description, line.Quantity, line.UnitPrice, line.TaxAmount, line.TotalAmount,
		).Scan(&line.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int32) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	query := `SELECT id, hotel_id, folio_id, number, currency, issued_at, subtotal, tax_total, total FROM invoices WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&inv.ID, &inv.HotelID, &inv.FolioID, &inv.Number, &inv.Currency,
		&inv.IssuedAt, &inv.Subtotal, &inv.TaxTotal, &inv.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_id, folio_item_id, description, quantity, unit_price, tax_amount, total_amount
		 FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.InvoiceLine
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.FolioItemID, &line.Description, &line.Quantity,
			&line.UnitPrice, &line.TaxAmount, &line.TotalAmount); err != nil {
			return nil, err
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv, rows.Err()
}

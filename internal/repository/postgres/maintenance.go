package postgres

import (
	"context"

	"innsync-backend/internal/repository"
)

type maintenanceRepository struct {
	db DBTX
}

func NewMaintenanceRepository(db DBTX) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) HasBlockingTicket(ctx context.Context, roomID int32) (bool, error) {
	var blocked bool
	query := `SELECT EXISTS (SELECT 1 FROM maintenance_tickets WHERE room_id = $1 AND status = 'OPEN' AND blocks_sale)`
	err := r.db.QueryRowContext(ctx, query, roomID).Scan(&blocked)
	return blocked, err
}

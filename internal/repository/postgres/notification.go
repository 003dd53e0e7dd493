package postgres

import (
	"context"
	"encoding/json"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}

	query := `INSERT INTO notifications (hotel_id, event_key, title, message, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err = r.db.QueryRowContext(ctx, query, n.HotelID, n.EventKey, n.Title, n.Message, attrs, time.Now()).Scan(&n.ID)
	if err != nil {
		logger.Error("Failed to persist notification", "event_key", n.EventKey, "hotel_id", n.HotelID, "error", err)
	}
	return err
}

package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository"
)

type notifier struct {
	noteRepo repository.NotificationRepository

	smtpHost string
	smtpPort int
	smtpUser string
	smtpPass string
	from     string
	opsEmail string
}

// NewNotifier creates the lifecycle event publisher. It writes a notification
// row and, when an operations address is configured, sends an email. Both are
// fire and forget.
func NewNotifier(noteRepo repository.NotificationRepository, smtpHost string, smtpPort int, smtpUser, smtpPass, from, opsEmail string) Notifier {
	return &notifier{
		noteRepo: noteRepo,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
		from:     from,
		opsEmail: opsEmail,
	}
}

func (n *notifier) Notify(ctx context.Context, hotelID int32, eventKey, title, message string, attrs map[string]string) {
	note := &domain.Notification{
		HotelID:    hotelID,
		EventKey:   eventKey,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to persist notification", "eventKey", eventKey, "hotelID", hotelID, "error", err)
	}

	if n.opsEmail == "" || n.smtpHost == "" {
		return
	}
	if err := n.sendEmail(title, message, attrs); err != nil {
		logger.Error("failed to send notification email", "eventKey", eventKey, "error", err)
	}
}

func (n *notifier) sendEmail(title, message string, attrs map[string]string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.opsEmail)
	m.SetHeader("Subject", title)

	body := message
	for k, v := range attrs {
		body += fmt.Sprintf("\n%s: %s", k, v)
	}
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.smtpHost, n.smtpPort, n.smtpUser, n.smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

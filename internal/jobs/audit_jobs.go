package jobs

import (
	"context"

	"innsync-backend/internal/logger"
)

// lookback is how many past business dates the reminder job inspects.
const lookbackDays = 3

// SendNightAuditReminders notifies each hotel about recent business dates
// that were never closed by a night audit.
func (jr *JobRunner) SendNightAuditReminders() {
	jr.runWithRecovery("SendNightAuditReminders", func() {
		ctx := context.Background()

		hotels, err := jr.store.Hotels.List(ctx)
		if err != nil {
			logger.Error("Failed to list hotels for audit reminders", "error", err)
			return
		}

		for _, hotel := range hotels {
			current, err := jr.services.BusinessDay.CurrentBusinessDate(ctx, &hotel)
			if err != nil {
				logger.Error("Failed to resolve business date", "hotelID", hotel.ID, "error", err)
				continue
			}

			var pending []string
			for i := 1; i <= lookbackDays; i++ {
				date := current.AddDate(0, 0, -i)
				closed, err := jr.services.NightAudit.IsClosed(ctx, hotel.ID, date)
				if err != nil {
					logger.Error("Failed to check closure", "hotelID", hotel.ID, "date", date.Format("2006-01-02"), "error", err)
					continue
				}
				if !closed {
					pending = append(pending, date.Format("2006-01-02"))
				}
			}
			if len(pending) == 0 {
				continue
			}

			msg := "The following business dates have not been closed: "
			for i, d := range pending {
				if i > 0 {
					msg += ", "
				}
				msg += d
			}
			jr.services.Notifier.Notify(ctx, hotel.ID, "night_audit.reminder",
				"Night audit pending", msg,
				map[string]string{"pending_dates": msg})

			logger.Info("Sent night audit reminder", "hotelID", hotel.ID, "pendingDates", len(pending))
		}
	})
}

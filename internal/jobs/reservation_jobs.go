package jobs

import (
	"context"

	"github.com/lib/pq"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
)

// MarkNoShows sweeps reservations whose arrival date has passed without a
// check-in and pushes them through the no-show transition. Each reservation
// goes through the regular transition path so the room release and
// notification behavior stays identical to a manual no-show.
func (jr *JobRunner) MarkNoShows() {
	jr.runWithRecovery("MarkNoShows", func() {
		ctx := context.Background()
		actor := systemActor()

		hotels, err := jr.store.Hotels.List(ctx)
		if err != nil {
			logger.Error("Failed to list hotels for no-show sweep", "error", err)
			return
		}

		total := 0
		for _, hotel := range hotels {
			businessDate, err := jr.services.BusinessDay.CurrentBusinessDate(ctx, &hotel)
			if err != nil {
				logger.Error("Failed to resolve business date", "hotelID", hotel.ID, "error", err)
				continue
			}

			query := `
				SELECT id
				FROM reservations
				WHERE hotel_id = $1
				  AND status = ANY($2)
				  AND check_in_date < $3
			`
			rows, err := jr.db.QueryContext(ctx, query, hotel.ID,
				pq.Array([]string{string(domain.ReservationStatusPending), string(domain.ReservationStatusConfirmed)}),
				businessDate.Format("2006-01-02"))
			if err != nil {
				logger.Error("Failed to query no-show candidates", "hotelID", hotel.ID, "error", err)
				continue
			}

			var ids []int32
			for rows.Next() {
				var id int32
				if err := rows.Scan(&id); err != nil {
					logger.Error("Failed to scan no-show candidate", "error", err)
					continue
				}
				ids = append(ids, id)
			}
			if err := rows.Err(); err != nil {
				logger.Error("Error iterating no-show candidates", "hotelID", hotel.ID, "error", err)
			}
			rows.Close()

			for _, id := range ids {
				if _, err := jr.services.Reservation.MarkNoShow(ctx, id, actor); err != nil {
					logger.Error("Failed to mark no-show", "reservationID", id, "error", err)
					continue
				}
				total++
			}
		}

		logger.Info("Marked reservations as no-show", "count", total)
	})
}

func systemActor() *domain.Actor {
	return &domain.Actor{ID: 0, Roles: []string{domain.RoleSuperAdmin}}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"innsync-backend/internal/domain"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository"
)

type nightAuditService struct {
	closureRepo repository.ClosureRepository
	notifier    Notifier
}

func NewNightAuditService(closureRepo repository.ClosureRepository, notifier Notifier) NightAuditService {
	return &nightAuditService{
		closureRepo: closureRepo,
		notifier:    notifier,
	}
}

func (s *nightAuditService) IsClosed(ctx context.Context, hotelID int32, businessDate time.Time) (bool, error) {
	closure, err := s.closureRepo.Get(ctx, hotelID, businessDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return closure.Status == domain.ClosureStatusClosed, nil
}

func (s *nightAuditService) AssertOpen(ctx context.Context, r repository.Registry, hotelID int32, businessDate time.Time, actor *domain.Actor, override bool) error {
	closure, err := r.Closures.Get(ctx, hotelID, businessDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if closure.Status != domain.ClosureStatusClosed {
		return nil
	}
	if override && actor.CanOverrideClosedDay() {
		logger.Warn("closed business date override",
			"hotelID", hotelID,
			"businessDate", businessDate.Format("2006-01-02"),
			"actorID", actor.ID)
		return nil
	}
	return domain.ErrLockedPeriod
}

func (s *nightAuditService) CloseDay(ctx context.Context, hotelID int32, businessDate time.Time, actor *domain.Actor) (*domain.HotelDayClosure, error) {
	logger.EnterMethod("NightAuditService.CloseDay", "hotelID", hotelID, "businessDate", businessDate.Format("2006-01-02"))

	closure, err := s.closureRepo.Get(ctx, hotelID, businessDate)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if closure != nil && closure.Status == domain.ClosureStatusClosed {
		// Already closed. Closing twice is a no-op, not an error.
		return closure, nil
	}

	now := time.Now()
	summary := s.buildSummary(hotelID, businessDate, now)

	if closure == nil {
		closure = &domain.HotelDayClosure{
			HotelID:      hotelID,
			BusinessDate: businessDate,
		}
	}
	closure.Status = domain.ClosureStatusClosed
	closure.ClosedBy = &actor.ID
	closure.ClosedAt = &now
	closure.Summary = summary

	if err := s.closureRepo.Upsert(ctx, closure); err != nil {
		logger.ExitMethodWithError("NightAuditService.CloseDay", err)
		return nil, err
	}

	s.notifier.Notify(ctx, hotelID, "night_audit.closed",
		"Business date closed",
		"The business date "+businessDate.Format("2006-01-02")+" has been closed.",
		map[string]string{"business_date": businessDate.Format("2006-01-02")})

	logger.ExitMethod("NightAuditService.CloseDay", "closureID", closure.ID)
	return closure, nil
}

func (s *nightAuditService) ReopenDay(ctx context.Context, hotelID int32, businessDate time.Time, actor *domain.Actor) (*domain.HotelDayClosure, error) {
	logger.EnterMethod("NightAuditService.ReopenDay", "hotelID", hotelID, "businessDate", businessDate.Format("2006-01-02"))

	if !actor.CanOverrideClosedDay() {
		return nil, domain.ErrLockedPeriod
	}

	closure, err := s.closureRepo.Get(ctx, hotelID, businessDate)
	if err != nil {
		return nil, err
	}
	if closure.Status != domain.ClosureStatusClosed {
		return closure, nil
	}

	now := time.Now()
	closure.Status = domain.ClosureStatusOpen
	closure.ReopenedBy = &actor.ID
	closure.ReopenedAt = &now
	// The close-time summary stays as an audit trail of what the day looked
	// like when it was first closed.

	if err := s.closureRepo.Upsert(ctx, closure); err != nil {
		logger.ExitMethodWithError("NightAuditService.ReopenDay", err)
		return nil, err
	}

	s.notifier.Notify(ctx, hotelID, "night_audit.reopened",
		"Business date reopened",
		"The business date "+businessDate.Format("2006-01-02")+" has been reopened.",
		map[string]string{"business_date": businessDate.Format("2006-01-02")})

	logger.ExitMethod("NightAuditService.ReopenDay", "closureID", closure.ID)
	return closure, nil
}

func (s *nightAuditService) Status(ctx context.Context, hotelID int32, businessDate time.Time) (*domain.HotelDayClosure, error) {
	closure, err := s.closureRepo.Get(ctx, hotelID, businessDate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.HotelDayClosure{
				HotelID:      hotelID,
				BusinessDate: businessDate,
				Status:       domain.ClosureStatusOpen,
			}, nil
		}
		return nil, err
	}
	return closure, nil
}

func (s *nightAuditService) buildSummary(hotelID int32, businessDate time.Time, closedAt time.Time) string {
	payload := map[string]string{
		"hotel_id":      strconv.FormatInt(int64(hotelID), 10),
		"business_date": businessDate.Format("2006-01-02"),
		"closed_at":     closedAt.UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "{}"
	}
	return string(data)
}

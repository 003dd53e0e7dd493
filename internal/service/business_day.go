package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"innsync-backend/internal/domain"
)

type businessDayService struct {
	defaultCutoff   string
	defaultTimezone string
}

func NewBusinessDayService(defaultCutoff, defaultTimezone string) BusinessDayService {
	if defaultCutoff == "" {
		defaultCutoff = "08:00"
	}
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &businessDayService{
		defaultCutoff:   defaultCutoff,
		defaultTimezone: defaultTimezone,
	}
}

func (s *businessDayService) ResolveBusinessDate(ctx context.Context, hotel *domain.Hotel, at time.Time) (time.Time, error) {
	loc, err := s.location(hotel)
	if err != nil {
		return time.Time{}, err
	}
	cutoffH, cutoffM, err := s.cutoff(hotel)
	if err != nil {
		return time.Time{}, err
	}

	local := at.In(loc)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	// Before the cutoff the night is still running, so the instant belongs to
	// the previous calendar date.
	if local.Hour() < cutoffH || (local.Hour() == cutoffH && local.Minute() < cutoffM) {
		date = date.AddDate(0, 0, -1)
	}
	return date, nil
}

func (s *businessDayService) CurrentBusinessDate(ctx context.Context, hotel *domain.Hotel) (time.Time, error) {
	return s.ResolveBusinessDate(ctx, hotel, time.Now())
}

func (s *businessDayService) BusinessWindow(ctx context.Context, hotel *domain.Hotel, businessDate time.Time) (time.Time, time.Time, error) {
	loc, err := s.location(hotel)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	cutoffH, cutoffM, err := s.cutoff(hotel)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := time.Date(businessDate.Year(), businessDate.Month(), businessDate.Day(), cutoffH, cutoffM, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}

func (s *businessDayService) location(hotel *domain.Hotel) (*time.Location, error) {
	tz := s.defaultTimezone
	if hotel != nil && hotel.Timezone != "" {
		tz = hotel.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid hotel timezone %q: %w", tz, err)
	}
	return loc, nil
}

func (s *businessDayService) cutoff(hotel *domain.Hotel) (int, int, error) {
	raw := s.defaultCutoff
	if hotel != nil && hotel.DayCutoff != "" {
		raw = hotel.DayCutoff
	}
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid day cutoff %q", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid day cutoff %q", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid day cutoff %q", raw)
	}
	return h, m, nil
}

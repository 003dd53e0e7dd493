// Package stay holds the pure date arithmetic shared by the availability gate,
// conflict detection and folio billing, so the overlap rule cannot drift
// between them.
package stay

import (
	"time"

	"innsync-backend/internal/domain"
)

// Overlaps reports whether two half-open date ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Equality at a boundary is not a conflict: a
// checkout on the same date as another checkin is fine.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Nights returns the number of nights in [checkIn, checkOut). Non-positive
// ranges yield 0.
func Nights(checkIn, checkOut time.Time) int32 {
	n := int32(checkOut.Sub(checkIn).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// BillableUnits converts a date range into billable units per the offer kind:
// a short stay is always one unit, a weekend package bills at least two
// nights, and the default full-day rule bills one unit per night, minimum one.
func BillableUnits(kind domain.OfferKind, checkIn, checkOut time.Time) int32 {
	nights := Nights(checkIn, checkOut)
	switch kind {
	case domain.OfferKindShortStay:
		return 1
	case domain.OfferKindWeekend:
		if nights < 2 {
			return 2
		}
		return nights
	default:
		if nights < 1 {
			return 1
		}
		return nights
	}
}

// SplitUnits divides the billable units of [from, to) at the pivot date. The
// two parts always sum to BillableUnits over the whole range, so splitting a
// stay never changes what the guest owes. A pivot at or outside a boundary
// puts everything on one side; otherwise the pre-pivot part gets its nights,
// capped at the total, and the remainder falls after the pivot.
func SplitUnits(kind domain.OfferKind, from, to, pivot time.Time) (int32, int32) {
	total := BillableUnits(kind, from, to)
	if !pivot.After(from) {
		return 0, total
	}
	if !pivot.Before(to) {
		return total, 0
	}
	pre := Nights(from, pivot)
	if pre > total {
		pre = total
	}
	return pre, total - pre
}

// DatesInRange returns each calendar date of [from, to), for the day-by-day
// overbooking scan.
func DatesInRange(from, to time.Time) []time.Time {
	var dates []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ClampDate limits d into [min, max].
func ClampDate(d, min, max time.Time) time.Time {
	if d.Before(min) {
		return min
	}
	if d.After(max) {
		return max
	}
	return d
}

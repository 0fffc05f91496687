// Package conflict implements the advisory resource-conflict computation:
// given a booking's space reservations and all competing reservations in the
// same window, it reports every pair that overlaps in time and is not
// suppressed by the status-priority rule.
//
// The result is advisory only. It feeds UI warnings and approval gating; the
// actual double-booking guard is the storage layer's uniqueness constraint,
// enforced transactionally at write time.
package conflict

import (
	"fmt"
	"time"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

// Nil reservation times mean the whole day.
const (
	fullDayStart = "00:00"
	fullDayEnd   = "23:59"
)

// Find evaluates every pair of (mine, other) reservations sharing a space and
// a service date. A pair conflicts when the inclusive time ranges strictly
// overlap; touching boundaries do not conflict. When this booking is high
// priority and the other booking is still pending, the pair is suppressed:
// a confirmed booking is allowed to silently outrank a tentative one. The
// rule is one-directional and never alters the other booking's reservation.
//
// An unparseable reservation time is a programming error upstream and is
// returned as an error, never retried.
func Find(
	bookingID int64,
	myStatus domain.BookingStatus,
	mine []domain.SpaceReservation,
	others []domain.SpaceReservation,
) ([]domain.Conflict, error) {
	var conflicts []domain.Conflict

	for _, my := range mine {
		myStart, myEnd, err := rangeMinutes(my)
		if err != nil {
			return nil, err
		}

		for _, other := range others {
			if other.BookingID == bookingID {
				continue
			}
			if other.SpaceID != my.SpaceID || !sameDate(other.ServiceDate, my.ServiceDate) {
				continue
			}
			if myStatus.HighPriority() && other.Status == domain.StatusPending {
				continue
			}

			otherStart, otherEnd, err := rangeMinutes(other)
			if err != nil {
				return nil, err
			}

			if !Overlaps(myStart, myEnd, otherStart, otherEnd) {
				continue
			}

			conflicts = append(conflicts, domain.Conflict{
				BookingID:     bookingID,
				SpaceID:       my.SpaceID,
				SpaceName:     my.SpaceName,
				ServiceDate:   my.ServiceDate,
				ConflictsWith: other.BookingID,
				OtherStatus:   other.Status,
			})
		}
	}

	return conflicts, nil
}

// Overlaps reports whether two minute ranges strictly overlap. A range ending
// exactly when the other starts does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

func rangeMinutes(r domain.SpaceReservation) (start, end int, err error) {
	start, err = minutes(r.StartTime, fullDayStart)
	if err != nil {
		return 0, 0, fmt.Errorf("reservation %d: bad start time: %w", r.ID, err)
	}
	end, err = minutes(r.EndTime, fullDayEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("reservation %d: bad end time: %w", r.ID, err)
	}
	return start, end, nil
}

func minutes(s *string, def string) (int, error) {
	v := def
	if s != nil && *s != "" {
		v = *s
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

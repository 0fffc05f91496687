// Package schedule owns the space calendar: advisory conflict reads for the
// approval workflow and guarded reservation writes.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pavlenko-dev/venue-go/internal/conflict"
	"github.com/pavlenko-dev/venue-go/internal/domain"
	redisx "github.com/pavlenko-dev/venue-go/internal/redis"
	"github.com/pavlenko-dev/venue-go/internal/repository"
	postgresrepo "github.com/pavlenko-dev/venue-go/internal/repository/postgres"
	redisrepo "github.com/pavlenko-dev/venue-go/internal/repository/redis"
	"github.com/pavlenko-dev/venue-go/internal/uow"
)

type Config struct {
	// ConflictsTTL bounds how stale a cached conflict view may get. Conflict
	// views change with other bookings' writes, so they expire instead of
	// being invalidated.
	ConflictsTTL time.Duration
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.BookingsPubSub
	uow    *uow.UoW
	cfg    Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.BookingsPubSub, cfg Config) *Service {
	if cfg.ConflictsTTL <= 0 {
		cfg.ConflictsTTL = 15 * time.Second
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
	}
}

// Conflicts computes the advisory conflict set for a booking inside a date
// window: every competing reservation that overlaps one of the booking's own
// reservations and is not suppressed by the status-priority rule. The view is
// cached per window for Config.ConflictsTTL; nothing is persisted.
//
// Parameters:
//   - ctx: request-scoped context.
//   - bookingID: the booking whose view of the calendar is computed.
//   - from, to: inclusive date window.
//
// Returns:
//   - []domain.Conflict: the advisory conflict set, possibly empty.
//   - error: schedule.ErrBookingNotFound if the booking does not exist.
func (s *Service) Conflicts(
	ctx context.Context,
	bookingID int64,
	from, to time.Time,
) ([]domain.Conflict, error) {
	const op = "service.schedule.Conflicts"

	if to.Before(from) {
		return nil, fmt.Errorf("%s:%w: %s after %s", op, ErrInvalidWindow,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	key := redisx.KeyBookingConflicts(bookingID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	conflicts, err := redisrepo.GetOrSetJSON(
		ctx, s.cache, key, s.cfg.ConflictsTTL,
		func(ctx context.Context) ([]domain.Conflict, error) {
			return s.computeConflicts(ctx, bookingID, from, to)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return conflicts, nil
}

func (s *Service) computeConflicts(
	ctx context.Context,
	bookingID int64,
	from, to time.Time,
) ([]domain.Conflict, error) {
	status, err := s.store.Reservations().BookingStatus(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}

		return nil, err
	}

	mine, err := s.store.Reservations().ListForBooking(ctx, bookingID, from, to)
	if err != nil {
		return nil, err
	}

	others, err := s.store.Reservations().ListCompeting(ctx, bookingID, from, to)
	if err != nil {
		return nil, err
	}

	return conflict.Find(bookingID, status, mine, others)
}

// Reserve claims a space for a booking on one service date. The write is the
// check-then-act half the advisory computation must never be trusted with:
// the calendar's exclusion constraint, enforced inside a Serializable
// transaction, is what actually prevents a double-booking.
//
// Parameters:
//   - ctx: request-scoped context.
//   - res: the reservation to claim; nil times reserve the whole day.
//
// Returns:
//   - int64: the new reservation ID.
//   - error: schedule.ErrBookingNotFound if the booking does not exist.
//   - error: schedule.ErrInvalidTimeRange for malformed or inverted times.
//   - error: schedule.ErrSpaceConflict if the slot is already claimed.
func (s *Service) Reserve(ctx context.Context, res domain.SpaceReservation) (int64, error) {
	const op = "service.schedule.Reserve"

	if err := validateTimes(res.StartTime, res.EndTime); err != nil {
		return 0, fmt.Errorf("%s:%w: %v", op, ErrInvalidTimeRange, err)
	}

	var id int64

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.store.Reservations().With(tx).BookingStatus(ctx, res.BookingID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrBookingNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		rid, err := s.store.Reservations().With(tx).Reserve(ctx, &res)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrSpaceConflict)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		id = rid

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBooking(ctx, res.BookingID)
			_ = s.pubsub.PublishBookingChanged(ctx, res.BookingID)
		})

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func validateTimes(start, end *string) error {
	parse := func(s *string) (int, bool, error) {
		if s == nil || *s == "" {
			return 0, false, nil
		}
		t, err := time.Parse("15:04", *s)
		if err != nil {
			return 0, false, err
		}
		return t.Hour()*60 + t.Minute(), true, nil
	}

	sm, hasStart, err := parse(start)
	if err != nil {
		return err
	}

	em, hasEnd, err := parse(end)
	if err != nil {
		return err
	}

	if hasStart != hasEnd {
		return errors.New("start and end must both be set, or both empty for a full day")
	}
	if hasStart && sm >= em {
		return errors.New("end must be after start")
	}

	return nil
}

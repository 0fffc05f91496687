// Package audit archives immutable price snapshots per booking and serves
// their read-back and comparison.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavlenko-dev/venue-go/internal/domain"
	redisx "github.com/pavlenko-dev/venue-go/internal/redis"
	"github.com/pavlenko-dev/venue-go/internal/repository"
	postgresrepo "github.com/pavlenko-dev/venue-go/internal/repository/postgres"
	redisrepo "github.com/pavlenko-dev/venue-go/internal/repository/redis"
	"github.com/pavlenko-dev/venue-go/internal/uow"
)

type Config struct {
	// SnapshotsTTL caps how long a cached snapshot list survives; Create
	// drops it after commit.
	SnapshotsTTL time.Duration
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.BookingsPubSub
	uow    *uow.UoW
	cfg    Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.BookingsPubSub, cfg Config) *Service {
	if cfg.SnapshotsTTL <= 0 {
		cfg.SnapshotsTTL = 60 * time.Second
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
	}
}

// Create archives one immutable snapshot of a priced result.
//
// Parameters:
//   - ctx: request-scoped context.
//   - bookingID: booking the snapshot belongs to.
//   - result: the priced result to archive, copied verbatim.
//   - reason: why the snapshot was taken (standard, custom_link,
//     admin_override).
//
// Returns:
//   - *domain.PriceSnapshot: the created record.
//   - error: audit.ErrSnapshotWriteFailed when the audit write fails.
func (s *Service) Create(
	ctx context.Context,
	bookingID int64,
	result domain.PricingResult,
	reason domain.SnapshotReason,
) (*domain.PriceSnapshot, error) {
	const op = "service.audit.Create"

	snap := &domain.PriceSnapshot{
		ID:        uuid.New(),
		BookingID: bookingID,
		Reason:    reason,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Snapshots().With(tx).Create(ctx, snap); err != nil {
			return fmt.Errorf("%s:%w: %v", op, ErrSnapshotWriteFailed, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBooking(ctx, bookingID)
			_ = s.pubsub.PublishBookingChanged(ctx, bookingID)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// Latest returns the most recent snapshot for a booking.
//
// Returns:
//   - error: audit.ErrSnapshotNotFound if the booking has no snapshots.
func (s *Service) Latest(ctx context.Context, bookingID int64) (*domain.PriceSnapshot, error) {
	const op = "service.audit.Latest"

	snap, err := s.store.Snapshots().Latest(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrSnapshotNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return snap, nil
}

// List returns all snapshots for a booking, oldest first. The list is cached
// per booking and dropped when Create commits a new snapshot.
func (s *Service) List(ctx context.Context, bookingID int64) ([]domain.PriceSnapshot, error) {
	const op = "service.audit.List"

	snaps, err := redisrepo.GetOrSetJSON(
		ctx, s.cache, redisx.KeyBookingSnapshots(bookingID), s.cfg.SnapshotsTTL,
		func(ctx context.Context) ([]domain.PriceSnapshot, error) {
			return s.store.Snapshots().List(ctx, bookingID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return snaps, nil
}

// Compare diffs two of a booking's snapshots by ID.
//
// Returns:
//   - *domain.SnapshotDiff: deltas plus the key-based line-item change flag.
//   - error: audit.ErrSnapshotNotFound if either snapshot does not exist.
//   - error: audit.ErrSnapshotWrongBooking if a snapshot belongs to a
//     different booking.
func (s *Service) Compare(ctx context.Context, bookingID int64, fromID, toID uuid.UUID) (*domain.SnapshotDiff, error) {
	const op = "service.audit.Compare"

	from, err := s.get(ctx, op, bookingID, fromID)
	if err != nil {
		return nil, err
	}

	to, err := s.get(ctx, op, bookingID, toID)
	if err != nil {
		return nil, err
	}

	d := Diff(from.Result, to.Result)
	return &d, nil
}

func (s *Service) get(ctx context.Context, op string, bookingID int64, id uuid.UUID) (*domain.PriceSnapshot, error) {
	snap, err := s.store.Snapshots().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w: %s", op, ErrSnapshotNotFound, id)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if snap.BookingID != bookingID {
		return nil, fmt.Errorf("%s:%w: %s", op, ErrSnapshotWrongBooking, id)
	}

	return snap, nil
}

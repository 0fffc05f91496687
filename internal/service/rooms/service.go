// Package rooms owns room assignment against the shared accommodation
// inventory: classification of a booking's allocations into demand buckets
// and pool-bounded assignment writes.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pavlenko-dev/venue-go/internal/allocation"
	"github.com/pavlenko-dev/venue-go/internal/domain"
	redisx "github.com/pavlenko-dev/venue-go/internal/redis"
	"github.com/pavlenko-dev/venue-go/internal/repository"
	postgresrepo "github.com/pavlenko-dev/venue-go/internal/repository/postgres"
	redisrepo "github.com/pavlenko-dev/venue-go/internal/repository/redis"
	"github.com/pavlenko-dev/venue-go/internal/uow"
)

// Extras are the booking-scoped options selected for one room assignment.
type Extras struct {
	ExtraBed     bool
	Ensuite      bool
	PrivateStudy bool
	GuestNames   []string
}

type Config struct {
	// SummaryTTL caps how long a cached allocation summary survives; writes
	// through Assign and Release drop it immediately.
	SummaryTTL time.Duration
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.BookingsPubSub
	uow    *uow.UoW
	cfg    Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.BookingsPubSub, cfg Config) *Service {
	if cfg.SummaryTTL <= 0 {
		cfg.SummaryTTL = 60 * time.Second
	}

	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
		cfg:    cfg,
	}
}

// Summary classifies a booking's allocated rooms into demand buckets with the
// shared pool's current usage and capacity, so callers can block
// over-allocation up front. The summary is cached per booking and dropped by
// the write paths.
//
// Parameters:
//   - ctx: request-scoped context.
//   - bookingID: booking whose allocations are summarized.
//
// Returns:
//   - *domain.AllocationSummary: counts plus pool usage/capacity.
func (s *Service) Summary(ctx context.Context, bookingID int64) (*domain.AllocationSummary, error) {
	const op = "service.rooms.Summary"

	summary, err := redisrepo.GetOrSetJSON(
		ctx, s.cache, redisx.KeyBookingAllocation(bookingID), s.cfg.SummaryTTL,
		func(ctx context.Context) (domain.AllocationSummary, error) {
			return s.loadSummary(ctx, bookingID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &summary, nil
}

func (s *Service) loadSummary(ctx context.Context, bookingID int64) (domain.AllocationSummary, error) {
	var summary domain.AllocationSummary

	allocs, err := s.store.Rooms().ListAllocations(ctx, bookingID)
	if err != nil {
		return summary, err
	}

	summary.Counts = allocation.Classify(allocs)

	poolID, ok := poolOf(allocs)
	if !ok {
		return summary, nil
	}

	used, err := s.store.Rooms().PoolUsage(ctx, poolID)
	if err != nil {
		return summary, err
	}

	capacity, err := s.store.Rooms().PoolCapacity(ctx, poolID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return summary, fmt.Errorf("%w: pool %d", ErrPoolNotConfigured, poolID)
		}

		return summary, err
	}

	summary.PoolUsed = used
	summary.PoolCapacity = capacity

	return summary, nil
}

// Assign allocates a physical room to a booking. The pool bound is enforced
// here, at the moment of assignment, inside one Serializable transaction:
// the allocation row is inserted first, then the pool's combined usage is
// recounted and the transaction is rolled back if the capacity is exceeded.
// Two racing assignments cannot both slip under the bound.
//
// Parameters:
//   - ctx: request-scoped context.
//   - bookingID: booking receiving the room.
//   - roomID: physical room to assign.
//   - extras: booking-scoped selections for the room.
//
// Returns:
//   - error: rooms.ErrRoomNotFound if the room does not exist.
//   - error: rooms.ErrNotEnsuiteCapable for an ensuite selection on a room
//     outside the shared pool.
//   - error: rooms.ErrRoomTaken if the room is already allocated.
//   - error: rooms.ErrPoolExhausted if the pool capacity would be exceeded.
func (s *Service) Assign(ctx context.Context, bookingID, roomID int64, extras Extras) error {
	const op = "service.rooms.Assign"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		repo := s.store.Rooms().With(tx)

		room, err := repo.GetRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w: %d", op, ErrRoomNotFound, roomID)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if extras.Ensuite && room.PoolID == nil {
			return fmt.Errorf("%s:%w: %q", op, ErrNotEnsuiteCapable, room.TypeName)
		}

		alloc := &domain.RoomAllocation{
			Room:         *room,
			BookingID:    bookingID,
			ExtraBed:     extras.ExtraBed,
			Ensuite:      extras.Ensuite,
			PrivateStudy: extras.PrivateStudy,
			GuestNames:   extras.GuestNames,
		}

		if err := repo.InsertAllocation(ctx, alloc); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w: room %d", op, ErrRoomTaken, roomID)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		if extras.Ensuite {
			used, err := repo.PoolUsage(ctx, *room.PoolID)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			capacity, err := repo.PoolCapacity(ctx, *room.PoolID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("%s:%w: pool %d", op, ErrPoolNotConfigured, *room.PoolID)
				}

				return fmt.Errorf("%s:%w", op, err)
			}

			if used > capacity {
				return fmt.Errorf("%s:%w: %d of %d in use", op, ErrPoolExhausted, used, capacity)
			}
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBooking(ctx, bookingID)
			_ = s.pubsub.PublishBookingChanged(ctx, bookingID)
		})

		return nil
	})
}

// Release frees a room previously assigned to the booking.
//
// Returns:
//   - error: rooms.ErrAllocationNotFound if the booking holds no such
//     allocation.
func (s *Service) Release(ctx context.Context, bookingID, roomID int64) error {
	const op = "service.rooms.Release"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Rooms().With(tx).DeleteAllocation(ctx, bookingID, roomID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w: room %d", op, ErrAllocationNotFound, roomID)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBooking(ctx, bookingID)
			_ = s.pubsub.PublishBookingChanged(ctx, bookingID)
		})

		return nil
	})
}

// poolOf picks the shared pool referenced by the booking's allocations.
// Inventory currently configures a single ensuite pool; the first one seen
// wins.
func poolOf(allocs []domain.RoomAllocation) (int64, bool) {
	for _, a := range allocs {
		if a.Room.PoolID != nil {
			return *a.Room.PoolID, true
		}
	}
	return 0, false
}

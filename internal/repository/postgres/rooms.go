package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pavlenko-dev/venue-go/internal/domain"
	"github.com/pavlenko-dev/venue-go/internal/repository"
)

type RoomRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *RoomRepo) With(db DB) *RoomRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *RoomRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetRoom retrieves a room from the inventory.
//
// Returns:
//   - *domain.Room: the room when found.
//   - error: repository.ErrNotFound if the room is not found.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	const op = "postgres.RoomRepo.GetRoom"

	db := r.handle()

	var room domain.Room
	if err := db.QueryRow(ctx,
		`SELECT id, type_name, pool_id FROM rooms WHERE id = $1`,
		roomID,
	).Scan(&room.ID, &room.TypeName, &room.PoolID); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &room, nil
}

// ListAllocations retrieves a booking's current room allocations with their
// selected extras.
func (r *RoomRepo) ListAllocations(ctx context.Context, bookingID int64) ([]domain.RoomAllocation, error) {
	const op = "postgres.RoomRepo.ListAllocations"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT rm.id, rm.type_name, rm.pool_id,
		        ra.booking_id, ra.extra_bed_selected, ra.ensuite_selected,
		        ra.private_study_selected, ra.guest_names
       	 FROM room_allocations ra
       	 JOIN rooms rm ON rm.id = ra.room_id
      	 WHERE ra.booking_id = $1
      	 ORDER BY rm.id`,
		bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.RoomAllocation
	for rows.Next() {
		var a domain.RoomAllocation
		if err := rows.Scan(
			&a.Room.ID,
			&a.Room.TypeName,
			&a.Room.PoolID,
			&a.BookingID,
			&a.ExtraBed,
			&a.Ensuite,
			&a.PrivateStudy,
			&a.GuestNames,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// InsertAllocation assigns a room to a booking. The unique constraint on
// room_id guards against assigning the same physical room twice.
//
// Returns:
//   - error: repository.ErrConflict if the room is already allocated.
func (r *RoomRepo) InsertAllocation(ctx context.Context, a *domain.RoomAllocation) error {
	const op = "postgres.RoomRepo.InsertAllocation"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO room_allocations(room_id, booking_id, extra_bed_selected, ensuite_selected, private_study_selected, guest_names)
       	 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.Room.ID, a.BookingID, a.ExtraBed, a.Ensuite, a.PrivateStudy, a.GuestNames,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// DeleteAllocation releases a room from a booking.
//
// Returns:
//   - error: repository.ErrNotFound if the booking holds no such allocation.
func (r *RoomRepo) DeleteAllocation(ctx context.Context, bookingID, roomID int64) error {
	const op = "postgres.RoomRepo.DeleteAllocation"

	db := r.handle()

	ct, err := db.Exec(ctx,
		`DELETE FROM room_allocations WHERE booking_id = $1 AND room_id = $2`,
		bookingID, roomID,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

// PoolCapacity retrieves the configured capacity of a shared room pool. The
// capacity is inventory data so pool-size changes never require a code
// change.
//
// Returns:
//   - error: repository.ErrNotFound if the pool is not configured.
func (r *RoomRepo) PoolCapacity(ctx context.Context, poolID int64) (int, error) {
	const op = "postgres.RoomRepo.PoolCapacity"

	db := r.handle()

	var capacity int
	if err := db.QueryRow(ctx,
		`SELECT capacity FROM room_pools WHERE id = $1`,
		poolID,
	).Scan(&capacity); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return capacity, nil
}

// PoolUsage counts active allocations drawing from the pool: every allocated
// pool room with ensuite selected, with or without the private study.
func (r *RoomRepo) PoolUsage(ctx context.Context, poolID int64) (int, error) {
	const op = "postgres.RoomRepo.PoolUsage"

	db := r.handle()

	var used int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*)
       	 FROM room_allocations ra
       	 JOIN rooms rm ON rm.id = ra.room_id
      	 WHERE rm.pool_id = $1
        	AND ra.ensuite_selected`,
		poolID,
	).Scan(&used); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return used, nil
}

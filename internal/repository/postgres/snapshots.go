package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

// SnapshotRepo is the append-only audit store for priced results. Records are
// inserted once and never updated or deleted while the booking exists.
type SnapshotRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *SnapshotRepo) With(db DB) *SnapshotRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *SnapshotRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts one immutable snapshot record.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - snap: the snapshot to persist; ID and CreatedAt must be set by the
//     caller.
//
// Returns:
//   - error: repository.ErrConflict if a snapshot with the same ID exists.
func (r *SnapshotRepo) Create(ctx context.Context, snap *domain.PriceSnapshot) error {
	const op = "postgres.SnapshotRepo.Create"

	payload, err := json.Marshal(snap.Result)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO price_snapshots(id, booking_id, reason, payload, subtotal, discount_amount, total, created_at)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		snap.ID,
		snap.BookingID,
		string(snap.Reason),
		payload,
		snap.Result.Subtotal,
		snap.Result.DiscountAmount,
		snap.Result.Total,
		snap.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Get retrieves one snapshot by ID.
//
// Returns:
//   - *domain.PriceSnapshot: the record when found.
//   - error: repository.ErrNotFound if no such snapshot exists.
func (r *SnapshotRepo) Get(ctx context.Context, id uuid.UUID) (*domain.PriceSnapshot, error) {
	const op = "postgres.SnapshotRepo.Get"

	db := r.handle()

	snap, err := scanSnapshot(db.QueryRow(ctx,
		`SELECT id, booking_id, reason, payload, created_at
       	 FROM price_snapshots WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return snap, nil
}

// Latest retrieves the most recent snapshot for a booking.
//
// Returns:
//   - *domain.PriceSnapshot: the record when found.
//   - error: repository.ErrNotFound if the booking has no snapshots.
func (r *SnapshotRepo) Latest(ctx context.Context, bookingID int64) (*domain.PriceSnapshot, error) {
	const op = "postgres.SnapshotRepo.Latest"

	db := r.handle()

	snap, err := scanSnapshot(db.QueryRow(ctx,
		`SELECT id, booking_id, reason, payload, created_at
       	 FROM price_snapshots
      	 WHERE booking_id = $1
      	 ORDER BY created_at DESC
      	 LIMIT 1`,
		bookingID,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return snap, nil
}

// List retrieves all snapshots for a booking, oldest first.
func (r *SnapshotRepo) List(ctx context.Context, bookingID int64) ([]domain.PriceSnapshot, error) {
	const op = "postgres.SnapshotRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, booking_id, reason, payload, created_at
       	 FROM price_snapshots
      	 WHERE booking_id = $1
      	 ORDER BY created_at`,
		bookingID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.PriceSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.PriceSnapshot, error) {
	var snap domain.PriceSnapshot
	var reason string
	var payload []byte

	if err := row.Scan(&snap.ID, &snap.BookingID, &reason, &payload, &snap.CreatedAt); err != nil {
		return nil, err
	}

	snap.Reason = domain.SnapshotReason(reason)
	if err := json.Unmarshal(payload, &snap.Result); err != nil {
		return nil, err
	}

	return &snap, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// BookingStatus retrieves the current status of a booking.
//
// Returns:
//   - domain.BookingStatus: the status when the booking exists.
//   - error: repository.ErrNotFound if the booking is not found.
func (r *ReservationRepo) BookingStatus(ctx context.Context, bookingID int64) (domain.BookingStatus, error) {
	const op = "postgres.ReservationRepo.BookingStatus"

	db := r.handle()

	var status string
	if err := db.QueryRow(ctx,
		`SELECT status FROM bookings WHERE id = $1`,
		bookingID,
	).Scan(&status); err != nil {
		return "", fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return domain.BookingStatus(status), nil
}

// ListForBooking retrieves a booking's space reservations inside the date
// window, with the owning booking's status joined in.
func (r *ReservationRepo) ListForBooking(
	ctx context.Context,
	bookingID int64,
	from, to time.Time,
) ([]domain.SpaceReservation, error) {
	const op = "postgres.ReservationRepo.ListForBooking"

	return r.list(ctx, op,
		`SELECT sr.id, sr.booking_id, sr.space_id, s.name, sr.service_date,
		        to_char(sr.start_time, 'HH24:MI'), to_char(sr.end_time, 'HH24:MI'),
		        b.status
       	 FROM space_reservations sr
       	 JOIN spaces s ON s.id = sr.space_id
       	 JOIN bookings b ON b.id = sr.booking_id
      	 WHERE sr.booking_id = $1
        	AND sr.service_date BETWEEN $2 AND $3
      	 ORDER BY sr.service_date, sr.space_id`,
		bookingID, from, to,
	)
}

// ListCompeting retrieves every other booking's reservations inside the date
// window. Cancelled bookings never compete for space.
func (r *ReservationRepo) ListCompeting(
	ctx context.Context,
	bookingID int64,
	from, to time.Time,
) ([]domain.SpaceReservation, error) {
	const op = "postgres.ReservationRepo.ListCompeting"

	return r.list(ctx, op,
		`SELECT sr.id, sr.booking_id, sr.space_id, s.name, sr.service_date,
		        to_char(sr.start_time, 'HH24:MI'), to_char(sr.end_time, 'HH24:MI'),
		        b.status
       	 FROM space_reservations sr
       	 JOIN spaces s ON s.id = sr.space_id
       	 JOIN bookings b ON b.id = sr.booking_id
      	 WHERE sr.booking_id <> $1
        	AND b.status <> 'cancelled'
        	AND sr.service_date BETWEEN $2 AND $3
      	 ORDER BY sr.service_date, sr.space_id`,
		bookingID, from, to,
	)
}

// Reserve inserts one space reservation. The table's exclusion constraint on
// (space_id, service_date, time range) is the actual double-booking guard;
// the advisory conflict computation never replaces it.
//
// Returns:
//   - int64: the reservation ID when successful.
//   - error: repository.ErrConflict if the calendar slot is already claimed.
func (r *ReservationRepo) Reserve(ctx context.Context, res *domain.SpaceReservation) (int64, error) {
	const op = "postgres.ReservationRepo.Reserve"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO space_reservations(booking_id, space_id, service_date, start_time, end_time)
       	 VALUES ($1, $2, $3, $4::time, $5::time)
      	 RETURNING id`,
		res.BookingID, res.SpaceID, res.ServiceDate, res.StartTime, res.EndTime,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

func (r *ReservationRepo) list(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]domain.SpaceReservation, error) {
	db := r.handle()

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.SpaceReservation
	for rows.Next() {
		var sr domain.SpaceReservation
		var status string

		if err := rows.Scan(
			&sr.ID,
			&sr.BookingID,
			&sr.SpaceID,
			&sr.SpaceName,
			&sr.ServiceDate,
			&sr.StartTime,
			&sr.EndTime,
			&status,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		sr.Status = domain.BookingStatus(status)
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

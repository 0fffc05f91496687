package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Load reads the three unit-price tables into one immutable snapshot.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//
// Returns:
//   - *domain.PriceCatalog: the captured snapshot when successful.
//   - error: any storage failure; the caller must abort the pricing
//     calculation rather than price against a partial catalog.
func (r *CatalogRepo) Load(ctx context.Context) (*domain.PriceCatalog, error) {
	const op = "postgres.CatalogRepo.Load"

	meals, err := r.loadPrices(ctx, `SELECT meal_type, price FROM meal_prices`)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	rooms, err := r.loadPrices(ctx, `SELECT name, price FROM room_type_prices`)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	spaces, err := r.loadPrices(ctx, `SELECT name, price FROM space_prices`)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &domain.PriceCatalog{
		MealPrices:  meals,
		RoomPrices:  rooms,
		SpacePrices: spaces,
		CapturedAt:  time.Now().UTC(),
	}, nil
}

func (r *CatalogRepo) loadPrices(ctx context.Context, query string) (map[string]decimal.Decimal, error) {
	db := r.handle()

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var name string
		var price decimal.Decimal
		if err := rows.Scan(&name, &price); err != nil {
			return nil, err
		}
		out[name] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

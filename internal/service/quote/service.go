package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/pavlenko-dev/venue-go/internal/domain"
	"github.com/pavlenko-dev/venue-go/internal/pricing"
	redisx "github.com/pavlenko-dev/venue-go/internal/redis"
	postgresrepo "github.com/pavlenko-dev/venue-go/internal/repository/postgres"
	redisrepo "github.com/pavlenko-dev/venue-go/internal/repository/redis"
)

type Config struct {
	CatalogTTL time.Duration
}

// Service is the pricing orchestrator: the only entry point external callers
// use to price a booking. It sequences catalog load, line item computation
// and discount application into one result.
type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	limiter *redisrepo.SlidingWindowLimiter
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = 60 * time.Second
	}

	return &Service{
		store:   store,
		cache:   cache,
		limiter: limiter,
		cfg:     cfg,
	}
}

// Catalog returns the current price catalog snapshot, served through the
// cache with a singleflight guard.
//
// Returns:
//   - *domain.PriceCatalog: the snapshot.
//   - error: quote.ErrCatalogUnavailable when the catalog store fails.
func (s *Service) Catalog(ctx context.Context) (*domain.PriceCatalog, error) {
	const op = "service.quote.Catalog"

	catalog, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyCatalog(),
		s.cfg.CatalogTTL,
		func(ctx context.Context) (domain.PriceCatalog, error) {
			c, err := s.store.Catalog().Load(ctx)
			if err != nil {
				return domain.PriceCatalog{}, err
			}
			return *c, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w: %v", op, ErrCatalogUnavailable, err)
	}

	return &catalog, nil
}

// Calculate prices the selections against one catalog snapshot and applies
// the optional discount policy. The computation is deterministic: the same
// selections against the same snapshot yield an identical result.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sel: the customer's validated selections.
//   - policy: optional discount policy; nil means no discount.
//   - rlKey: rate-limit key, usually the client IP; empty disables limiting.
//
// Returns:
//   - *domain.PricingResult: line items, subtotal, discount and total.
//   - error: quote.ErrInvalidSelections for rejected input.
//   - error: quote.ErrCatalogUnavailable when the catalog store fails.
//   - error: quote.ErrInvalidPolicy for a malformed or disallowed policy.
//   - error: quote.ErrDiscountExceedsSubtotal when the total goes negative.
func (s *Service) Calculate(
	ctx context.Context,
	sel domain.Selections,
	policy *domain.DiscountPolicy,
	rlKey string,
) (*domain.PricingResult, error) {
	const op = "service.quote.Calculate"

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("%s:%w: %v", op, ErrInvalidSelections, err)
	}

	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return s.calculateWith(sel, policy, catalog)
}

// CalculateWithCatalog prices against a caller-supplied snapshot, bypassing
// the catalog store. Admin review flows use it to reprice a booking against
// the snapshot archived with an earlier quote.
func (s *Service) CalculateWithCatalog(
	sel domain.Selections,
	policy *domain.DiscountPolicy,
	catalog *domain.PriceCatalog,
) (*domain.PricingResult, error) {
	const op = "service.quote.CalculateWithCatalog"

	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("%s:%w: %v", op, ErrInvalidSelections, err)
	}

	return s.calculateWith(sel, policy, catalog)
}

func (s *Service) calculateWith(
	sel domain.Selections,
	policy *domain.DiscountPolicy,
	catalog *domain.PriceCatalog,
) (*domain.PricingResult, error) {
	const op = "service.quote.calculateWith"

	items := pricing.ComputeLineItems(sel, catalog)

	adjusted, discount, err := pricing.ApplyDiscount(items, policy)
	if err != nil {
		return nil, fmt.Errorf("%s:%w: %v", op, ErrInvalidPolicy, err)
	}

	subtotal := pricing.Subtotal(items)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return nil, fmt.Errorf("%s:%w: subtotal %s, discount %s", op, ErrDiscountExceedsSubtotal, subtotal, discount)
	}

	return &domain.PricingResult{
		LineItems:      adjusted,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          total,
		Catalog:        *catalog,
		Policy:         policy,
	}, nil
}

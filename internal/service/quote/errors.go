package quote

import "errors"

var (
	// ErrCatalogUnavailable is fatal for the calculation: no partial pricing
	// is ever returned against an incomplete catalog.
	ErrCatalogUnavailable = errors.New("price catalog unavailable")

	ErrInvalidSelections = errors.New("invalid selections")

	// ErrDiscountExceedsSubtotal rejects a policy whose discount drives the
	// total below zero. The total is never silently clamped.
	ErrDiscountExceedsSubtotal = errors.New("discount exceeds subtotal")

	ErrInvalidPolicy = errors.New("invalid discount policy")
)

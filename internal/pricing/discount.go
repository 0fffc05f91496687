package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

var (
	ErrPercentageRange     = errors.New("discount percentage must be between 0 and 100")
	ErrUnknownDiscountMode = errors.New("unknown discount mode")

	// ErrSurchargeNotAllowed is returned when a per-item override raises a
	// line item's total and the policy did not opt in with AllowSurcharge.
	ErrSurchargeNotAllowed = errors.New("price override raises the total; surcharge not allowed by policy")
)

// ApplyDiscount overlays the policy onto the line items and reports the total
// discount amount. The input slice is never mutated: the returned slice holds
// fresh copies with the discounted fields set only on items the policy
// actually touched. A nil policy returns the items as-is with a zero
// discount.
func ApplyDiscount(items []domain.LineItem, policy *domain.DiscountPolicy) ([]domain.LineItem, decimal.Decimal, error) {
	out := make([]domain.LineItem, len(items))
	copy(out, items)

	if policy == nil {
		return out, decimal.Zero, nil
	}

	switch policy.Mode {
	case domain.DiscountPercentage:
		if err := applyPercentage(out, policy.Percentage); err != nil {
			return nil, decimal.Zero, err
		}
	case domain.DiscountOverride:
		applyOverrides(out, policy.Overrides)
	default:
		return nil, decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownDiscountMode, policy.Mode)
	}

	discount := decimal.Zero
	for _, li := range out {
		if li.DiscountedTotal == nil {
			continue
		}
		contribution := li.Total.Sub(*li.DiscountedTotal)
		if contribution.IsNegative() && !policy.AllowSurcharge {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", ErrSurchargeNotAllowed, li.Item)
		}
		discount = discount.Add(contribution)
	}

	return out, discount, nil
}

func applyPercentage(items []domain.LineItem, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: %s", ErrPercentageRange, pct)
	}

	factor := decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))
	for i := range items {
		dt := items[i].Total.Mul(factor)
		items[i].DiscountedTotal = &dt
	}

	return nil
}

// applyOverrides sets the discounted price on every item whose category
// matches and whose label contains the rule's substring. All matching items
// are overridden, not just the first; when several rules hit the same item
// the last rule wins.
func applyOverrides(items []domain.LineItem, overrides []domain.PriceOverride) {
	for _, rule := range overrides {
		for i := range items {
			if items[i].Category != rule.Category {
				continue
			}
			if !strings.Contains(items[i].Item, rule.ItemSubstring) {
				continue
			}
			price := rule.NewUnitPrice
			dt := price.Mul(decimal.NewFromInt(items[i].Qty))
			items[i].DiscountedUnitPrice = &price
			items[i].DiscountedTotal = &dt
		}
	}
}

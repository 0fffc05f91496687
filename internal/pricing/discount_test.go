package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

func discountFixture() []domain.LineItem {
	return []domain.LineItem{
		{
			Category:  domain.CategoryAccommodation,
			Item:      "Double",
			Qty:       4,
			Unit:      "bed-night",
			UnitPrice: decimal.NewFromInt(120),
			Total:     decimal.NewFromInt(480),
		},
		{
			Category:  domain.CategoryCatering,
			Item:      "Dinner",
			Qty:       10,
			Unit:      "serve",
			UnitPrice: decimal.RequireFromString("28.50"),
			Total:     decimal.NewFromInt(285),
		},
	}
}

func TestApplyDiscount_NilPolicy(t *testing.T) {
	items := discountFixture()

	out, discount, err := ApplyDiscount(items, nil)

	require.NoError(t, err)
	require.True(t, discount.IsZero())
	require.Equal(t, items, out)
}

func TestApplyDiscount_Percentage(t *testing.T) {
	items := discountFixture()
	policy := &domain.DiscountPolicy{
		Mode:       domain.DiscountPercentage,
		Percentage: decimal.NewFromInt(10),
	}

	out, discount, err := ApplyDiscount(items, policy)

	require.NoError(t, err)
	require.True(t, discount.Equal(decimal.RequireFromString("76.5")), "discount %s", discount)

	require.Nil(t, out[0].DiscountedUnitPrice)
	require.NotNil(t, out[0].DiscountedTotal)
	require.True(t, out[0].DiscountedTotal.Equal(decimal.NewFromInt(432)))
	require.True(t, out[1].DiscountedTotal.Equal(decimal.RequireFromString("256.5")))
}

func TestApplyDiscount_PercentageBounds(t *testing.T) {
	items := discountFixture()

	for _, pct := range []int64{0, 100} {
		policy := &domain.DiscountPolicy{
			Mode:       domain.DiscountPercentage,
			Percentage: decimal.NewFromInt(pct),
		}
		_, _, err := ApplyDiscount(items, policy)
		require.NoError(t, err, "pct %d", pct)
	}

	for _, pct := range []int64{-1, 101} {
		policy := &domain.DiscountPolicy{
			Mode:       domain.DiscountPercentage,
			Percentage: decimal.NewFromInt(pct),
		}
		_, _, err := ApplyDiscount(items, policy)
		require.ErrorIs(t, err, ErrPercentageRange, "pct %d", pct)
	}
}

func TestApplyDiscount_UnknownMode(t *testing.T) {
	policy := &domain.DiscountPolicy{Mode: "flat_rate"}

	_, _, err := ApplyDiscount(discountFixture(), policy)

	require.ErrorIs(t, err, ErrUnknownDiscountMode)
}

func TestApplyDiscount_OverrideMatchesAllAndLastRuleWins(t *testing.T) {
	items := discountFixture()
	items = append(items, domain.LineItem{
		Category:  domain.CategoryAccommodation,
		Item:      "Double (BYO linen)",
		Qty:       2,
		Unit:      "bed-night",
		UnitPrice: decimal.NewFromInt(95),
		Total:     decimal.NewFromInt(190),
	})

	policy := &domain.DiscountPolicy{
		Mode: domain.DiscountOverride,
		Overrides: []domain.PriceOverride{
			{Category: domain.CategoryAccommodation, ItemSubstring: "Double", NewUnitPrice: decimal.NewFromInt(100)},
			{Category: domain.CategoryAccommodation, ItemSubstring: "BYO", NewUnitPrice: decimal.NewFromInt(80)},
		},
	}

	out, discount, err := ApplyDiscount(items, policy)

	require.NoError(t, err)

	// First rule hits both "Double" labels; second rule retargets the BYO row.
	require.NotNil(t, out[0].DiscountedUnitPrice)
	require.True(t, out[0].DiscountedUnitPrice.Equal(decimal.NewFromInt(100)))
	require.True(t, out[0].DiscountedTotal.Equal(decimal.NewFromInt(400)))

	require.Nil(t, out[1].DiscountedTotal) // catering untouched

	require.True(t, out[2].DiscountedUnitPrice.Equal(decimal.NewFromInt(80)))
	require.True(t, out[2].DiscountedTotal.Equal(decimal.NewFromInt(160)))

	// (480-400) + (190-160)
	require.True(t, discount.Equal(decimal.NewFromInt(110)), "discount %s", discount)
}

func TestApplyDiscount_SurchargeRequiresOptIn(t *testing.T) {
	policy := &domain.DiscountPolicy{
		Mode: domain.DiscountOverride,
		Overrides: []domain.PriceOverride{
			{Category: domain.CategoryAccommodation, ItemSubstring: "Double", NewUnitPrice: decimal.NewFromInt(150)},
		},
	}

	_, _, err := ApplyDiscount(discountFixture(), policy)
	require.ErrorIs(t, err, ErrSurchargeNotAllowed)

	policy.AllowSurcharge = true
	out, discount, err := ApplyDiscount(discountFixture(), policy)

	require.NoError(t, err)
	require.True(t, out[0].DiscountedTotal.Equal(decimal.NewFromInt(600)))
	// The surcharge shows up as a negative discount.
	require.True(t, discount.Equal(decimal.NewFromInt(-120)), "discount %s", discount)
}

func TestApplyDiscount_DoesNotMutateInput(t *testing.T) {
	items := discountFixture()
	policy := &domain.DiscountPolicy{
		Mode:       domain.DiscountPercentage,
		Percentage: decimal.NewFromInt(50),
	}

	_, _, err := ApplyDiscount(items, policy)

	require.NoError(t, err)
	for _, li := range items {
		require.Nil(t, li.DiscountedUnitPrice)
		require.Nil(t, li.DiscountedTotal)
	}
}

package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testCatalog() *domain.PriceCatalog {
	return &domain.PriceCatalog{
		MealPrices: map[string]decimal.Decimal{
			"Dinner": decimal.RequireFromString("28.50"),
		},
		RoomPrices: map[string]decimal.Decimal{
			"Double": decimal.NewFromInt(120),
		},
		SpacePrices: map[string]decimal.Decimal{
			"Chapel": decimal.NewFromInt(200),
		},
		CapturedAt: time.Now().UTC(),
	}
}

func testSelections() domain.Selections {
	return domain.Selections{
		Arrival:   day("2026-03-06"),
		Departure: day("2026-03-08"),
		Accommodation: &domain.AccommodationSelection{
			Rooms: []domain.RoomRequest{{RoomType: "Double", Quantity: 2}},
		},
		Catering: &domain.CateringSelection{
			Meals: []domain.MealOccasion{
				{MealType: "Dinner", Date: day("2026-03-06"), Headcount: 10},
			},
		},
		Venue: &domain.VenueSelection{
			Spaces: []domain.SpaceRequest{{SpaceID: 1, Name: "Chapel", Days: 2}},
		},
	}
}

func TestCalculateWithCatalog_NoDiscount(t *testing.T) {
	svc := New(nil, nil, nil, Config{})

	result, err := svc.CalculateWithCatalog(testSelections(), nil, testCatalog())

	require.NoError(t, err)
	require.Len(t, result.LineItems, 3)
	// 480 + 285 + 400
	require.True(t, result.Subtotal.Equal(decimal.NewFromInt(1165)), "subtotal %s", result.Subtotal)
	require.True(t, result.DiscountAmount.IsZero())
	require.True(t, result.Total.Equal(result.Subtotal))
	require.Nil(t, result.Policy)
}

func TestCalculateWithCatalog_PercentageDiscount(t *testing.T) {
	svc := New(nil, nil, nil, Config{})
	policy := &domain.DiscountPolicy{
		Mode:       domain.DiscountPercentage,
		Percentage: decimal.NewFromInt(10),
	}

	result, err := svc.CalculateWithCatalog(testSelections(), policy, testCatalog())

	require.NoError(t, err)
	require.True(t, result.DiscountAmount.Equal(decimal.RequireFromString("116.5")), "discount %s", result.DiscountAmount)
	require.True(t, result.Total.Equal(decimal.RequireFromString("1048.5")), "total %s", result.Total)
	require.Equal(t, policy, result.Policy)
}

func TestCalculateWithCatalog_RepeatedCallsAgree(t *testing.T) {
	svc := New(nil, nil, nil, Config{})
	catalog := testCatalog()

	first, err := svc.CalculateWithCatalog(testSelections(), nil, catalog)
	require.NoError(t, err)

	second, err := svc.CalculateWithCatalog(testSelections(), nil, catalog)
	require.NoError(t, err)

	require.Equal(t, first.LineItems, second.LineItems)
	require.True(t, first.Total.Equal(second.Total))
}

func TestCalculateWithCatalog_RejectsInvalidSelections(t *testing.T) {
	svc := New(nil, nil, nil, Config{})
	sel := testSelections()
	sel.Departure = day("2026-03-01")

	_, err := svc.CalculateWithCatalog(sel, nil, testCatalog())

	require.ErrorIs(t, err, ErrInvalidSelections)
}

func TestCalculateWithCatalog_RejectsBadPolicy(t *testing.T) {
	svc := New(nil, nil, nil, Config{})
	policy := &domain.DiscountPolicy{
		Mode:       domain.DiscountPercentage,
		Percentage: decimal.NewFromInt(120),
	}

	_, err := svc.CalculateWithCatalog(testSelections(), policy, testCatalog())

	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestCalculateWithCatalog_RejectsDiscountExceedingSubtotal(t *testing.T) {
	svc := New(nil, nil, nil, Config{})

	// A negative override price drives the accommodation line far below zero:
	// the discount exceeds the 1165 subtotal and the total would be negative.
	policy := &domain.DiscountPolicy{
		Mode: domain.DiscountOverride,
		Overrides: []domain.PriceOverride{
			{Category: domain.CategoryAccommodation, ItemSubstring: "Double", NewUnitPrice: decimal.NewFromInt(-1000)},
		},
	}

	result, err := svc.CalculateWithCatalog(testSelections(), policy, testCatalog())

	require.ErrorIs(t, err, ErrDiscountExceedsSubtotal)
	require.Nil(t, result)
}

func TestCalculateWithCatalog_SurchargeWithoutOptInIsRejected(t *testing.T) {
	svc := New(nil, nil, nil, Config{})
	policy := &domain.DiscountPolicy{
		Mode: domain.DiscountOverride,
		Overrides: []domain.PriceOverride{
			{Category: domain.CategoryAccommodation, ItemSubstring: "Double", NewUnitPrice: decimal.NewFromInt(999)},
		},
	}

	_, err := svc.CalculateWithCatalog(testSelections(), policy, testCatalog())
	require.ErrorIs(t, err, ErrInvalidPolicy)

	policy.AllowSurcharge = true
	result, err := svc.CalculateWithCatalog(testSelections(), policy, testCatalog())

	require.NoError(t, err)
	require.True(t, result.DiscountAmount.IsNegative())
	require.True(t, result.Total.GreaterThan(result.Subtotal))
}

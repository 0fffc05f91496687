package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

func result(items []domain.LineItem) domain.PricingResult {
	subtotal := decimal.Zero
	for _, li := range items {
		subtotal = subtotal.Add(li.Total)
	}
	return domain.PricingResult{
		LineItems: items,
		Subtotal:  subtotal,
		Total:     subtotal,
	}
}

func item(cat domain.Category, label string, total int64) domain.LineItem {
	return domain.LineItem{
		Category: cat,
		Item:     label,
		Total:    decimal.NewFromInt(total),
	}
}

func TestDiff_IdenticalResults(t *testing.T) {
	a := result([]domain.LineItem{
		item(domain.CategoryAccommodation, "Double", 480),
		item(domain.CategoryCatering, "Dinner", 285),
	})

	d := Diff(a, a)

	require.False(t, d.LineItemsChanged)
	require.True(t, d.SubtotalDelta.IsZero())
	require.True(t, d.DiscountDelta.IsZero())
	require.True(t, d.TotalDelta.IsZero())
}

func TestDiff_ReorderedItemsAreUnchanged(t *testing.T) {
	a := result([]domain.LineItem{
		item(domain.CategoryAccommodation, "Double", 480),
		item(domain.CategoryCatering, "Dinner", 285),
	})
	b := result([]domain.LineItem{
		item(domain.CategoryCatering, "Dinner", 285),
		item(domain.CategoryAccommodation, "Double", 480),
	})

	d := Diff(a, b)

	require.False(t, d.LineItemsChanged)
	require.True(t, d.TotalDelta.IsZero())
}

func TestDiff_ChangedTotalIsFlagged(t *testing.T) {
	a := result([]domain.LineItem{item(domain.CategoryAccommodation, "Double", 480)})
	b := result([]domain.LineItem{item(domain.CategoryAccommodation, "Double", 500)})

	d := Diff(a, b)

	require.True(t, d.LineItemsChanged)
	require.True(t, d.SubtotalDelta.Equal(decimal.NewFromInt(20)))
	require.True(t, d.TotalDelta.Equal(decimal.NewFromInt(20)))
}

func TestDiff_AddedItemIsFlagged(t *testing.T) {
	a := result([]domain.LineItem{item(domain.CategoryAccommodation, "Double", 480)})
	b := result([]domain.LineItem{
		item(domain.CategoryAccommodation, "Double", 480),
		item(domain.CategoryExtras, "Flipchart", 45),
	})

	d := Diff(a, b)

	require.True(t, d.LineItemsChanged)
	require.True(t, d.SubtotalDelta.Equal(decimal.NewFromInt(45)))
}

func TestDiff_SameLabelDifferentCategoryIsFlagged(t *testing.T) {
	a := result([]domain.LineItem{item(domain.CategoryVenue, "Chapel", 200)})
	b := result([]domain.LineItem{item(domain.CategoryExtras, "Chapel", 200)})

	d := Diff(a, b)

	require.True(t, d.LineItemsChanged)
	require.True(t, d.TotalDelta.IsZero())
}

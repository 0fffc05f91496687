package audit

import (
	"github.com/pavlenko-dev/venue-go/internal/domain"
)

// Diff compares two priced results. Line items are paired by their stable key
// (category + label) rather than by position, so a reordered quote with the
// same prices reads as unchanged.
func Diff(a, b domain.PricingResult) domain.SnapshotDiff {
	d := domain.SnapshotDiff{
		SubtotalDelta: b.Subtotal.Sub(a.Subtotal),
		DiscountDelta: b.DiscountAmount.Sub(a.DiscountAmount),
		TotalDelta:    b.Total.Sub(a.Total),
	}

	if len(a.LineItems) != len(b.LineItems) {
		d.LineItemsChanged = true
		return d
	}

	byKey := make(map[string]domain.LineItem, len(a.LineItems))
	for _, li := range a.LineItems {
		byKey[li.Key()] = li
	}

	for _, li := range b.LineItems {
		prev, ok := byKey[li.Key()]
		if !ok || !prev.Total.Equal(li.Total) {
			d.LineItemsChanged = true
			return d
		}
	}

	return d
}

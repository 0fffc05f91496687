// Package pricing holds the pure pricing computation: turning a customer's
// selections into line items against one catalog snapshot, and overlaying
// discount policies on the result. Nothing in this package does I/O; the same
// input always produces the same output.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

var (
	// BYOLinenDeduction is taken off the catalog bed-night rate when the
	// guest brings their own linen.
	BYOLinenDeduction = decimal.NewFromInt(25)

	// PercolatedCoffeeUnitPrice is a fixed add-on price, independent of the
	// catalog.
	PercolatedCoffeeUnitPrice = decimal.RequireFromString("4.50")

	// WholeCentreDailyRate is the exclusive-use rate for the whole centre
	// per calendar day.
	WholeCentreDailyRate = decimal.NewFromInt(1500)
)

const (
	byoLinenSuffix   = " (BYO linen)"
	wholeCentreLabel = "Whole centre (exclusive use)"
	coffeeLabel      = "Percolated coffee"
)

// ComputeLineItems prices the selections against the catalog snapshot.
// Selections are assumed validated; all arithmetic stays in the catalog's
// currency unit with no rounding.
func ComputeLineItems(sel domain.Selections, catalog *domain.PriceCatalog) []domain.LineItem {
	var items []domain.LineItem

	items = append(items, accommodationItems(sel, catalog)...)
	items = append(items, cateringItems(sel, catalog)...)
	items = append(items, venueItems(sel, catalog)...)
	items = append(items, extraItems(sel)...)

	return items
}

// Subtotal sums the undiscounted totals of all line items.
func Subtotal(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.Total)
	}
	return sum
}

func newItem(cat domain.Category, label string, qty int64, unit string, unitPrice decimal.Decimal) domain.LineItem {
	return domain.LineItem{
		Category:  cat,
		Item:      label,
		Qty:       qty,
		Unit:      unit,
		UnitPrice: unitPrice,
		Total:     unitPrice.Mul(decimal.NewFromInt(qty)),
	}
}

func accommodationItems(sel domain.Selections, catalog *domain.PriceCatalog) []domain.LineItem {
	if sel.Accommodation == nil {
		return nil
	}

	nights := sel.Nights()

	var items []domain.LineItem
	for _, r := range sel.Accommodation.Rooms {
		price := catalog.RoomPrice(r.RoomType)
		label := r.RoomType
		if r.BYOLinen {
			price = price.Sub(BYOLinenDeduction)
			label += byoLinenSuffix
		}
		items = append(items, newItem(domain.CategoryAccommodation, label, r.Quantity*nights, "bed-night", price))
	}

	return items
}

// cateringItems groups meals by meal type across dates: one line item per
// type with the summed headcount, plus the fixed-price coffee add-on.
// Grouping order follows first appearance so repeated computations stay
// bit-identical.
func cateringItems(sel domain.Selections, catalog *domain.PriceCatalog) []domain.LineItem {
	if sel.Catering == nil {
		return nil
	}

	var order []string
	serves := make(map[string]int64)
	for _, m := range sel.Catering.Meals {
		if _, seen := serves[m.MealType]; !seen {
			order = append(order, m.MealType)
		}
		serves[m.MealType] += m.Headcount
	}

	var items []domain.LineItem
	for _, mealType := range order {
		items = append(items, newItem(domain.CategoryCatering, mealType, serves[mealType], "serve", catalog.MealPrice(mealType)))
	}

	if c := sel.Catering.PercolatedCoffee; c != nil && c.Serves > 0 {
		items = append(items, newItem(domain.CategoryCatering, coffeeLabel, c.Serves, "serve", PercolatedCoffeeUnitPrice))
	}

	return items
}

func venueItems(sel domain.Selections, catalog *domain.PriceCatalog) []domain.LineItem {
	if sel.Venue == nil {
		return nil
	}

	if sel.Venue.WholeCentre {
		// A multi-night stay reserves the venue once per calendar day,
		// arrival and departure days included. A same-day event still
		// reserves one day.
		days := int64(1)
		if nights := sel.Nights(); nights > 0 {
			days = nights + 1
		}
		return []domain.LineItem{
			newItem(domain.CategoryVenue, wholeCentreLabel, days, "day", WholeCentreDailyRate),
		}
	}

	var items []domain.LineItem
	for _, sp := range sel.Venue.Spaces {
		items = append(items, newItem(domain.CategoryVenue, sp.Name, sp.Days, "day", catalog.SpacePrice(sp.Name)))
	}

	return items
}

func extraItems(sel domain.Selections) []domain.LineItem {
	var items []domain.LineItem
	for _, e := range sel.Extras {
		items = append(items, newItem(domain.CategoryExtras, e.Item, e.Quantity, "each", e.UnitPrice))
	}
	return items
}

package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

func testCatalog() *domain.PriceCatalog {
	return &domain.PriceCatalog{
		MealPrices: map[string]decimal.Decimal{
			"Breakfast": decimal.NewFromInt(12),
			"Dinner":    decimal.RequireFromString("28.50"),
		},
		RoomPrices: map[string]decimal.Decimal{
			"Double": decimal.NewFromInt(120),
			"Single": decimal.NewFromInt(85),
		},
		SpacePrices: map[string]decimal.Decimal{
			"Chapel":    decimal.NewFromInt(200),
			"Main Hall": decimal.NewFromInt(300),
		},
		CapturedAt: time.Now().UTC(),
	}
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func twoNightStay() domain.Selections {
	return domain.Selections{
		Arrival:   date("2026-03-06"),
		Departure: date("2026-03-08"),
	}
}

func TestComputeLineItems_Accommodation(t *testing.T) {
	sel := twoNightStay()
	sel.Accommodation = &domain.AccommodationSelection{
		Rooms: []domain.RoomRequest{
			{RoomType: "Double", Quantity: 2},
		},
	}

	items := ComputeLineItems(sel, testCatalog())

	require.Len(t, items, 1)
	li := items[0]
	require.Equal(t, domain.CategoryAccommodation, li.Category)
	require.Equal(t, "Double", li.Item)
	require.EqualValues(t, 4, li.Qty) // 2 rooms x 2 nights
	require.Equal(t, "bed-night", li.Unit)
	require.True(t, li.UnitPrice.Equal(decimal.NewFromInt(120)), "unit price %s", li.UnitPrice)
	require.True(t, li.Total.Equal(decimal.NewFromInt(480)), "total %s", li.Total)
}

func TestComputeLineItems_BYOLinenDeduction(t *testing.T) {
	sel := twoNightStay()
	sel.Accommodation = &domain.AccommodationSelection{
		Rooms: []domain.RoomRequest{
			{RoomType: "Single", Quantity: 1, BYOLinen: true},
		},
	}

	items := ComputeLineItems(sel, testCatalog())

	require.Len(t, items, 1)
	require.Equal(t, "Single (BYO linen)", items[0].Item)
	require.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(60)), "unit price %s", items[0].UnitPrice)
	require.True(t, items[0].Total.Equal(decimal.NewFromInt(120)), "total %s", items[0].Total)
}

func TestComputeLineItems_CateringGroupsByMealType(t *testing.T) {
	sel := twoNightStay()
	sel.Catering = &domain.CateringSelection{
		Meals: []domain.MealOccasion{
			{MealType: "Breakfast", Date: date("2026-03-07"), Headcount: 10},
			{MealType: "Dinner", Date: date("2026-03-06"), Headcount: 10},
			{MealType: "Breakfast", Date: date("2026-03-08"), Headcount: 12},
		},
		PercolatedCoffee: &domain.CoffeeOrder{Serves: 30},
	}

	items := ComputeLineItems(sel, testCatalog())

	require.Len(t, items, 3)

	require.Equal(t, "Breakfast", items[0].Item)
	require.EqualValues(t, 22, items[0].Qty)
	require.True(t, items[0].Total.Equal(decimal.NewFromInt(264)))

	require.Equal(t, "Dinner", items[1].Item)
	require.EqualValues(t, 10, items[1].Qty)
	require.True(t, items[1].Total.Equal(decimal.NewFromInt(285)))

	require.Equal(t, "Percolated coffee", items[2].Item)
	require.EqualValues(t, 30, items[2].Qty)
	require.True(t, items[2].Total.Equal(decimal.NewFromInt(135)))
}

func TestComputeLineItems_WholeCentre(t *testing.T) {
	tests := []struct {
		name      string
		arrival   string
		departure string
		wantDays  int64
	}{
		{"two nights spans three days", "2026-03-06", "2026-03-08", 3},
		{"same-day event is one day", "2026-03-06", "2026-03-06", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := domain.Selections{
				Arrival:   date(tt.arrival),
				Departure: date(tt.departure),
				Venue:     &domain.VenueSelection{WholeCentre: true},
			}

			items := ComputeLineItems(sel, testCatalog())

			require.Len(t, items, 1)
			require.Equal(t, domain.CategoryVenue, items[0].Category)
			require.EqualValues(t, tt.wantDays, items[0].Qty)
			require.Equal(t, "day", items[0].Unit)
			want := WholeCentreDailyRate.Mul(decimal.NewFromInt(tt.wantDays))
			require.True(t, items[0].Total.Equal(want), "total %s", items[0].Total)
		})
	}
}

func TestComputeLineItems_IndividualSpaces(t *testing.T) {
	sel := twoNightStay()
	sel.Venue = &domain.VenueSelection{
		Spaces: []domain.SpaceRequest{
			{SpaceID: 1, Name: "Chapel", Days: 2},
			{SpaceID: 2, Name: "Main Hall", Days: 1},
		},
	}

	items := ComputeLineItems(sel, testCatalog())

	require.Len(t, items, 2)
	require.True(t, items[0].Total.Equal(decimal.NewFromInt(400)))
	require.True(t, items[1].Total.Equal(decimal.NewFromInt(300)))
}

func TestComputeLineItems_ExtrasUseCallerPrice(t *testing.T) {
	sel := twoNightStay()
	sel.Extras = []domain.ExtraItem{
		{Item: "Flipchart", Quantity: 3, UnitPrice: decimal.NewFromInt(15)},
	}

	items := ComputeLineItems(sel, testCatalog())

	require.Len(t, items, 1)
	require.Equal(t, domain.CategoryExtras, items[0].Category)
	require.Equal(t, "each", items[0].Unit)
	require.True(t, items[0].Total.Equal(decimal.NewFromInt(45)))
}

func TestComputeLineItems_MissingCatalogPriceIsZero(t *testing.T) {
	sel := twoNightStay()
	sel.Accommodation = &domain.AccommodationSelection{
		Rooms: []domain.RoomRequest{
			{RoomType: "Penthouse", Quantity: 1},
		},
	}

	items := ComputeLineItems(sel, testCatalog())

	require.Len(t, items, 1)
	require.True(t, items[0].Total.IsZero(), "total %s", items[0].Total)
}

func TestComputeLineItems_Deterministic(t *testing.T) {
	sel := twoNightStay()
	sel.Accommodation = &domain.AccommodationSelection{
		Rooms: []domain.RoomRequest{
			{RoomType: "Double", Quantity: 2},
			{RoomType: "Single", Quantity: 1, BYOLinen: true},
		},
	}
	sel.Catering = &domain.CateringSelection{
		Meals: []domain.MealOccasion{
			{MealType: "Dinner", Date: date("2026-03-06"), Headcount: 8},
			{MealType: "Breakfast", Date: date("2026-03-07"), Headcount: 8},
		},
	}
	sel.Venue = &domain.VenueSelection{
		Spaces: []domain.SpaceRequest{{SpaceID: 1, Name: "Chapel", Days: 2}},
	}

	catalog := testCatalog()
	first := ComputeLineItems(sel, catalog)
	second := ComputeLineItems(sel, catalog)

	require.Equal(t, first, second)
	require.True(t, Subtotal(first).Equal(Subtotal(second)))
}

func TestSubtotal(t *testing.T) {
	sel := twoNightStay()
	sel.Accommodation = &domain.AccommodationSelection{
		Rooms: []domain.RoomRequest{{RoomType: "Double", Quantity: 2}},
	}
	sel.Extras = []domain.ExtraItem{
		{Item: "Flipchart", Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
	}

	items := ComputeLineItems(sel, testCatalog())

	require.True(t, Subtotal(items).Equal(decimal.NewFromInt(500)))
	require.True(t, Subtotal(nil).IsZero())
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RoomRequest asks for a number of rooms of one catalog room type.
type RoomRequest struct {
	RoomType string `json:"room_type"`
	Quantity int64  `json:"quantity"`
	BYOLinen bool   `json:"byo_linen"`
}

type AccommodationSelection struct {
	Rooms []RoomRequest `json:"rooms"`
}

// MealOccasion is one catered meal on one service date.
type MealOccasion struct {
	MealType  string    `json:"meal_type"`
	Date      time.Time `json:"date"`
	Headcount int64     `json:"headcount"`
}

type CoffeeOrder struct {
	Serves int64 `json:"serves"`
}

type CateringSelection struct {
	Meals            []MealOccasion `json:"meals"`
	PercolatedCoffee *CoffeeOrder   `json:"percolated_coffee,omitempty"`
}

// SpaceRequest books one space for a caller-supplied number of days. Days is
// not derived from the stay length; partial-stay space bookings are allowed.
type SpaceRequest struct {
	SpaceID int64  `json:"space_id"`
	Name    string `json:"name"`
	Days    int64  `json:"days"`
}

// VenueSelection is either exclusive use of the whole centre or a list of
// individual spaces. The two modes are mutually exclusive.
type VenueSelection struct {
	WholeCentre bool           `json:"whole_centre"`
	Spaces      []SpaceRequest `json:"spaces,omitempty"`
}

// ExtraItem is a free-form priced add-on. The unit price is supplied by the
// caller and deliberately outside catalog governance.
type ExtraItem struct {
	Item      string          `json:"item"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Selections is a customer's complete request for a stay: dates plus any
// combination of accommodation, catering, venue and extras.
type Selections struct {
	Arrival       time.Time               `json:"arrival"`
	Departure     time.Time               `json:"departure"`
	Accommodation *AccommodationSelection `json:"accommodation,omitempty"`
	Catering      *CateringSelection      `json:"catering,omitempty"`
	Venue         *VenueSelection         `json:"venue,omitempty"`
	Extras        []ExtraItem             `json:"extras,omitempty"`
}

// Nights is the stay length in whole nights (departure - arrival).
func (s Selections) Nights() int64 {
	return int64(s.Departure.Sub(s.Arrival).Hours() / 24)
}

// Validate rejects selections that must never reach the pricing core:
// negative nights, non-positive quantities and mixed venue modes.
func (s Selections) Validate() error {
	if s.Departure.Before(s.Arrival) {
		return fmt.Errorf("departure %s is before arrival %s",
			s.Departure.Format("2006-01-02"), s.Arrival.Format("2006-01-02"))
	}

	if s.Accommodation != nil {
		for _, r := range s.Accommodation.Rooms {
			if r.RoomType == "" {
				return fmt.Errorf("accommodation room type is empty")
			}
			if r.Quantity <= 0 {
				return fmt.Errorf("accommodation %q: quantity must be positive, got %d", r.RoomType, r.Quantity)
			}
		}
	}

	if s.Catering != nil {
		for _, m := range s.Catering.Meals {
			if m.MealType == "" {
				return fmt.Errorf("meal type is empty")
			}
			if m.Headcount <= 0 {
				return fmt.Errorf("meal %q on %s: headcount must be positive, got %d",
					m.MealType, m.Date.Format("2006-01-02"), m.Headcount)
			}
		}
		if c := s.Catering.PercolatedCoffee; c != nil && c.Serves <= 0 {
			return fmt.Errorf("percolated coffee: serves must be positive, got %d", c.Serves)
		}
	}

	if v := s.Venue; v != nil {
		if v.WholeCentre && len(v.Spaces) > 0 {
			return fmt.Errorf("whole-centre and individual spaces are mutually exclusive")
		}
		for _, sp := range v.Spaces {
			if sp.Name == "" {
				return fmt.Errorf("space %d: name is empty", sp.SpaceID)
			}
			if sp.Days <= 0 {
				return fmt.Errorf("space %q: days must be positive, got %d", sp.Name, sp.Days)
			}
		}
	}

	for _, e := range s.Extras {
		if e.Item == "" {
			return fmt.Errorf("extra item label is empty")
		}
		if e.Quantity <= 0 {
			return fmt.Errorf("extra %q: quantity must be positive, got %d", e.Item, e.Quantity)
		}
		if e.UnitPrice.IsNegative() {
			return fmt.Errorf("extra %q: unit price must not be negative", e.Item)
		}
	}

	return nil
}

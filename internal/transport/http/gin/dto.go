package httpgin

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

const dateLayout = "2006-01-02"

type QuoteRequest struct {
	Arrival       string              `json:"arrival" binding:"required"`
	Departure     string              `json:"departure" binding:"required"`
	Accommodation *AccommodationInput `json:"accommodation"`
	Catering      *CateringInput      `json:"catering"`
	Venue         *VenueInput         `json:"venue"`
	Extras        []ExtraInput        `json:"extras" binding:"omitempty,dive"`
	Discount      *DiscountInput      `json:"discount"`
}

type AccommodationInput struct {
	Rooms []RoomRequestInput `json:"rooms" binding:"required,min=1,dive"`
}

type RoomRequestInput struct {
	RoomType string `json:"room_type" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	BYOLinen bool   `json:"byo_linen"`
}

type CateringInput struct {
	Meals            []MealInput  `json:"meals" binding:"omitempty,dive"`
	PercolatedCoffee *CoffeeInput `json:"percolated_coffee"`
}

type MealInput struct {
	MealType  string `json:"meal_type" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Headcount int64  `json:"headcount" binding:"required,gt=0"`
}

type CoffeeInput struct {
	Serves int64 `json:"serves" binding:"required,gt=0"`
}

type VenueInput struct {
	WholeCentre bool         `json:"whole_centre"`
	Spaces      []SpaceInput `json:"spaces" binding:"omitempty,dive"`
}

type SpaceInput struct {
	SpaceID int64  `json:"space_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Days    int64  `json:"days" binding:"required,gt=0"`
}

type ExtraInput struct {
	Item      string  `json:"item" binding:"required"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

type DiscountInput struct {
	Mode           string          `json:"mode" binding:"required,oneof=percentage per_item_override"`
	Percentage     float64         `json:"percentage" binding:"gte=0,lte=100"`
	Overrides      []OverrideInput `json:"overrides" binding:"omitempty,dive"`
	AllowSurcharge bool            `json:"allow_surcharge"`
}

type OverrideInput struct {
	Category      string  `json:"category" binding:"required,oneof=accommodation catering venue extras"`
	ItemSubstring string  `json:"item_substring" binding:"required"`
	NewUnitPrice  float64 `json:"new_unit_price" binding:"gte=0"`
}

type CreateSnapshotRequest struct {
	QuoteRequest
	Reason string `json:"reason" binding:"omitempty,oneof=standard custom_link admin_override"`
}

type ReserveRequest struct {
	SpaceID     int64   `json:"space_id" binding:"required"`
	ServiceDate string  `json:"service_date" binding:"required"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

type AssignRoomRequest struct {
	RoomID       int64    `json:"room_id" binding:"required"`
	ExtraBed     bool     `json:"extra_bed"`
	Ensuite      bool     `json:"ensuite"`
	PrivateStudy bool     `json:"private_study"`
	GuestNames   []string `json:"guest_names"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ReserveResponse struct {
	ReservationID int64 `json:"reservation_id"`
}

type CreateSnapshotResponse struct {
	SnapshotID string               `json:"snapshot_id"`
	Result     domain.PricingResult `json:"result"`
}

func (r QuoteRequest) toSelections() (domain.Selections, error) {
	arrival, err := time.Parse(dateLayout, r.Arrival)
	if err != nil {
		return domain.Selections{}, err
	}

	departure, err := time.Parse(dateLayout, r.Departure)
	if err != nil {
		return domain.Selections{}, err
	}

	sel := domain.Selections{
		Arrival:   arrival,
		Departure: departure,
	}

	if r.Accommodation != nil {
		acc := &domain.AccommodationSelection{}
		for _, room := range r.Accommodation.Rooms {
			acc.Rooms = append(acc.Rooms, domain.RoomRequest{
				RoomType: room.RoomType,
				Quantity: room.Quantity,
				BYOLinen: room.BYOLinen,
			})
		}
		sel.Accommodation = acc
	}

	if r.Catering != nil {
		cat := &domain.CateringSelection{}
		for _, m := range r.Catering.Meals {
			date, err := time.Parse(dateLayout, m.Date)
			if err != nil {
				return domain.Selections{}, err
			}
			cat.Meals = append(cat.Meals, domain.MealOccasion{
				MealType:  m.MealType,
				Date:      date,
				Headcount: m.Headcount,
			})
		}
		if r.Catering.PercolatedCoffee != nil {
			cat.PercolatedCoffee = &domain.CoffeeOrder{Serves: r.Catering.PercolatedCoffee.Serves}
		}
		sel.Catering = cat
	}

	if r.Venue != nil {
		venue := &domain.VenueSelection{WholeCentre: r.Venue.WholeCentre}
		for _, sp := range r.Venue.Spaces {
			venue.Spaces = append(venue.Spaces, domain.SpaceRequest{
				SpaceID: sp.SpaceID,
				Name:    sp.Name,
				Days:    sp.Days,
			})
		}
		sel.Venue = venue
	}

	for _, e := range r.Extras {
		sel.Extras = append(sel.Extras, domain.ExtraItem{
			Item:      e.Item,
			Quantity:  e.Quantity,
			UnitPrice: decimal.NewFromFloat(e.UnitPrice),
		})
	}

	return sel, nil
}

func (r QuoteRequest) toPolicy() *domain.DiscountPolicy {
	if r.Discount == nil {
		return nil
	}

	policy := &domain.DiscountPolicy{
		Mode:           domain.DiscountMode(r.Discount.Mode),
		Percentage:     decimal.NewFromFloat(r.Discount.Percentage),
		AllowSurcharge: r.Discount.AllowSurcharge,
	}

	for _, o := range r.Discount.Overrides {
		policy.Overrides = append(policy.Overrides, domain.PriceOverride{
			Category:      domain.Category(o.Category),
			ItemSubstring: o.ItemSubstring,
			NewUnitPrice:  decimal.NewFromFloat(o.NewUnitPrice),
		})
	}

	return policy
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func validSelections() Selections {
	return Selections{
		Arrival:   day("2026-03-06"),
		Departure: day("2026-03-08"),
	}
}

func TestSelections_Nights(t *testing.T) {
	s := validSelections()
	require.EqualValues(t, 2, s.Nights())

	s.Departure = s.Arrival
	require.EqualValues(t, 0, s.Nights())
}

func TestSelections_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Selections)
		wantErr bool
	}{
		{
			name:   "empty selections are valid",
			mutate: func(s *Selections) {},
		},
		{
			name: "departure before arrival",
			mutate: func(s *Selections) {
				s.Departure = day("2026-03-05")
			},
			wantErr: true,
		},
		{
			name: "zero room quantity",
			mutate: func(s *Selections) {
				s.Accommodation = &AccommodationSelection{
					Rooms: []RoomRequest{{RoomType: "Double", Quantity: 0}},
				}
			},
			wantErr: true,
		},
		{
			name: "empty room type",
			mutate: func(s *Selections) {
				s.Accommodation = &AccommodationSelection{
					Rooms: []RoomRequest{{RoomType: "", Quantity: 1}},
				}
			},
			wantErr: true,
		},
		{
			name: "zero meal headcount",
			mutate: func(s *Selections) {
				s.Catering = &CateringSelection{
					Meals: []MealOccasion{{MealType: "Dinner", Date: day("2026-03-06"), Headcount: 0}},
				}
			},
			wantErr: true,
		},
		{
			name: "zero coffee serves",
			mutate: func(s *Selections) {
				s.Catering = &CateringSelection{
					PercolatedCoffee: &CoffeeOrder{Serves: 0},
				}
			},
			wantErr: true,
		},
		{
			name: "whole centre and spaces are mutually exclusive",
			mutate: func(s *Selections) {
				s.Venue = &VenueSelection{
					WholeCentre: true,
					Spaces:      []SpaceRequest{{SpaceID: 1, Name: "Chapel", Days: 1}},
				}
			},
			wantErr: true,
		},
		{
			name: "zero space days",
			mutate: func(s *Selections) {
				s.Venue = &VenueSelection{
					Spaces: []SpaceRequest{{SpaceID: 1, Name: "Chapel", Days: 0}},
				}
			},
			wantErr: true,
		},
		{
			name: "negative extra price",
			mutate: func(s *Selections) {
				s.Extras = []ExtraItem{
					{Item: "Flipchart", Quantity: 1, UnitPrice: decimal.NewFromInt(-5)},
				}
			},
			wantErr: true,
		},
		{
			name: "full valid booking",
			mutate: func(s *Selections) {
				s.Accommodation = &AccommodationSelection{
					Rooms: []RoomRequest{{RoomType: "Double", Quantity: 2, BYOLinen: true}},
				}
				s.Catering = &CateringSelection{
					Meals:            []MealOccasion{{MealType: "Dinner", Date: day("2026-03-06"), Headcount: 8}},
					PercolatedCoffee: &CoffeeOrder{Serves: 20},
				}
				s.Venue = &VenueSelection{
					Spaces: []SpaceRequest{{SpaceID: 1, Name: "Chapel", Days: 2}},
				}
				s.Extras = []ExtraItem{
					{Item: "Flipchart", Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSelections()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBookingStatus_HighPriority(t *testing.T) {
	require.True(t, StatusApproved.HighPriority())
	require.True(t, StatusConfirmed.HighPriority())
	require.True(t, StatusDepositReceived.HighPriority())
	require.False(t, StatusPending.HighPriority())
	require.False(t, StatusCancelled.HighPriority())
}

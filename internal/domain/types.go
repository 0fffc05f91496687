package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusPending         BookingStatus = "pending"
	StatusApproved        BookingStatus = "approved"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusDepositReceived BookingStatus = "deposit_received"
	StatusCancelled       BookingStatus = "cancelled"
)

// HighPriority reports whether the status outranks a pending booking when
// resolving calendar conflicts. Approved, confirmed and deposit-received
// bookings are treated as equally high priority.
func (s BookingStatus) HighPriority() bool {
	switch s {
	case StatusApproved, StatusConfirmed, StatusDepositReceived:
		return true
	}
	return false
}

type Category string

const (
	CategoryAccommodation Category = "accommodation"
	CategoryCatering      Category = "catering"
	CategoryVenue         Category = "venue"
	CategoryExtras        Category = "extras"
)

// PriceCatalog is an immutable snapshot of the current unit prices. A single
// pricing calculation uses exactly one snapshot so prices cannot change
// mid-computation.
type PriceCatalog struct {
	MealPrices  map[string]decimal.Decimal `json:"meal_prices"`
	RoomPrices  map[string]decimal.Decimal `json:"room_prices"`
	SpacePrices map[string]decimal.Decimal `json:"space_prices"`
	CapturedAt  time.Time                  `json:"captured_at"`
}

// MealPrice returns the unit price for a meal type, or zero when the catalog
// has no row for it. A misconfigured catalog degrades pricing instead of
// blocking the flow.
func (c *PriceCatalog) MealPrice(mealType string) decimal.Decimal {
	return c.MealPrices[mealType]
}

func (c *PriceCatalog) RoomPrice(roomType string) decimal.Decimal {
	return c.RoomPrices[roomType]
}

func (c *PriceCatalog) SpacePrice(name string) decimal.Decimal {
	return c.SpacePrices[name]
}

// LineItem is one priced row in a quote. Total is always the undiscounted
// value; the discounted fields are additive overlays set only when a discount
// policy touched the item.
type LineItem struct {
	Category            Category         `json:"category"`
	Item                string           `json:"item"`
	Qty                 int64            `json:"qty"`
	Unit                string           `json:"unit"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	Total               decimal.Decimal  `json:"total"`
	DiscountedUnitPrice *decimal.Decimal `json:"discounted_unit_price,omitempty"`
	DiscountedTotal     *decimal.Decimal `json:"discounted_total,omitempty"`
}

// Key identifies a line item across recalculations. Snapshot diffs pair items
// by key rather than by position so a reordered quote does not read as a
// price change.
func (li LineItem) Key() string {
	return string(li.Category) + "|" + li.Item
}

type DiscountMode string

const (
	DiscountPercentage DiscountMode = "percentage"
	DiscountOverride   DiscountMode = "per_item_override"
)

// PriceOverride replaces the unit price of every line item whose category
// matches and whose label contains ItemSubstring.
type PriceOverride struct {
	Category      Category        `json:"category"`
	ItemSubstring string          `json:"item_substring"`
	NewUnitPrice  decimal.Decimal `json:"new_unit_price"`
}

// DiscountPolicy is either a flat percentage applied uniformly or a set of
// per-item price overrides. The two modes are never combined.
//
// An override may raise a price above the catalog value; that is a
// legitimate admin-set surcharge, but only when the caller sets
// AllowSurcharge explicitly.
type DiscountPolicy struct {
	Mode           DiscountMode    `json:"mode"`
	Percentage     decimal.Decimal `json:"percentage,omitempty"`
	Overrides      []PriceOverride `json:"overrides,omitempty"`
	AllowSurcharge bool            `json:"allow_surcharge,omitempty"`
}

type PricingResult struct {
	LineItems      []LineItem      `json:"line_items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	Catalog        PriceCatalog    `json:"price_catalog"`
	Policy         *DiscountPolicy `json:"discount_policy,omitempty"`
}

type SnapshotReason string

const (
	ReasonStandard      SnapshotReason = "standard"
	ReasonCustomLink    SnapshotReason = "custom_link"
	ReasonAdminOverride SnapshotReason = "admin_override"
)

// PriceSnapshot is an immutable, timestamped audit record of a computed price
// bound to one booking. Once created it is never mutated; every recalculation
// that must be auditable creates a new snapshot.
type PriceSnapshot struct {
	ID        uuid.UUID      `json:"id"`
	BookingID int64          `json:"booking_id"`
	Reason    SnapshotReason `json:"reason"`
	Result    PricingResult  `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}

// SnapshotDiff summarizes how two priced results differ.
type SnapshotDiff struct {
	SubtotalDelta    decimal.Decimal `json:"subtotal_delta"`
	DiscountDelta    decimal.Decimal `json:"discount_delta"`
	TotalDelta       decimal.Decimal `json:"total_delta"`
	LineItemsChanged bool            `json:"line_items_changed"`
}

// SpaceReservation claims a space for a booking on one service date.
// Nil times mean the whole day (00:00-23:59).
type SpaceReservation struct {
	ID          int64         `json:"id"`
	BookingID   int64         `json:"booking_id"`
	SpaceID     int64         `json:"space_id"`
	SpaceName   string        `json:"space_name"`
	ServiceDate time.Time     `json:"service_date"`
	StartTime   *string       `json:"start_time,omitempty"`
	EndTime     *string       `json:"end_time,omitempty"`
	Status      BookingStatus `json:"status"`
}

// Conflict flags that another booking wants the same space at an overlapping
// time. It is advisory: nothing is persisted and the other booking's
// reservation is left untouched.
type Conflict struct {
	BookingID     int64         `json:"booking_id"`
	SpaceID       int64         `json:"space_id"`
	SpaceName     string        `json:"space_name"`
	ServiceDate   time.Time     `json:"service_date"`
	ConflictsWith int64         `json:"conflicts_with"`
	OtherStatus   BookingStatus `json:"other_status"`
}

// Room is a physical room in the inventory. Rooms drawing from a shared
// fixed-size pool (the ensuite-capable rooms) carry the pool's ID; the pool
// capacity is inventory data, not code.
type Room struct {
	ID       int64  `json:"id"`
	TypeName string `json:"type_name"`
	PoolID   *int64 `json:"pool_id,omitempty"`
}

// RoomAllocation assigns a physical room to a booking together with the
// booking-scoped extras selected for it.
type RoomAllocation struct {
	Room         Room     `json:"room"`
	BookingID    int64    `json:"booking_id"`
	ExtraBed     bool     `json:"extra_bed_selected"`
	Ensuite      bool     `json:"ensuite_selected"`
	PrivateStudy bool     `json:"private_study_selected"`
	GuestNames   []string `json:"guest_names,omitempty"`
}

// DemandCounts bucket a booking's allocated rooms into the four demand
// categories.
type DemandCounts struct {
	DoubleBB      int `json:"double_bb"`
	SingleBB      int `json:"single_bb"`
	StudySuite    int `json:"study_suite"`
	DoubleEnsuite int `json:"double_ensuite"`
}

// PoolDraw is the combined usage of the shared ensuite pool: rooms used as
// plain ensuite and rooms used as ensuite+study draw from the same fixed set
// of physical rooms.
func (d DemandCounts) PoolDraw() int {
	return d.DoubleEnsuite + d.StudySuite
}

// AllocationSummary reports demand counts together with the shared pool's
// current usage so the caller can block over-allocation before it is
// persisted.
type AllocationSummary struct {
	Counts       DemandCounts `json:"counts"`
	PoolUsed     int          `json:"pool_used"`
	PoolCapacity int          `json:"pool_capacity"`
}

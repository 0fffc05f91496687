package redisx

import "fmt"

const ns = "venuego:v1"

func KeyCatalog() string {
	return ns + ":catalog"
}

// KeyBookingConflicts is scoped to one date window. Conflict views depend on
// every booking sharing the window, so they are bounded by TTL rather than
// deleted on write.
func KeyBookingConflicts(bookingID int64, from, to string) string {
	return fmt.Sprintf("%s:booking:%d:conflicts:%s:%s", ns, bookingID, from, to)
}

func KeyBookingAllocation(bookingID int64) string {
	return fmt.Sprintf("%s:booking:%d:allocation", ns, bookingID)
}

func KeyBookingSnapshots(bookingID int64) string {
	return fmt.Sprintf("%s:booking:%d:snapshots", ns, bookingID)
}

func ChannelBookingsChanged() string {
	return ns + ":bookings:changed"
}

package redisx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	t.Parallel()

	require.Equal(t, "venuego:v1:catalog", KeyCatalog())
	require.Equal(t, "venuego:v1:booking:42:allocation", KeyBookingAllocation(42))
	require.Equal(t, "venuego:v1:booking:42:snapshots", KeyBookingSnapshots(42))
	require.Equal(t, "venuego:v1:bookings:changed", ChannelBookingsChanged())
}

func TestKeyBookingConflicts_ScopedToWindow(t *testing.T) {
	t.Parallel()

	a := KeyBookingConflicts(42, "2026-03-01", "2026-03-05")
	b := KeyBookingConflicts(42, "2026-03-01", "2026-03-08")

	require.Equal(t, "venuego:v1:booking:42:conflicts:2026-03-01:2026-03-05", a)
	require.NotEqual(t, a, b, "each date window caches its own conflict view")
	require.NotEqual(t, a, KeyBookingConflicts(7, "2026-03-01", "2026-03-05"))
}

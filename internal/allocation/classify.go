// Package allocation classifies a booking's allocated rooms into the four
// accommodation demand buckets. The classification is pure; the shared-pool
// capacity check that uses it runs inside the assignment transaction.
package allocation

import (
	"strings"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

// Classify buckets the allocated rooms by how each one is used.
//
// A room with both ensuite and private study on a double-bed type counts as a
// study suite; ensuite without study counts as a double ensuite. Plain
// double/queen/king rooms are double B&B. A "Single" counts one bed, a
// "Twin Single" two, or three with an extra bed.
func Classify(allocs []domain.RoomAllocation) domain.DemandCounts {
	var counts domain.DemandCounts

	for _, a := range allocs {
		switch {
		case a.Ensuite && a.PrivateStudy && isDoubleType(a.Room.TypeName):
			counts.StudySuite++
		case a.Ensuite && !a.PrivateStudy:
			counts.DoubleEnsuite++
		case isDoubleType(a.Room.TypeName):
			counts.DoubleBB++
		case a.Room.TypeName == "Single":
			counts.SingleBB++
		case a.Room.TypeName == "Twin Single":
			counts.SingleBB += 2
			if a.ExtraBed {
				counts.SingleBB++
			}
		}
	}

	return counts
}

func isDoubleType(typeName string) bool {
	name := strings.ToLower(typeName)
	return strings.Contains(name, "double") ||
		strings.Contains(name, "queen") ||
		strings.Contains(name, "king")
}

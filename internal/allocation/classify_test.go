package allocation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pavlenko-dev/venue-go/internal/domain"
)

func alloc(typeName string, extraBed, ensuite, study bool) domain.RoomAllocation {
	return domain.RoomAllocation{
		Room:         domain.Room{TypeName: typeName},
		ExtraBed:     extraBed,
		Ensuite:      ensuite,
		PrivateStudy: study,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		allocs []domain.RoomAllocation
		want   domain.DemandCounts
	}{
		{
			name:   "plain double is double b&b",
			allocs: []domain.RoomAllocation{alloc("Double", false, false, false)},
			want:   domain.DemandCounts{DoubleBB: 1},
		},
		{
			name:   "queen and king count as double",
			allocs: []domain.RoomAllocation{alloc("Queen Deluxe", false, false, false), alloc("King", false, false, false)},
			want:   domain.DemandCounts{DoubleBB: 2},
		},
		{
			name:   "ensuite without study is double ensuite",
			allocs: []domain.RoomAllocation{alloc("Double", false, true, false)},
			want:   domain.DemandCounts{DoubleEnsuite: 1},
		},
		{
			name:   "ensuite with study on a double is a study suite",
			allocs: []domain.RoomAllocation{alloc("Double", false, true, true)},
			want:   domain.DemandCounts{StudySuite: 1},
		},
		{
			name:   "single counts one bed",
			allocs: []domain.RoomAllocation{alloc("Single", false, false, false)},
			want:   domain.DemandCounts{SingleBB: 1},
		},
		{
			name:   "twin single counts two beds",
			allocs: []domain.RoomAllocation{alloc("Twin Single", false, false, false)},
			want:   domain.DemandCounts{SingleBB: 2},
		},
		{
			name:   "twin single with extra bed counts three",
			allocs: []domain.RoomAllocation{alloc("Twin Single", true, false, false)},
			want:   domain.DemandCounts{SingleBB: 3},
		},
		{
			name: "mixed booking",
			allocs: []domain.RoomAllocation{
				alloc("Double", false, true, true),
				alloc("Double", false, true, false),
				alloc("Double", false, false, false),
				alloc("Single", false, false, false),
				alloc("Twin Single", true, false, false),
			},
			want: domain.DemandCounts{DoubleBB: 1, SingleBB: 4, StudySuite: 1, DoubleEnsuite: 1},
		},
		{
			name:   "unknown type without flags counts nothing",
			allocs: []domain.RoomAllocation{alloc("Dormitory", false, false, false)},
			want:   domain.DemandCounts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.allocs))
		})
	}
}

func TestPoolDraw(t *testing.T) {
	counts := domain.DemandCounts{DoubleBB: 3, SingleBB: 2, StudySuite: 2, DoubleEnsuite: 4}
	require.Equal(t, 6, counts.PoolDraw())
}

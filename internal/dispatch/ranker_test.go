package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balaji0322/smart-ai-triage/pkg/geo"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

var testOrigin = types.Coordinate{Lat: 37.7700, Lng: -122.4400}

func TestRank_EmptyCatalog(t *testing.T) {
	ranker := NewRanker(testOrigin, 2.0)

	ranked := ranker.Rank(nil, "Cardiology")
	assert.Empty(t, ranked)

	ranked = ranker.Rank([]types.Hospital{}, "Cardiology")
	assert.Empty(t, ranked)
}

func TestRank_OutputIsPermutationWithDistances(t *testing.T) {
	ranker := NewRanker(testOrigin, 2.0)

	ranked := ranker.Rank(defaultCatalog, "Neurology")
	require.Len(t, ranked, len(defaultCatalog))

	seen := make(map[string]bool)
	for _, rh := range ranked {
		seen[rh.ID] = true
		assert.GreaterOrEqual(t, rh.Distance, 0.0)
	}
	for _, h := range defaultCatalog {
		assert.True(t, seen[h.ID], "hospital %s missing from ranking", h.ID)
	}
}

func TestRank_ClosestFirstWithoutMatches(t *testing.T) {
	hospitals := []types.Hospital{
		{ID: "far", Coordinates: types.Coordinate{Lat: 37.8200, Lng: -122.4400}},
		{ID: "near", Coordinates: types.Coordinate{Lat: 37.7750, Lng: -122.4400}},
	}

	ranker := NewRanker(testOrigin, 2.0)
	ranked := ranker.Rank(hospitals, "Oncology")

	assert.Equal(t, "near", ranked[0].ID)
	assert.Equal(t, "far", ranked[1].ID)
	assert.False(t, ranked[0].Recommended)
}

// A specialty match outranks a strictly closer non-matching hospital when
// the distance gap is smaller than the bonus.
func TestRank_SpecialtyMatchOutranksSmallDistanceGap(t *testing.T) {
	stMary := types.Hospital{
		ID:          "HOSP-003",
		Name:        "St. Mary Heart Institute",
		Coordinates: types.Coordinate{Lat: 37.7849, Lng: -122.4094},
		Specialties: []string{"Cardiology", "Thoracic Surgery"},
	}

	stMaryDist := geo.Distance(testOrigin.Lat, testOrigin.Lng, stMary.Coordinates.Lat, stMary.Coordinates.Lng)

	// Synthetic hospital roughly 0.5 km closer, no matching specialty. Due
	// north of the origin so the distance is easy to control: 1 degree of
	// latitude is ~111.19 km.
	closerDist := stMaryDist - 0.5
	closer := types.Hospital{
		ID:          "SYNTH-001",
		Name:        "Closer General",
		Coordinates: types.Coordinate{Lat: testOrigin.Lat + closerDist/111.19, Lng: testOrigin.Lng},
		Specialties: []string{"Dermatology"},
	}

	ranker := NewRanker(testOrigin, 2.0)
	ranked := ranker.Rank([]types.Hospital{closer, stMary}, "Cardiology")

	require.Len(t, ranked, 2)
	assert.Equal(t, "HOSP-003", ranked[0].ID)
	assert.True(t, ranked[0].Recommended)
	assert.False(t, ranked[1].Recommended)
	assert.Less(t, ranked[1].Distance, ranked[0].Distance, "the losing hospital is strictly closer")
}

func TestRank_BonusCanProduceNegativeScore(t *testing.T) {
	near := types.Hospital{
		ID:          "near-match",
		Coordinates: types.Coordinate{Lat: 37.7705, Lng: -122.4400}, // well under 2 km away
		Specialties: []string{"Cardiology"},
	}

	ranker := NewRanker(testOrigin, 2.0)
	ranked := ranker.Rank([]types.Hospital{near}, "Cardiology")

	require.Len(t, ranked, 1)
	assert.Negative(t, ranked[0].Score)
	assert.GreaterOrEqual(t, ranked[0].Distance, 0.0)
}

func TestRank_SubstringMatchIsCaseSensitive(t *testing.T) {
	h := types.Hospital{
		ID:          "h1",
		Coordinates: types.Coordinate{Lat: 37.7749, Lng: -122.4194},
		Specialties: []string{"Cardiology"},
	}

	ranker := NewRanker(testOrigin, 2.0)

	ranked := ranker.Rank([]types.Hospital{h}, "Interventional Cardiology")
	assert.True(t, ranked[0].Recommended, "department containing the specialty matches")

	ranked = ranker.Rank([]types.Hospital{h}, "cardiology")
	assert.False(t, ranked[0].Recommended, "case must not be folded")
}

func TestRank_StableTieBreak(t *testing.T) {
	a := types.Hospital{ID: "a", Coordinates: types.Coordinate{Lat: 37.7800, Lng: -122.4400}}
	b := types.Hospital{ID: "b", Coordinates: types.Coordinate{Lat: 37.7800, Lng: -122.4400}}

	ranker := NewRanker(testOrigin, 2.0)
	ranked := ranker.Rank([]types.Hospital{a, b}, "Emergency")

	assert.Equal(t, "a", ranked[0].ID)
	assert.Equal(t, "b", ranked[1].ID)
}

func TestRank_ConfigurableBonus(t *testing.T) {
	match := types.Hospital{
		ID:          "match",
		Coordinates: types.Coordinate{Lat: 37.8100, Lng: -122.4400}, // farther
		Specialties: []string{"Neurology"},
	}
	closer := types.Hospital{
		ID:          "plain",
		Coordinates: types.Coordinate{Lat: 37.7900, Lng: -122.4400},
	}

	// With no bonus the plain hospital wins on distance alone.
	ranked := NewRanker(testOrigin, 0).Rank([]types.Hospital{match, closer}, "Neurology")
	assert.Equal(t, "plain", ranked[0].ID)

	// A large enough bonus flips the order.
	ranked = NewRanker(testOrigin, 10).Rank([]types.Hospital{match, closer}, "Neurology")
	assert.Equal(t, "match", ranked[0].ID)
}

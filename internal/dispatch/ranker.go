package dispatch

import (
	"sort"
	"strings"

	"github.com/balaji0322/smart-ai-triage/pkg/geo"
	"github.com/balaji0322/smart-ai-triage/pkg/types"
)

// Ranker orders candidate hospitals by suitability for a recommended
// department, seen from a fixed origin (the ambulance's position).
type Ranker struct {
	origin  types.Coordinate
	bonusKm float64
}

// NewRanker creates a ranker. bonusKm is subtracted from the distance score
// of specialty-matching hospitals; it shares the km scale of distance.
func NewRanker(origin types.Coordinate, bonusKm float64) *Ranker {
	return &Ranker{
		origin:  origin,
		bonusKm: bonusKm,
	}
}

// Rank annotates each hospital with its distance from the origin and sorts
// ascending by score, where score is distance minus the specialty bonus for
// hospitals whose specialty matches the recommended department. A matching
// hospital can therefore outrank a strictly closer one when the distance gap
// is smaller than the bonus; negative scores are legal. The sort is stable,
// so ties keep catalog order. An empty input yields an empty result.
func (r *Ranker) Rank(hospitals []types.Hospital, department string) []types.RankedHospital {
	ranked := make([]types.RankedHospital, 0, len(hospitals))

	for _, h := range hospitals {
		h.Distance = geo.Distance(r.origin.Lat, r.origin.Lng, h.Coordinates.Lat, h.Coordinates.Lng)

		score := h.Distance
		matched := specialtyMatch(h.Specialties, department)
		if matched {
			score -= r.bonusKm
		}

		ranked = append(ranked, types.RankedHospital{
			Hospital:    h,
			Score:       score,
			Recommended: matched,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})

	return ranked
}

// specialtyMatch reports whether any specialty tag is a substring of the
// recommended department. The comparison is case-sensitive by contract.
func specialtyMatch(specialties []string, department string) bool {
	for _, s := range specialties {
		if strings.Contains(department, s) {
			return true
		}
	}
	return false
}

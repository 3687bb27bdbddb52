// Package selection picks a cup team from a roster.
//
// A team has TeamSize players and must contain every available captain's
// pick. Its official index is the sum of its players' indices where at most
// MaxAssimilated players above AssimilationCeiling are counted at the
// ceiling. Among all teams whose official index reaches Threshold, the
// selector keeps the one closest to it. When no team qualifies it falls back
// to the TeamSize lowest-index available players, captain's picks or not.
package selection

import (
	"cmp"
	"slices"

	"github.com/photogolffrance/coupe-hdf-app/internal/config"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
)

// epsilon absorbs binary rounding in index sums. Totals that are exactly
// the threshold in decimal, such as 84.4, can land a hair below it in float64
// and must still qualify. Ties between official totals use it too.
const epsilon = 1e-9

// Rules are the selection constants.
type Rules struct {
	TeamSize            int
	Threshold           float64
	AssimilationCeiling float64
	MaxAssimilated      int
	// MaxCandidates refuses searches over more teams than this. 0 disables it.
	MaxCandidates int64
}

// DefaultRules returns the federation rules: 9 players, official index of at
// least 84.4, at most two players counted at 18.4.
func DefaultRules() Rules {
	return RulesFromConfig(config.Default().Selection)
}

// RulesFromConfig converts the selection section of the configuration.
func RulesFromConfig(c config.SelectionConfig) Rules {
	return Rules{
		TeamSize:            c.TeamSize,
		Threshold:           c.Threshold,
		AssimilationCeiling: c.AssimilationCeiling,
		MaxAssimilated:      c.MaxAssimilated,
		MaxCandidates:       c.MaxCandidates,
	}
}

// Score is the evaluation of one team.
type Score struct {
	// Real is the plain sum of indices.
	Real float64
	// Official is Real with the assimilated players counted at the ceiling.
	Official float64
	// Assimilated lists the capped players, highest index first.
	Assimilated []roster.Player
}

// Score evaluates team. The highest indices above the ceiling are capped,
// up to MaxAssimilated of them.
func (r Rules) Score(team []roster.Player) Score {
	var s Score
	var high []roster.Player
	for _, p := range team {
		s.Real += p.Index
		if p.Index > r.AssimilationCeiling {
			high = append(high, p)
		}
	}

	slices.SortStableFunc(high, func(a, b roster.Player) int {
		return cmp.Compare(b.Index, a.Index)
	})
	values := make([]float64, len(high))
	for i, p := range high {
		values[i] = p.Index
	}

	var n int
	s.Official, n = r.official(s.Real, values)
	if n > 0 {
		s.Assimilated = high[:n:n]
	}
	return s
}

// official applies the assimilation rule to a team with index total sum and
// the indices above the ceiling in high, which it sorts highest first. It
// returns the official total and the number of capped indices. Score and the
// search both go through it.
func (r Rules) official(sum float64, high []float64) (float64, int) {
	slices.SortFunc(high, func(a, b float64) int { return cmp.Compare(b, a) })
	n := min(max(r.MaxAssimilated, 0), len(high))
	off := sum
	for _, v := range high[:n] {
		off -= v
	}
	return off + r.AssimilationCeiling*float64(n), n
}

// Qualifies reports whether an official index reaches the threshold.
func (r Rules) Qualifies(official float64) bool {
	return official >= r.Threshold-epsilon
}

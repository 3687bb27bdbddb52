package selection

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
)

// checkEvery is how many candidates are scored between context checks.
const checkEvery = 1 << 12

// Result is the outcome of a selection.
type Result struct {
	// Team is sorted by ascending index; equal indices keep roster order.
	Team  []roster.Player
	Score Score
	// Fallback is set when no team reached the threshold and the lowest
	// indices were taken instead. Captain's picks are not enforced then.
	Fallback bool
	// Qualified reports whether Score.Official reaches the threshold.
	Qualified bool
	// Candidates is the number of teams evaluated.
	Candidates int64
	Rules      Rules
}

// Selector chooses teams under a fixed set of rules.
// It holds no state between calls and is safe for concurrent use.
type Selector struct {
	rules  Rules
	logger *logging.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for debug traces of the search.
func WithLogger(l *logging.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSelector creates a Selector.
func NewSelector(rules Rules, opts ...Option) *Selector {
	s := &Selector{
		rules:  rules,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the rules the selector applies.
func (s *Selector) Rules() Rules {
	return s.rules
}

// SelectTeam runs Select and renders the result as a text report.
func (s *Selector) SelectTeam(ctx context.Context, players []roster.Player) (string, error) {
	res, err := s.Select(ctx, players)
	if err != nil {
		return "", err
	}
	return FormatReport(res), nil
}

// Select picks a team from players. The input is not modified.
//
// It fails with ErrInsufficientAvailablePlayers when fewer than TeamSize
// players are available, ErrTooManyCaptainPicks when more than TeamSize
// available players are captain's picks, and ErrSearchTooLarge when the
// number of teams to evaluate exceeds MaxCandidates.
func (s *Selector) Select(ctx context.Context, players []roster.Player) (*Result, error) {
	r := s.rules
	if r.TeamSize < 1 {
		return nil, errors.NewValidationError("team size must be at least 1").WithField("team_size").WithValue(r.TeamSize)
	}

	eligible := roster.Available(players)
	if len(eligible) < r.TeamSize {
		return nil, errors.NewSelectionError(
			fmt.Sprintf("fewer than %d available players", r.TeamSize),
			errors.ErrInsufficientAvailablePlayers,
		).WithAvailable(len(eligible)).WithTeamSize(r.TeamSize)
	}

	var mandatory, optional []roster.Player
	for _, p := range eligible {
		if p.CaptainPick {
			mandatory = append(mandatory, p)
		} else {
			optional = append(optional, p)
		}
	}
	if len(mandatory) > r.TeamSize {
		return nil, errors.NewSelectionError(
			fmt.Sprintf("too many captain's picks (max %d)", r.TeamSize),
			errors.ErrTooManyCaptainPicks,
		).WithCaptainPicks(len(mandatory)).WithTeamSize(r.TeamSize)
	}

	k := r.TeamSize - len(mandatory)
	total := binomial(len(optional), k)
	if r.MaxCandidates > 0 && total.Cmp(bigInt(r.MaxCandidates)) > 0 {
		return nil, errors.NewSelectionError(
			fmt.Sprintf("too many possible teams to evaluate (%s, limit %d)", total.String(), r.MaxCandidates),
			errors.ErrSearchTooLarge,
		).WithAvailable(len(eligible)).WithCaptainPicks(len(mandatory)).WithTeamSize(r.TeamSize)
	}

	s.logger.Debug("selection started",
		"available", len(eligible),
		"captain_picks", len(mandatory),
		"k", k,
		"candidates", total.String(),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chosen, found, candidates, err := s.search(ctx, mandatory, optional, k)
	if err != nil {
		return nil, err
	}

	res := &Result{Candidates: candidates, Rules: r}
	if found {
		// Captain's picks come first so they lead among equal indices.
		res.Team = make([]roster.Player, 0, r.TeamSize)
		res.Team = append(res.Team, mandatory...)
		for _, i := range chosen {
			res.Team = append(res.Team, optional[i])
		}
	} else {
		res.Fallback = true
		res.Team = slices.Clone(eligible)
		slices.SortStableFunc(res.Team, byIndex)
		res.Team = res.Team[:r.TeamSize]
		s.logger.Debug("no team reached the threshold, using lowest indices",
			"threshold", r.Threshold,
		)
	}

	slices.SortStableFunc(res.Team, byIndex)
	res.Score = r.Score(res.Team)
	res.Qualified = r.Qualifies(res.Score.Official)

	s.logger.Debug("selection finished",
		"real", res.Score.Real,
		"official", res.Score.Official,
		"fallback", res.Fallback,
		"evaluated", res.Candidates,
	)
	return res, nil
}

// search evaluates mandatory ∪ S for every k-subset S of optional and returns
// the positions in optional of the best qualifying S. found is false when no
// team qualifies.
func (s *Selector) search(ctx context.Context, mandatory, optional []roster.Player, k int) (chosen []int, found bool, candidates int64, err error) {
	r := s.rules

	var baseReal float64
	var baseHigh []float64
	for _, p := range mandatory {
		baseReal += p.Index
		if p.Index > r.AssimilationCeiling {
			baseHigh = append(baseHigh, p.Index)
		}
	}

	var (
		bestOff  float64
		bestReal float64
		bestIdx  = make([]int, k)
		bestKey  []string
		ctxErr   error
		high     = make([]float64, 0, r.TeamSize)
	)

	combinations(len(optional), k, func(idx []int) bool {
		candidates++
		if candidates%checkEvery == 0 {
			if ctxErr = ctx.Err(); ctxErr != nil {
				return false
			}
		}

		sum := baseReal
		high = append(high[:0], baseHigh...)
		for _, i := range idx {
			v := optional[i].Index
			sum += v
			if v > r.AssimilationCeiling {
				high = append(high, v)
			}
		}
		off, _ := r.official(sum, high)
		if !r.Qualifies(off) {
			return true
		}

		var key []string
		better := false
		switch {
		case !found || off < bestOff-epsilon:
			better = true
		case math.Abs(off-bestOff) <= epsilon:
			if sum < bestReal-epsilon {
				better = true
			} else if math.Abs(sum-bestReal) <= epsilon {
				if bestKey == nil {
					bestKey = teamKey(mandatory, optional, bestIdx)
				}
				key = teamKey(mandatory, optional, idx)
				better = slices.Compare(key, bestKey) < 0
			}
		}
		if better {
			found = true
			bestOff, bestReal = off, sum
			bestKey = key
			copy(bestIdx, idx)
		}
		return true
	})

	if ctxErr != nil {
		return nil, false, candidates, ctxErr
	}
	if !found {
		return nil, false, candidates, nil
	}
	return bestIdx, true, candidates, nil
}

// teamKey is the sorted list of player keys, used to order tied teams.
func teamKey(mandatory, optional []roster.Player, idx []int) []string {
	key := make([]string, 0, len(mandatory)+len(idx))
	for _, p := range mandatory {
		key = append(key, p.Key())
	}
	for _, i := range idx {
		key = append(key, optional[i].Key())
	}
	slices.Sort(key)
	return key
}

func byIndex(a, b roster.Player) int {
	return cmp.Compare(a.Index, b.Index)
}

func bigInt(n int64) *big.Int {
	return big.NewInt(n)
}

// TeamNames joins the names of a team, for logs and short messages.
func TeamNames(team []roster.Player) string {
	names := make([]string, len(team))
	for i, p := range team {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

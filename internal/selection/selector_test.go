package selection

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
)

// players builds available, non-captain players p01, p02, ... with the given indices.
func players(indices ...float64) []roster.Player {
	out := make([]roster.Player, len(indices))
	for i, idx := range indices {
		id := fmt.Sprintf("p%02d", i+1)
		out[i] = roster.Player{ID: id, Name: "Player " + id, Index: idx, Available: true}
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ids(team []roster.Player) []string {
	out := make([]string, len(team))
	for i, p := range team {
		out[i] = p.ID
	}
	return out
}

func contains(team []roster.Player, id string) bool {
	return slices.Contains(ids(team), id)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func selectDefault(t *testing.T, ps []roster.Player) *Result {
	t.Helper()
	res, err := NewSelector(DefaultRules()).Select(context.Background(), ps)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	return res
}

// checkInvariants asserts the properties every result must satisfy.
func checkInvariants(t *testing.T, r Rules, input []roster.Player, res *Result) {
	t.Helper()

	if len(res.Team) != r.TeamSize {
		t.Fatalf("team has %d players, want %d", len(res.Team), r.TeamSize)
	}
	seen := map[string]bool{}
	for _, p := range res.Team {
		if seen[p.ID] {
			t.Errorf("player %s selected twice", p.ID)
		}
		seen[p.ID] = true
		if !p.Available {
			t.Errorf("unavailable player %s selected", p.ID)
		}
	}
	for i := 1; i < len(res.Team); i++ {
		if res.Team[i-1].Index > res.Team[i].Index {
			t.Errorf("team not sorted by index: %v", ids(res.Team))
		}
	}
	if !res.Fallback {
		for _, p := range roster.CaptainPicks(input) {
			if !seen[p.ID] {
				t.Errorf("captain's pick %s missing from a non-fallback team", p.ID)
			}
		}
	}
	if res.Score.Official > res.Score.Real+1e-9 {
		t.Errorf("official %v exceeds real %v", res.Score.Official, res.Score.Real)
	}
	if len(res.Score.Assimilated) > r.MaxAssimilated {
		t.Errorf("%d players assimilated, max %d", len(res.Score.Assimilated), r.MaxAssimilated)
	}
	for _, p := range res.Score.Assimilated {
		if p.Index <= r.AssimilationCeiling {
			t.Errorf("assimilated player %s has index %v <= ceiling", p.ID, p.Index)
		}
	}
	if res.Qualified != r.Qualifies(res.Score.Official) {
		t.Errorf("Qualified = %v for official %v", res.Qualified, res.Score.Official)
	}
}

func TestSelect_InsufficientAvailablePlayers(t *testing.T) {
	tests := []struct {
		name   string
		roster []roster.Player
	}{
		{"empty roster", nil},
		{"eight available", players(repeat(10, 8)...)},
		{"unavailable players do not count", func() []roster.Player {
			ps := players(repeat(10, 12)...)
			for i := range ps[:4] {
				ps[i].Available = false
			}
			return ps
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelector(DefaultRules())
			res, err := sel.Select(context.Background(), tt.roster)
			if !errors.Is(err, errors.ErrInsufficientAvailablePlayers) {
				t.Fatalf("Select() error = %v, want ErrInsufficientAvailablePlayers", err)
			}
			if res != nil {
				t.Error("Select() should not return a result on error")
			}
			if !errors.IsUserFacing(err) {
				t.Error("error should be user-facing")
			}
			if got := errors.UserMessage(err); got != "fewer than 9 available players" {
				t.Errorf("UserMessage() = %q", got)
			}

			report, err := sel.SelectTeam(context.Background(), tt.roster)
			if report != "" || err == nil {
				t.Errorf("SelectTeam() = %q, %v; want no report and an error", report, err)
			}
		})
	}
}

func TestSelect_TooManyCaptainPicks(t *testing.T) {
	ps := players(repeat(10, 12)...)
	for i := range ps[:10] {
		ps[i].CaptainPick = true
	}

	_, err := NewSelector(DefaultRules()).Select(context.Background(), ps)
	if !errors.Is(err, errors.ErrTooManyCaptainPicks) {
		t.Fatalf("Select() error = %v, want ErrTooManyCaptainPicks", err)
	}
	if got := errors.UserMessage(err); got != "too many captain's picks (max 9)" {
		t.Errorf("UserMessage() = %q", got)
	}

	var selErr *errors.SelectionError
	if !errors.As(err, &selErr) || selErr.CaptainPicks != 10 {
		t.Errorf("SelectionError.CaptainPicks = %v", selErr)
	}
}

func TestSelect_UnavailableCaptainPicksIgnored(t *testing.T) {
	ps := players(repeat(10, 12)...)
	for i := range ps[:10] {
		ps[i].CaptainPick = true
	}
	ps[0].Available = false // 9 eligible picks remain

	res := selectDefault(t, ps)
	checkInvariants(t, DefaultRules(), ps, res)
	if contains(res.Team, "p01") {
		t.Error("unavailable captain's pick must not be selected")
	}
	if res.Candidates != 1 {
		t.Errorf("Candidates = %d, want 1 when picks fill the team", res.Candidates)
	}
}

// Nine available players at 9.0: 81.0 is below 84.4, so the fallback team is
// the same nine players and the report announces the failure.
func TestSelect_WorkedExample_AllNines(t *testing.T) {
	ps := players(repeat(9.0, 9)...)
	res := selectDefault(t, ps)
	checkInvariants(t, DefaultRules(), ps, res)

	if !res.Fallback {
		t.Error("expected the fallback path")
	}
	if res.Qualified {
		t.Error("81.0 should not qualify")
	}
	if !approx(res.Score.Real, 81.0) || !approx(res.Score.Official, 81.0) {
		t.Errorf("score = %+v, want 81.0 / 81.0", res.Score)
	}
	if len(res.Score.Assimilated) != 0 {
		t.Errorf("no index exceeds 18.4, got %d assimilated", len(res.Score.Assimilated))
	}
	if res.Candidates != 1 {
		t.Errorf("Candidates = %d, want 1", res.Candidates)
	}

	report := FormatReport(res)
	for _, want := range []string{
		"Real total index: 81.0",
		"Official total index: 81.0",
		"❌ Below 84.4",
		"Player p01 - Index 9.0 ✅",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

// One captain's pick at 25.0 and nine players at 9.0: k = 8 and the pick is
// assimilated to 18.4.
func TestSelect_WorkedExample_CaptainAssimilated(t *testing.T) {
	ps := append([]roster.Player{{ID: "cap", Name: "Captain", Index: 25.0, Available: true, CaptainPick: true}},
		players(repeat(9.0, 9)...)...)
	res := selectDefault(t, ps)
	checkInvariants(t, DefaultRules(), ps, res)

	if res.Fallback {
		t.Fatal("a qualifying team exists, fallback should not be used")
	}
	if res.Candidates != 9 {
		t.Errorf("Candidates = %d, want C(9,8) = 9", res.Candidates)
	}
	if !contains(res.Team, "cap") {
		t.Error("captain's pick must be selected")
	}

	wantReal := 25.0 + 8*9.0
	wantOfficial := wantReal - 25.0 + 18.4
	if !approx(res.Score.Real, wantReal) {
		t.Errorf("Real = %v, want %v", res.Score.Real, wantReal)
	}
	if !approx(res.Score.Official, wantOfficial) {
		t.Errorf("Official = %v, want %v", res.Score.Official, wantOfficial)
	}
	if len(res.Score.Assimilated) != 1 || res.Score.Assimilated[0].ID != "cap" {
		t.Errorf("Assimilated = %+v, want the captain only", res.Score.Assimilated)
	}

	// All nine candidates tie; the smallest sorted ID list drops p09.
	if contains(res.Team, "p09") {
		t.Errorf("tie-break should exclude p09, team = %v", ids(res.Team))
	}
	if res.Team[len(res.Team)-1].ID != "cap" {
		t.Errorf("highest index should come last, team = %v", ids(res.Team))
	}
}

func TestSelect_ClosestAboveThreshold(t *testing.T) {
	// Dropping 13.0 gives 84.5, dropping 12.5 gives 85.0, dropping a 9.0 gives 88.5.
	ps := players(append(repeat(9.0, 8), 12.5, 13.0)...)
	res := selectDefault(t, ps)
	checkInvariants(t, DefaultRules(), ps, res)

	if !approx(res.Score.Official, 84.5) {
		t.Errorf("Official = %v, want 84.5", res.Score.Official)
	}
	if contains(res.Team, "p10") {
		t.Error("the 13.0 player should be left out")
	}
}

func TestSelect_ThresholdReachedExactly(t *testing.T) {
	// 8 × 9.4 + 9.2 is 84.4 in decimal but not in binary floating point.
	ps := players(append(repeat(9.4, 8), 9.2)...)
	res := selectDefault(t, ps)

	if res.Fallback || !res.Qualified {
		t.Errorf("84.4 should reach the threshold (official %v)", res.Score.Official)
	}
	if !strings.Contains(FormatReport(res), "✅ Target reached (≥ 84.4)") {
		t.Errorf("report should announce success:\n%s", FormatReport(res))
	}
}

func TestSelect_TieBreakLowerReal(t *testing.T) {
	// Leaving out 30.0 or 18.4 both give an official 84.4; keeping 18.4 has
	// the lower real total.
	ps := players(append(repeat(8.25, 8), 18.4, 30.0)...)
	res := selectDefault(t, ps)
	checkInvariants(t, DefaultRules(), ps, res)

	if !approx(res.Score.Official, 84.4) {
		t.Errorf("Official = %v, want 84.4", res.Score.Official)
	}
	if !contains(res.Team, "p09") || contains(res.Team, "p10") {
		t.Errorf("team = %v, want the 18.4 player and not the 30.0 player", ids(res.Team))
	}
	if !approx(res.Score.Real, 84.4) {
		t.Errorf("Real = %v, want 84.4", res.Score.Real)
	}
}

func TestSelect_TieBreakByNameWithoutIDs(t *testing.T) {
	ps := players(repeat(10, 10)...)
	for i := range ps {
		ps[i].ID = ""
	}
	ps[0].Name = "Zoé"

	res := selectDefault(t, ps)
	for _, p := range res.Team {
		if p.Name == "Zoé" {
			t.Errorf("Zoé sorts last and should be the one left out")
		}
	}
}

func TestSelect_FallbackIgnoresCaptainPicks(t *testing.T) {
	// With the 30.0 pick every team sums to 58.4 officially, far below 84.4.
	ps := append(players(repeat(5.0, 9)...),
		roster.Player{ID: "cap", Name: "Captain", Index: 30.0, Available: true, CaptainPick: true})
	res := selectDefault(t, ps)
	checkInvariants(t, DefaultRules(), ps, res)

	if !res.Fallback {
		t.Fatal("expected the fallback path")
	}
	if contains(res.Team, "cap") {
		t.Error("fallback takes the lowest indices and leaves the pick out")
	}
	if !approx(res.Score.Real, 45.0) {
		t.Errorf("Real = %v, want 45.0", res.Score.Real)
	}
	if res.Candidates != 9 {
		t.Errorf("Candidates = %d, want 9", res.Candidates)
	}
	if !strings.Contains(FormatReport(res), "lowest indices") {
		t.Error("report should mention the fallback")
	}
}

func TestSelect_FallbackIsStable(t *testing.T) {
	// p01..p11 all at 5.0 except p05 at 1.0; the fallback keeps roster order
	// among equal indices.
	idx := repeat(5.0, 11)
	idx[4] = 1.0
	ps := players(idx...)
	res := selectDefault(t, ps)

	if !res.Fallback {
		t.Fatal("expected the fallback path")
	}
	want := []string{"p05", "p01", "p02", "p03", "p04", "p06", "p07", "p08", "p09"}
	if got := ids(res.Team); !slices.Equal(got, want) {
		t.Errorf("team = %v, want %v", got, want)
	}
}

func TestSelect_KZero(t *testing.T) {
	ps := players(repeat(10.0, 12)...)
	for i := range ps[:9] {
		ps[i].CaptainPick = true
	}
	res := selectDefault(t, ps)
	checkInvariants(t, DefaultRules(), ps, res)

	if res.Candidates != 1 || res.Fallback {
		t.Errorf("Candidates = %d, Fallback = %v; want a single qualifying candidate", res.Candidates, res.Fallback)
	}
	for _, p := range res.Team {
		if !p.CaptainPick {
			t.Errorf("team should be the nine picks, got %s", p.ID)
		}
	}
}

func TestSelect_DoesNotModifyInput(t *testing.T) {
	ps := players(20, 3, 15, 9, 9, 9, 30, 12, 11, 10, 8)
	ps[2].CaptainPick = true
	before := slices.Clone(ps)

	_ = selectDefault(t, ps)
	if !slices.Equal(ps, before) {
		t.Error("Select must not modify the roster")
	}
}

func TestSelect_SearchTooLarge(t *testing.T) {
	rules := DefaultRules()
	rules.MaxCandidates = 100
	ps := players(repeat(10, 12)...) // C(12, 9) = 220

	_, err := NewSelector(rules).Select(context.Background(), ps)
	if !errors.Is(err, errors.ErrSearchTooLarge) {
		t.Fatalf("Select() error = %v, want ErrSearchTooLarge", err)
	}

	rules.MaxCandidates = 0
	res, err := NewSelector(rules).Select(context.Background(), ps)
	if err != nil {
		t.Fatalf("disabled guard: Select() error = %v", err)
	}
	if res.Candidates != 220 {
		t.Errorf("Candidates = %d, want 220", res.Candidates)
	}
}

func TestSelect_DefaultSearchLimit(t *testing.T) {
	// The limit is checked before the context, so a cancelled context tells
	// whether the search would have run without enumerating it.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sel := NewSelector(DefaultRules())

	// C(28, 9) ≈ 6.9 million teams
	_, err := sel.Select(ctx, players(repeat(10, 28)...))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("28 players: Select() error = %v, want the search to start", err)
	}

	// C(40, 9) ≈ 273 million teams
	_, err = sel.Select(ctx, players(repeat(10, 40)...))
	if !errors.Is(err, errors.ErrSearchTooLarge) {
		t.Errorf("40 players: Select() error = %v, want ErrSearchTooLarge", err)
	}
}

func TestSelect_CaptainPickFirstAmongEqualIndices(t *testing.T) {
	rules := Rules{TeamSize: 2, Threshold: 20, AssimilationCeiling: 50, MaxAssimilated: 2}
	ps := []roster.Player{
		{ID: "a", Name: "Arnaud", Index: 10, Available: true},
		{ID: "b", Name: "Benoît", Index: 10, Available: true, CaptainPick: true},
		{ID: "c", Name: "Cyril", Index: 5, Available: true},
	}

	res, err := NewSelector(rules).Select(context.Background(), ps)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if res.Fallback {
		t.Fatal("b + a reaches 20, fallback should not be used")
	}
	if got, want := ids(res.Team), []string{"b", "a"}; !slices.Equal(got, want) {
		t.Errorf("team = %v, want %v", got, want)
	}
}

func TestSelect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSelector(DefaultRules()).Select(ctx, players(repeat(10, 20)...))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Select() error = %v, want context.Canceled", err)
	}
}

func TestSelect_InvalidTeamSize(t *testing.T) {
	rules := DefaultRules()
	rules.TeamSize = 0
	_, err := NewSelector(rules).Select(context.Background(), players(1, 2, 3))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Select() error = %v, want ErrInvalidInput", err)
	}
}

func TestSelect_CustomRules(t *testing.T) {
	rules := Rules{TeamSize: 3, Threshold: 30, AssimilationCeiling: 10, MaxAssimilated: 1}
	ps := players(5, 8, 12, 20, 25)

	res, err := NewSelector(rules).Select(context.Background(), ps)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	checkInvariants(t, rules, ps, res)

	want, ok := bruteForce(rules, ps)
	if !ok || !approx(res.Score.Official, want) {
		t.Errorf("Official = %v, want %v", res.Score.Official, want)
	}
}

// bruteForce returns the smallest qualifying official index over every team
// containing all available captain's picks.
func bruteForce(r Rules, ps []roster.Player) (float64, bool) {
	eligible := roster.Available(ps)
	best, found := 0.0, false
	n := len(eligible)
	for mask := 0; mask < 1<<n; mask++ {
		var team []roster.Player
		ok := true
		for i, p := range eligible {
			in := mask&(1<<i) != 0
			if p.CaptainPick && !in {
				ok = false
				break
			}
			if in {
				team = append(team, p)
			}
		}
		if !ok || len(team) != r.TeamSize {
			continue
		}
		off := r.Score(team).Official
		if r.Qualifies(off) && (!found || off < best) {
			best, found = off, true
		}
	}
	return best, found
}

func TestSelect_MatchesBruteForce(t *testing.T) {
	rules := DefaultRules()
	rng := rand.New(rand.NewPCG(42, 2024))

	for run := 0; run < 40; run++ {
		t.Run(fmt.Sprintf("run%02d", run), func(t *testing.T) {
			n := 9 + rng.IntN(6)
			ps := make([]roster.Player, n)
			for i := range ps {
				ps[i] = roster.Player{
					ID:          fmt.Sprintf("p%02d", i),
					Name:        fmt.Sprintf("P%02d", i),
					Index:       math.Round((rng.Float64()*38-2)*10) / 10,
					Available:   rng.IntN(8) != 0,
					CaptainPick: rng.IntN(6) == 0,
				}
			}

			res, err := NewSelector(rules).Select(context.Background(), ps)
			if err != nil {
				if errors.Is(err, errors.ErrInsufficientAvailablePlayers) && len(roster.Available(ps)) < rules.TeamSize {
					return
				}
				if errors.Is(err, errors.ErrTooManyCaptainPicks) && len(roster.CaptainPicks(ps)) > rules.TeamSize {
					return
				}
				t.Fatalf("Select() error = %v", err)
			}
			checkInvariants(t, rules, ps, res)

			want, ok := bruteForce(rules, ps)
			if ok {
				if res.Fallback {
					t.Fatalf("a qualifying team exists (official %v) but fallback was used", want)
				}
				if math.Abs(res.Score.Official-want) > 1e-6 {
					t.Errorf("Official = %v, brute force minimum = %v", res.Score.Official, want)
				}
				return
			}

			if !res.Fallback {
				t.Fatal("no team qualifies, fallback expected")
			}
			lowest := slices.Clone(roster.Available(ps))
			slices.SortStableFunc(lowest, byIndex)
			if got, want := ids(res.Team), ids(lowest[:rules.TeamSize]); !slices.Equal(got, want) {
				t.Errorf("fallback team = %v, want %v", got, want)
			}
		})
	}
}

func TestSelectTeam_Report(t *testing.T) {
	ps := append([]roster.Player{{ID: "cap", Name: "Captain", Index: 25.0, Available: true, CaptainPick: true}},
		players(repeat(9.0, 9)...)...)

	report, err := NewSelector(DefaultRules()).SelectTeam(context.Background(), ps)
	if err != nil {
		t.Fatalf("SelectTeam() error = %v", err)
	}
	for _, want := range []string{
		"SELECTION OF THE 9 PLAYERS",
		"Captain - Index 25.0 ✅",
		"Real total index: 97.0",
		"Official total index: 90.4",
		"Assimilated: Captain (25.0 → 18.4)",
		"✅ Target reached (≥ 84.4)",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "lowest indices") {
		t.Error("report should not mention the fallback")
	}
}

func TestTeamNames(t *testing.T) {
	if got := TeamNames(players(1, 2)); got != "Player p01, Player p02" {
		t.Errorf("TeamNames() = %q", got)
	}
}

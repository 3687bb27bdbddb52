package roster

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
)

// Add appends a validated player. A missing ID is generated.
func Add(players []Player, p Player) ([]Player, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = NewID()
	}
	out := slices.Clone(players)
	return append(out, p), nil
}

// Find returns the position of the player with the given ID.
func Find(players []Player, id string) (int, bool) {
	i := slices.IndexFunc(players, func(p Player) bool { return p.ID == id })
	return i, i >= 0
}

// FindByName returns the positions of every player whose name equals name,
// ignoring case and surrounding spaces.
func FindByName(players []Player, name string) []int {
	name = strings.TrimSpace(name)
	var out []int
	for i, p := range players {
		if strings.EqualFold(p.Name, name) {
			out = append(out, i)
		}
	}
	return out
}

// Lookup resolves a player reference given on the command line: an exact ID,
// a unique ID prefix, or a case-insensitive name. Ambiguous names are rejected
// since names are not unique.
func Lookup(players []Player, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, errors.NewValidationError("player reference must not be empty")
	}
	if i, ok := Find(players, ref); ok {
		return i, nil
	}

	matches := FindByName(players, ref)
	if len(matches) == 0 && len(ref) >= 4 {
		for i, p := range players {
			if strings.HasPrefix(p.ID, ref) {
				matches = append(matches, i)
			}
		}
	}

	switch len(matches) {
	case 0:
		return -1, errors.NewNotFoundError("player", ref)
	case 1:
		return matches[0], nil
	default:
		return -1, errors.NewValidationError("several players match, use the player ID").WithField("player").WithValue(ref)
	}
}

// Update applies fn to the player with the given ID and validates the result.
func Update(players []Player, id string, fn func(*Player)) ([]Player, error) {
	i, ok := Find(players, id)
	if !ok {
		return nil, errors.NewNotFoundError("player", id)
	}
	out := slices.Clone(players)
	p := out[i]
	fn(&p)
	p.ID = id
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out[i] = p
	return out, nil
}

// Remove deletes the player with the given ID.
func Remove(players []Player, id string) ([]Player, error) {
	i, ok := Find(players, id)
	if !ok {
		return nil, errors.NewNotFoundError("player", id)
	}
	out := slices.Clone(players)
	return slices.Delete(out, i, i+1), nil
}

// SortByName orders players by name, case-insensitively. The sort is stable.
func SortByName(players []Player) []Player {
	out := slices.Clone(players)
	slices.SortStableFunc(out, func(a, b Player) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// SortByIndex orders players by ascending index. The sort is stable.
func SortByIndex(players []Player) []Player {
	out := slices.Clone(players)
	slices.SortStableFunc(out, func(a, b Player) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return out
}

// Available returns the players flagged available, in roster order.
func Available(players []Player) []Player {
	var out []Player
	for _, p := range players {
		if p.Eligible() {
			out = append(out, p)
		}
	}
	return out
}

// CaptainPicks returns the available captain's picks, in roster order.
// Unavailable picks are never eligible and are left out.
func CaptainPicks(players []Player) []Player {
	var out []Player
	for _, p := range players {
		if p.Eligible() && p.CaptainPick {
			out = append(out, p)
		}
	}
	return out
}

// Match returns the players whose name matches a shell glob pattern,
// compared case-insensitively. An empty pattern matches everyone.
func Match(players []Player, pattern string) ([]Player, error) {
	if pattern == "" {
		return slices.Clone(players), nil
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, errors.NewValidationError("invalid name pattern").WithField("match").WithValue(pattern)
	}
	var out []Player
	for _, p := range players {
		if g.Match(strings.ToLower(p.Name)) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Reset returns an empty roster.
func Reset() []Player {
	return []Player{}
}

// EnsureIDs returns a copy of players where every entry has an ID.
func EnsureIDs(players []Player) []Player {
	out := slices.Clone(players)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = NewID()
		}
	}
	return out
}

package roster

import (
	"testing"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
)

func sample() []Player {
	return []Player{
		{ID: "id-1", Name: "Martin", Index: 12.5, Available: true},
		{ID: "id-2", Name: "dupont", Index: 4.1, Available: true, CaptainPick: true},
		{ID: "id-3", Name: "Bernard", Index: 24.0, Available: false, CaptainPick: true},
		{ID: "id-4", Name: "Arnaud", Index: 4.1, Available: true},
	}
}

func names(players []Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func equalNames(t *testing.T, got []Player, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Fatalf("names = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("names = %v, want %v", g, want)
		}
	}
}

func TestNew(t *testing.T) {
	p, err := New("  Léa  ", -1.2, true, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Name != "Léa" {
		t.Errorf("Name = %q, want trimmed", p.Name)
	}
	if p.ID == "" {
		t.Error("ID should be generated")
	}

	if _, err := New("   ", 10, true, false); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("New(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestAdd(t *testing.T) {
	players := sample()
	out, err := Add(players, Player{Name: "Zoé", Index: 30})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if len(players) != 4 {
		t.Error("Add() must not modify the input")
	}
	if len(out) != 5 || out[4].ID == "" {
		t.Errorf("Add() = %+v", out)
	}

	if _, err := Add(players, Player{Name: ""}); err == nil {
		t.Error("Add() should reject an empty name")
	}
}

func TestUpdate(t *testing.T) {
	players := sample()
	out, err := Update(players, "id-1", func(p *Player) {
		p.Index = 8
		p.ID = "hijack"
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if out[0].Index != 8 || out[0].ID != "id-1" {
		t.Errorf("Update() = %+v", out[0])
	}
	if players[0].Index != 12.5 {
		t.Error("Update() must not modify the input")
	}

	if _, err := Update(players, "missing", func(*Player) {}); !errors.Is(err, errors.ErrPlayerNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}
	if _, err := Update(players, "id-1", func(p *Player) { p.Name = " " }); err == nil {
		t.Error("Update() should validate the result")
	}
}

func TestRemove(t *testing.T) {
	players := sample()
	out, err := Remove(players, "id-2")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	equalNames(t, out, "Martin", "Bernard", "Arnaud")
	equalNames(t, players, "Martin", "dupont", "Bernard", "Arnaud")

	if _, err := Remove(players, "nope"); !errors.Is(err, errors.ErrPlayerNotFound) {
		t.Errorf("Remove(missing) error = %v", err)
	}
}

func TestLookup(t *testing.T) {
	players := append(sample(), Player{ID: "abcd-5", Name: "Martin", Index: 1})

	tests := []struct {
		name    string
		ref     string
		want    int
		wantErr error
	}{
		{"exact id", "id-3", 2, nil},
		{"name ignores case", "DUPONT", 1, nil},
		{"id prefix", "abcd", 4, nil},
		{"ambiguous name", "martin", -1, errors.ErrInvalidInput},
		{"unknown", "Nobody", -1, errors.ErrPlayerNotFound},
		{"empty", "  ", -1, errors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(players, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Lookup(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Lookup(%q) = %d, %v; want %d", tt.ref, got, err, tt.want)
			}
		})
	}
}

func TestSorts(t *testing.T) {
	players := sample()

	equalNames(t, SortByName(players), "Arnaud", "Bernard", "dupont", "Martin")
	// Stable: dupont precedes Arnaud in the input and both have 4.1.
	equalNames(t, SortByIndex(players), "dupont", "Arnaud", "Martin", "Bernard")
	equalNames(t, players, "Martin", "dupont", "Bernard", "Arnaud")
}

func TestAvailableAndCaptainPicks(t *testing.T) {
	players := sample()
	equalNames(t, Available(players), "Martin", "dupont", "Arnaud")
	equalNames(t, CaptainPicks(players), "dupont")
}

func TestMatch(t *testing.T) {
	players := sample()

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"Martin", "dupont", "Bernard", "Arnaud"}},
		{"*ar*", []string{"Martin", "Bernard", "Arnaud"}},
		{"D*", []string{"dupont"}},
		{"?rnaud", []string{"Arnaud"}},
		{"x*", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Match(players, tt.pattern)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			equalNames(t, got, tt.want...)
		})
	}

	if _, err := Match(players, "[a"); err == nil {
		t.Error("Match() should reject an invalid pattern")
	}
}

func TestResetAndEnsureIDs(t *testing.T) {
	if got := Reset(); got == nil || len(got) != 0 {
		t.Errorf("Reset() = %v", got)
	}

	players := []Player{{Name: "A"}, {ID: "keep", Name: "B"}}
	out := EnsureIDs(players)
	if out[0].ID == "" || out[1].ID != "keep" {
		t.Errorf("EnsureIDs() = %+v", out)
	}
	if players[0].ID != "" {
		t.Error("EnsureIDs() must not modify the input")
	}
}

func TestKey(t *testing.T) {
	if got := (Player{ID: "x", Name: "n"}).Key(); got != "x" {
		t.Errorf("Key() = %q", got)
	}
	if got := (Player{Name: "n"}).Key(); got != "n" {
		t.Errorf("Key() = %q", got)
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.4", 12.4, false},
		{"12,4", 12.4, false},
		{" 9 ", 9, false},
		{"-1,5", -1.5, false},
		{"", 0, true},
		{"douze", 0, true},
		{"1,2,3", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
		{"-Infinity", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseIndex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIndex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("ParseIndex(%q) error = %v, want a validation error", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseIndex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

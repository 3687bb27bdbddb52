// Package roster holds the player model and the editing operations applied to
// a roster snapshot. Operations never modify their input slice; they return a
// new slice so that callers can hand the previous snapshot to the selector
// while an edit is in flight.
package roster

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
)

// Player is a single roster entry.
type Player struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Index       float64 `json:"index" yaml:"index"`
	Available   bool    `json:"available" yaml:"available"`
	CaptainPick bool    `json:"captain_pick" yaml:"captain_pick"`
}

// New builds a validated player with a fresh ID. The name is trimmed.
func New(name string, index float64, available, captainPick bool) (Player, error) {
	p := Player{
		ID:          NewID(),
		Name:        strings.TrimSpace(name),
		Index:       index,
		Available:   available,
		CaptainPick: captainPick,
	}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

// NewID returns a new random player identifier.
func NewID() string {
	return uuid.NewString()
}

// ParseIndex reads an index typed by a person. A decimal comma is accepted.
func ParseIndex(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, errors.NewValidationError("index is not a number").WithField("index").WithValue(s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.NewValidationError("index must be a finite number").WithField("index").WithValue(s)
	}
	return f, nil
}

// Validate checks the fields a player must satisfy to be stored.
func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewValidationError("player name must not be empty").WithField("name")
	}
	if math.IsNaN(p.Index) || math.IsInf(p.Index, 0) {
		return errors.NewValidationError("index must be a finite number").WithField("index").WithValue(p.Index)
	}
	return nil
}

// Eligible reports whether the player can be selected.
func (p Player) Eligible() bool {
	return p.Available
}

// Key identifies the player for deterministic ordering: the ID when set,
// otherwise the name.
func (p Player) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Name
}

package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/photogolffrance/coupe-hdf-app/internal/errors"
)

// Field aliases accepted by Decode. The second name of each pair is the
// schema of the original joueurs.json files.
var (
	nameKeys      = []string{"name", "nom"}
	indexKeys     = []string{"index", "handicap_index"}
	availableKeys = []string{"available", "dispo"}
	captainKeys   = []string{"captain_pick", "capitaine"}
)

// Decode parses a roster document. It accepts a bare array of players or an
// object holding them under "players", in either the native or the original
// French field names. Indices may be numbers or strings, with a decimal point
// or comma. Missing flags decode as false. Players without an ID get one.
// Any invalid player fails the whole document; use DecodeRows to skip them.
func Decode(data []byte) ([]Player, error) {
	players, skipped, err := DecodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		return nil, skipped[0]
	}
	return players, nil
}

// RowError describes a player entry that DecodeRows left out.
type RowError struct {
	Row int // 1-based position in the document
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("player %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// DecodeRows parses a roster document like Decode but keeps going past
// invalid players, returning them as RowErrors. Blank rows left by a
// spreadsheet-style editor (no name, null or NaN index) end up there. Only a
// document that is not a JSON list of players returns an error.
func DecodeRows(data []byte) ([]Player, []*RowError, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Player{}, nil, nil
	}
	data = quoteNonFinite(data)
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("%w: invalid JSON", errors.ErrRosterCorrupted)
	}

	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("players")
	}
	if !list.IsArray() {
		return nil, nil, fmt.Errorf("%w: expected an array of players", errors.ErrRosterCorrupted)
	}

	items := list.Array()
	players := make([]Player, 0, len(items))
	var skipped []*RowError
	for i, item := range items {
		p, err := decodePlayer(item)
		if err != nil {
			skipped = append(skipped, &RowError{Row: i + 1, Err: err})
			continue
		}
		players = append(players, p)
	}
	return players, skipped, nil
}

func decodePlayer(item gjson.Result) (Player, error) {
	if !item.IsObject() {
		return Player{}, errors.NewValidationError("player must be an object").WithValue(item.Raw)
	}

	name := strings.TrimSpace(first(item, nameKeys).String())
	if name == "" {
		return Player{}, errors.NewValidationError("player name must not be empty").WithField("name")
	}
	idx, err := decodeIndex(first(item, indexKeys))
	if err != nil {
		return Player{}, err
	}

	p := Player{
		ID:          strings.TrimSpace(item.Get("id").String()),
		Name:        name,
		Index:       idx,
		Available:   first(item, availableKeys).Bool(),
		CaptainPick: first(item, captainKeys).Bool(),
	}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	if p.ID == "" {
		p.ID = NewID()
	}
	return p, nil
}

func decodeIndex(v gjson.Result) (float64, error) {
	switch v.Type {
	case gjson.Null:
		return 0, errors.NewValidationError("index is missing").WithField("index")
	case gjson.Number:
		return v.Float(), nil
	case gjson.String:
		if strings.TrimSpace(v.Str) == "" {
			return 0, errors.NewValidationError("index is missing").WithField("index")
		}
		return ParseIndex(v.Str)
	default:
		return 0, errors.NewValidationError("index is not a number").WithField("index").WithValue(v.Raw)
	}
}

// quoteNonFinite turns the bare NaN, Infinity and -Infinity tokens that
// Python's json module writes into strings, so the document parses and the
// affected players fail index validation on their own.
func quoteNonFinite(data []byte) []byte {
	if !bytes.Contains(data, []byte("NaN")) && !bytes.Contains(data, []byte("Infinity")) {
		return data
	}
	out := make([]byte, 0, len(data)+8)
	inString, escaped := false, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		matched := false
		for _, tok := range nonFiniteTokens {
			if bytes.HasPrefix(data[i:], tok) {
				out = append(out, '"')
				out = append(out, tok...)
				out = append(out, '"')
				i += len(tok) - 1
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, c)
		}
	}
	return out
}

var nonFiniteTokens = [][]byte{[]byte("-Infinity"), []byte("Infinity"), []byte("NaN")}

// first returns the value of the first key present in item.
func first(item gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := item.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// Encode writes players in the native schema as an indented JSON array.
func Encode(players []Player) ([]byte, error) {
	if players == nil {
		players = []Player{}
	}
	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode roster: %w", err)
	}
	return data, nil
}

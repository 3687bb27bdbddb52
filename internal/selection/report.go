package selection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
)

// FormatReport renders a result as the text summary handed to the captain.
func FormatReport(res *Result) string {
	if res == nil {
		return ""
	}
	r := res.Rules
	var sb strings.Builder

	fmt.Fprintf(&sb, "🏌️ SELECTION OF THE %d PLAYERS:\n\n", len(res.Team))
	for _, p := range res.Team {
		fmt.Fprintf(&sb, "%s - Index %s %s\n", p.Name, FormatIndex(p.Index), availabilityMark(p))
	}

	fmt.Fprintf(&sb, "\nReal total index: %.1f", res.Score.Real)
	fmt.Fprintf(&sb, "\nOfficial total index: %.1f\n", res.Score.Official)

	if len(res.Score.Assimilated) > 0 {
		parts := make([]string, len(res.Score.Assimilated))
		for i, p := range res.Score.Assimilated {
			parts[i] = fmt.Sprintf("%s (%s → %s)", p.Name, FormatIndex(p.Index), FormatIndex(r.AssimilationCeiling))
		}
		fmt.Fprintf(&sb, "Assimilated: %s\n", strings.Join(parts, ", "))
	}

	if res.Fallback {
		fmt.Fprintf(&sb, "\nNo team including every captain's pick reaches %s: showing the %d lowest indices.\n",
			FormatIndex(r.Threshold), len(res.Team))
	}

	if res.Qualified {
		fmt.Fprintf(&sb, "\n✅ Target reached (≥ %s)", FormatIndex(r.Threshold))
	} else {
		fmt.Fprintf(&sb, "\n❌ Below %s: the captain's picks need to be reviewed.", FormatIndex(r.Threshold))
	}
	return sb.String()
}

// FormatIndex prints an index the way players write it: at least one
// decimal, no trailing zeros beyond it.
func FormatIndex(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func availabilityMark(p roster.Player) string {
	if p.Available {
		return "✅"
	}
	return "❌"
}

// Report is the structured form of a Result, for JSON and YAML output.
type Report struct {
	Team          []ReportPlayer `json:"team" yaml:"team"`
	RealTotal     float64        `json:"real_total" yaml:"real_total"`
	OfficialTotal float64        `json:"official_total" yaml:"official_total"`
	Threshold     float64        `json:"threshold" yaml:"threshold"`
	Qualified     bool           `json:"qualified" yaml:"qualified"`
	Fallback      bool           `json:"fallback" yaml:"fallback"`
	Assimilated   []string       `json:"assimilated" yaml:"assimilated"`
	Candidates    int64          `json:"candidates" yaml:"candidates"`
	Text          string         `json:"report" yaml:"report"`
}

// ReportPlayer is one team member in a Report.
type ReportPlayer struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Index       float64 `json:"index" yaml:"index"`
	CaptainPick bool    `json:"captain_pick" yaml:"captain_pick"`
	Assimilated bool    `json:"assimilated" yaml:"assimilated"`
}

// NewReport builds the structured report. Totals are rounded to one decimal
// like the text report.
func NewReport(res *Result) Report {
	rep := Report{
		Team:          make([]ReportPlayer, 0, len(res.Team)),
		RealTotal:     round1(res.Score.Real),
		OfficialTotal: round1(res.Score.Official),
		Threshold:     res.Rules.Threshold,
		Qualified:     res.Qualified,
		Fallback:      res.Fallback,
		Assimilated:   make([]string, 0, len(res.Score.Assimilated)),
		Candidates:    res.Candidates,
		Text:          FormatReport(res),
	}

	capped := make(map[string]bool, len(res.Score.Assimilated))
	for _, p := range res.Score.Assimilated {
		capped[p.Key()] = true
		rep.Assimilated = append(rep.Assimilated, p.Name)
	}
	for _, p := range res.Team {
		rep.Team = append(rep.Team, ReportPlayer{
			ID:          p.ID,
			Name:        p.Name,
			Index:       p.Index,
			CaptainPick: p.CaptainPick,
			Assimilated: capped[p.Key()],
		})
	}
	return rep
}

// round1 rounds on the shortest decimal form of v, so 84.45 gives 84.5
// even though its binary value sits just below.
func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

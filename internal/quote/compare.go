package quote

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SortBy is the ranking criterion for an option comparison.
type SortBy string

const (
	SortByTotal   SortBy = "TOTAL"
	SortByMargin  SortBy = "MARGIN"
	SortByTransit SortBy = "TRANSIT"
)

// OptionSummary is one row of the side-by-side option comparison.
type OptionSummary struct {
	OptionID    uuid.UUID `json:"optionId"`
	Label       string    `json:"label"`
	Carrier     string    `json:"carrier,omitempty"`
	Mode        string    `json:"mode"`
	Route       string    `json:"route"`
	Incoterm    string    `json:"incoterm"`
	Equipment   string    `json:"equipment,omitempty"`
	Total       float64   `json:"total"`
	MarginPct   float64   `json:"marginPct"`
	TransitDays int       `json:"transitDays,omitempty"`
	Active      bool      `json:"active"`
}

// Compare ranks the quotation's options for side-by-side review. It is a
// pure view: selecting an option stays a separate, explicit mutation.
func Compare(q Quotation, by SortBy) []OptionSummary {
	summaries := make([]OptionSummary, 0, len(q.Options))
	for _, opt := range q.Options {
		summaries = append(summaries, OptionSummary{
			OptionID:    opt.ID,
			Label:       opt.Label,
			Carrier:     opt.Carrier,
			Mode:        string(opt.Mode),
			Route:       fmt.Sprintf("%s → %s", opt.Route.Origin, opt.Route.Destination),
			Incoterm:    opt.Incoterm,
			Equipment:   equipmentSummary(opt),
			Total:       opt.Totals.Gross,
			MarginPct:   opt.Totals.MarginPct,
			TransitDays: opt.TransitDays,
			Active:      opt.ID == q.ActiveOption,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		switch by {
		case SortByMargin:
			return summaries[i].MarginPct > summaries[j].MarginPct
		case SortByTransit:
			return transitKey(summaries[i]) < transitKey(summaries[j])
		default:
			return summaries[i].Total < summaries[j].Total
		}
	})
	return summaries
}

// transitKey sorts options with unknown transit last.
func transitKey(s OptionSummary) int {
	if s.TransitDays <= 0 {
		return math.MaxInt32
	}
	return s.TransitDays
}

func equipmentSummary(opt Option) string {
	if len(opt.Cargo.Equipment) == 0 {
		if n := opt.Cargo.TotalPackages(); n > 0 {
			return fmt.Sprintf("%d pkg", n)
		}
		return ""
	}
	parts := make([]string, 0, len(opt.Cargo.Equipment))
	for _, eq := range opt.Cargo.Equipment {
		parts = append(parts, fmt.Sprintf("%dx %s", eq.Count, eq.Type))
	}
	return strings.Join(parts, ", ")
}

package tariff

import (
	"math"
	"sort"
	"time"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
)

// Strategy selects among candidates that survive all filter stages.
type Strategy string

const (
	// StrategyNone keeps the catalogue's stable order and returns the
	// first surviving candidate.
	StrategyNone         Strategy = ""
	StrategyCheapest     Strategy = "CHEAPEST"
	StrategyFastest      Strategy = "FASTEST"
	StrategyMostReliable Strategy = "MOST_RELIABLE"
)

// Query describes the route facts a rate sheet must cover.
type Query struct {
	POL      string     `json:"pol"`
	POD      string     `json:"pod"`
	Mode     cargo.Mode `json:"mode"`
	Incoterm string     `json:"incoterm"`
	Date     time.Time  `json:"date"`
	Strategy Strategy   `json:"strategy,omitempty"`
}

// MatchReason identifies the filter stage at which matching stopped. A
// failed match always reports the stage, never a bare "not found", so the
// caller can tell the user what to fix.
type MatchReason string

const (
	ReasonMatched          MatchReason = "MATCHED"
	ReasonNoRoute          MatchReason = "NO_ROUTE"
	ReasonIncotermMismatch MatchReason = "INCOTERM_MISMATCH"
	ReasonNotActive        MatchReason = "RATE_NOT_ACTIVE"
	ReasonExpired          MatchReason = "RATE_EXPIRED"
)

// MatchResult carries the selected rate or the staged failure diagnostic.
// On an incoterm mismatch, AvailableIncoterms lists the incoterms that do
// exist for the route so the caller can suggest them.
type MatchResult struct {
	Rate               *Rate       `json:"rate,omitempty"`
	Reason             MatchReason `json:"reason"`
	AvailableIncoterms []string    `json:"availableIncoterms,omitempty"`
}

// sentinel transit time so rates with unknown transit sort last under
// the fastest strategy.
const unknownTransit = math.MaxInt32

// FindBestMatch filters the catalogue in stages against the query and
// applies the requested selection strategy to the survivors. It is a pure
// read over the snapshot; an empty or nil catalogue is simply no route.
func FindBestMatch(catalogue []Rate, q Query) MatchResult {
	byRoute := make([]Rate, 0, len(catalogue))
	for _, r := range catalogue {
		if r.POL == q.POL && r.POD == q.POD && r.Mode == q.Mode {
			byRoute = append(byRoute, r)
		}
	}
	if len(byRoute) == 0 {
		return MatchResult{Reason: ReasonNoRoute}
	}

	byIncoterm := byRoute[:0:0]
	for _, r := range byRoute {
		if r.Incoterm == q.Incoterm {
			byIncoterm = append(byIncoterm, r)
		}
	}
	if len(byIncoterm) == 0 {
		return MatchResult{
			Reason:             ReasonIncotermMismatch,
			AvailableIncoterms: incotermsOf(byRoute),
		}
	}

	active := byIncoterm[:0:0]
	for _, r := range byIncoterm {
		if r.Status == StatusActive {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return MatchResult{Reason: ReasonNotActive}
	}

	valid := active[:0:0]
	for _, r := range active {
		if !r.ValidTo.Before(q.Date) {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return MatchResult{Reason: ReasonExpired}
	}

	best := selectBy(valid, q.Strategy)
	return MatchResult{Rate: &best, Reason: ReasonMatched}
}

func selectBy(candidates []Rate, s Strategy) Rate {
	best := candidates[0]
	switch s {
	case StrategyCheapest:
		for _, r := range candidates[1:] {
			if headlineFreightPrice(r) < headlineFreightPrice(best) {
				best = r
			}
		}
	case StrategyFastest:
		for _, r := range candidates[1:] {
			if transitOrSentinel(r) < transitOrSentinel(best) {
				best = r
			}
		}
	case StrategyMostReliable:
		for _, r := range candidates[1:] {
			if r.Reliability > best.Reliability {
				best = r
			}
		}
	}
	return best
}

// headlineFreightPrice is the unit price of the first-listed freight
// charge, the figure carriers quote as the headline. Rates without freight
// charges sort last.
func headlineFreightPrice(r Rate) float64 {
	if len(r.FreightCharges) == 0 {
		return math.Inf(1)
	}
	c := r.FreightCharges[0]
	if c.Basis == BasisContainer {
		if c.Per40HC > 0 {
			return c.Per40HC
		}
		return c.Per20DV
	}
	return c.UnitPrice
}

func transitOrSentinel(r Rate) int {
	if r.TransitDays <= 0 {
		return unknownTransit
	}
	return r.TransitDays
}

func incotermsOf(rates []Rate) []string {
	seen := make(map[string]struct{}, len(rates))
	terms := make([]string, 0, len(rates))
	for _, r := range rates {
		if _, ok := seen[r.Incoterm]; ok {
			continue
		}
		seen[r.Incoterm] = struct{}{}
		terms = append(terms, r.Incoterm)
	}
	sort.Strings(terms)
	return terms
}

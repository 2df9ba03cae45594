package tariff

import (
	"testing"
	"time"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
)

var queryDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func seaRate(id string, mutate func(*Rate)) Rate {
	r := Rate{
		ID:        id,
		Carrier:   "CMA CGM",
		POL:       "MACAS",
		POD:       "NLRTM",
		Mode:      cargo.ModeSea,
		Incoterm:  "FOB",
		Status:    StatusActive,
		ValidFrom: queryDate.AddDate(0, -2, 0),
		ValidTo:   queryDate.AddDate(0, 2, 0),
		FreightCharges: []Charge{
			{Name: "Ocean Freight", Basis: BasisContainer, Per40HC: 1500, Currency: "USD"},
		},
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func seaQuery() Query {
	return Query{POL: "MACAS", POD: "NLRTM", Mode: cargo.ModeSea, Incoterm: "FOB", Date: queryDate}
}

func TestMatchEmptyCatalogueIsNoRoute(t *testing.T) {
	for _, catalogue := range [][]Rate{nil, {}} {
		res := FindBestMatch(catalogue, seaQuery())
		if res.Reason != ReasonNoRoute || res.Rate != nil {
			t.Fatalf("expected NO_ROUTE on empty catalogue, got %+v", res)
		}
	}
}

func TestMatchReportsNoRoute(t *testing.T) {
	catalogue := []Rate{seaRate("r1", func(r *Rate) { r.POD = "FRLEH" })}

	res := FindBestMatch(catalogue, seaQuery())

	if res.Reason != ReasonNoRoute {
		t.Fatalf("reason = %s, want NO_ROUTE", res.Reason)
	}
}

func TestMatchReportsIncotermMismatchWithAlternatives(t *testing.T) {
	catalogue := []Rate{
		seaRate("r1", func(r *Rate) { r.Incoterm = "EXW" }),
		seaRate("r2", func(r *Rate) { r.Incoterm = "DDP" }),
		seaRate("r3", func(r *Rate) { r.Incoterm = "EXW" }),
	}

	res := FindBestMatch(catalogue, seaQuery())

	if res.Reason != ReasonIncotermMismatch {
		t.Fatalf("reason = %s, want INCOTERM_MISMATCH", res.Reason)
	}
	if len(res.AvailableIncoterms) != 2 || res.AvailableIncoterms[0] != "DDP" || res.AvailableIncoterms[1] != "EXW" {
		t.Fatalf("available incoterms = %v, want [DDP EXW]", res.AvailableIncoterms)
	}
}

func TestMatchReportsNotActive(t *testing.T) {
	catalogue := []Rate{
		seaRate("r1", func(r *Rate) { r.Status = StatusDraft }),
		seaRate("r2", func(r *Rate) { r.Status = StatusArchived }),
	}

	res := FindBestMatch(catalogue, seaQuery())

	if res.Reason != ReasonNotActive {
		t.Fatalf("reason = %s, want RATE_NOT_ACTIVE", res.Reason)
	}
}

func TestMatchReportsExpiredNotNotActive(t *testing.T) {
	catalogue := []Rate{
		seaRate("r1", func(r *Rate) { r.ValidTo = queryDate.AddDate(0, -1, 0) }),
	}

	res := FindBestMatch(catalogue, seaQuery())

	if res.Reason != ReasonExpired {
		t.Fatalf("reason = %s, want RATE_EXPIRED", res.Reason)
	}
}

func TestMatchNoStrategyKeepsCatalogueOrder(t *testing.T) {
	catalogue := []Rate{seaRate("first", nil), seaRate("second", nil)}

	res := FindBestMatch(catalogue, seaQuery())

	if res.Reason != ReasonMatched || res.Rate.ID != "first" {
		t.Fatalf("expected first surviving candidate, got %+v", res)
	}
}

func TestMatchCheapestUsesHeadlineFreightPrice(t *testing.T) {
	catalogue := []Rate{
		seaRate("pricey", func(r *Rate) { r.FreightCharges[0].Per40HC = 1900 }),
		seaRate("cheap", func(r *Rate) { r.FreightCharges[0].Per40HC = 1200 }),
		seaRate("nofreight", func(r *Rate) { r.FreightCharges = nil }),
	}
	q := seaQuery()
	q.Strategy = StrategyCheapest

	res := FindBestMatch(catalogue, q)

	if res.Rate == nil || res.Rate.ID != "cheap" {
		t.Fatalf("expected cheapest rate, got %+v", res)
	}
}

func TestMatchFastestSortsMissingTransitLast(t *testing.T) {
	catalogue := []Rate{
		seaRate("unknown", func(r *Rate) { r.TransitDays = 0 }),
		seaRate("slow", func(r *Rate) { r.TransitDays = 21 }),
		seaRate("fast", func(r *Rate) { r.TransitDays = 9 }),
	}
	q := seaQuery()
	q.Strategy = StrategyFastest

	res := FindBestMatch(catalogue, q)

	if res.Rate == nil || res.Rate.ID != "fast" {
		t.Fatalf("expected fastest rate, got %+v", res)
	}
}

func TestMatchMostReliablePrefersHighestScore(t *testing.T) {
	catalogue := []Rate{
		seaRate("meh", func(r *Rate) { r.Reliability = 0.6 }),
		seaRate("solid", func(r *Rate) { r.Reliability = 0.93 }),
		seaRate("unknown", nil),
	}
	q := seaQuery()
	q.Strategy = StrategyMostReliable

	res := FindBestMatch(catalogue, q)

	if res.Rate == nil || res.Rate.ID != "solid" {
		t.Fatalf("expected most reliable rate, got %+v", res)
	}
}

func TestMatchValidToOnQueryDateStillMatches(t *testing.T) {
	catalogue := []Rate{seaRate("edge", func(r *Rate) { r.ValidTo = queryDate })}

	res := FindBestMatch(catalogue, seaQuery())

	if res.Reason != ReasonMatched {
		t.Fatalf("validTo == query date must match, got %s", res.Reason)
	}
}

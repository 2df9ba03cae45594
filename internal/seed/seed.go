package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/store"
	"github.com/HamzaArc/atlas-flow-sub000/internal/tariff"
	"github.com/HamzaArc/atlas-flow-sub000/internal/vat"
)

// Stats contains seed operation counters.
type Stats struct {
	Rates   int
	Tariffs int
}

// Run executes the startup seed in an idempotent way: the baseline
// exchange-rate table gets its missing codes, and a demo tariff
// catalogue is loaded once when the table is empty.
func Run(ctx context.Context, st *store.Store, baseCurrency string) (Stats, error) {
	stats := Stats{}

	if err := ensureBaselineRates(ctx, st, baseCurrency, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensureDemoTariffs(ctx, st, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func ensureBaselineRates(ctx context.Context, st *store.Store, baseCurrency string, stats *Stats) error {
	existing, err := st.BaselineRates(ctx)
	if err != nil {
		return fmt.Errorf("load baseline rates: %w", err)
	}

	defaults := map[string]float64{
		baseCurrency: 1,
		"USD":        10.05,
		"EUR":        10.85,
	}
	for code, rate := range defaults {
		if _, ok := existing[code]; ok {
			continue
		}
		if err := st.UpsertBaselineRate(ctx, code, rate); err != nil {
			return fmt.Errorf("seed baseline rate: %w", err)
		}
		stats.Rates++
	}
	return nil
}

func ensureDemoTariffs(ctx context.Context, st *store.Store, stats *Stats) error {
	count, err := st.CountTariffs(ctx)
	if err != nil {
		return fmt.Errorf("count tariffs: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, r := range demoCatalogue(now) {
		if err := st.InsertTariff(ctx, r); err != nil {
			return fmt.Errorf("seed demo tariff: %w", err)
		}
		stats.Tariffs++
	}
	return nil
}

func demoCatalogue(now time.Time) []tariff.Rate {
	yearOut := now.AddDate(1, 0, 0)

	return []tariff.Rate{
		{
			ID:          uuid.NewString(),
			Carrier:     "Maersk",
			POL:         "Casablanca",
			POD:         "Rotterdam",
			Mode:        cargo.ModeSea,
			Incoterm:    "FOB",
			Status:      tariff.StatusActive,
			ValidFrom:   now.AddDate(0, -1, 0),
			ValidTo:     yearOut,
			TransitDays: 9,
			Reliability: 0.92,
			OriginCharges: []tariff.Charge{
				{Name: "THC Origin", Basis: tariff.BasisContainer, Per20DV: 1100, Per40DV: 1600, Per40HC: 1600, Per40RF: 2100, Currency: "MAD", VATRule: vat.Standard},
			},
			FreightCharges: []tariff.Charge{
				{Name: "Ocean Freight", Basis: tariff.BasisContainer, Per20DV: 950, Per40DV: 1450, Per40HC: 1500, Per40RF: 2400, Currency: "USD", VATRule: vat.ExportExempt},
			},
			DestinationCharges: []tariff.Charge{
				{Name: "THC Destination", Basis: tariff.BasisContainer, Per20DV: 180, Per40DV: 250, Per40HC: 250, Per40RF: 330, Currency: "EUR", VATRule: vat.ExportExempt},
			},
		},
		{
			ID:          uuid.NewString(),
			Carrier:     "CMA CGM",
			POL:         "Casablanca",
			POD:         "Rotterdam",
			Mode:        cargo.ModeSea,
			Incoterm:    "FOB",
			Status:      tariff.StatusActive,
			ValidFrom:   now.AddDate(0, -1, 0),
			ValidTo:     yearOut,
			TransitDays: 7,
			Reliability: 0.88,
			OriginCharges: []tariff.Charge{
				{Name: "THC Origin", Basis: tariff.BasisContainer, Per20DV: 1050, Per40DV: 1550, Per40HC: 1550, Per40RF: 2050, Currency: "MAD", VATRule: vat.Standard},
			},
			FreightCharges: []tariff.Charge{
				{Name: "Ocean Freight", Basis: tariff.BasisContainer, Per20DV: 1020, Per40DV: 1540, Per40HC: 1580, Per40RF: 2520, Currency: "USD", VATRule: vat.ExportExempt},
			},
		},
		{
			ID:          uuid.NewString(),
			Carrier:     "Royal Air Maroc Cargo",
			POL:         "Casablanca",
			POD:         "Paris CDG",
			Mode:        cargo.ModeAir,
			Incoterm:    "EXW",
			Status:      tariff.StatusActive,
			ValidFrom:   now.AddDate(0, -1, 0),
			ValidTo:     now.AddDate(0, 3, 0),
			TransitDays: 1,
			Reliability: 0.97,
			OriginCharges: []tariff.Charge{
				{Name: "Pickup", Basis: tariff.BasisFlat, UnitPrice: 800, Currency: "MAD", VATRule: vat.Standard},
				{Name: "Export Customs", Basis: tariff.BasisFlat, UnitPrice: 650, Currency: "MAD", VATRule: vat.Standard},
			},
			FreightCharges: []tariff.Charge{
				{Name: "Air Freight", Basis: tariff.BasisTaxableWeight, UnitPrice: 18.5, MinPrice: 450, Currency: "MAD", VATRule: vat.ExportExempt},
				{Name: "Fuel Surcharge", Basis: tariff.BasisTaxableWeight, UnitPrice: 3.2, Currency: "MAD", VATRule: vat.ExportExempt},
			},
		},
		{
			ID:          uuid.NewString(),
			Carrier:     "TransMaghreb Road",
			POL:         "Tangier",
			POD:         "Madrid",
			Mode:        cargo.ModeRoad,
			Incoterm:    "DDP",
			Status:      tariff.StatusActive,
			ValidFrom:   now.AddDate(0, -2, 0),
			ValidTo:     now.AddDate(0, 6, 0),
			TransitDays: 3,
			Reliability: 0.9,
			FreightCharges: []tariff.Charge{
				{Name: "Road Freight", Basis: tariff.BasisTaxableWeight, UnitPrice: 2.4, MinPrice: 1200, Currency: "MAD", VATRule: vat.ReducedRoad},
			},
			DestinationCharges: []tariff.Charge{
				{Name: "Import Customs", Basis: tariff.BasisFlat, UnitPrice: 150, Currency: "EUR", VATRule: vat.ReducedRoad},
				{Name: "Last Mile Delivery", Basis: tariff.BasisFlat, UnitPrice: 220, Currency: "EUR", VATRule: vat.ReducedRoad},
			},
		},
	}
}

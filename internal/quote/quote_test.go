package quote

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/currency"
	"github.com/HamzaArc/atlas-flow-sub000/internal/pricing"
	"github.com/HamzaArc/atlas-flow-sub000/internal/tariff"
	"github.com/HamzaArc/atlas-flow-sub000/internal/vat"
)

func demoRate() tariff.Rate {
	return tariff.Rate{
		ID:        "rate-sea-1",
		Carrier:   "CMA CGM",
		POL:       "MACAS",
		POD:       "NLRTM",
		Mode:      cargo.ModeSea,
		Incoterm:  "FOB",
		Status:    tariff.StatusActive,
		ValidFrom: now.AddDate(0, -1, 0),
		ValidTo:   now.AddDate(0, 3, 0),
		TransitDays: 11,
		OriginCharges: []tariff.Charge{
			{Name: "THC Origin", Basis: tariff.BasisFlat, UnitPrice: 1200, Currency: "MAD", VATRule: vat.Standard},
		},
		FreightCharges: []tariff.Charge{
			{Name: "Ocean Freight", Basis: tariff.BasisContainer, Per40HC: 1500, Currency: "USD", VATRule: vat.ExportExempt},
		},
		DestinationCharges: []tariff.Charge{
			{Name: "Delivery Order", Basis: tariff.BasisFlat, UnitPrice: 45, Currency: "EUR", VATRule: vat.Exempt},
		},
	}
}

func TestApplyTariffBuildsLinkedLines(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1, "USD": 10, "EUR": 11}, false)
	q.DefaultMarkup = pricing.Markup{Type: pricing.MarkupPercent, Value: 15}
	opt, _, err := q.AddOption("Sea", cargo.ModeSea, Route{Origin: "Casablanca", Destination: "Rotterdam"}, "FOB")
	require.NoError(t, err)
	_, err = q.SetCargo(opt.ID, cargo.Profile{Equipment: []cargo.Equipment{{Type: "40HC", Count: 1}}})
	require.NoError(t, err)

	_, err = q.ApplyTariff(opt.ID, demoRate(), ApplyFillGaps)
	require.NoError(t, err)

	opt = q.Active()
	require.Len(t, opt.Items, 3)
	require.Equal(t, "CMA CGM", opt.Carrier)
	require.Equal(t, 11, opt.TransitDays)
	require.Equal(t, "rate-sea-1", opt.TariffRateID)

	var freight *pricing.LineItem
	for i := range opt.Items {
		if opt.Items[i].Section == pricing.SectionFreight {
			freight = &opt.Items[i]
		}
		require.Equal(t, pricing.ProvenanceTariff, opt.Items[i].Provenance)
		require.Equal(t, pricing.Markup{Type: pricing.MarkupPercent, Value: 15}, opt.Items[i].Markup)
		require.NotNil(t, opt.Items[i].TariffValidTo)
	}
	require.NotNil(t, freight)
	require.Equal(t, 1500.0, freight.BuyAmount)
	require.Equal(t, "USD", freight.BuyCurrency)

	// Totals snapshot refreshed: 1200 MAD + 1500 USD + 45 EUR at 15% markup.
	wantNet := (1200 + 1500*10 + 45*11) * 1.15
	require.InDelta(t, wantNet, opt.Totals.Net, 1e-6)
}

func TestApplyTariffFillGapsKeepsManualLines(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1, "USD": 10, "EUR": 11}, false)
	opt, _, err := q.AddOption("Sea", cargo.ModeSea, Route{}, "FOB")
	require.NoError(t, err)

	_, _, err = q.AddLineItem(opt.ID, pricing.LineItem{
		Section: pricing.SectionOrigin, Description: "Customs brokerage", BuyAmount: 800, BuyCurrency: "MAD", VATRule: vat.Standard,
	})
	require.NoError(t, err)
	_, err = q.ApplyTariff(opt.ID, demoRate(), ApplyFillGaps)
	require.NoError(t, err)
	require.Len(t, q.Active().Items, 4)

	// Re-applying the same tariff must not duplicate charges.
	_, err = q.ApplyTariff(opt.ID, demoRate(), ApplyFillGaps)
	require.NoError(t, err)
	require.Len(t, q.Active().Items, 4)
}

func TestApplyTariffOverwriteDiscardsManualLines(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1, "USD": 10, "EUR": 11}, false)
	opt, _, err := q.AddOption("Sea", cargo.ModeSea, Route{}, "FOB")
	require.NoError(t, err)
	_, _, err = q.AddLineItem(opt.ID, pricing.LineItem{
		Section: pricing.SectionOrigin, Description: "Customs brokerage", BuyAmount: 800, BuyCurrency: "MAD", VATRule: vat.Standard,
	})
	require.NoError(t, err)

	_, err = q.ApplyTariff(opt.ID, demoRate(), ApplyOverwrite)
	require.NoError(t, err)

	require.Len(t, q.Active().Items, 3)
	for _, li := range q.Active().Items {
		require.Equal(t, pricing.ProvenanceTariff, li.Provenance)
	}
}

func TestManualLineDefaults(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1}, false)
	opt, _, err := q.AddOption("Road", cargo.ModeRoad, Route{}, "DDP")
	require.NoError(t, err)

	added, _, err := q.AddLineItem(opt.ID, pricing.LineItem{
		Section: pricing.SectionFreight, Description: "Trucking", BuyAmount: 4500, BuyCurrency: "MAD", VATRule: vat.ReducedRoad,
	})
	require.NoError(t, err)

	require.Equal(t, pricing.ProvenanceManual, added.Provenance)
	require.Equal(t, pricing.SettlementEstimated, added.Settlement)
	require.NotEqual(t, added.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestSetExchangeRatesRecomputesAllOptions(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1, "USD": 10}, false)
	optA, _, err := q.AddOption("A", cargo.ModeSea, Route{}, "FOB")
	require.NoError(t, err)
	optB, _, err := q.AddOption("B", cargo.ModeAir, Route{}, "EXW")
	require.NoError(t, err)

	_, _, err = q.AddLineItem(optA.ID, pricing.LineItem{
		Section: pricing.SectionFreight, Description: "Sea", BuyAmount: 100, BuyCurrency: "USD", VATRule: vat.Exempt,
	})
	require.NoError(t, err)
	_, _, err = q.AddLineItem(optB.ID, pricing.LineItem{
		Section: pricing.SectionFreight, Description: "Air", BuyAmount: 50, BuyCurrency: "USD", VATRule: vat.Exempt,
	})
	require.NoError(t, err)

	_, err = q.SetExchangeRates(currency.Rates{"MAD": 1, "USD": 12})
	require.NoError(t, err)

	require.InDelta(t, 1200, q.Options[0].Totals.Net, 1e-6)
	require.InDelta(t, 600, q.Options[1].Totals.Net, 1e-6)
}

func TestQuotationTotalsFollowActiveOption(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1}, false)
	optA, _, err := q.AddOption("A", cargo.ModeSea, Route{}, "FOB")
	require.NoError(t, err)
	optB, _, err := q.AddOption("B", cargo.ModeAir, Route{}, "EXW")
	require.NoError(t, err)

	_, _, err = q.AddLineItem(optA.ID, pricing.LineItem{
		Section: pricing.SectionFreight, Description: "Sea", BuyAmount: 100, BuyCurrency: "MAD", VATRule: vat.Exempt,
	})
	require.NoError(t, err)
	_, _, err = q.AddLineItem(optB.ID, pricing.LineItem{
		Section: pricing.SectionFreight, Description: "Air", BuyAmount: 700, BuyCurrency: "MAD", VATRule: vat.Exempt,
	})
	require.NoError(t, err)

	require.InDelta(t, 100, q.Totals().Net, 1e-6, "first option starts active")

	_, err = q.SetActiveOption(optB.ID)
	require.NoError(t, err)
	require.InDelta(t, 700, q.Totals().Net, 1e-6)
}

func TestMutationsReturnPersistEffect(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1}, false)

	_, effects, err := q.AddOption("A", cargo.ModeSea, Route{}, "FOB")
	require.NoError(t, err)

	var persisted bool
	for _, e := range effects {
		if e.Kind == EffectPersist {
			persisted = true
		}
	}
	require.True(t, persisted, "mutations must ask the caller to persist")
}

func TestOptionAndItemLookupErrors(t *testing.T) {
	q := New("Q-1", "client", "MAD", currency.Rates{"MAD": 1}, false)
	opt, _, err := q.AddOption("A", cargo.ModeSea, Route{}, "FOB")
	require.NoError(t, err)

	_, err = q.SetCargo(opt.ID, cargo.Profile{})
	require.NoError(t, err)

	_, err = q.SetCargo(uuid.New(), cargo.Profile{})
	require.ErrorIs(t, err, ErrOptionNotFound)

	_, err = q.EditItemCost(opt.ID, uuid.New(), 10)
	require.ErrorIs(t, err, ErrItemNotFound)
}

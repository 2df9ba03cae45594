package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/currency"
	"github.com/HamzaArc/atlas-flow-sub000/internal/db"
	"github.com/HamzaArc/atlas-flow-sub000/internal/migrations"
	"github.com/HamzaArc/atlas-flow-sub000/internal/pricing"
	"github.com/HamzaArc/atlas-flow-sub000/internal/quote"
	"github.com/HamzaArc/atlas-flow-sub000/internal/tariff"
	"github.com/HamzaArc/atlas-flow-sub000/internal/vat"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.Up(database.DB, "../../migrations"))
	return New(database)
}

func testRates() currency.Rates {
	return currency.Rates{"MAD": 1, "USD": 10, "EUR": 11}
}

func TestSaveAndGetQuotationRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	q := quote.New("Q-2026-001", "Atlas Textiles", "MAD", testRates(), true)
	opt, _, err := q.AddOption("Sea FOB", cargo.ModeSea, quote.Route{Origin: "Casablanca", Destination: "Rotterdam"}, "FOB")
	require.NoError(t, err)
	_, _, err = q.AddLineItem(opt.ID, pricing.LineItem{
		Section:     pricing.SectionFreight,
		Description: "Ocean Freight",
		BuyAmount:   1500,
		BuyCurrency: "USD",
		Markup:      pricing.Markup{Type: pricing.MarkupPercent, Value: 12},
		VATRule:     vat.ExportExempt,
	})
	require.NoError(t, err)

	require.NoError(t, st.SaveQuotation(ctx, q))

	got, err := st.GetQuotation(ctx, q.ID.String())
	require.NoError(t, err)

	require.Equal(t, q.Reference, got.Reference)
	require.Equal(t, q.Version, got.Version)
	require.Equal(t, q.ClientName, got.ClientName)
	require.Equal(t, q.ActiveOption, got.ActiveOption)
	require.Equal(t, q.Approval, got.Approval)
	require.Equal(t, testRates(), got.Rates)
	require.Len(t, got.Options, 1)
	require.Len(t, got.Options[0].Items, 1)
	require.InDelta(t, q.Options[0].Totals.Gross, got.Options[0].Totals.Gross, 0.01)
}

func TestSaveQuotationUpserts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	q := quote.New("Q-2026-002", "Maroc Export", "MAD", testRates(), false)
	require.NoError(t, st.SaveQuotation(ctx, q))

	q.ClientName = "Maroc Export SARL"
	require.NoError(t, st.SaveQuotation(ctx, q))

	got, err := st.GetQuotation(ctx, q.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Maroc Export SARL", got.ClientName)

	list, err := st.ListQuotations(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestGetQuotationNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetQuotation(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrQuotationNotFound)
}

func TestListQuotationsFiltersBySearch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	a := quote.New("Q-2026-010", "Casa Traders", "MAD", testRates(), false)
	b := quote.New("Q-2026-011", "Tangier Logistics", "MAD", testRates(), false)
	require.NoError(t, st.SaveQuotation(ctx, a))
	require.NoError(t, st.SaveQuotation(ctx, b))

	list, err := st.ListQuotations(ctx, "Tangier")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Q-2026-011", list[0].Reference)

	list, err = st.ListQuotations(ctx, "Q-2026")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestTariffRoundTripAndCatalogueOrder(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	first := tariff.Rate{
		ID:          uuid.NewString(),
		Carrier:     "Maersk",
		POL:         "Casablanca",
		POD:         "Rotterdam",
		Mode:        cargo.ModeSea,
		Incoterm:    "FOB",
		Status:      tariff.StatusActive,
		ValidFrom:   now,
		ValidTo:     now.AddDate(1, 0, 0),
		TransitDays: 9,
		Reliability: 0.92,
		FreightCharges: []tariff.Charge{
			{Name: "Ocean Freight", Basis: tariff.BasisContainer, Per20DV: 950, Per40HC: 1500, Currency: "USD", VATRule: vat.ExportExempt},
		},
	}
	second := tariff.Rate{
		ID:        uuid.NewString(),
		Carrier:   "CMA CGM",
		POL:       "Casablanca",
		POD:       "Rotterdam",
		Mode:      cargo.ModeSea,
		Incoterm:  "FOB",
		Status:    tariff.StatusActive,
		ValidFrom: now,
		ValidTo:   now.AddDate(1, 0, 0),
	}

	require.NoError(t, st.InsertTariff(ctx, first))
	require.NoError(t, st.InsertTariff(ctx, second))

	got, err := st.GetTariff(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, first.Carrier, got.Carrier)
	require.Len(t, got.FreightCharges, 1)
	require.Equal(t, tariff.BasisContainer, got.FreightCharges[0].Basis)
	require.InDelta(t, 1500, got.FreightCharges[0].Per40HC, 0.001)

	catalogue, err := st.ListTariffs(ctx)
	require.NoError(t, err)
	require.Len(t, catalogue, 2)
	require.Equal(t, first.ID, catalogue[0].ID)
	require.Equal(t, second.ID, catalogue[1].ID)

	n, err := st.CountTariffs(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestGetTariffNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetTariff(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrTariffNotFound)
}

func TestBaselineRates(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	rates, err := st.BaselineRates(ctx)
	require.NoError(t, err)
	require.Empty(t, rates)

	require.NoError(t, st.UpsertBaselineRate(ctx, "USD", 10.05))
	require.NoError(t, st.UpsertBaselineRate(ctx, "USD", 10.10))
	require.NoError(t, st.UpsertBaselineRate(ctx, "EUR", 10.85))

	rates, err = st.BaselineRates(ctx)
	require.NoError(t, err)
	require.Equal(t, currency.Rates{"USD": 10.10, "EUR": 10.85}, rates)
}

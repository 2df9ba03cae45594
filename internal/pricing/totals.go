package pricing

import "github.com/HamzaArc/atlas-flow-sub000/internal/currency"

// SectionTotals is the net/VAT/gross roll-up for one slice of an option.
type SectionTotals struct {
	Net   float64 `json:"net"`
	VAT   float64 `json:"vat"`
	Gross float64 `json:"gross"`
}

func (st *SectionTotals) add(c Computed) {
	st.Net += c.SellNet
	st.VAT += c.VATAmount
	st.Gross += c.SellTTC
}

// Totals is the cached totals snapshot of a pricing option: grand totals
// in the target currency, the aggregate margin, and the breakdowns by
// section and by settlement status used for reporting.
type Totals struct {
	Net       float64 `json:"net"`
	VAT       float64 `json:"vat"`
	Gross     float64 `json:"gross"`
	CostBase  float64 `json:"costBase"`
	SellBase  float64 `json:"sellBase"`
	MarginPct float64 `json:"marginPct"`

	Origin      SectionTotals `json:"origin"`
	Freight     SectionTotals `json:"freight"`
	Destination SectionTotals `json:"destination"`

	Confirmed SectionTotals `json:"confirmed"`
	Estimated SectionTotals `json:"estimated"`

	MissingRates []string `json:"missingRates,omitempty"`
}

// Sum recomputes option totals from scratch over the given line items.
func Sum(items []LineItem, rates currency.Rates, target string) Totals {
	var t Totals
	seenMissing := make(map[string]struct{})

	for _, li := range items {
		c := Compute(li, rates, target)

		t.Net += c.SellNet
		t.VAT += c.VATAmount
		t.Gross += c.SellTTC
		t.CostBase += c.CostBase
		t.SellBase += c.SellBase

		switch li.Section {
		case SectionOrigin:
			t.Origin.add(c)
		case SectionDestination:
			t.Destination.add(c)
		default:
			t.Freight.add(c)
		}

		if li.Settlement == SettlementConfirmed {
			t.Confirmed.add(c)
		} else {
			t.Estimated.add(c)
		}

		for _, code := range c.MissingRates {
			if _, ok := seenMissing[code]; ok {
				continue
			}
			seenMissing[code] = struct{}{}
			t.MissingRates = append(t.MissingRates, code)
		}
	}

	t.MarginPct = marginPct(t.CostBase, t.SellBase)
	return t
}

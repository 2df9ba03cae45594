package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/HamzaArc/atlas-flow-sub000/internal/currency"
	"github.com/HamzaArc/atlas-flow-sub000/internal/vat"
)

// Section is the leg of the journey a line item belongs to.
type Section string

const (
	SectionOrigin      Section = "ORIGIN"
	SectionFreight     Section = "FREIGHT"
	SectionDestination Section = "DESTINATION"
)

// Provenance records where a line item came from.
type Provenance string

const (
	ProvenanceManual       Provenance = "MANUAL"
	ProvenanceTariff       Provenance = "TARIFF"
	ProvenanceSmartDefault Provenance = "SMART_DEFAULT"
)

// Settlement is the reporting status of a line's buy price.
type Settlement string

const (
	SettlementConfirmed Settlement = "CONFIRMED"
	SettlementEstimated Settlement = "ESTIMATED"
)

// MarkupType distinguishes percentage markups from fixed amounts.
type MarkupType string

const (
	MarkupPercent     MarkupType = "PERCENT"
	MarkupFixedAmount MarkupType = "FIXED_AMOUNT"
)

// Markup is the margin applied on top of cost. A fixed amount is
// denominated in the same currency as the buy price.
type Markup struct {
	Type  MarkupType `json:"type"`
	Value float64    `json:"value"`
}

// LineItem is one priced line of a pricing option. Only the buy side and
// the markup are stored; every sell figure is derived on demand so sell
// can never drift from cost.
type LineItem struct {
	ID          uuid.UUID  `json:"id"`
	Section     Section    `json:"section"`
	Description string     `json:"description"`
	Vendor      string     `json:"vendor,omitempty"`
	BuyAmount   float64    `json:"buyAmount"`
	BuyCurrency string     `json:"buyCurrency"`
	Markup      Markup     `json:"markup"`
	VATRule     vat.Rule   `json:"vatRule"`
	Provenance  Provenance `json:"provenance"`
	Settlement  Settlement `json:"settlement"`

	// Link back to the originating tariff charge, when any.
	TariffRateID     string     `json:"tariffRateId,omitempty"`
	TariffChargeName string     `json:"tariffChargeName,omitempty"`
	TariffValidTo    *time.Time `json:"tariffValidTo,omitempty"`
}

// TariffExpired reports whether the line is backed by a tariff charge
// whose validity window has closed.
func (li LineItem) TariffExpired(now time.Time) bool {
	return li.TariffValidTo != nil && li.TariffValidTo.Before(now)
}

// Computed holds every derived figure for one line. MissingRates lists the
// currency codes that fell back to a neutral rate of 1 during conversion.
type Computed struct {
	CostBase     float64  `json:"costBase"`
	SellBase     float64  `json:"sellBase"`
	SellNet      float64  `json:"sellNet"`
	VATAmount    float64  `json:"vatAmount"`
	SellTTC      float64  `json:"sellTtc"`
	MarginPct    float64  `json:"marginPct"`
	MissingRates []string `json:"missingRates,omitempty"`
}

// Compute derives the full sell side of a line from its buy side.
//
//	sellBase = cost*rBuy * (1 + pct/100)         PERCENT
//	sellBase = (cost + fixed) * rBuy             FIXED_AMOUNT
//	sellNet  = sellBase / rTarget
//	sellTTC  = sellNet * (1 + vatRate)
func Compute(li LineItem, rates currency.Rates, target string) Computed {
	var missing []string

	costBase, okBuy := rates.ToBase(li.BuyAmount, li.BuyCurrency)
	if !okBuy {
		missing = append(missing, li.BuyCurrency)
	}

	sellBase := sellBaseOf(li, rates)

	sellNet, okTarget := rates.ToTarget(sellBase, target)
	if !okTarget {
		missing = append(missing, target)
	}

	ttc := sellNet * (1 + li.VATRule.Rate())

	return Computed{
		CostBase:     costBase,
		SellBase:     sellBase,
		SellNet:      sellNet,
		VATAmount:    ttc - sellNet,
		SellTTC:      ttc,
		MarginPct:    marginPct(costBase, sellBase),
		MissingRates: missing,
	}
}

func sellBaseOf(li LineItem, rates currency.Rates) float64 {
	rBuy, _ := rates.Rate(li.BuyCurrency)
	switch li.Markup.Type {
	case MarkupFixedAmount:
		return (li.BuyAmount + li.Markup.Value) * rBuy
	default:
		return li.BuyAmount * rBuy * (1 + li.Markup.Value/100)
	}
}

// marginPct is (sellBase - costBase) / sellBase, as a percentage. Defined
// as 0 whenever sellBase is not positive.
func marginPct(costBase, sellBase float64) float64 {
	if sellBase <= 0 {
		return 0
	}
	return (sellBase - costBase) / sellBase * 100
}

// EditCost applies a user edit of the buy price. When the line already has
// a positive computed sell, the markup is re-solved so the sell price is
// unchanged; a fresh line (zero sell) just takes the new cost and keeps
// its markup. The re-solved markup legitimately comes out negative when
// the new cost exceeds the preserved sell.
func EditCost(li LineItem, newCost float64, rates currency.Rates) LineItem {
	sellBase := sellBaseOf(li, rates)
	if sellBase <= 0 {
		li.BuyAmount = newCost
		return li
	}

	rBuy, _ := rates.Rate(li.BuyCurrency)
	newCostBase := newCost * rBuy
	switch li.Markup.Type {
	case MarkupFixedAmount:
		li.Markup.Value = sellBase/rBuy - newCost
	default:
		if newCostBase > 0 {
			li.Markup.Value = (sellBase/newCostBase - 1) * 100
		}
		// A zero-cost line cannot carry a percentage markup back to the
		// old sell; the markup stays untouched.
	}
	li.BuyAmount = newCost
	return li
}

// EditSellTTC applies a user edit of the displayed tax-included sell
// price: reverse through VAT to net, convert to base, then re-solve the
// buy price holding the markup constant. A sell edit never silently
// changes the markup.
func EditSellTTC(li LineItem, newTTC float64, rates currency.Rates, target string) LineItem {
	sellNet := newTTC / (1 + li.VATRule.Rate())
	rTarget, _ := rates.Rate(target)
	sellBase := sellNet * rTarget

	rBuy, _ := rates.Rate(li.BuyCurrency)
	switch li.Markup.Type {
	case MarkupFixedAmount:
		li.BuyAmount = sellBase/rBuy - li.Markup.Value
	default:
		factor := 1 + li.Markup.Value/100
		if factor <= 0 {
			// Degenerate -100% markup; solve as if no markup applied.
			factor = 1
		}
		li.BuyAmount = sellBase / (rBuy * factor)
	}
	return li
}

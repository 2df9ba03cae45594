package quote

import (
	"github.com/google/uuid"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/currency"
	"github.com/HamzaArc/atlas-flow-sub000/internal/pricing"
	"github.com/HamzaArc/atlas-flow-sub000/internal/tariff"
)

// ApplyPolicy decides what happens to existing lines when a tariff is
// (re-)applied to an option.
type ApplyPolicy string

const (
	// ApplyFillGaps keeps every existing line and only adds charges not
	// already present on the option. This is the default.
	ApplyFillGaps ApplyPolicy = "FILL_GAPS"
	// ApplyOverwrite rebuilds the option's lines from the tariff,
	// discarding manual edits.
	ApplyOverwrite ApplyPolicy = "OVERWRITE"
)

func (q *Quotation) ensureEditable() error {
	if q.Approval.Status.Terminal() {
		return ErrLocked
	}
	return nil
}

// AddOption appends a new pricing option and makes it active when it is
// the first one.
func (q *Quotation) AddOption(label string, mode cargo.Mode, route Route, incoterm string) (*Option, []Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, nil, err
	}

	opt := Option{
		ID:       uuid.New(),
		Label:    label,
		Mode:     mode,
		Route:    route,
		Incoterm: incoterm,
		Items:    []pricing.LineItem{},
	}
	q.Options = append(q.Options, opt)
	if len(q.Options) == 1 {
		q.ActiveOption = opt.ID
	}

	added := &q.Options[len(q.Options)-1]
	q.recompute(added)
	return added, []Effect{persist(), logActivity("option %q added", label)}, nil
}

// SetActiveOption switches which option is open for editing. This is an
// explicit mutation; comparing options never changes it.
func (q *Quotation) SetActiveOption(optionID uuid.UUID) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	opt := q.option(optionID)
	if opt == nil {
		return nil, ErrOptionNotFound
	}
	q.ActiveOption = optionID
	return []Effect{persist(), logActivity("option %q selected", opt.Label)}, nil
}

// SetCargo replaces an option's cargo profile and recomputes every
// quantity-driven figure.
func (q *Quotation) SetCargo(optionID uuid.UUID, profile cargo.Profile) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	opt := q.option(optionID)
	if opt == nil {
		return nil, ErrOptionNotFound
	}
	opt.Cargo = profile
	q.recompute(opt)
	return []Effect{persist(), logActivity("cargo updated on option %q", opt.Label)}, nil
}

// SetExchangeRates replaces the quotation's exchange-rate snapshot and
// recomputes every option's totals against it.
func (q *Quotation) SetExchangeRates(rates currency.Rates) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	q.Rates = rates
	for i := range q.Options {
		q.recompute(&q.Options[i])
	}
	return []Effect{persist(), logActivity("exchange rates updated")}, nil
}

// ApplyTariff prices an option from a matched rate sheet: every charge of
// the rate's three collections is resolved against the option's cargo and
// becomes a tariff-linked line carrying the quotation's default markup.
func (q *Quotation) ApplyTariff(optionID uuid.UUID, rate tariff.Rate, policy ApplyPolicy) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	opt := q.option(optionID)
	if opt == nil {
		return nil, ErrOptionNotFound
	}

	generated := q.linesFromRate(rate, opt)

	switch policy {
	case ApplyOverwrite:
		opt.Items = generated
	default:
		existing := make(map[string]struct{}, len(opt.Items))
		for _, li := range opt.Items {
			existing[lineKey(li.TariffChargeName, li.Description)] = struct{}{}
		}
		for _, li := range generated {
			if _, ok := existing[lineKey(li.TariffChargeName, li.Description)]; ok {
				continue
			}
			opt.Items = append(opt.Items, li)
		}
	}

	opt.TariffRateID = rate.ID
	opt.Carrier = rate.Carrier
	opt.TransitDays = rate.TransitDays
	q.recompute(opt)
	return []Effect{persist(), logActivity("tariff %s (%s) applied to option %q", rate.ID, rate.Carrier, opt.Label)}, nil
}

func lineKey(chargeName, description string) string {
	if chargeName != "" {
		return chargeName
	}
	return description
}

func (q *Quotation) linesFromRate(rate tariff.Rate, opt *Option) []pricing.LineItem {
	sections := []struct {
		section pricing.Section
		charges []tariff.Charge
	}{
		{pricing.SectionOrigin, rate.OriginCharges},
		{pricing.SectionFreight, rate.FreightCharges},
		{pricing.SectionDestination, rate.DestinationCharges},
	}

	var items []pricing.LineItem
	for _, sec := range sections {
		for _, charge := range sec.charges {
			validTo := rate.ValidTo
			items = append(items, pricing.LineItem{
				ID:               uuid.New(),
				Section:          sec.section,
				Description:      charge.Name,
				Vendor:           rate.Carrier,
				BuyAmount:        tariff.ResolveCost(charge, opt.Cargo, opt.Mode),
				BuyCurrency:      charge.Currency,
				Markup:           q.DefaultMarkup,
				VATRule:          charge.VATRule,
				Provenance:       pricing.ProvenanceTariff,
				Settlement:       pricing.SettlementConfirmed,
				TariffRateID:     rate.ID,
				TariffChargeName: charge.Name,
				TariffValidTo:    &validTo,
			})
		}
	}
	return items
}

// AddLineItem appends a manually entered line to an option.
func (q *Quotation) AddLineItem(optionID uuid.UUID, li pricing.LineItem) (*pricing.LineItem, []Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, nil, err
	}
	opt := q.option(optionID)
	if opt == nil {
		return nil, nil, ErrOptionNotFound
	}

	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	if li.Provenance == "" {
		li.Provenance = pricing.ProvenanceManual
	}
	if li.Settlement == "" {
		li.Settlement = pricing.SettlementEstimated
	}
	opt.Items = append(opt.Items, li)
	q.recompute(opt)

	added := &opt.Items[len(opt.Items)-1]
	return added, []Effect{persist(), logActivity("line %q added to option %q", li.Description, opt.Label)}, nil
}

// RemoveLineItem deletes a line from an option.
func (q *Quotation) RemoveLineItem(optionID, itemID uuid.UUID) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	opt := q.option(optionID)
	if opt == nil {
		return nil, ErrOptionNotFound
	}
	for i, li := range opt.Items {
		if li.ID == itemID {
			opt.Items = append(opt.Items[:i], opt.Items[i+1:]...)
			q.recompute(opt)
			return []Effect{persist(), logActivity("line %q removed", li.Description)}, nil
		}
	}
	return nil, ErrItemNotFound
}

func (q *Quotation) item(optionID, itemID uuid.UUID) (*Option, *pricing.LineItem, error) {
	opt := q.option(optionID)
	if opt == nil {
		return nil, nil, ErrOptionNotFound
	}
	for i := range opt.Items {
		if opt.Items[i].ID == itemID {
			return opt, &opt.Items[i], nil
		}
	}
	return nil, nil, ErrItemNotFound
}

// EditItemCost applies a buy-price edit; the markup is re-solved so the
// line's sell price stays put (see pricing.EditCost).
func (q *Quotation) EditItemCost(optionID, itemID uuid.UUID, newCost float64) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	opt, li, err := q.item(optionID, itemID)
	if err != nil {
		return nil, err
	}
	*li = pricing.EditCost(*li, newCost, q.Rates)
	li.Settlement = pricing.SettlementConfirmed
	q.recompute(opt)
	return []Effect{persist(), logActivity("cost edited on line %q", li.Description)}, nil
}

// EditItemSellTTC applies a sell-price edit; the buy price is re-solved
// while the markup is held constant (see pricing.EditSellTTC).
func (q *Quotation) EditItemSellTTC(optionID, itemID uuid.UUID, newTTC float64) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	opt, li, err := q.item(optionID, itemID)
	if err != nil {
		return nil, err
	}
	*li = pricing.EditSellTTC(*li, newTTC, q.Rates, q.Currency)
	q.recompute(opt)
	return []Effect{persist(), logActivity("sell edited on line %q", li.Description)}, nil
}

// SetItemMarkup replaces a line's markup outright.
func (q *Quotation) SetItemMarkup(optionID, itemID uuid.UUID, m pricing.Markup) ([]Effect, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	opt, li, err := q.item(optionID, itemID)
	if err != nil {
		return nil, err
	}
	li.Markup = m
	q.recompute(opt)
	return []Effect{persist(), logActivity("markup edited on line %q", li.Description)}, nil
}

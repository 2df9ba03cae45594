package tariff

import (
	"time"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
	"github.com/HamzaArc/atlas-flow-sub000/internal/vat"
)

// Status is the lifecycle state of a carrier rate sheet. Rate sheets are
// owned by the rate-management workflow; the engine only reads them.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDraft    Status = "DRAFT"
	StatusArchived Status = "ARCHIVED"
)

// Basis is the cost basis of a rate charge.
type Basis string

const (
	BasisContainer     Basis = "CONTAINER"
	BasisWeight        Basis = "WEIGHT"
	BasisTaxableWeight Basis = "TAXABLE_WEIGHT"
	BasisVolume        Basis = "VOLUME"
	BasisFlat          Basis = "FLAT"
)

// Charge is one priced line inside a rate sheet. For container charges the
// per-bracket fields apply; for the other bases UnitPrice does.
type Charge struct {
	Name      string   `json:"name"`
	Basis     Basis    `json:"basis"`
	Per20DV   float64  `json:"per20dv,omitempty"`
	Per40DV   float64  `json:"per40dv,omitempty"`
	Per40HC   float64  `json:"per40hc,omitempty"`
	Per40RF   float64  `json:"per40rf,omitempty"`
	UnitPrice float64  `json:"unitPrice,omitempty"`
	MinPrice  float64  `json:"minPrice,omitempty"`
	Currency  string   `json:"currency"`
	VATRule   vat.Rule `json:"vatRule"`
}

// Rate is a carrier rate sheet for one route, mode and incoterm, valid
// over a date window.
type Rate struct {
	ID                 string     `json:"id"`
	Carrier            string     `json:"carrier"`
	POL                string     `json:"pol"`
	POD                string     `json:"pod"`
	Mode               cargo.Mode `json:"mode"`
	Incoterm           string     `json:"incoterm"`
	Status             Status     `json:"status"`
	ValidFrom          time.Time  `json:"validFrom"`
	ValidTo            time.Time  `json:"validTo"`
	TransitDays        int        `json:"transitDays,omitempty"`
	Reliability        float64    `json:"reliability,omitempty"`
	OriginCharges      []Charge   `json:"originCharges,omitempty"`
	FreightCharges     []Charge   `json:"freightCharges,omitempty"`
	DestinationCharges []Charge   `json:"destinationCharges,omitempty"`
}

// Expired reports whether the rate's validity window has closed at the
// given instant.
func (r Rate) Expired(now time.Time) bool {
	return r.ValidTo.Before(now)
}

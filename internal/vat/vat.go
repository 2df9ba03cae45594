package vat

// Rule identifies one of the fixed VAT regimes a priced line can fall under.
type Rule string

const (
	// Standard is the default 20% regime.
	Standard Rule = "STANDARD"
	// ReducedRoad is the 14% regime for domestic road transport.
	ReducedRoad Rule = "REDUCED_ROAD"
	// ExportExempt covers international freight legs, taxed at 0%.
	ExportExempt Rule = "EXPORT_EXEMPT"
	// Exempt is the generic 0% regime.
	Exempt Rule = "EXEMPT"
)

// Rate returns the tax rate for the rule as a fraction (0.20 for 20%).
// Unknown rules are treated as exempt rather than failing, so an
// incomplete draft keeps computing.
func (r Rule) Rate() float64 {
	switch r {
	case Standard:
		return 0.20
	case ReducedRoad:
		return 0.14
	default:
		return 0
	}
}

// Valid reports whether r is one of the enumerated rules.
func (r Rule) Valid() bool {
	switch r {
	case Standard, ReducedRoad, ExportExempt, Exempt:
		return true
	}
	return false
}

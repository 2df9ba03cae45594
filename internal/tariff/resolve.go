package tariff

import (
	"strings"

	"github.com/HamzaArc/atlas-flow-sub000/internal/cargo"
)

// ResolveCost turns one charge definition into a concrete cost amount in
// the charge's own currency for the given cargo profile and mode. It is
// pure and deterministic for a given snapshot.
func ResolveCost(c Charge, p cargo.Profile, m cargo.Mode) float64 {
	switch c.Basis {
	case BasisContainer:
		return containerCost(c, p)
	case BasisWeight, BasisTaxableWeight:
		amount := c.UnitPrice * cargo.Chargeable(p, m)
		if c.MinPrice > 0 && amount < c.MinPrice {
			return c.MinPrice
		}
		return amount
	case BasisVolume:
		return c.UnitPrice * p.TotalVolume()
	default:
		return c.UnitPrice
	}
}

func containerCost(c Charge, p cargo.Profile) float64 {
	if len(p.Equipment) == 0 {
		return bracketPrice(c, "")
	}
	var total float64
	for _, eq := range p.Equipment {
		count := eq.Count
		if count < 1 {
			count = 1
		}
		total += bracketPrice(c, eq.Type) * float64(count)
	}
	return total
}

// bracketPrice picks the per-container price matching the equipment
// descriptor. Descriptors that match no bracket unambiguously fall back to
// the 40' high-cube price.
func bracketPrice(c Charge, equipment string) float64 {
	desc := strings.ToUpper(equipment)
	switch {
	case strings.Contains(desc, "20"):
		return c.Per20DV
	case strings.Contains(desc, "40") && (strings.Contains(desc, "HC") || strings.Contains(desc, "HIGH")):
		return c.Per40HC
	case strings.Contains(desc, "40") && (strings.Contains(desc, "RF") || strings.Contains(desc, "REEFER")):
		return c.Per40RF
	case strings.Contains(desc, "40"):
		return c.Per40DV
	default:
		return c.Per40HC
	}
}

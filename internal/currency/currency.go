package currency

// Rates maps an ISO currency code to its price in the quotation's base
// currency. The base currency itself maps to 1. A Rates value is always a
// per-quotation snapshot passed in by the caller; the engine never reads
// rates from ambient state.
type Rates map[string]float64

// Rate returns the exchange rate for code. When the code is absent or its
// rate is not positive, a neutral rate of 1 is returned and the second
// result is false so the caller can surface the fallback as a warning
// instead of letting a zero rate poison downstream totals.
func (r Rates) Rate(code string) (float64, bool) {
	rate, ok := r[code]
	if !ok || rate <= 0 {
		return 1, false
	}
	return rate, true
}

// ToBase converts an amount in the given currency into base units.
// No rounding happens here; rounding is a display concern.
func (r Rates) ToBase(amount float64, code string) (float64, bool) {
	rate, ok := r.Rate(code)
	return amount * rate, ok
}

// ToTarget converts a base amount into the given currency.
func (r Rates) ToTarget(amountBase float64, code string) (float64, bool) {
	rate, ok := r.Rate(code)
	return amountBase / rate, ok
}

// Merge overlays per-quotation overrides on top of a baseline table and
// returns a new snapshot. Neither input is modified.
func Merge(baseline, override Rates) Rates {
	merged := make(Rates, len(baseline)+len(override))
	for code, rate := range baseline {
		merged[code] = rate
	}
	for code, rate := range override {
		merged[code] = rate
	}
	return merged
}

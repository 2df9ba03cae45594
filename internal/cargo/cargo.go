package cargo

// Mode is the transport mode of a shipment leg.
type Mode string

const (
	ModeAir  Mode = "AIR"
	ModeSea  Mode = "SEA"
	ModeRoad Mode = "ROAD"
)

// VolumetricRatio returns the mode's volumetric conversion factor in kg/m³.
// Unknown modes fall back to the sea ratio.
func (m Mode) VolumetricRatio() float64 {
	switch m {
	case ModeAir:
		return 166.67
	case ModeRoad:
		return 333.33
	default:
		return 1000
	}
}

// Valid reports whether m is a known transport mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeAir, ModeSea, ModeRoad:
		return true
	}
	return false
}

// Package is one cargo manifest row. Dimensions are per unit in
// centimeters, weight per unit in kilograms.
type Package struct {
	Quantity  int     `json:"quantity"`
	Type      string  `json:"type"`
	LengthCM  float64 `json:"lengthCm"`
	WidthCM   float64 `json:"widthCm"`
	HeightCM  float64 `json:"heightCm"`
	WeightKG  float64 `json:"weightKg"`
	Stackable bool    `json:"stackable"`
}

// Equipment is one container line of an FCL shipment.
type Equipment struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Profile is the cargo side of a pricing option: either loose packages or
// a container list. It is owned by the quotation being edited and its
// aggregates are recomputed from scratch on every edit.
type Profile struct {
	Packages  []Package   `json:"packages,omitempty"`
	Equipment []Equipment `json:"equipment,omitempty"`
}

// TotalWeight returns the gross weight in kg across all package rows.
func (p Profile) TotalWeight() float64 {
	var total float64
	for _, pkg := range p.Packages {
		total += float64(pkg.Quantity) * pkg.WeightKG
	}
	return total
}

// TotalVolume returns the volume in m³ across all package rows.
func (p Profile) TotalVolume() float64 {
	var total float64
	for _, pkg := range p.Packages {
		unit := pkg.LengthCM * pkg.WidthCM * pkg.HeightCM / 1_000_000
		total += float64(pkg.Quantity) * unit
	}
	return total
}

// TotalPackages returns the package count across all rows.
func (p Profile) TotalPackages() int {
	var total int
	for _, pkg := range p.Packages {
		total += pkg.Quantity
	}
	return total
}

// ContainerCount returns the number of container units on the profile.
func (p Profile) ContainerCount() int {
	var total int
	for _, eq := range p.Equipment {
		total += eq.Count
	}
	return total
}

// FullLoad reports whether the profile is a full-container-load shipment:
// containers listed and no loose packages. FCL units are fixed blocks, so
// volumetric conversion does not apply to them.
func (p Profile) FullLoad() bool {
	return len(p.Equipment) > 0 && len(p.Packages) == 0
}

// Chargeable derives the billable weight in kg for the profile under the
// given mode: the greater of gross weight and volumetric weight. The
// function is pure; the same cargo and mode always yield the same result.
func Chargeable(p Profile, m Mode) float64 {
	gross := p.TotalWeight()
	if p.FullLoad() {
		return gross
	}
	volumetric := p.TotalVolume() * m.VolumetricRatio()
	if volumetric > gross {
		return volumetric
	}
	return gross
}

package sensor

import "fmt"

// Profile describes how raw ADC codes of one sensor map to physical values.
type Profile struct {
	Name       string  // Short identifier, unique within a catalog
	Unit       string  // Engineering unit of converted values
	VRef       float64 // ADC reference voltage (V)
	Resolution int     // Full-scale ADC code
	Scale      float64 // Linear gain applied to voltage
	Offset     float64 // Bias added after scaling
	Threshold  float64 // Values strictly above this are flagged
}

// Catalog is the fixed, ordered set of known sensor profiles.
type Catalog struct {
	profiles []Profile
}

// NewCatalog creates the built-in catalog of temperature, pressure and light sensors.
func NewCatalog() *Catalog {
	return &Catalog{
		profiles: []Profile{
			{Name: "Temp", Unit: "C", VRef: 3.3, Resolution: 1023, Scale: 50.0, Offset: -40.0, Threshold: 30.0},
			{Name: "Press", Unit: "kPa", VRef: 3.3, Resolution: 1023, Scale: 90.0, Offset: 0.0, Threshold: 200.0},
			{Name: "Light", Unit: "lux", VRef: 3.3, Resolution: 1023, Scale: 300.0, Offset: 0.0, Threshold: 200.0},
		},
	}
}

// List returns a copy of all profiles in catalog order.
func (c *Catalog) List() []Profile {
	result := make([]Profile, len(c.profiles))
	copy(result, c.profiles)
	return result
}

// Len returns the number of profiles.
func (c *Catalog) Len() int {
	return len(c.profiles)
}

// At returns the profile at the zero-based index.
func (c *Catalog) At(index int) (*Profile, error) {
	if index < 0 || index >= len(c.profiles) {
		return nil, fmt.Errorf("sensor index %d out of range [0, %d)", index, len(c.profiles))
	}
	return &c.profiles[index], nil
}

// Find looks a profile up by exact, case-sensitive name.
// The returned pointer refers to the catalog entry and must not be modified.
func (c *Catalog) Find(name string) (*Profile, bool) {
	for i := range c.profiles {
		if c.profiles[i].Name == name {
			return &c.profiles[i], true
		}
	}
	return nil, false
}

// Default returns the first catalog entry.
func (c *Catalog) Default() *Profile {
	return &c.profiles[0]
}

// Convert maps an ADC code to a physical value. Codes outside [0, Resolution]
// are clamped. Panics if the profile has a non-positive resolution.
func Convert(p Profile, code int) float64 {
	if p.Resolution <= 0 {
		panic(fmt.Sprintf("sensor %q: resolution must be positive, got %d", p.Name, p.Resolution))
	}

	code = max(0, min(code, p.Resolution))
	voltage := adcToVoltage(code, p.Resolution, p.VRef)
	return p.Scale*voltage + p.Offset
}

// adcToVoltage converts an ADC code to voltage.
func adcToVoltage(code, resolution int, vref float64) float64 {
	return (float64(code) / float64(resolution)) * vref
}

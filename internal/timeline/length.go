package timeline

import (
	"fmt"
	"slices"
)

// Unit is a unit of length. It plays the role of time for Length.
type Unit string

// Supported units.
const (
	Millimetre Unit = "mm"
	Centimetre Unit = "cm"
	Metre      Unit = "m"
	Inch       Unit = "in"
)

// micrometres per unit
var unitScale = map[Unit]int64{
	Millimetre: 1_000,
	Centimetre: 10_000,
	Metre:      1_000_000,
	Inch:       25_400,
}

// Units returns the supported units in a stable order.
func Units() []Unit {
	units := make([]Unit, 0, len(unitScale))
	for u := range unitScale {
		units = append(units, u)
	}
	slices.Sort(units)
	return units
}

// ParseUnit validates a unit name.
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if _, ok := unitScale[u]; !ok {
		return "", fmt.Errorf("unknown unit %q: must be one of %v", s, Units())
	}
	return u, nil
}

// Length is an integral measurement in some unit.
type Length struct {
	Unit  Unit  `json:"unit" yaml:"unit"`
	Value int64 `json:"value" yaml:"value"`
}

// Time returns the unit of the measurement.
func (l Length) Time() Unit {
	return l.Unit
}

// Synchronize converts the measurement to unit u.
// Returns false for unknown units, when the converted value would not be
// an integer, or when it does not fit in an int64.
func (l Length) Synchronize(u Unit) (Length, bool) {
	from, ok := unitScale[l.Unit]
	if !ok {
		return Length{}, false
	}
	if u == l.Unit {
		return l, true
	}
	to, ok := unitScale[u]
	if !ok {
		return Length{}, false
	}

	// value*from/to with the common factor removed first, so the
	// intermediate product never exceeds the result.
	g := gcd(from, to)
	mul, div := from/g, to/g
	if l.Value%div != 0 {
		return Length{}, false
	}
	v, ok := mulInt64(l.Value/div, mul)
	if !ok {
		return Length{}, false
	}
	return Length{Unit: u, Value: v}, true
}

// Equal reports whether two measurements have the same unit and value.
func (l Length) Equal(other Length) bool {
	return l == other
}

// String returns the measurement with its unit suffix.
func (l Length) String() string {
	return fmt.Sprintf("%d%s", l.Value, l.Unit)
}

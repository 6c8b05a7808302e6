// Package common holds enums shared by configuration, conversion core and
// command line. Code for them is generated with go-enum, see enums_enum.go.
package common

//go:generate go tool go-enum --marshal --names --values

// Viewport unit appended to converted lengths.
// ENUM(vw, vmin)
type OutputUnit int

// Suffix returns the CSS unit text for the output unit.
func (x OutputUnit) Suffix() string {
	return x.String()
}

// Length unit recognized in declaration values and converted.
// ENUM(px, rem)
type SourceUnit int

// Pixels returns the pixel equivalent of value expressed in the unit.
func (x SourceUnit) Pixels(value, baseFontSize float64) float64 {
	if x == SourceUnitRem {
		return value * baseFontSize
	}
	return value
}

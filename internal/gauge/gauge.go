// Package gauge maps a 0-100 level onto the geometry of the two meter styles:
// a discrete LED strip and an analog half-circle arc.
package gauge

import (
	"math"
)

const (
	MinValue = 0
	MaxValue = 100

	// SegmentCount is the number of LEDs in a strip.
	SegmentCount = 10

	// litMultiplier makes a value of 100 light every segment despite rounding.
	litMultiplier = 10.99
)

// Color classifies a segment, tick or band. Renderers map it to real colors.
type Color int

const (
	ColorOff Color = iota
	ColorLow
	ColorMid
	ColorHigh
	ColorNeutral
	ColorWeak
	ColorGood
	ColorOverload
)

func (c Color) String() string {
	switch c {
	case ColorOff:
		return "off"
	case ColorLow:
		return "low"
	case ColorMid:
		return "mid"
	case ColorHigh:
		return "high"
	case ColorNeutral:
		return "neutral"
	case ColorWeak:
		return "weak"
	case ColorGood:
		return "good"
	case ColorOverload:
		return "overload"
	default:
		return "unknown"
	}
}

// Clamp limits v to [MinValue, MaxValue].
func Clamp(v float64) float64 {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// Segment is one LED of a strip, index 0 at the bottom.
type Segment struct {
	Index int
	Color Color
	Lit   bool
}

// SegmentColor returns the color of the LED at index i: six low, two mid, two high.
func SegmentColor(i int) Color {
	switch {
	case i >= 8:
		return ColorHigh
	case i >= 6:
		return ColorMid
	default:
		return ColorLow
	}
}

// LitCount returns how many segments are on for value.
func LitCount(value float64) int {
	lit := int(math.Round(Clamp(value) / MaxValue * litMultiplier))
	if lit > SegmentCount {
		return SegmentCount
	}
	return lit
}

// Segments returns the full strip for value, bottom first.
func Segments(value float64) []Segment {
	lit := LitCount(value)
	segments := make([]Segment, SegmentCount)
	for i := range segments {
		segments[i] = Segment{Index: i, Color: SegmentColor(i), Lit: i < lit}
	}
	return segments
}

package gauge

import (
	"math"
)

// Style selects the scale printed on an analog arc.
type Style int

const (
	StyleVU Style = iota
	StyleSignal
)

func (s Style) String() string {
	switch s {
	case StyleVU:
		return "VU"
	case StyleSignal:
		return "Sig"
	default:
		return "?"
	}
}

// Point is a position in the gauge's coordinate space. Y grows downwards, so
// the arc spans the upper half around the center.
type Point struct {
	X, Y float64
}

// Tick is a scale mark at a percentage position.
type Tick struct {
	Value float64
	Color Color
	Major bool
}

// Band is a colored stretch of the arc. Bands are fixed; they never follow the needle.
type Band struct {
	From, To float64
	Color    Color
}

// Arc is the geometry of a semicircular gauge.
type Arc struct {
	Center Point
	Radius float64
	// NeedleInset shortens the needle relative to the scale radius.
	NeedleInset float64
}

// AngleFor maps a percentage to degrees: 0 lies at 180° (left), 100 at 0° (right).
func AngleFor(value float64) float64 {
	return 180 - Clamp(value)*1.8
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// PointAt returns the point at the given angle and distance from the center.
func (a Arc) PointAt(angle, radius float64) Point {
	rad := toRad(angle)
	return Point{
		X: a.Center.X + radius*math.Cos(rad),
		Y: a.Center.Y - radius*math.Sin(rad),
	}
}

// Needle returns the tip of the needle for value.
func (a Arc) Needle(value float64) Point {
	return a.PointAt(AngleFor(value), a.Radius-a.NeedleInset)
}

// Ticks returns the scale marks of style, colored by warning range.
func Ticks(style Style) []Tick {
	values := []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	if style == StyleSignal {
		values = []float64{0, 10, 20, 30, 40, 50, 60, 70, 75, 80, 90, 100}
	}

	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{
			Value: v,
			Color: tickColor(style, v),
			Major: int(v)%20 == 0 || (style == StyleSignal && v == 75),
		})
	}
	return ticks
}

func tickColor(style Style, v float64) Color {
	switch style {
	case StyleSignal:
		if v <= 20 {
			return ColorWeak
		}
		if v >= 75 {
			return ColorGood
		}
	case StyleVU:
		if v >= 80 {
			return ColorOverload
		}
	}
	return ColorNeutral
}

// Bands returns the fixed colored stretches of style.
func Bands(style Style) []Band {
	if style == StyleSignal {
		return []Band{
			{From: 0, To: 20, Color: ColorWeak},
			{From: 20, To: 75, Color: ColorNeutral},
			{From: 75, To: 100, Color: ColorGood},
		}
	}
	return []Band{{From: 80, To: 100, Color: ColorOverload}}
}

// BandColor returns the band color covering value, or ColorNeutral.
func BandColor(style Style, value float64) Color {
	for _, b := range Bands(style) {
		if value >= b.From && value <= b.To {
			return b.Color
		}
	}
	return ColorNeutral
}

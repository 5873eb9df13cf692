package ui

import (
	"testing"

	"github.com/glebovdev/piradio/internal/gauge"
)

func litRows(g grid) int {
	n := 0
	for _, row := range g {
		if row[0].ch == '█' {
			n++
		}
	}
	return n
}

func TestLEDStrip(t *testing.T) {
	tests := []struct {
		value int
		lit   int
	}{
		{0, 0},
		{50, 5},
		{100, gauge.SegmentCount},
	}

	for _, tt := range tests {
		g := ledStrip(tt.value)
		if len(g) != gauge.SegmentCount {
			t.Fatalf("ledStrip(%d) has %d rows, want %d", tt.value, len(g), gauge.SegmentCount)
		}
		if got := litRows(g); got != tt.lit {
			t.Errorf("ledStrip(%d) lights %d rows, want %d", tt.value, got, tt.lit)
		}
	}
}

func TestLEDStripFillsFromBottom(t *testing.T) {
	g := ledStrip(30)
	bottom := g[len(g)-1][0]
	top := g[0][0]

	if bottom.ch != '█' || bottom.color != gauge.ColorLow {
		t.Errorf("bottom cell = %+v, want lit low segment", bottom)
	}
	if top.ch != '░' || top.color != gauge.ColorOff {
		t.Errorf("top cell = %+v, want unlit segment", top)
	}

	full := ledStrip(100)
	if full[0][0].color != gauge.ColorHigh {
		t.Errorf("top segment color = %v, want high", full[0][0].color)
	}
}

func TestLEDStripMonotonic(t *testing.T) {
	prev := 0
	for v := 0; v <= 100; v++ {
		lit := litRows(ledStrip(v))
		if lit < prev {
			t.Fatalf("ledStrip(%d) lights %d rows, fewer than %d at the previous value", v, lit, prev)
		}
		prev = lit
	}
}

func TestAnalogArc(t *testing.T) {
	const bottom = arcHeight - 1

	t.Run("scale ends", func(t *testing.T) {
		g := analogArc(gauge.StyleVU, 0, arcWidth, arcHeight)

		if c := g[bottom][0]; c.ch != '•' || c.color != gauge.ColorNeutral {
			t.Errorf("0%% tick = %+v, want neutral major tick", c)
		}
		if c := g[bottom][arcWidth-1]; c.ch != '•' || c.color != gauge.ColorOverload {
			t.Errorf("100%% tick = %+v, want overload major tick", c)
		}
		if c := g[bottom][arcWidth/2]; c.ch != '◆' {
			t.Errorf("center = %+v, want pivot", c)
		}
	})

	t.Run("needle at zero points left", func(t *testing.T) {
		g := analogArc(gauge.StyleVU, 0, arcWidth, arcHeight)
		if c := g[bottom][2]; c.ch != '∙' || c.color != gauge.ColorNeutral {
			t.Errorf("needle tip = %+v, want neutral needle", c)
		}
	})

	t.Run("needle at full scale uses overload color", func(t *testing.T) {
		g := analogArc(gauge.StyleVU, 100, arcWidth, arcHeight)
		if c := g[bottom][arcWidth-3]; c.ch != '∙' || c.color != gauge.ColorOverload {
			t.Errorf("needle tip = %+v, want overload needle", c)
		}
	})

	t.Run("needle at half points up", func(t *testing.T) {
		g := analogArc(gauge.StyleSignal, 50, arcWidth, arcHeight)
		if c := g[2][arcWidth/2]; c.ch != '∙' {
			t.Errorf("needle tip = %+v, want needle", c)
		}
	})

	t.Run("bands do not follow the value", func(t *testing.T) {
		low := analogArc(gauge.StyleSignal, 0, arcWidth, arcHeight)
		high := analogArc(gauge.StyleSignal, 100, arcWidth, arcHeight)

		for y := range low {
			for x := range low[y] {
				a, b := low[y][x], high[y][x]
				if a.ch == '━' && b.ch != '━' && b.ch != '∙' {
					t.Errorf("band cell (%d,%d) changed from %+v to %+v", x, y, a, b)
				}
			}
		}
	})
}

package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/glebovdev/piradio/internal/config"
	"github.com/glebovdev/piradio/internal/gauge"
	"github.com/glebovdev/piradio/internal/meter"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	MeterPanelWidth = 46
	arcWidth        = 21
	arcHeight       = 7
	ledWidth        = 2
)

// cell is one character of a rendered gauge. A zero rune leaves the cell empty.
type cell struct {
	ch    rune
	color gauge.Color
}

type grid [][]cell

func newGrid(width, height int) grid {
	g := make(grid, height)
	for i := range g {
		g[i] = make([]cell, width)
	}
	return g
}

func (g grid) set(x, y int, ch rune, color gauge.Color) {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return
	}
	g[y][x] = cell{ch: ch, color: color}
}

// ledStrip renders a vertical strip, bottom segment on the last row.
func ledStrip(value int) grid {
	segments := gauge.Segments(float64(value))
	g := newGrid(ledWidth, len(segments))
	for _, s := range segments {
		row := len(segments) - 1 - s.Index
		ch, color := '░', gauge.ColorOff
		if s.Lit {
			ch, color = '█', s.Color
		}
		for x := 0; x < ledWidth; x++ {
			g.set(x, row, ch, color)
		}
	}
	return g
}

// analogArc renders a half-circle gauge. Cells are about twice as tall as
// wide, so x offsets are doubled.
func analogArc(style gauge.Style, value, width, height int) grid {
	g := newGrid(width, height)
	radius := float64(min((width-1)/4, height-1))
	arc := gauge.Arc{
		Center:      gauge.Point{X: float64(width / 2), Y: float64(height - 1)},
		Radius:      radius,
		NeedleInset: 1,
	}
	toCell := func(p gauge.Point) (int, int) {
		x := arc.Center.X + (p.X-arc.Center.X)*2
		return int(math.Round(x)), int(math.Round(p.Y))
	}

	for _, b := range gauge.Bands(style) {
		if b.Color == gauge.ColorNeutral {
			continue
		}
		for v := b.From; v <= b.To; v++ {
			x, y := toCell(arc.PointAt(gauge.AngleFor(v), radius))
			g.set(x, y, '━', b.Color)
		}
	}

	for _, t := range gauge.Ticks(style) {
		x, y := toCell(arc.PointAt(gauge.AngleFor(t.Value), radius))
		ch := '·'
		if t.Major {
			ch = '•'
		}
		g.set(x, y, ch, t.Color)
	}

	needleColor := gauge.BandColor(style, float64(value))
	tip := arc.Needle(float64(value))
	steps := int(radius * 3)
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		p := gauge.Point{
			X: arc.Center.X + (tip.X-arc.Center.X)*f,
			Y: arc.Center.Y + (tip.Y-arc.Center.Y)*f,
		}
		x, y := toCell(p)
		g.set(x, y, '∙', needleColor)
	}

	cx, cy := toCell(arc.Center)
	g.set(cx, cy, '◆', gauge.ColorNeutral)
	return g
}

func (ui *UI) meterColor(c gauge.Color) tcell.Color {
	theme := ui.config.Theme
	switch c {
	case gauge.ColorOff:
		return config.GetColor(theme.MeterOff)
	case gauge.ColorLow, gauge.ColorGood:
		return config.GetColor(theme.MeterLow)
	case gauge.ColorMid:
		return config.GetColor(theme.MeterMid)
	case gauge.ColorHigh, gauge.ColorWeak, gauge.ColorOverload:
		return config.GetColor(theme.MeterHigh)
	default:
		return ui.colors.foreground
	}
}

func (ui *UI) drawGrid(screen tcell.Screen, g grid, x, y int) {
	for row, cells := range g {
		for col, c := range cells {
			if c.ch == 0 {
				continue
			}
			style := tcell.StyleDefault.Background(ui.colors.background).Foreground(ui.meterColor(c.color))
			screen.SetContent(x+col, y+row, c.ch, nil, style)
		}
	}
}

func (ui *UI) drawLEDMeters(screen tcell.Screen, x, y, width int, levels meter.Levels) {
	strips := []struct {
		label string
		value int
	}{
		{"L", levels.Left},
		{"R", levels.Right},
		{"SIG", levels.Signal},
	}

	const gap = 6
	total := len(strips)*ledWidth + (len(strips)-1)*gap
	left := x + (width-total)/2

	for i, s := range strips {
		col := left + i*(ledWidth+gap)
		ui.drawGrid(screen, ledStrip(s.value), col, y)
		tview.Print(screen, s.label, col-1, y+gauge.SegmentCount, ledWidth+2, tview.AlignCenter, ui.colors.foreground)
	}
}

func (ui *UI) drawAnalogMeters(screen tcell.Screen, x, y, width int, levels meter.Levels) {
	arcs := []struct {
		style gauge.Style
		value int
	}{
		{gauge.StyleVU, levels.Left},
		{gauge.StyleSignal, levels.Signal},
	}

	gap := width - len(arcs)*arcWidth
	for i, a := range arcs {
		col := x + gap/3 + i*(arcWidth+gap/3)
		ui.drawGrid(screen, analogArc(a.style, a.value, arcWidth, arcHeight), col, y)
		tview.Print(screen, a.style.String(), col, y+arcHeight, arcWidth, tview.AlignCenter, ui.colors.foreground)
	}
}

func (ui *UI) createMeterView() *tview.Box {
	box := tview.NewBox().SetBackgroundColor(ui.colors.background)

	box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		levels := ui.controller.Levels()
		if ui.meterStyle() == config.MeterAnalog {
			ui.drawAnalogMeters(screen, x, y, width, levels)
		} else {
			ui.drawLEDMeters(screen, x, y, width, levels)
		}
		return x, y, width, height
	})

	return box
}

func (ui *UI) meterStyle() config.MeterStyle {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.config.MeterStyle
}

func (ui *UI) toggleMeterStyle() {
	ui.mu.Lock()
	style := ui.config.ToggleMeterStyle()
	ui.mu.Unlock()

	ui.SaveConfig()
	log.Debug().Str("style", string(style)).Msg("Meter style changed")
}

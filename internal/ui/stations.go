package ui

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/glebovdev/piradio/internal/player"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const maxNameWidth = 35

func (ui *UI) createStationListTable() *tview.Table {
	table := tview.NewTable().
		SetBorders(false).
		SetSeparator(' ').
		SetSelectable(true, false).
		SetFixed(1, 0)

	table.SetBorder(true).
		SetTitle(fmt.Sprintf("Stations (%d)", ui.stationService.StationCount())).
		SetBorderColor(ui.colors.borders).
		SetTitleColor(ui.colors.foreground).
		SetBackgroundColor(ui.colors.background).
		SetBorderPadding(1, 0, 1, 1)

	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(ui.colors.background).
		Background(ui.colors.highlight))

	headers := []struct {
		text      string
		expansion int
	}{
		{" ", 0},
		{" ", 0},
		{"Name", 1},
		{"Region", 1},
		{"Genre", 1},
	}
	for col, h := range headers {
		c := tview.NewTableCell(h.text).
			SetTextColor(ui.colors.listHeaderForeground).
			SetBackgroundColor(ui.colors.listHeaderBackground).
			SetSelectable(false)
		if h.expansion > 0 {
			c.SetExpansion(h.expansion)
		} else {
			c.SetMaxWidth(2)
		}
		table.SetCell(0, col, c)
	}

	for i := 0; i < ui.stationService.StationCount(); i++ {
		ui.setStationRow(table, i+1, i)
	}

	table.SetSelectedFunc(func(row, column int) {
		ui.onStationSelected(row - 1)
	})

	return table
}

// playIcon returns the marker shown next to the station in the given state.
func playIcon(kind player.Kind) string {
	switch kind {
	case player.Paused:
		return PauseIcon
	case player.Failed:
		return "✗"
	case player.Playing, player.Switching:
		return "➤"
	default:
		return " "
	}
}

// truncateName shortens name so that it fits into width runes, ending with "...".
func truncateName(name string, width int) string {
	runes := []rune(name)
	if len(runes) <= width {
		return name
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func (ui *UI) setStationRow(table *tview.Table, row int, stationIndex int) {
	s := ui.stationService.GetStation(stationIndex)
	if s == nil {
		return
	}

	favIcon := " "
	if ui.config.IsFavorite(s.ID) {
		favIcon = "★"
	}
	table.SetCell(row, 0, tview.NewTableCell(favIcon).
		SetTextColor(ui.colors.foreground).
		SetMaxWidth(2))

	table.SetCell(row, 1, tview.NewTableCell(" ").
		SetTextColor(ui.colors.foreground).
		SetMaxWidth(2))

	table.SetCell(row, 2, tview.NewTableCell(s.Name).
		SetTextColor(ui.colors.foreground).
		SetMaxWidth(maxNameWidth).
		SetExpansion(2))

	table.SetCell(row, 3, tview.NewTableCell(s.Region).
		SetTextColor(ui.colors.foreground).
		SetMaxWidth(20).
		SetExpansion(1))

	table.SetCell(row, 4, tview.NewTableCell(strings.ToLower(s.Genre)).
		SetTextColor(ui.colors.foreground).
		SetMaxWidth(20).
		SetExpansion(1))
}

// onStationSelected makes the station at index current and starts it unless
// it is already live.
func (ui *UI) onStationSelected(index int) {
	s := ui.stationService.GetStation(index)
	if s == nil {
		return
	}

	if err := ui.controller.SelectStation(s.ID); err != nil {
		log.Error().Err(err).Msg("Failed to select station")
		return
	}

	if !ui.controller.State().IsActive() {
		if err := ui.controller.Play(); err != nil {
			log.Error().Err(err).Msg("Failed to start playback")
			return
		}
	}

	ui.saveConfigAsync()
	log.Info().Msgf("Selected station: %s", s.Name)
}

func (ui *UI) nextStation() {
	stationCount := ui.stationService.StationCount()
	if stationCount == 0 {
		return
	}

	row, _ := ui.stationList.GetSelection()
	nextIndex := row % stationCount
	ui.stationList.Select(nextIndex+1, 0)
	ui.onStationSelected(nextIndex)
}

func (ui *UI) prevStation() {
	stationCount := ui.stationService.StationCount()
	if stationCount == 0 {
		return
	}

	row, _ := ui.stationList.GetSelection()
	prevIndex := row - 2
	if prevIndex < 0 {
		prevIndex = stationCount - 1
	}
	ui.stationList.Select(prevIndex+1, 0)
	ui.onStationSelected(prevIndex)
}

func (ui *UI) randomStation() {
	stationCount := ui.stationService.StationCount()
	if stationCount == 0 {
		return
	}

	randomIndex := rand.Intn(stationCount)
	ui.stationList.Select(randomIndex+1, 0)
	ui.onStationSelected(randomIndex)
}

// showStation selects the station at index without starting playback.
func (ui *UI) showStation(index int) {
	s := ui.stationService.GetStation(index)
	if s == nil {
		return
	}

	ui.stationList.Select(index+1, 0)
	if err := ui.controller.SelectStation(s.ID); err != nil {
		log.Error().Err(err).Msg("Failed to select station")
		return
	}

	log.Debug().Msgf("Showing station info (without playing): %s", s.Name)
}

// updateStationListPlayingIndicator moves the play marker and spinner to the
// controller's current station.
func (ui *UI) updateStationListPlayingIndicator() {
	state := ui.controller.State()
	index := ui.stationService.FindIndexByID(state.StationID)

	if ui.markedIndex >= 0 && ui.markedIndex != index {
		ui.setStationRow(ui.stationList, ui.markedIndex+1, ui.markedIndex)
	}
	ui.markedIndex = index
	if index < 0 {
		return
	}

	s := ui.stationService.GetStation(index)
	row := index + 1

	if playCell := ui.stationList.GetCell(row, 1); playCell != nil {
		playCell.SetText(playIcon(state.Kind))
	}

	nameCell := ui.stationList.GetCell(row, 2)
	if nameCell == nil {
		return
	}

	if !state.IsActive() {
		nameCell.SetText(s.Name)
		return
	}

	indicator := ui.getPlayingIndicator()
	name := truncateName(s.Name, maxNameWidth-len([]rune(indicator))-1)
	nameCell.SetText(name + " " + indicator)
}

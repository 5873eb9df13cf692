package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/glebovdev/piradio/internal/label"
	"github.com/glebovdev/piradio/internal/service"
	"github.com/glebovdev/piradio/internal/station"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	FavoritesHeight = 4
	favoriteWidth   = label.DefaultLineWidth + 3
)

// favoriteButton is one entry of the favorites bar. Key is the digit that plays it.
type favoriteButton struct {
	Key       rune
	StationID string
	Lines     [2]string
}

func favoriteButtons(stations []station.Station) []favoriteButton {
	buttons := make([]favoriteButton, 0, len(stations))
	for i, s := range stations {
		buttons = append(buttons, favoriteButton{
			Key:       rune('1' + i),
			StationID: s.ID,
			Lines:     label.Wrap(s.Name, label.DefaultLineWidth),
		})
	}
	return buttons
}

// currentFavorites returns the visible page, correcting ui.favoritesPage if
// the list shrank.
func (ui *UI) currentFavorites() ([]station.Station, int, int) {
	ui.mu.Lock()
	ids := append([]string(nil), ui.config.Favorites...)
	page := ui.favoritesPage
	ui.mu.Unlock()

	stations, page, pages := ui.stationService.FavoritesPage(ids, page)

	ui.mu.Lock()
	ui.favoritesPage = page
	ui.mu.Unlock()

	return stations, page, pages
}

func (ui *UI) createFavoritesBar() *tview.Box {
	box := tview.NewBox()
	box.SetBorder(true).
		SetBorderColor(ui.colors.borders).
		SetTitleColor(ui.colors.foreground).
		SetBackgroundColor(ui.colors.background)

	box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		stations, page, pages := ui.currentFavorites()
		box.SetTitle(fmt.Sprintf("Favorites (%d)", len(ui.config.Favorites)))

		innerX, innerY, innerWidth := x+2, y+1, width-4
		if len(stations) == 0 {
			tview.Print(screen, "Press f to add the selected station", innerX, innerY, innerWidth, tview.AlignLeft, ui.colors.foreground)
			return x, y, width, height
		}

		playingID := ui.playingStationID()
		keyColor := ui.colors.helpHotkey
		for i, b := range favoriteButtons(stations) {
			col := innerX + i*favoriteWidth
			if col+favoriteWidth > innerX+innerWidth {
				break
			}

			textColor := ui.colors.foreground
			if b.StationID == playingID {
				textColor = ui.colors.highlight
			}
			screen.SetContent(col, innerY, b.Key, nil, tcell.StyleDefault.Foreground(keyColor).Background(ui.colors.background))
			tview.Print(screen, b.Lines[0], col+2, innerY, label.DefaultLineWidth, tview.AlignLeft, textColor)
			tview.Print(screen, b.Lines[1], col+2, innerY+1, label.DefaultLineWidth, tview.AlignLeft, textColor)
		}

		if pages > 1 {
			indicator := fmt.Sprintf("◂ %d/%d ▸", page+1, pages)
			tview.Print(screen, indicator, innerX, innerY, innerWidth, tview.AlignRight, ui.colors.foreground)
		}

		return x, y, width, height
	})

	return box
}

func (ui *UI) playFavorite(n int) {
	stations, _, _ := ui.currentFavorites()
	if n < 0 || n >= len(stations) {
		return
	}

	index := ui.stationService.FindIndexByID(stations[n].ID)
	if index < 0 {
		return
	}
	ui.stationList.Select(index+1, 0)
	ui.onStationSelected(index)
}

func (ui *UI) turnFavoritesPage(delta int) {
	ui.mu.Lock()
	pages := service.PageCount(len(ui.config.Favorites))
	ui.favoritesPage = (ui.favoritesPage + delta + pages) % pages
	ui.mu.Unlock()
}

func (ui *UI) toggleFavorite() {
	row, _ := ui.stationList.GetSelection()
	selectedStation := ui.stationService.GetStation(row - 1)
	if selectedStation == nil {
		return
	}

	ui.mu.Lock()
	added, err := ui.config.ToggleFavorite(selectedStation.ID)
	ui.mu.Unlock()

	if err != nil {
		ui.showInfoModal("Favorites", fmt.Sprintf("%s.\nRemove one with [%s]f[-] first.", err, ui.colors.helpHotkey))
		return
	}

	if favCell := ui.stationList.GetCell(row, 0); favCell != nil {
		if added {
			favCell.SetText("★")
		} else {
			favCell.SetText(" ")
		}
	}

	ui.saveConfigAsync()

	log.Debug().Str("station", selectedStation.ID).Bool("favorite", added).Msg("Toggled favorite")
}

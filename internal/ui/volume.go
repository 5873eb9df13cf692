package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/glebovdev/piradio/internal/config"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	VolumeStep       = 5
	VolumeBarHeight  = 10
	VolumePanelWidth = 7
)

// volumeState tracks the audible volume and the level to restore after unmuting.
type volumeState struct {
	current int
	saved   int
	muted   bool
}

// adjust changes the volume by delta. A muted volume is restored first and
// delta is dropped, so the first key press after muting only unmutes.
func (v *volumeState) adjust(delta int) {
	if v.muted {
		v.unmute()
		return
	}
	v.current = config.ClampVolume(v.current + delta)
}

func (v *volumeState) toggleMute() {
	if v.muted {
		v.unmute()
		return
	}
	v.saved = v.current
	if v.saved == 0 {
		v.saved = config.DefaultVolume
	}
	v.current = 0
	v.muted = true
}

func (v *volumeState) unmute() {
	v.current = v.saved
	v.muted = false
}

// persisted is the volume written to the config file: the level the user
// will hear once unmuted.
func (v *volumeState) persisted() int {
	if v.muted {
		return v.saved
	}
	return v.current
}

// filledRows returns how many of height rows are lit for percent.
func filledRows(percent, height int) int {
	return config.ClampVolume(percent) * height / 100
}

func (ui *UI) createVolumeBar() *tview.Box {
	box := tview.NewBox().SetBackgroundColor(ui.colors.background)

	box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		ui.mu.Lock()
		display := ui.volume.persisted()
		muted := ui.volume.muted
		ui.mu.Unlock()

		barColor := ui.colors.highlight
		if muted {
			barColor = config.GetColor(ui.config.Theme.MutedVolume)
		}

		tview.Print(screen, "max", x, y, width-1, tview.AlignRight, ui.colors.foreground)

		filled := filledRows(display, VolumeBarHeight)
		for i := 0; i < VolumeBarHeight; i++ {
			row := y + 1 + i
			lit := VolumeBarHeight-i <= filled
			bar, color := "░░", ui.colors.foreground
			if lit {
				bar, color = "██", barColor
			}
			tview.Print(screen, bar, x+4, row, 2, tview.AlignLeft, color)

			if lit && VolumeBarHeight-i == filled {
				percent := fmt.Sprintf("%d%%", display)
				if muted {
					percent = "[::s]" + percent + "[::-]"
				}
				tview.Print(screen, percent, x, row, 4, tview.AlignRight, barColor)
			}
		}

		tview.Print(screen, "min", x, y+VolumeBarHeight+1, width-1, tview.AlignRight, ui.colors.foreground)
		return x, y, width, height
	})

	return box
}

func (ui *UI) adjustVolume(delta int) {
	ui.mu.Lock()
	wasMuted := ui.volume.muted
	ui.volume.adjust(delta)
	current := ui.volume.current
	ui.statusRenderer.SetMuted(false)
	ui.mu.Unlock()

	ui.controller.SetVolume(current)
	ui.SaveConfig()

	if wasMuted {
		log.Debug().Msgf("Auto-unmuted, restored volume to %d%%", current)
		return
	}
	log.Debug().Msgf("Volume adjusted to %d%%", current)
}

func (ui *UI) toggleMute() {
	ui.mu.Lock()
	ui.volume.toggleMute()
	current := ui.volume.current
	muted := ui.volume.muted
	ui.statusRenderer.SetMuted(muted)
	ui.mu.Unlock()

	ui.controller.SetVolume(current)
	ui.SaveConfig()
	log.Debug().Bool("muted", muted).Int("volume", current).Msg("Mute toggled")
}

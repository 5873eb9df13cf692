package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/glebovdev/piradio/internal/audio"
	"github.com/glebovdev/piradio/internal/config"
	"github.com/glebovdev/piradio/internal/player"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

// errorHints maps fragments of low-level error text to messages for the user.
// The first matching entry wins.
var errorHints = []struct {
	fragments []string
	message   string
}{
	{[]string{"no such host"}, "Unable to connect to server.\nPlease check your internet connection."},
	{[]string{"connection refused"}, "Connection refused by server.\nThe service may be temporarily unavailable."},
	{[]string{"timeout", "deadline exceeded"}, "Connection timed out.\nPlease check your internet connection."},
	{[]string{"network is unreachable", "network read error"}, "Network is unreachable.\nPlease check your internet connection."},
	{[]string{"status 401"}, "Stream access denied (401)."},
	{[]string{"status 403"}, "Stream access forbidden (403)."},
	{[]string{"status 404"}, "Stream not found (404)."},
}

const maxErrorLength = 100

func friendlyErrorMessage(errStr string) string {
	for _, hint := range errorHints {
		for _, fragment := range hint.fragments {
			if strings.Contains(errStr, fragment) {
				return hint.message
			}
		}
	}

	if idx := strings.Index(errStr, ": dial"); idx > 0 {
		return errStr[:idx]
	}
	if len(errStr) > maxErrorLength {
		return errStr[:maxErrorLength] + "..."
	}
	return errStr
}

// failureMessage builds the error modal text for a failed state: the
// controller's reason followed by the most specific cause it can name.
func failureMessage(state player.State) string {
	message := state.Reason
	if message == "" {
		message = "Playback failed."
	}
	if state.Err == nil {
		return message
	}

	var codecErr *audio.CodecError
	var statusErr *audio.StatusError
	var detail string
	switch {
	case errors.As(state.Err, &codecErr):
		detail = fmt.Sprintf("Unsupported stream format (%s).", codecErr.ContentType)
	case errors.As(state.Err, &statusErr):
		detail = friendlyErrorMessage(fmt.Sprintf("status %d", statusErr.StatusCode))
	default:
		detail = friendlyErrorMessage(state.Err.Error())
	}

	if detail == "" || detail == message {
		return message
	}
	return message + "\n\n" + detail
}

func (ui *UI) showPlaybackErrorModal(message string) {
	doDismiss := func() {
		ui.pages.RemovePage("error-modal")
		ui.app.SetFocus(ui.stationList)
	}

	doRetry := func() {
		doDismiss()
		if err := ui.controller.Play(); err != nil {
			log.Error().Err(err).Msg("Retry failed")
		}
	}

	messageView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf("\n[::b]Playback Error[::-]\n\n%s", message))
	messageView.SetTextColor(ui.colors.foreground)
	messageView.SetBackgroundColor(ui.colors.modalBackground)

	hintView := ui.hint("[::d]Press [::b]R[::d] to retry  •  Press [::b]Esc[::d] to dismiss[::-]")

	frame := ui.modalFrame("Error", ui.colors.highlight, messageView, hintView, 0)

	modalHeight := min(15, 10+max(0, strings.Count(message, "\n")-1))

	modal := ui.centered(frame, 56, modalHeight)
	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape, tcell.KeyEnter:
			doDismiss()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				doRetry()
				return nil
			}
		}
		return event
	})

	ui.pages.RemovePage("error-modal")
	ui.pages.AddPage("error-modal", modal, true, true)
	ui.app.SetFocus(modal)
}

func (ui *UI) hint(text string) *tview.TextView {
	hintView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(text)
	hintView.SetTextColor(tcell.ColorDarkGray)
	hintView.SetBackgroundColor(ui.colors.modalBackground)
	return hintView
}

// modalFrame stacks body over hint inside a titled border. gap is the
// number of blank rows between them.
func (ui *UI) modalFrame(title string, border tcell.Color, body, hint tview.Primitive, gap int) *tview.Frame {
	content := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, false)
	if gap > 0 {
		content.AddItem(nil, gap, 0, false)
	}
	content.AddItem(hint, 1, 0, false).
		AddItem(nil, 1, 0, false)
	content.SetBackgroundColor(ui.colors.modalBackground)

	top, side := 0, 1
	if gap > 0 {
		top, side = 1, 2
	}
	frame := tview.NewFrame(content).
		SetBorders(top, 0, 1, 1, side, side)
	frame.SetBorder(true).
		SetBorderColor(border).
		SetBackgroundColor(ui.colors.modalBackground).
		SetTitle(" " + title + " ").
		SetTitleColor(ui.colors.highlight).
		SetTitleAlign(tview.AlignCenter)
	return frame
}

// centered places p in the middle of the screen at the given size.
func (ui *UI) centered(p tview.Primitive, width, height int) *tview.Flex {
	modal := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false),
			width, 0, true).
		AddItem(nil, 0, 1, false)
	modal.SetBackgroundColor(ui.colors.background)
	return modal
}

func (ui *UI) showHelpModal() {
	keyColor := ui.colors.helpHotkey.String()

	configPath, _ := config.GetConfigPath()

	helpText := fmt.Sprintf(`[::b]KEYBOARD SHORTCUTS[::-]

[%[1]s]PLAYBACK[-]
  [%[1]s]Enter[-]      Play selected station
  [%[1]s]Space[-]      Pause / Resume
  [%[1]s]<[-]          Previous station
  [%[1]s]>[-]          Next station
  [%[1]s]r[-]          Random station

[%[1]s]FAVORITES[-]
  [%[1]s]1[-]-[%[1]s]9[-]        Play favorite
  [%[1]s][[-] / [%[1]s]][-]      Previous / next page
  [%[1]s]f[-]          Toggle favorite

[%[1]s]VOLUME[-]
  [%[1]s]+[-] / [%[1]s]-[-]      Volume up / down
  [%[1]s]←[-] / [%[1]s]→[-]      Volume down / up
  [%[1]s]m[-]          Mute / Unmute

[%[1]s]DISPLAY[-]
  [%[1]s]↑[-] / [%[1]s]↓[-]      Navigate list
  [%[1]s]v[-]          LED / analog meters

[%[1]s]APPLICATION[-]
  [%[1]s]?[-]          Show this help
  [%[1]s]a[-]          About %[2]s
  [%[1]s]q[-] / [%[1]s]Esc[-]    Quit

[%[1]s]CONFIG[-]: %[3]s
[%[1]s]BACKEND[-]: %[4]s`,
		keyColor, config.AppName, configPath, backendLabel(ui.config.Backend()))

	ui.showInfoModal("Help", helpText)
}

func backendLabel(address string) string {
	if address == "" {
		return "not configured"
	}
	return address
}

func (ui *UI) showAboutModal() {
	linkColor := "skyblue"
	dimColor := "gray"

	aboutText := fmt.Sprintf(`[::b]%s[::-]
[%s]%s[-]

Version: %s
Project: [%s:::%s]%s[-:::-]
License: MIT

───────────────────────────────────────────

[%s]Streams are played directly when possible
and through the backend proxy otherwise.[-]`,
		config.AppName,
		dimColor, config.AppTagline,
		config.AppVersion,
		linkColor, config.AppProjectURL, config.AppProjectShort,
		dimColor)

	ui.showInfoModal("About", aboutText)
}

func (ui *UI) showInfoModal(title, message string) {
	doDismiss := func() {
		ui.pages.RemovePage("modal")
		ui.app.SetFocus(ui.stationList)
	}

	messageView := tview.NewTextView().
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true).
		SetWordWrap(true).
		SetText("\n" + message)
	messageView.SetTextColor(ui.colors.foreground)
	messageView.SetBackgroundColor(ui.colors.modalBackground)

	hintView := ui.hint("[::d]Press any key to close[::-]")

	frame := ui.modalFrame(title, ui.colors.borders, messageView, hintView, 2)

	lines := strings.Count(message, "\n") + 1
	modal := ui.centered(frame, 50, min(40, lines+10))
	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		doDismiss()
		return nil
	})

	ui.pages.AddPage("modal", modal, true, true)
	ui.app.SetFocus(modal)
}

package ui

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/glebovdev/piradio/internal/api"
	"github.com/glebovdev/piradio/internal/config"
	"github.com/glebovdev/piradio/internal/meter"
	"github.com/glebovdev/piradio/internal/player"
	"github.com/glebovdev/piradio/internal/service"
	"github.com/glebovdev/piradio/internal/station"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	HeaderHeight          = 3
	FooterHeightWide      = 3 // Wide: 1 row with padding (top + text + bottom)
	FooterHeightNarrow    = 6 // Narrow: 2 rows × 3 lines each
	CoverWidth            = 26
	CoverHeight           = 12
	PlayerPanelHeight     = 12
	FooterBreakpoint      = 130 // Width threshold for responsive footer
	MinLoadingDisplayTime = 900 * time.Millisecond
	MinStatusDisplayTime  = 200 * time.Millisecond
)

// PauseIcon uses platform-specific character (Windows renders ⏸ as emoji)
var PauseIcon = func() string {
	if runtime.GOOS == "windows" {
		return "❚❚"
	}
	return "⏸"
}()

type UI struct {
	app            *tview.Application
	stationService *service.StationService
	controller     *player.Controller
	engine         *meter.Engine
	config         *config.Config
	startRandom    bool

	stationList     *tview.Table
	helpPanel       *tview.Box
	contentLayout   *tview.Flex
	stationNameView *tview.TextView
	trackView       *tview.TextView
	showView        *tview.TextView
	tagsView        *tview.Flex
	logoPanel       *tview.Image
	mainLayout      *tview.Flex
	loadingScreen   *tview.Flex
	loadingText     *tview.TextView
	progressBar     *tview.TextView
	pages           *tview.Pages

	stopUpdates     chan struct{}
	refreshPending  atomic.Bool
	markedIndex     int
	shownStationID  string
	lastErrorGen    uint64
	lastFooterWidth int // Track width to detect layout changes
	animationFrame  int
	playingSpinner  *PlayingSpinner
	statusRenderer  *StatusRenderer

	mu            sync.Mutex
	volume        volumeState
	favoritesPage int

	colors struct {
		background           tcell.Color
		foreground           tcell.Color
		borders              tcell.Color
		highlight            tcell.Color
		headerBackground     tcell.Color
		listHeaderBackground tcell.Color
		listHeaderForeground tcell.Color
		helpBackground       tcell.Color
		helpForeground       tcell.Color
		helpHotkey           tcell.Color
		tagBackground        tcell.Color
		modalBackground      tcell.Color
	}
}

func NewUI(controller *player.Controller, engine *meter.Engine, stationService *service.StationService, cfg *config.Config, startRandom bool) *UI {
	ui := &UI{
		app:            tview.NewApplication(),
		controller:     controller,
		engine:         engine,
		stationService: stationService,
		config:         cfg,
		startRandom:    startRandom,
		stopUpdates:    make(chan struct{}),
		markedIndex:    -1,
		volume:         volumeState{current: cfg.Volume, saved: cfg.Volume},
	}

	theme := cfg.Theme
	ui.colors.background = config.GetColor(theme.Background)
	ui.colors.foreground = config.GetColor(theme.Foreground)
	ui.colors.borders = config.GetColor(theme.Borders)
	ui.colors.highlight = config.GetColor(theme.Highlight)
	ui.colors.headerBackground = config.GetColor(theme.HeaderBackground)
	ui.colors.listHeaderBackground = config.GetColor(theme.ListHeaderBackground)
	ui.colors.listHeaderForeground = config.GetColor(theme.ListHeaderForeground)
	ui.colors.helpBackground = config.GetColor(theme.HelpBackground)
	ui.colors.helpForeground = config.GetColor(theme.HelpForeground)
	ui.colors.helpHotkey = config.GetColor(theme.HelpHotkey)
	ui.colors.tagBackground = config.GetColor(theme.TagBackground)
	ui.colors.modalBackground = config.GetColor(theme.ModalBackground)

	controller.SetVolume(cfg.Volume)
	log.Debug().Msgf("Loaded volume from config: %d%%", cfg.Volume)

	ui.statusRenderer = NewStatusRenderer(controller)
	ui.statusRenderer.SetPrimaryColor(ui.colors.highlight.String())

	return ui
}

// SaveConfig writes the current volume, station and UI settings to disk.
func (ui *UI) SaveConfig() {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	ui.config.Volume = ui.volume.persisted()
	if st, ok := ui.controller.Station(); ok {
		ui.config.LastStation = st.ID
	}

	if err := ui.config.Save(); err != nil {
		log.Error().Err(err).Msg("Failed to save config")
	}
}

func (ui *UI) saveConfigAsync() {
	go ui.SaveConfig()
}

func (ui *UI) isMuted() bool {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	return ui.volume.muted
}

// playingStationID returns the station that is live, connecting or paused.
func (ui *UI) playingStationID() string {
	state := ui.controller.State()
	if state.IsActive() || state.Kind == player.Paused {
		return state.StationID
	}
	return ""
}

func (ui *UI) stop() {
	select {
	case <-ui.stopUpdates:
	default:
		close(ui.stopUpdates)
	}
	ui.engine.OnUpdate(nil)
	ui.controller.OnChange(nil)
	ui.controller.Close()
	ui.app.Stop()
}

// Shutdown stops the UI gracefully from external callers (e.g., signal handlers).
func (ui *UI) Shutdown() {
	ui.app.QueueUpdateDraw(func() {
		ui.stop()
	})
}

func (ui *UI) Run() error {
	ui.setupLoadingScreen()
	ui.app.SetRoot(ui.loadingScreen, true)
	ui.configureScreen()

	go ui.initAsync()

	return ui.app.Run()
}

func (ui *UI) configureScreen() {
	bgStyle := tcell.StyleDefault.Background(ui.colors.background)
	ui.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		screen.SetStyle(bgStyle)
		screen.Clear()
		return false
	})

	var titleSet sync.Once
	ui.app.SetAfterDrawFunc(func(screen tcell.Screen) {
		titleSet.Do(func() { screen.SetTitle(config.AppName) })
	})
}

func (ui *UI) setupLoadingScreen() {
	ui.loadingText = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("Loading stations... (1/3)")
	ui.loadingText.SetTextColor(ui.colors.foreground).
		SetBackgroundColor(ui.colors.background)

	ui.progressBar = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText(renderProgressBar(0))
	ui.progressBar.SetTextColor(ui.colors.highlight).
		SetBackgroundColor(ui.colors.background)

	content := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.loadingText, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(ui.progressBar, 1, 0, false)
	content.SetBackgroundColor(ui.colors.background)

	ui.loadingScreen = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(content, 3, 0, false).
		AddItem(nil, 0, 1, false)

	ui.loadingScreen.SetBackgroundColor(ui.colors.background)
}

func renderProgressBar(percent int) string {
	const width = 30
	percent = max(0, min(100, percent))
	filled := (percent * width) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (ui *UI) animateProgress(fromPercent, toPercent int, duration time.Duration) {
	steps := toPercent - fromPercent
	if steps <= 0 {
		return
	}
	stepDuration := duration / time.Duration(steps)
	lastBar := renderProgressBar(fromPercent)

	for p := fromPercent + 1; p <= toPercent; p++ {
		time.Sleep(stepDuration)
		if bar := renderProgressBar(p); bar != lastBar {
			ui.app.QueueUpdateDraw(func() {
				ui.progressBar.SetText(bar)
			})
			lastBar = bar
		}
	}
}

func (ui *UI) setLoadingText(text string) {
	ui.app.QueueUpdateDraw(func() {
		ui.loadingText.SetText(text)
	})
}

func (ui *UI) initAsync() {
	const totalStages = 3
	stagePercent := func(stage int) int { return (stage * 100) / totalStages }
	startTime := time.Now()

	log.Debug().Msgf("Catalog has %d stations", ui.stationService.StationCount())
	ui.animateProgress(stagePercent(0), stagePercent(1), MinStatusDisplayTime)

	ui.setLoadingText("Loading configuration... (2/3)")
	ui.mu.Lock()
	ui.config.CleanupFavorites(ui.stationService.GetValidStationIDs())
	ui.mu.Unlock()
	ui.SaveConfig()
	ui.animateProgress(stagePercent(1), stagePercent(2), MinStatusDisplayTime)

	ui.setLoadingText("Building interface... (3/3)")
	ui.animateProgress(stagePercent(2), stagePercent(3), MinStatusDisplayTime)

	// Floor, not ceiling: wait only if real work finished early.
	if elapsed := time.Since(startTime); elapsed < MinLoadingDisplayTime {
		time.Sleep(MinLoadingDisplayTime - elapsed)
	}

	ui.app.QueueUpdateDraw(func() {
		ui.setupUI()
		ui.app.SetRoot(ui.pages, true).EnableMouse(true)
		ui.app.SetFocus(ui.stationList)

		ui.controller.OnChange(ui.requestRefresh)
		ui.engine.OnUpdate(func(meter.Levels) { ui.requestRefresh() })
		go ui.runAnimation()

		ui.restoreStation()
		ui.refresh()
	})
}

func (ui *UI) restoreStation() {
	if ui.startRandom {
		ui.randomStation()
		return
	}

	index := ui.stationService.FindIndexByID(ui.config.LastStation)
	if index < 0 {
		if ui.config.LastStation != "" {
			log.Debug().Msgf("Last station '%s' not found, showing first station", ui.config.LastStation)
		}
		ui.showStation(0)
		return
	}

	if ui.config.Autostart {
		log.Debug().Msgf("Autostart enabled, playing last station: %s", ui.config.LastStation)
		ui.stationList.Select(index+1, 0)
		ui.onStationSelected(index)
		return
	}
	ui.showStation(index)
}

func (ui *UI) setupUI() {
	ui.stationList = ui.createStationListTable()
	ui.helpPanel = ui.createFooter()

	ui.contentLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.createHeader(), HeaderHeight, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(ui.createContentPanel(), PlayerPanelHeight, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(ui.createFavoritesBar(), FavoritesHeight, 0, false).
		AddItem(ui.stationList, 0, 1, true).
		AddItem(ui.helpPanel, FooterHeightWide, 0, false)
	ui.contentLayout.SetBackgroundColor(ui.colors.background)

	wrapper := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(nil, 3, 0, false).
		AddItem(ui.contentLayout, 0, 1, true).
		AddItem(nil, 3, 0, false)
	wrapper.SetBackgroundColor(ui.colors.background)

	ui.mainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 1, 0, false).
		AddItem(wrapper, 0, 1, true).
		AddItem(nil, 1, 0, false)
	ui.mainLayout.SetBackgroundColor(ui.colors.background)

	ui.pages = tview.NewPages().
		AddPage("main", ui.mainLayout, true, true)
	ui.pages.SetBackgroundColor(ui.colors.background)

	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if ui.pages.HasPage("modal") || ui.pages.HasPage("error-modal") {
			return event
		}
		return ui.globalInputHandler(event)
	})
}

func (ui *UI) createHeader() tview.Primitive {
	header := tview.NewBox().SetBackgroundColor(ui.colors.headerBackground)
	header.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		row := y + height/2
		tview.Print(screen, " "+config.AppName, x+1, row, width-2, tview.AlignLeft, ui.colors.foreground)
		tview.Print(screen, "v"+config.AppVersion+" ", x+1, row, width-2, tview.AlignRight, ui.colors.foreground)
		return x, y, width, height
	})
	return header
}

func (ui *UI) newLabel(text string) *tview.TextView {
	tv := tview.NewTextView()
	tv.SetText(text)
	tv.SetTextColor(ui.colors.foreground)
	tv.SetBackgroundColor(ui.colors.background)
	tv.SetWrap(false)
	return tv
}

func (ui *UI) newValue(wrap bool) *tview.TextView {
	tv := tview.NewTextView()
	tv.SetDynamicColors(true)
	tv.SetTextColor(ui.colors.highlight)
	tv.SetBackgroundColor(ui.colors.background)
	tv.SetWrap(wrap)
	tv.SetTextStyle(tcell.StyleDefault.Background(ui.colors.background).Attributes(tcell.AttrBold))
	return tv
}

func (ui *UI) createContentPanel() *tview.Flex {
	ui.logoPanel = tview.NewImage()
	ui.logoPanel.SetBackgroundColor(ui.colors.background)
	ui.logoPanel.SetAlign(tview.AlignLeft, tview.AlignTop)
	ui.logoPanel.SetImage(ui.placeholderLogo())

	ui.stationNameView = ui.newValue(false)
	ui.trackView = ui.newValue(true)
	ui.showView = ui.newValue(false)
	ui.showView.SetTextColor(ui.colors.foreground)

	ui.tagsView = tview.NewFlex().SetDirection(tview.FlexColumn)
	ui.tagsView.SetBackgroundColor(ui.colors.background)

	infoContent := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.newLabel(" Station:"), 1, 0, false).
		AddItem(ui.stationNameView, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(ui.newLabel(" Playing:"), 1, 0, false).
		AddItem(ui.trackView, 2, 0, false).
		AddItem(ui.showView, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(ui.newLabel(" Tags:"), 1, 0, false).
		AddItem(ui.tagsView, 1, 0, false).
		AddItem(nil, 0, 1, false)
	infoContent.SetBackgroundColor(ui.colors.background)

	logoWrapper := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.logoPanel, CoverHeight, 0, false).
		AddItem(nil, 0, 1, false)
	logoWrapper.SetBackgroundColor(ui.colors.background)

	contentFlex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(logoWrapper, CoverWidth, 0, false).
		AddItem(infoContent, 0, 1, false).
		AddItem(ui.createMeterView(), MeterPanelWidth, 0, false).
		AddItem(ui.createVolumeBar(), VolumePanelWidth, 0, false)
	contentFlex.SetBackgroundColor(ui.colors.background)

	contentWithPadding := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(nil, 4, 0, false).
		AddItem(contentFlex, 0, 1, false).
		AddItem(nil, 4, 0, false)
	contentWithPadding.SetBackgroundColor(ui.colors.background)

	return contentWithPadding
}

func (ui *UI) placeholderLogo() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	r, g, b := ui.colors.background.RGB()
	img.Set(0, 0, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff})
	return img
}

func (ui *UI) setTags(tags []string) {
	ui.tagsView.Clear()
	ui.tagsView.AddItem(nil, 1, 0, false)

	if len(tags) == 0 {
		ui.tagsView.AddItem(ui.newLabel("N/A"), 3, 0, false)
		return
	}

	for i, t := range tags {
		tag := tview.NewTextView()
		tag.SetText(" " + t + " ")
		tag.SetTextColor(ui.colors.foreground)
		tag.SetBackgroundColor(ui.colors.tagBackground)
		tag.SetTextAlign(tview.AlignCenter)
		ui.tagsView.AddItem(tag, len([]rune(t))+2, 0, false)

		if i < len(tags)-1 {
			ui.tagsView.AddItem(nil, 1, 0, false)
		}
	}
	ui.tagsView.AddItem(nil, 0, 1, false)
}

// showStationInfo switches the content panel to st and starts loading its logo.
func (ui *UI) showStationInfo(st station.Station) {
	ui.shownStationID = st.ID
	ui.stationNameView.SetText(fmt.Sprintf(" [%s]%s[-]", ui.colors.highlight.String(), tview.Escape(st.Name)))
	ui.setTags(st.Tags())
	ui.logoPanel.SetImage(ui.placeholderLogo())

	go func() {
		img, err := ui.stationService.LoadLogo(st)
		ui.app.QueueUpdateDraw(func() {
			if ui.shownStationID != st.ID {
				return
			}
			if err != nil {
				log.Debug().Err(err).Str("station", st.ID).Msg("Logo unavailable")
				return
			}
			ui.logoPanel.SetImage(img)
		})
	}()
}

// trackText returns the now-playing line and the show line for the given state.
func trackText(state player.State, np api.NowPlaying, hasMetadata bool) (string, string) {
	switch state.Kind {
	case player.Switching:
		return "Connecting...", ""
	case player.Paused:
		return "Paused", ""
	case player.Failed:
		return "Unavailable", ""
	case player.Idle:
		return "Press Enter to play", ""
	}
	if !hasMetadata {
		return player.FallbackTitle, ""
	}
	return np.Track(), np.Show
}

func (ui *UI) updateTrackInfo(state player.State) {
	np, ok := ui.controller.Metadata()
	track, show := trackText(state, np, ok)
	if show == "" && state.Kind == player.Playing {
		show = ui.controller.StreamTitle()
	}

	ui.trackView.SetText(fmt.Sprintf(" [%s]%s[-]", ui.colors.highlight.String(), tview.Escape(track)))
	if show == "" {
		ui.showView.SetText("")
		return
	}
	ui.showView.SetText(" " + tview.Escape(show))
}

// requestRefresh queues one refresh of the playback widgets. It never
// blocks, so it is safe to call from controller and meter callbacks.
func (ui *UI) requestRefresh() {
	if !ui.refreshPending.CompareAndSwap(false, true) {
		return
	}
	go ui.app.QueueUpdateDraw(func() {
		ui.refreshPending.Store(false)
		ui.refresh()
	})
}

// refresh syncs the widgets with the controller. Runs on the UI goroutine.
func (ui *UI) refresh() {
	if ui.pages == nil {
		return
	}

	state := ui.controller.State()
	if st, ok := ui.controller.Station(); ok && st.ID != ui.shownStationID {
		ui.showStationInfo(st)
	}

	ui.updateTrackInfo(state)
	ui.updateStationListPlayingIndicator()

	if state.Kind == player.Failed && state.Generation != ui.lastErrorGen {
		ui.lastErrorGen = state.Generation
		ui.showPlaybackErrorModal(failureMessage(state))
	}
}

type PlayingSpinner struct {
	Frames []string
	FPS    time.Duration
}

func NewPlayingSpinner() *PlayingSpinner {
	return &PlayingSpinner{
		Frames: []string{"⣾ ", "⣽ ", "⣻ ", "⢿ ", "⡿ ", "⣟ ", "⣯ ", "⣷ "},
		FPS:    time.Second / 10,
	}
}

func (ui *UI) getPlayingIndicator() string {
	if ui.playingSpinner == nil {
		ui.playingSpinner = NewPlayingSpinner()
	}

	return ui.playingSpinner.Frames[ui.animationFrame%len(ui.playingSpinner.Frames)]
}

// runAnimation advances the spinner and status animation while something is active.
func (ui *UI) runAnimation() {
	spinner := NewPlayingSpinner()
	ticker := time.NewTicker(spinner.FPS)
	defer ticker.Stop()

	for {
		select {
		case <-ui.stopUpdates:
			return
		case <-ticker.C:
			if !ui.controller.State().IsActive() {
				continue
			}
			ui.app.QueueUpdate(func() {
				ui.animationFrame++
				ui.statusRenderer.AdvanceAnimation()
			})
			ui.requestRefresh()
		}
	}
}

func (ui *UI) playOrToggle() {
	state := ui.controller.State()
	if state.IsActive() || state.Kind == player.Paused || state.Kind == player.Failed {
		if err := ui.controller.Toggle(); err != nil {
			log.Error().Err(err).Msg("Failed to toggle playback")
		}
		return
	}

	row, _ := ui.stationList.GetSelection()
	ui.onStationSelected(row - 1)
}

func (ui *UI) globalInputHandler(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyRune:
		r := event.Rune()
		if r >= '1' && r <= '9' {
			ui.playFavorite(int(r - '1'))
			return nil
		}

		switch r {
		case 'q', 'Q':
			ui.stop()
			return nil
		case ' ':
			ui.playOrToggle()
			return nil
		case '>':
			ui.nextStation()
			return nil
		case '<':
			ui.prevStation()
			return nil
		case 'r', 'R':
			ui.randomStation()
			return nil
		case 'f', 'F':
			ui.toggleFavorite()
			return nil
		case '[':
			ui.turnFavoritesPage(-1)
			return nil
		case ']':
			ui.turnFavoritesPage(1)
			return nil
		case 'v', 'V':
			ui.toggleMeterStyle()
			return nil
		case '+', '=':
			ui.adjustVolume(VolumeStep)
			return nil
		case '-', '_':
			ui.adjustVolume(-VolumeStep)
			return nil
		case 'm', 'M':
			ui.toggleMute()
			return nil
		case '?':
			ui.showHelpModal()
			return nil
		case 'a', 'A':
			ui.showAboutModal()
			return nil
		}
	case tcell.KeyEnter:
		row, _ := ui.stationList.GetSelection()
		ui.onStationSelected(row - 1)
		return nil
	case tcell.KeyEscape:
		ui.stop()
		return nil
	case tcell.KeyRight:
		ui.adjustVolume(VolumeStep)
		return nil
	case tcell.KeyLeft:
		ui.adjustVolume(-VolumeStep)
		return nil
	}
	return event
}

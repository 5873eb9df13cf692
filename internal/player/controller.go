package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebovdev/piradio/internal/api"
	"github.com/glebovdev/piradio/internal/meter"
	"github.com/glebovdev/piradio/internal/station"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSwitchDelay = 120 * time.Millisecond
	DefaultVolume      = 70
)

// Stream is an open audio transport.
type Stream interface {
	Tap() (meter.Tap, error)
	SetVolume(percent int)
	// Volume returns the output volume in [0, 1].
	Volume() float64
	// Bitrate returns the advertised kbps, or 0 when unknown.
	Bitrate() int
	Close() error
}

// Media opens audio transports.
type Media interface {
	Open(ctx context.Context, address string) (Stream, error)
}

// MediaFunc adapts a function to Media.
type MediaFunc func(ctx context.Context, address string) (Stream, error)

func (f MediaFunc) Open(ctx context.Context, address string) (Stream, error) {
	return f(ctx, address)
}

// Backend provides metadata and the proxy fallback address.
type Backend interface {
	MetadataFetcher
	// ProxyStreamURL returns "" when no proxy is available.
	ProxyStreamURL(primary string) string
}

type Options struct {
	// SwitchDelay is the pause between tearing down the old station and
	// starting the new one when switching during playback.
	SwitchDelay  time.Duration
	PollInterval time.Duration
	Volume       int
}

func DefaultOptions() Options {
	return Options{
		SwitchDelay:  DefaultSwitchDelay,
		PollInterval: DefaultPollInterval,
		Volume:       DefaultVolume,
	}
}

// Controller owns the playing station. Every state change bumps a
// generation counter; asynchronous work captures (generation, station) when
// it starts and is dropped when either has moved on by the time it finishes.
type Controller struct {
	catalog *station.Catalog
	media   Media
	backend Backend
	meter   *meter.Engine
	opts    Options

	mu          sync.Mutex
	gen         uint64
	state       State
	current     station.Station
	stream      Stream
	cancel      context.CancelFunc
	poller      *poller
	switchTimer *time.Timer
	metadata    *api.NowPlaying
	bitrate     int
	volume      int
	closed      bool
	onChange    func()
}

func NewController(catalog *station.Catalog, media Media, backend Backend, engine *meter.Engine, opts Options) *Controller {
	if opts.SwitchDelay < 0 {
		opts.SwitchDelay = 0
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &Controller{
		catalog: catalog,
		media:   media,
		backend: backend,
		meter:   engine,
		opts:    opts,
		volume:  clampVolume(opts.Volume),
	}
}

// OnChange registers fn to be called after every applied transition.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Station returns the selected station, if any.
func (c *Controller) Station() (station.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.current.ID != ""
}

// Metadata returns the now-playing data of the current station.
func (c *Controller) Metadata() (api.NowPlaying, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.metadata == nil {
		return api.NowPlaying{}, false
	}
	return *c.metadata, true
}

// Bitrate returns the last bitrate known for the current station.
func (c *Controller) Bitrate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bitrate
}

// StreamTitle returns the in-band title of the open transport, if it carries one.
func (c *Controller) StreamTitle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.stream.(interface{ Title() string }); ok {
		return t.Title()
	}
	return ""
}

func (c *Controller) Levels() meter.Levels {
	return c.meter.Levels()
}

func (c *Controller) Volume() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Controller) SetVolume(percent int) {
	c.mu.Lock()
	c.volume = clampVolume(percent)
	if c.stream != nil {
		c.stream.SetVolume(c.volume)
	}
	c.mu.Unlock()

	c.notify()
}

// SelectStation makes id the current station. While playing, the new
// station starts after the switch delay; otherwise only the selection changes.
func (c *Controller) SelectStation(id string) error {
	st, ok := c.catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStation, id)
	}

	c.mu.Lock()
	if c.closed || c.current.ID == id {
		c.mu.Unlock()
		return nil
	}

	prev := c.state.Kind
	c.gen++
	g := c.gen
	c.current = st
	c.metadata = nil
	c.bitrate = 0
	c.teardownLocked()

	switch prev {
	case Playing, Switching:
		c.state = State{Kind: Switching, StationID: id, Generation: g}
		c.scheduleLocked(g, id)
	case Paused:
		c.state = State{Kind: Paused, StationID: id, Generation: g}
	default:
		c.state = State{Kind: Idle, StationID: id, Generation: g}
	}
	c.mu.Unlock()

	log.Debug().Str("station", id).Uint64("generation", g).Str("from", prev.String()).Msg("Station selected")
	c.notify()
	return nil
}

// Play (re)starts the current station.
func (c *Controller) Play() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if c.current.ID == "" {
		c.mu.Unlock()
		return ErrNoStation
	}
	c.playLocked()
	c.mu.Unlock()

	c.notify()
	return nil
}

// Pause stops playback of the current station, keeping it selected.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	g := c.gen
	id := c.current.ID
	c.metadata = nil
	c.teardownLocked()
	c.state = State{Kind: Paused, StationID: id, Generation: g}
	c.mu.Unlock()

	log.Debug().Str("station", id).Uint64("generation", g).Msg("Playback paused")
	c.notify()
}

// Toggle pauses an active station and plays an inactive one.
func (c *Controller) Toggle() error {
	if c.State().IsActive() {
		c.Pause()
		return nil
	}
	return c.Play()
}

// Close tears down playback for good. Later calls are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	c.metadata = nil
	c.teardownLocked()
	c.state = State{Kind: Idle, StationID: c.current.ID, Generation: c.gen}
	c.mu.Unlock()

	log.Debug().Msg("Playback controller closed")
}

func (c *Controller) isCurrentLocked(g uint64, id string) bool {
	return !c.closed && c.gen == g && c.current.ID == id
}

func (c *Controller) isCurrent(g uint64, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCurrentLocked(g, id)
}

// teardownLocked releases everything tied to the previous generation. The
// meter is stopped before the stream is closed so its tap is never read
// after the transport goes away.
func (c *Controller) teardownLocked() {
	if c.switchTimer != nil {
		c.switchTimer.Stop()
		c.switchTimer = nil
	}
	if c.poller != nil {
		c.poller.Stop()
		c.poller = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.meter.Stop(c.bitrate)

	if c.stream != nil {
		if err := c.stream.Close(); err != nil {
			log.Debug().Err(err).Msg("Failed to close stream")
		}
		c.stream = nil
	}
}

func (c *Controller) scheduleLocked(g uint64, id string) {
	c.switchTimer = time.AfterFunc(c.opts.SwitchDelay, func() {
		c.mu.Lock()
		if !c.isCurrentLocked(g, id) {
			c.mu.Unlock()
			log.Debug().Str("station", id).Uint64("generation", g).Msg("Dropping scheduled play, superseded")
			return
		}
		c.switchTimer = nil
		c.playLocked()
		c.mu.Unlock()

		c.notify()
	})
}

func (c *Controller) playLocked() {
	c.gen++
	g := c.gen
	st := c.current

	c.metadata = nil
	c.teardownLocked()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state = State{Kind: Switching, StationID: st.ID, Generation: g}

	attempt := uuid.NewString()
	log.Debug().Str("station", st.ID).Uint64("generation", g).Str("attempt", attempt).Msg("Starting playback")

	go c.negotiate(ctx, g, st, attempt)
}

func (c *Controller) negotiate(ctx context.Context, g uint64, st station.Station, attempt string) {
	stream, transport, err := c.open(ctx, g, st, attempt)

	c.mu.Lock()
	if !c.isCurrentLocked(g, st.ID) {
		c.mu.Unlock()
		if stream != nil {
			_ = stream.Close()
		}
		log.Debug().Str("station", st.ID).Uint64("generation", g).Str("attempt", attempt).Msg("Discarding stale playback result")
		return
	}

	if err != nil {
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.state = State{Kind: Failed, StationID: st.ID, Generation: g, Reason: failureReason(err), Err: err}
		c.mu.Unlock()

		log.Error().Err(err).Str("station", st.ID).Str("attempt", attempt).Msg("Playback failed")
		c.notify()
		return
	}

	c.stream = stream
	c.state = State{Kind: Playing, StationID: st.ID, Generation: g, Transport: transport}
	stream.SetVolume(c.volume)
	if b := stream.Bitrate(); b > 0 {
		c.bitrate = b
	}

	tap, tapErr := stream.Tap()
	if tapErr != nil {
		log.Debug().Err(tapErr).Msg("Audio tap unavailable, meter stays at zero")
		tap = nil
	}
	c.meter.Start(tap, stream.Volume)

	if c.backend != nil {
		c.poller = startPoller(c.backend, st.StreamURL, c.opts.PollInterval, func(np api.NowPlaying) {
			c.applyMetadata(g, st.ID, np)
		})
	}
	c.mu.Unlock()

	log.Info().Str("station", st.ID).Str("transport", transport.String()).Str("attempt", attempt).Msg("Now playing")
	c.notify()

	if d, ok := stream.(interface{ Done() <-chan struct{} }); ok {
		go c.watch(g, st.ID, stream, d.Done())
	}
}

// open tries the direct address, then the backend proxy. There is no third option.
func (c *Controller) open(ctx context.Context, g uint64, st station.Station, attempt string) (Stream, Transport, error) {
	log.Debug().Str("attempt", attempt).Str("url", st.StreamURL).Msg("Trying direct stream")

	stream, directErr := c.media.Open(ctx, st.StreamURL)
	if directErr == nil {
		return stream, Direct, nil
	}
	log.Debug().Err(directErr).Str("attempt", attempt).Msg("Direct stream failed")

	if ctx.Err() != nil || !c.isCurrent(g, st.ID) {
		return nil, NoTransport, errStale
	}

	proxyURL := ""
	if c.backend != nil {
		proxyURL = c.backend.ProxyStreamURL(st.StreamURL)
	}
	if proxyURL == "" {
		return nil, NoTransport, fmt.Errorf("%w: no proxy address: direct: %w", ErrBackendUnreachable, directErr)
	}

	log.Debug().Str("attempt", attempt).Str("url", proxyURL).Msg("Trying proxied stream")

	stream, proxyErr := c.media.Open(ctx, proxyURL)
	if proxyErr == nil {
		return stream, Proxied, nil
	}
	log.Debug().Err(proxyErr).Str("attempt", attempt).Msg("Proxied stream failed")

	if isBackendUnreachable(proxyErr) {
		return nil, NoTransport, fmt.Errorf("%w: direct: %w; proxy: %w", ErrBackendUnreachable, directErr, proxyErr)
	}
	return nil, NoTransport, fmt.Errorf("%w: direct: %w; proxy: %w", ErrTransportsFailed, directErr, proxyErr)
}

func (c *Controller) applyMetadata(g uint64, id string, np api.NowPlaying) {
	c.mu.Lock()
	if !c.isCurrentLocked(g, id) || c.state.Kind != Playing {
		c.mu.Unlock()
		return
	}
	c.metadata = &np
	if np.Bitrate > 0 {
		c.bitrate = np.Bitrate
	}
	c.mu.Unlock()

	c.notify()
}

// watch turns a transport that ends on its own into a failure of the current station.
func (c *Controller) watch(g uint64, id string, stream Stream, done <-chan struct{}) {
	<-done

	c.mu.Lock()
	if !c.isCurrentLocked(g, id) || c.stream != stream {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.metadata = nil
	c.teardownLocked()
	err := errors.New("stream ended")
	c.state = State{Kind: Failed, StationID: id, Generation: c.gen, Reason: "Stream ended. Press Space to reconnect.", Err: err}
	c.mu.Unlock()

	log.Warn().Str("station", id).Msg("Stream ended unexpectedly")
	c.notify()
}

func clampVolume(v int) int {
	return max(0, min(100, v))
}

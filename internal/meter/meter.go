// Package meter turns the decoded audio of the playing stream into the
// left/right/signal levels shown by the gauges.
package meter

import (
	"math"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	// FrameSize is the number of time-domain samples read per tick.
	FrameSize = 256

	// rmsScale maps the RMS of typical broadcast audio onto the 0-100 range.
	rmsScale = 380

	// signalHoldMax caps the signal needle below the 80-94 band unless the
	// level reaches signalPeak.
	signalHoldMax = 79
	signalPeak    = 95
)

// Levels is one published meter reading. Every field is in [0, 100].
type Levels struct {
	Left   int
	Right  int
	Signal int
}

// Tap exposes decoded audio of the playing stream.
type Tap interface {
	// ReadTimeDomain fills buf with the most recent unsigned 8-bit samples,
	// 128 being silence.
	ReadTimeDomain(buf []byte) error
}

// Engine samples a Tap on every redraw tick while playback is live.
type Engine struct {
	clock Clock

	mu          sync.Mutex
	session     uint64
	tap         Tap
	volume      func() float64
	unsubscribe func()
	levels      Levels
	buf         []byte
	onUpdate    func(Levels)
}

func NewEngine(clock Clock) *Engine {
	return &Engine{
		clock: clock,
		buf:   make([]byte, FrameSize),
	}
}

// OnUpdate registers fn to receive every published reading.
func (e *Engine) OnUpdate(fn func(Levels)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

func (e *Engine) Levels() Levels {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.levels
}

// Start begins sampling tap on every clock tick. A nil tap leaves the levels at zero.
func (e *Engine) Start(tap Tap, volume func() float64) {
	e.Stop(0)

	if tap == nil {
		log.Debug().Msg("Level meter has no audio tap, reporting silence")
		return
	}

	e.mu.Lock()
	e.session++
	session := e.session
	e.tap = tap
	e.volume = volume
	e.mu.Unlock()

	unsubscribe := e.clock.Subscribe(func() { e.tick(session) })

	e.mu.Lock()
	if e.session != session {
		// Stopped while subscribing.
		e.mu.Unlock()
		unsubscribe()
		return
	}
	e.unsubscribe = unsubscribe
	e.mu.Unlock()
}

// Stop detaches the tap and resets the levels. Once Stop returns the tap is
// never read again. A positive bitrate parks the signal needle at
// min(100, bitrate).
func (e *Engine) Stop(bitrate int) {
	e.mu.Lock()
	e.session++
	e.tap = nil
	e.volume = nil
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.levels = idleLevels(bitrate)
	levels := e.levels
	onUpdate := e.onUpdate
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if onUpdate != nil {
		onUpdate(levels)
	}
}

func (e *Engine) tick(session uint64) {
	e.mu.Lock()
	if session != e.session || e.tap == nil {
		e.mu.Unlock()
		return
	}

	volume := 1.0
	if e.volume != nil {
		volume = e.volume()
	}

	var levels Levels
	if err := e.tap.ReadTimeDomain(e.buf); err != nil {
		log.Debug().Err(err).Msg("Audio tap read failed")
	} else {
		pct := LevelFromSamples(e.buf, volume)
		levels = Levels{Left: pct, Right: pct, Signal: SignalLevel(pct)}
	}
	e.levels = levels
	onUpdate := e.onUpdate
	e.mu.Unlock()

	if onUpdate != nil {
		onUpdate(levels)
	}
}

func idleLevels(bitrate int) Levels {
	if bitrate <= 0 {
		return Levels{}
	}
	return Levels{Signal: min(100, bitrate)}
}

// LevelFromSamples computes the loudness percentage of a block of unsigned
// 8-bit samples. Volume is the output volume in [0, 1]; zero or less counts as 1.
func LevelFromSamples(samples []byte, volume float64) int {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		n := (float64(s) - 128) / 128
		sum += n * n
	}
	rms := math.Sqrt(sum / float64(len(samples)))

	if volume <= 0 {
		volume = 1
	}
	if volume > 1 {
		volume = 1
	}

	pct := int(math.Round(rms * rmsScale * volume))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// SignalLevel keeps the signal needle out of the 80-94 band unless the level is near maximum.
func SignalLevel(pct int) int {
	if pct >= signalPeak {
		return pct
	}
	return min(pct, signalHoldMax)
}

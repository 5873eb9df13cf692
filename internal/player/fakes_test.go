package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebovdev/piradio/internal/api"
	"github.com/glebovdev/piradio/internal/meter"
	"github.com/glebovdev/piradio/internal/station"
)

const waitTimeout = 2 * time.Second

type openResult struct {
	stream Stream
	err    error
}

type openCall struct {
	addr  string
	ctx   context.Context
	reply chan openResult
}

func (c openCall) succeed(s Stream) {
	c.reply <- openResult{stream: s}
}

func (c openCall) fail(err error) {
	c.reply <- openResult{err: err}
}

// fakeMedia hands every Open to the test, which decides when and how it completes.
type fakeMedia struct {
	calls chan openCall
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{calls: make(chan openCall, 16)}
}

func (m *fakeMedia) Open(ctx context.Context, addr string) (Stream, error) {
	call := openCall{addr: addr, ctx: ctx, reply: make(chan openResult, 1)}
	m.calls <- call
	r := <-call.reply
	return r.stream, r.err
}

func (m *fakeMedia) expectOpen(t *testing.T) openCall {
	t.Helper()
	select {
	case call := <-m.calls:
		return call
	case <-time.After(waitTimeout):
		t.Fatal("Timed out waiting for Open")
		return openCall{}
	}
}

func (m *fakeMedia) expectNoOpen(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case call := <-m.calls:
		t.Fatalf("Unexpected Open(%q)", call.addr)
	case <-time.After(within):
	}
}

type levelTap struct {
	value byte
}

func (t levelTap) ReadTimeDomain(buf []byte) error {
	for i := range buf {
		buf[i] = t.value
	}
	return nil
}

type fakeStream struct {
	mu      sync.Mutex
	name    string
	bitrate int
	tap     meter.Tap
	tapErr  error
	volume  int
	closed  bool
}

func newFakeStream(name string) *fakeStream {
	return &fakeStream{name: name, tap: levelTap{value: 128}}
}

func (s *fakeStream) Tap() (meter.Tap, error) {
	if s.tapErr != nil {
		return nil, s.tapErr
	}
	return s.tap, nil
}

func (s *fakeStream) SetVolume(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = percent
}

func (s *fakeStream) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.volume) / 100
}

func (s *fakeStream) Bitrate() int {
	return s.bitrate
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeStream) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeStream) Volumes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// endingStream also reports when the server stops sending.
type endingStream struct {
	*fakeStream
	done chan struct{}
	once sync.Once
}

func newEndingStream(name string) *endingStream {
	return &endingStream{fakeStream: newFakeStream(name), done: make(chan struct{})}
}

func (s *endingStream) Done() <-chan struct{} {
	return s.done
}

func (s *endingStream) end() {
	s.once.Do(func() { close(s.done) })
}

func (s *endingStream) Close() error {
	s.end()
	return s.fakeStream.Close()
}

// titledStream carries an in-band stream title.
type titledStream struct {
	*fakeStream
	title string
}

func (s *titledStream) Title() string {
	return s.title
}

type fetchCall struct {
	url   string
	reply chan fetchResult
}

type fetchResult struct {
	np  *api.NowPlaying
	err error
}

type fakeBackend struct {
	proxyBase string
	fetches   chan fetchCall
}

func newFakeBackend(proxyBase string) *fakeBackend {
	return &fakeBackend{proxyBase: proxyBase, fetches: make(chan fetchCall, 16)}
}

func (b *fakeBackend) NowPlaying(ctx context.Context, streamURL string) (*api.NowPlaying, error) {
	call := fetchCall{url: streamURL, reply: make(chan fetchResult, 1)}
	b.fetches <- call
	select {
	case r := <-call.reply:
		return r.np, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *fakeBackend) ProxyStreamURL(primary string) string {
	if b.proxyBase == "" {
		return ""
	}
	return b.proxyBase + "?url=" + primary
}

func (b *fakeBackend) expectFetch(t *testing.T) fetchCall {
	t.Helper()
	select {
	case call := <-b.fetches:
		return call
	case <-time.After(waitTimeout):
		t.Fatal("Timed out waiting for metadata fetch")
		return fetchCall{}
	}
}

type manualClock struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

func newManualClock() *manualClock {
	return &manualClock{subs: make(map[int]func())}
}

func (c *manualClock) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *manualClock) Tick() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

var testStations = []station.Station{
	{ID: "einslive", Name: "1LIVE", StreamURL: "http://wdr.test/1live.mp3"},
	{ID: "wdr2", Name: "WDR 2", StreamURL: "http://wdr.test/wdr2.mp3"},
	{ID: "energy", Name: "ENERGY", StreamURL: "http://energy.test/live.mp3"},
}

type harness struct {
	ctrl    *Controller
	media   *fakeMedia
	backend *fakeBackend
	clock   *manualClock
}

func newHarness(t *testing.T, proxyBase string, opts Options) *harness {
	t.Helper()

	catalog, err := station.NewCatalog(testStations)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	h := &harness{
		media:   newFakeMedia(),
		backend: newFakeBackend(proxyBase),
		clock:   newManualClock(),
	}
	h.ctrl = NewController(catalog, h.media, h.backend, meter.NewEngine(h.clock), opts)
	t.Cleanup(h.ctrl.Close)
	return h
}

func testOptions() Options {
	return Options{SwitchDelay: 0, PollInterval: time.Hour, Volume: 50}
}

func waitForState(t *testing.T, c *Controller, cond func(State) bool) State {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if s := c.State(); cond(s) {
			return s
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for state, last = %+v", c.State())
	return State{}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func isKind(k Kind) func(State) bool {
	return func(s State) bool { return s.Kind == k }
}

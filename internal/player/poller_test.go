package player

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebovdev/piradio/internal/api"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       api.NowPlaying
		expected api.NowPlaying
	}{
		{
			name:     "full",
			in:       api.NowPlaying{Title: "A - S", Artist: "A", Song: "S", Show: "Morning", ServerName: "1LIVE"},
			expected: api.NowPlaying{Title: "A - S", Artist: "A", Song: "S", Show: "Morning", ServerName: "1LIVE"},
		},
		{
			name:     "empty becomes live",
			in:       api.NowPlaying{},
			expected: api.NowPlaying{Title: "Live"},
		},
		{
			name:     "artist without title",
			in:       api.NowPlaying{Artist: "A", Song: "S"},
			expected: api.NowPlaying{Title: "Live", Artist: "A", Song: "S"},
		},
		{
			name:     "show falls back to server name",
			in:       api.NowPlaying{Title: "T", ServerName: "WDR 2", Bitrate: 128},
			expected: api.NowPlaying{Title: "T", Show: "WDR 2", ServerName: "WDR 2", Bitrate: 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.expected {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func playStation(t *testing.T, h *harness, id string) *fakeStream {
	t.Helper()
	if err := h.ctrl.SelectStation(id); err != nil {
		t.Fatalf("SelectStation(%q) error = %v", id, err)
	}
	if h.ctrl.State().Kind != Switching {
		if err := h.ctrl.Play(); err != nil {
			t.Fatalf("Play() error = %v", err)
		}
	}
	stream := newFakeStream(id)
	h.media.expectOpen(t).succeed(stream)
	waitForState(t, h.ctrl, func(s State) bool { return s.Kind == Playing && s.StationID == id })
	return stream
}

func TestMetadataAppliedForCurrentStation(t *testing.T) {
	h := newHarness(t, "http://backend/proxy-stream", testOptions())
	playStation(t, h, "einslive")

	fetch := h.backend.expectFetch(t)
	if fetch.url != "http://wdr.test/1live.mp3" {
		t.Errorf("Fetch url = %q, want the primary stream", fetch.url)
	}
	fetch.reply <- fetchResult{np: &api.NowPlaying{Title: "Song", Bitrate: 96, ServerName: "1LIVE"}}

	waitFor(t, "metadata", func() bool {
		_, ok := h.ctrl.Metadata()
		return ok
	})

	md, _ := h.ctrl.Metadata()
	if md.Title != "Song" || md.Show != "1LIVE" {
		t.Errorf("Metadata() = %+v, want normalized song", md)
	}
	if h.ctrl.Bitrate() != 96 {
		t.Errorf("Bitrate() = %d, want 96 from metadata", h.ctrl.Bitrate())
	}
}

func TestMetadataFallbackOnError(t *testing.T) {
	h := newHarness(t, "http://backend/proxy-stream", testOptions())
	playStation(t, h, "einslive")

	h.backend.expectFetch(t).reply <- fetchResult{err: errors.New("backend down")}

	waitFor(t, "fallback metadata", func() bool {
		md, ok := h.ctrl.Metadata()
		return ok && md.Title == FallbackTitle
	})
}

func TestMetadataIsolationAcrossSwitch(t *testing.T) {
	h := newHarness(t, "http://backend/proxy-stream", testOptions())
	playStation(t, h, "einslive")
	oldFetch := h.backend.expectFetch(t)

	playStation(t, h, "wdr2")
	newFetch := h.backend.expectFetch(t)

	// The old station's answer arrives late.
	oldFetch.reply <- fetchResult{np: &api.NowPlaying{Title: "Old station song"}}
	time.Sleep(20 * time.Millisecond)

	if md, ok := h.ctrl.Metadata(); ok {
		t.Fatalf("Metadata() = %+v, stale result must not be shown", md)
	}

	newFetch.reply <- fetchResult{np: &api.NowPlaying{Title: "New station song"}}
	waitFor(t, "new metadata", func() bool {
		md, ok := h.ctrl.Metadata()
		return ok && md.Title == "New station song"
	})
}

func TestMetadataDiscardedAfterPause(t *testing.T) {
	h := newHarness(t, "http://backend/proxy-stream", testOptions())
	playStation(t, h, "einslive")
	fetch := h.backend.expectFetch(t)

	h.ctrl.Pause()
	fetch.reply <- fetchResult{np: &api.NowPlaying{Title: "Too late"}}
	time.Sleep(20 * time.Millisecond)

	if _, ok := h.ctrl.Metadata(); ok {
		t.Error("Metadata must stay cleared while paused")
	}
}

type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) NowPlaying(ctx context.Context, streamURL string) (*api.NowPlaying, error) {
	f.calls.Add(1)
	return &api.NowPlaying{Title: "t"}, nil
}

func TestPollerPollsImmediatelyAndPeriodically(t *testing.T) {
	fetcher := &countingFetcher{}
	applied := make(chan api.NowPlaying, 16)

	p := startPoller(fetcher, "http://a", 10*time.Millisecond, func(np api.NowPlaying) {
		select {
		case applied <- np:
		default:
		}
	})

	for i := 0; i < 3; i++ {
		select {
		case <-applied:
		case <-time.After(waitTimeout):
			t.Fatalf("Poll %d not applied", i+1)
		}
	}

	p.Stop()
	time.Sleep(20 * time.Millisecond)
	stopped := fetcher.calls.Load()
	time.Sleep(40 * time.Millisecond)

	if fetcher.calls.Load() != stopped {
		t.Errorf("Poller kept fetching after Stop: %d -> %d", stopped, fetcher.calls.Load())
	}
}

func TestPollerDefaultInterval(t *testing.T) {
	p := startPoller(&countingFetcher{}, "http://a", 0, func(api.NowPlaying) {})
	defer p.Stop()

	if p.interval != DefaultPollInterval {
		t.Errorf("interval = %v, want %v", p.interval, DefaultPollInterval)
	}
}

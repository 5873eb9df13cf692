package player

import (
	"context"
	"time"

	"github.com/glebovdev/piradio/internal/api"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPollInterval = 15 * time.Second
	FallbackTitle       = "Live"

	pollRequestTimeout = 10 * time.Second
)

// MetadataFetcher returns now-playing data for a stream address.
type MetadataFetcher interface {
	NowPlaying(ctx context.Context, streamURL string) (*api.NowPlaying, error)
}

// Normalize fills the title and show the way they are displayed: an unnamed
// title becomes "Live" and a missing show falls back to the server name.
func Normalize(np api.NowPlaying) api.NowPlaying {
	if np.Title == "" {
		np.Title = FallbackTitle
	}
	if np.Show == "" {
		np.Show = np.ServerName
	}
	return np
}

func fallbackMetadata() api.NowPlaying {
	return api.NowPlaying{Title: FallbackTitle}
}

// poller fetches metadata for one station on a fixed interval. apply is
// responsible for discarding results that are no longer current.
type poller struct {
	fetcher   MetadataFetcher
	streamURL string
	interval  time.Duration
	apply     func(api.NowPlaying)

	ctx    context.Context
	cancel context.CancelFunc
}

func startPoller(fetcher MetadataFetcher, streamURL string, interval time.Duration, apply func(api.NowPlaying)) *poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{
		fetcher:   fetcher,
		streamURL: streamURL,
		interval:  interval,
		apply:     apply,
		ctx:       ctx,
		cancel:    cancel,
	}

	go p.run()

	log.Debug().Dur("interval", interval).Str("url", streamURL).Msg("Started metadata polling")
	return p
}

func (p *poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetch()

	for {
		select {
		case <-ticker.C:
			p.fetch()
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *poller) fetch() {
	ctx, cancel := context.WithTimeout(p.ctx, pollRequestTimeout)
	defer cancel()

	np, err := p.fetcher.NowPlaying(ctx, p.streamURL)
	if p.ctx.Err() != nil {
		return
	}

	if err != nil || np == nil {
		log.Debug().Err(err).Str("url", p.streamURL).Msg("Metadata fetch failed, using fallback")
		p.apply(fallbackMetadata())
		return
	}

	p.apply(Normalize(*np))
}

func (p *poller) Stop() {
	p.cancel()
}

// Package audio plays MP3 radio streams through the system speaker and exposes
// the decoded signal to the level meter.
package audio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/glebovdev/piradio/internal/meter"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog/log"
)

const (
	SpeakerBufferSize   = time.Millisecond * 250
	NetworkReadSize     = 4096
	SampleChannelSize   = 8192
	VolumeCurveExponent = 0.5
	MinVolumeDB         = -10.0
	ReadTimeout         = 5 * time.Second
	DefaultVolume       = 70

	maxICYMetaLen  = 4080
	fadeInDuration = 50 * time.Millisecond
)

// ErrClosed is returned when a closed stream is asked for its tap.
var ErrClosed = errors.New("stream closed")

// StatusError reports a non-200 answer from a stream server.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stream returned status %d: %s", e.StatusCode, e.Status)
}

// CodecError reports a stream that answered but cannot be decoded.
type CodecError struct {
	ContentType string
	Err         error
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported stream (%s): %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("unsupported stream content type %q", e.ContentType)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// Relies on context cancellation to clean up the spawned read goroutine.
type contextReader struct {
	reader  io.Reader
	ctx     context.Context
	timeout time.Duration
}

func (cr *contextReader) Read(p []byte) (n int, err error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
	}

	timer := time.NewTimer(cr.timeout)
	defer timer.Stop()

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)

	go func() {
		n, err := cr.reader.Read(p)
		select {
		case done <- result{n, err}:
		case <-cr.ctx.Done():
		}
	}()

	select {
	case res := <-done:
		return res.n, res.err
	case <-timer.C:
		return 0, fmt.Errorf("read timeout: no data received for %v", cr.timeout)
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	}
}

// Media opens radio streams and routes them to the speaker.
type Media struct {
	httpClient *http.Client
	userAgent  string

	mu          sync.Mutex
	speakerInit bool
	sampleRate  beep.SampleRate
}

func NewMedia(userAgent string) *Media {
	httpClient := &http.Client{
		Timeout: 0, // streams are long-lived
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			DisableCompression:    true,
		},
	}

	return &Media{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (m *Media) initSpeaker(sampleRate beep.SampleRate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.speakerInit || sampleRate != m.sampleRate {
		if err := speaker.Init(sampleRate, sampleRate.N(SpeakerBufferSize)); err != nil {
			return fmt.Errorf("failed to initialize speaker: %w", err)
		}
		m.sampleRate = sampleRate
		m.speakerInit = true
		log.Debug().Msgf("Speaker initialized with sample rate: %d Hz, buffer: %v", sampleRate, SpeakerBufferSize)
	}
	return nil
}

// Open connects to address, starts decoding and begins playback. The stream
// lives until Close is called, ctx is cancelled, or the server stops sending.
func (m *Media) Open(ctx context.Context, address string) (*Stream, error) {
	ctx, cancel := context.WithCancel(ctx)

	s, err := m.open(ctx, address)
	if err != nil {
		cancel()
		return nil, err
	}
	s.cancel = cancel
	return s, nil
}

func (m *Media) open(ctx context.Context, address string) (*Stream, error) {
	log.Debug().Msgf("Connecting to stream: %s", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Icy-MetaData", "1")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stream: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	log.Debug().Msgf("Stream response status: %d, Content-Type: %s", resp.StatusCode, contentType)

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if !isMPEG(contentType) {
		resp.Body.Close()
		return nil, &CodecError{ContentType: contentType}
	}

	icyMetaint := parseLeadingInt(resp.Header.Get("icy-metaint"))
	if icyMetaint > 0 {
		log.Debug().Msgf("ICY metadata interval: %d bytes", icyMetaint)
	}

	s := &Stream{
		address:       address,
		bitrate:       parseLeadingInt(resp.Header.Get("icy-br")),
		sampleCh:      make(chan [2]float64, SampleChannelSize),
		done:          make(chan struct{}),
		tap:           newRingTap(),
		volumePercent: DefaultVolume,
	}

	pipeReader, pipeWriter := io.Pipe()
	body := &contextReader{reader: resp.Body, ctx: ctx, timeout: ReadTimeout}

	s.wg.Add(1)
	go s.readNetworkStream(ctx, resp.Body, body, pipeWriter, icyMetaint)

	streamer, format, err := mp3.Decode(pipeReader)
	if err != nil {
		s.finish()
		pipeReader.Close()
		pipeWriter.Close()
		resp.Body.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &CodecError{ContentType: contentType, Err: err}
	}

	if err := m.initSpeaker(format.SampleRate); err != nil {
		s.finish()
		streamer.Close()
		pipeReader.Close()
		pipeWriter.Close()
		resp.Body.Close()
		return nil, fmt.Errorf("failed to initialize audio output: %w", err)
	}

	s.wg.Add(1)
	go s.decodeAndBuffer(ctx, streamer, pipeReader)

	fadeInSamples := format.SampleRate.N(fadeInDuration)
	s.volume = &effects.Volume{
		Streamer: &playbackStreamer{
			stream:          s,
			fadeInRemaining: fadeInSamples,
			fadeInTotal:     fadeInSamples,
		},
		Base:   2,
		Volume: percentToExponent(float64(s.volumePercent)),
	}

	speaker.Play(s.volume)

	log.Debug().Str("address", address).Int("bitrate", s.bitrate).Msg("Stream playing")
	return s, nil
}

// Stream is one live connection being decoded and played.
type Stream struct {
	address string
	bitrate int
	cancel  context.CancelFunc

	sampleCh chan [2]float64
	done     chan struct{}
	doneOnce sync.Once
	wg       sync.WaitGroup

	tap    *ringTap
	volume *effects.Volume

	mu            sync.Mutex
	volumePercent int
	title         string
}

// Tap returns the decoded-signal tap used by the level meter.
func (s *Stream) Tap() (meter.Tap, error) {
	select {
	case <-s.done:
		return nil, ErrClosed
	default:
	}
	return s.tap, nil
}

// SetVolume applies a 0-100 volume to this stream's output.
func (s *Stream) SetVolume(percent int) {
	percent = max(0, min(100, percent))

	s.mu.Lock()
	s.volumePercent = percent
	s.mu.Unlock()

	if s.volume == nil {
		return
	}

	level := percentToExponent(float64(percent))
	speaker.Lock()
	s.volume.Volume = level
	s.volume.Silent = percent == 0
	speaker.Unlock()

	log.Debug().Msgf("Volume set to %d%% (%.2f dB)", percent, level)
}

// Volume returns the output volume in [0, 1].
func (s *Stream) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.volumePercent) / 100
}

// Bitrate returns the kbps advertised by the server, or 0.
func (s *Stream) Bitrate() int {
	return s.bitrate
}

// Title returns the last ICY StreamTitle seen on the connection.
func (s *Stream) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Done is closed once the stream stops, whether closed locally or ended by the server.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Close stops the stream. The speaker drops it on its next pull; other streams keep playing.
func (s *Stream) Close() error {
	s.finish()
	if s.cancel != nil {
		s.cancel()
	}
	log.Debug().Str("address", s.address).Msg("Stream closed")
	return nil
}

func (s *Stream) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Stream) setTitle(title string) {
	s.mu.Lock()
	changed := s.title != title
	s.title = title
	s.mu.Unlock()

	if changed {
		log.Debug().Str("title", title).Msg("Stream title changed")
	}
}

func (s *Stream) readNetworkStream(ctx context.Context, respBody io.ReadCloser, bodyReader io.Reader, pipeWriter *io.PipeWriter, icyMetaint int) {
	var exitErr error

	defer func() {
		respBody.Close()
		if exitErr != nil {
			pipeWriter.CloseWithError(exitErr)
		} else {
			pipeWriter.Close()
		}
		s.wg.Done()
		log.Debug().Msg("Network stream reader stopped")
	}()

	chunkSize := int64(icyMetaint)
	if chunkSize == 0 {
		chunkSize = NetworkReadSize
	}

	bufReader := bufio.NewReader(bodyReader)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		if _, err := io.CopyN(pipeWriter, bufReader, chunkSize); err != nil {
			if ctx.Err() != nil || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			if err != io.EOF {
				log.Error().Err(err).Msg("Error reading audio data from stream")
				exitErr = fmt.Errorf("network read error: %w", err)
			}
			return
		}

		if icyMetaint == 0 {
			continue
		}

		metaLenByte, err := bufReader.ReadByte()
		if err != nil {
			if ctx.Err() == nil && err != io.EOF {
				exitErr = fmt.Errorf("metadata read error: %w", err)
			}
			return
		}

		metaLen := int(metaLenByte) * 16
		if metaLen == 0 {
			continue
		}
		if metaLen > maxICYMetaLen {
			log.Warn().Int("metaLen", metaLen).Msg("ICY metadata too large, skipping")
			if _, err := io.CopyN(io.Discard, bufReader, int64(metaLen)); err != nil {
				return
			}
			continue
		}

		metaData := make([]byte, metaLen)
		if _, err := io.ReadFull(bufReader, metaData); err != nil {
			if ctx.Err() == nil {
				exitErr = fmt.Errorf("metadata content error: %w", err)
			}
			return
		}
		if title, ok := parseStreamTitle(string(metaData)); ok {
			s.setTitle(title)
		}
	}
}

func (s *Stream) decodeAndBuffer(ctx context.Context, streamer beep.StreamSeekCloser, pipeReader *io.PipeReader) {
	defer func() {
		streamer.Close()
		pipeReader.Close()
		s.wg.Done()
		// Server side end: nothing more will ever be decoded.
		s.finish()
		log.Debug().Msg("Decoder goroutine stopped")
	}()

	decoded := make([][2]float64, 4096)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		n, ok := streamer.Stream(decoded)
		if !ok {
			if err := streamer.Err(); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("Stream decoding error")
			}
			return
		}

		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case s.sampleCh <- decoded[i]:
			}
		}
	}
}

// playbackStreamer feeds decoded samples to the speaker without blocking it.
// An empty buffer yields silence; a finished stream reports !ok so the
// speaker mixer drops it.
type playbackStreamer struct {
	stream          *Stream
	fadeInRemaining int
	fadeInTotal     int
}

func (b *playbackStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	s := b.stream

	select {
	case <-s.done:
		return 0, false
	default:
	}

	filled := 0
fill:
	for filled < len(samples) {
		select {
		case sample := <-s.sampleCh:
			samples[filled] = sample
			filled++
		default:
			break fill
		}
	}

	for i := filled; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}

	s.tap.write(samples[:filled])

	for i := 0; i < filled && b.fadeInRemaining > 0; i++ {
		pos := b.fadeInTotal - b.fadeInRemaining
		scale := float64(pos) / float64(b.fadeInTotal)
		samples[i][0] *= scale
		samples[i][1] *= scale
		b.fadeInRemaining--
	}

	return len(samples), true
}

func (b *playbackStreamer) Err() error {
	return nil
}

func percentToExponent(p float64) float64 {
	if p <= 0 {
		return MinVolumeDB
	}
	if p >= 100 {
		return 0
	}

	normalized := p / 100.0
	adjusted := math.Pow(normalized, VolumeCurveExponent)
	return (1.0 - adjusted) * MinVolumeDB
}

// isMPEG accepts the content types radio servers use for MP3. A missing
// header is tolerated since some Shoutcast servers omit it.
func isMPEG(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3", "audio/mpeg3", "audio/x-mpeg", "audio/x-mp3", "audio/mpa", "application/octet-stream":
		return true
	}
	return false
}

func parseStreamTitle(meta string) (string, bool) {
	const key = "StreamTitle='"
	start := strings.Index(meta, key)
	if start < 0 {
		return "", false
	}
	start += len(key)
	end := strings.Index(meta[start:], "';")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(meta[start : start+end]), true
}

// parseLeadingInt reads headers like "128" or "128,128".
func parseLeadingInt(v string) int {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, ",; "); i >= 0 {
		v = v[:i]
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

package audio

import (
	"sync"

	"github.com/glebovdev/piradio/internal/meter"
)

// ringTap keeps the most recent mono samples as unsigned bytes, 128 being silence.
type ringTap struct {
	mu   sync.Mutex
	buf  [meter.FrameSize]byte
	next int
}

func newRingTap() *ringTap {
	t := &ringTap{}
	for i := range t.buf {
		t.buf[i] = 128
	}
	return t
}

func (t *ringTap) write(samples [][2]float64) {
	if len(samples) == 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range samples {
		t.buf[t.next] = sampleToByte((s[0] + s[1]) / 2)
		t.next = (t.next + 1) % len(t.buf)
	}
}

// ReadTimeDomain copies the newest len(dst) samples, oldest first.
func (t *ringTap) ReadTimeDomain(dst []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := min(len(dst), len(t.buf))
	start := (t.next - n + len(t.buf)) % len(t.buf)
	for i := 0; i < n; i++ {
		dst[i] = t.buf[(start+i)%len(t.buf)]
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 128
	}
	return nil
}

func sampleToByte(v float64) byte {
	scaled := 128 + v*128
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}

var _ meter.Tap = (*ringTap)(nil)

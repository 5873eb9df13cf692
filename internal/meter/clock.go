package meter

import (
	"sync"
	"time"
)

// DefaultFPS is the redraw rate used by the terminal host.
const DefaultFPS = 30

// Clock invokes subscribed callbacks once per display frame.
type Clock interface {
	// Subscribe starts calling fn on every frame until the returned function is called.
	Subscribe(fn func()) (unsubscribe func())
}

// TickerClock is a Clock backed by a time.Ticker.
type TickerClock struct {
	interval time.Duration
}

func NewTickerClock(fps int) *TickerClock {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TickerClock{interval: time.Second / time.Duration(fps)}
}

func (c *TickerClock) Subscribe(fn func()) func() {
	stop := make(chan struct{})

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
	}
}

// Package player switches between live radio stations, falling back from the
// direct stream to the backend proxy, and keeps metadata and levels in step
// with the station actually playing.
package player

type Kind int

const (
	Idle Kind = iota
	Switching
	Playing
	Paused
	Failed
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "IDLE"
	case Switching:
		return "SWITCHING"
	case Playing:
		return "LIVE"
	case Paused:
		return "PAUSED"
	case Failed:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Transport tells how the playing stream is reached.
type Transport int

const (
	NoTransport Transport = iota
	Direct
	Proxied
)

func (t Transport) String() string {
	switch t {
	case Direct:
		return "direct"
	case Proxied:
		return "proxy"
	default:
		return ""
	}
}

// State is a snapshot of the controller. Generation is the counter value of
// the transition that produced it.
type State struct {
	Kind       Kind
	StationID  string
	Generation uint64
	Transport  Transport
	Reason     string
	Err        error
}

func (s State) IsActive() bool {
	return s.Kind == Playing || s.Kind == Switching
}

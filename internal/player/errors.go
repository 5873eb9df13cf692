package player

import (
	"errors"
	"net"
	"syscall"
)

var (
	ErrUnknownStation     = errors.New("unknown station")
	ErrNoStation          = errors.New("no station selected")
	ErrTransportsFailed   = errors.New("stream failed on direct and proxied transport")
	ErrBackendUnreachable = errors.New("backend unreachable")

	errStale = errors.New("superseded by a newer request")
)

// isBackendUnreachable reports errors where no connection to the proxy could
// be made at all, as opposed to the proxy answering with something unplayable.
func isBackendUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return false
}

func failureReason(err error) string {
	if errors.Is(err, ErrBackendUnreachable) {
		return "Stream failed. Check that the backend is running and backend_url points to it."
	}
	return "Stream failed. The station could not be played directly or through the backend proxy; check the audio output."
}

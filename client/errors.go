package client

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a structurally required argument (a
// pipeline, element, property, or signal name) is empty. No round trip is
// attempted; every other kind of validation is the daemon's job and surfaces
// as a DaemonError instead.
var ErrInvalidArgument = errors.New("invalid argument")

// DaemonError is a well-formed rejection from gstd itself: the request
// reached the daemon, was parsed, and was refused — unknown pipeline name,
// bad property, malformed description, and so on. Description carries the
// daemon's explanation verbatim.
type DaemonError struct {
	Code        int
	Description string
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("gstd error (code %d): %s", e.Code, e.Description)
}

// InternalError wraps any local failure on the round trip: connecting,
// encoding, socket I/O, timeouts, or an unparseable response. The underlying
// cause is preserved for errors.Is/errors.As, so callers can still tell a
// transport.ErrTimeout from a codec.ProtocolError when they care.
type InternalError struct {
	Op    string // the verb being executed, or "connect"/"discover"
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("gstc client error: %s: %v", e.Op, e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

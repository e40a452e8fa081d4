// Package transport owns the TCP control connection to the daemon.
//
// A Transport is one persistent connection with strict request-response
// alternation: SendAndReceive writes one framed request and blocks until the
// matching framed response arrives (or the timeout elapses). Frames carry no
// sequence numbers, so a Transport supports at most one exchange in flight —
// concurrent callers are serialized by an internal mutex, and callers that
// need a long-blocking wait alongside normal commands (the signal_connect /
// signal_disconnect pattern) should use a second Transport instead:
//
//	waiter  ── conn A ──→ signal_connect ... (blocked in the daemon)
//	control ── conn B ──→ signal_disconnect  (unblocks conn A)
package transport

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/wildhunter-66/gstd-1.x/protocol"
)

var (
	// ErrConnection marks a transport that cannot be established or can no
	// longer be trusted. The only recovery is a fresh Dial.
	ErrConnection = errors.New("gstd connection error")

	// ErrTimeout marks an exchange that got no complete response within the
	// requested window. The connection is torn down as a side effect: without
	// sequence numbers a late response cannot be matched to its request, so
	// resuming the stream would silently correlate the wrong pairs.
	ErrTimeout = errors.New("timed out waiting for gstd response")
)

// Transport is a single control connection to the daemon.
type Transport struct {
	addr   string
	conn   net.Conn
	reader *bufio.Reader

	mu     sync.Mutex // guards the exchange and the state below
	closed bool
	broken bool
}

// Dial opens the control connection. It fails with ErrConnection if the
// daemon endpoint is unreachable.
func Dial(host string, port int) (*Transport, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnection, addr, err)
	}
	return &Transport{
		addr:   addr,
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// Addr returns the remote endpoint in host:port form.
func (t *Transport) Addr() string { return t.addr }

// SendAndReceive performs one complete exchange: write the framed payload,
// block until the framed response arrives, return the response payload.
//
// timeout > 0 bounds the whole exchange. timeout <= 0 waits indefinitely;
// verbs that can block in the daemon (bus_read, signal_connect) bound their
// own wait remotely via bus_timeout / signal_timeout.
//
// Exactly one response is consumed per request. Any I/O failure or timeout
// leaves the stream at an unknown position, so the connection is closed and
// every later call fails with ErrConnection.
func (t *Transport) SendAndReceive(payload []byte, timeout time.Duration) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.broken {
		return nil, fmt.Errorf("%w: connection to %s is closed", ErrConnection, t.addr)
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := t.conn.SetDeadline(deadline); err != nil {
		return nil, t.fail(err)
	}

	if err := protocol.WriteFrame(t.conn, payload); err != nil {
		return nil, t.fail(err)
	}
	raw, err := protocol.ReadFrame(t.reader)
	if err != nil {
		return nil, t.fail(err)
	}
	return raw, nil
}

// fail tears the connection down and classifies the cause. Called with the
// mutex held.
func (t *Transport) fail(err error) error {
	t.broken = true
	t.conn.Close()

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, t.addr, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrConnection, t.addr, err)
}

// Broken reports whether the transport has been torn down or closed and a
// fresh Dial is required.
func (t *Transport) Broken() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.broken || t.closed
}

// Close releases the connection. It is idempotent and safe to call after a
// failure has already torn the connection down.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.broken {
		return nil // already closed by fail
	}
	return t.conn.Close()
}

package client

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/wildhunter-66/gstd-1.x/codec"
	"github.com/wildhunter-66/gstd-1.x/gstdtest"
	"github.com/wildhunter-66/gstd-1.x/protocol"
	"github.com/wildhunter-66/gstd-1.x/transport"
)

func startDaemon(t *testing.T) *gstdtest.Daemon {
	t.Helper()
	d, err := gstdtest.Start()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func newClient(t *testing.T, d *gstdtest.Daemon, opts ...Option) *Client {
	t.Helper()
	c, err := New(d.Host(), d.Port(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// startRawServer serves a fixed byte response to every framed request,
// for exercising decode failures the real daemon would never produce.
func startRawServer(t *testing.T, reply []byte) (host string, port int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				r := bufio.NewReader(conn)
				for {
					if _, err := protocol.ReadFrame(r); err != nil {
						return
					}
					if reply == nil {
						continue
					}
					if err := protocol.WriteFrame(conn, reply); err != nil {
						return
					}
				}
			}(conn)
		}
	}()
	return "127.0.0.1", ln.Addr().(*net.TCPAddr).Port
}

func TestNewRefusedConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = New("127.0.0.1", port)
	var ierr *InternalError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	if !errors.Is(err, transport.ErrConnection) {
		t.Errorf("cause should be the transport connection failure: %v", err)
	}
}

func TestExecuteReturnsEnvelopeUnchanged(t *testing.T) {
	d := startDaemon(t)
	c := newClient(t, d)

	if err := c.PipelineCreate("p0", "videotestsrc ! fakesink"); err != nil {
		t.Fatal(err)
	}
	resp, err := c.Execute("read", "pipelines")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Code != 0 {
		t.Errorf("successful envelope must keep code 0, got %d", resp.Code)
	}
	nodes, err := resp.Nodes()
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].Name != "p0" {
		t.Errorf("payload altered on the way through: %+v", nodes)
	}
}

func TestDaemonRejectionCarriesDescription(t *testing.T) {
	d := startDaemon(t)
	c := newClient(t, d)

	err := c.PipelinePlay("p9")
	var derr *DaemonError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DaemonError, got %v", err)
	}
	if derr.Code == 0 {
		t.Error("DaemonError must carry the nonzero code")
	}
	if derr.Description != `No pipeline named "p9"` {
		t.Errorf("description not verbatim: %q", derr.Description)
	}
}

func TestMalformedPayloadIsProtocolError(t *testing.T) {
	host, port := startRawServer(t, []byte("this is not json"))
	c, err := New(host, port)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, err = c.Execute("list_pipelines")
	var ierr *InternalError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	var perr *codec.ProtocolError
	if !errors.As(err, &perr) {
		t.Errorf("cause should be a ProtocolError, got %v", ierr.Cause)
	}
}

func TestTimeoutIsInternalError(t *testing.T) {
	host, port := startRawServer(t, nil) // swallow requests
	c, err := New(host, port, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, err = c.Execute("list_pipelines")
	if !errors.Is(err, transport.ErrTimeout) {
		t.Fatalf("expected a timeout cause, got %v", err)
	}
	var ierr *InternalError
	if !errors.As(err, &ierr) {
		t.Errorf("timeout must surface as InternalError, got %v", err)
	}

	// One failed round trip is final: no retry, no reconnect.
	_, err = c.Execute("list_pipelines")
	if !errors.Is(err, transport.ErrConnection) {
		t.Errorf("expected ErrConnection after the failed exchange, got %v", err)
	}
}

func TestPerCallTimeoutOverridesDefault(t *testing.T) {
	host, port := startRawServer(t, nil)
	c, err := New(host, port) // no default timeout: would wait forever
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	start := time.Now()
	_, err = c.ExecuteTimeout(50*time.Millisecond, "list_pipelines")
	if !errors.Is(err, transport.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("per-call timeout did not take effect")
	}
}

func TestInvalidArgumentSkipsRoundTrip(t *testing.T) {
	d := startDaemon(t)
	c := newClient(t, d)

	cases := map[string]func() error{
		"empty pipeline name": func() error { return c.PipelineCreate("", "videotestsrc ! fakesink") },
		"empty description":   func() error { return c.PipelineCreate("p0", "") },
		"empty element": func() error {
			_, err := c.ElementGet("p0", "", "pattern")
			return err
		},
		"empty signal": func() error { return c.SignalDisconnect("p0", "v0", "") },
		"empty uri":    func() error { return c.Update("", "playing") },
	}
	for name, call := range cases {
		if err := call(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}

	if got := len(d.Commands()); got != 0 {
		t.Errorf("validation failures must not reach the daemon, saw %d commands", got)
	}
}

package transport

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/wildhunter-66/gstd-1.x/protocol"
)

// startServer runs a frame-echo style server on an ephemeral port. For every
// received frame it writes back whatever handler returns; a nil reply means
// "swallow the request and never answer".
func startServer(t *testing.T, handler func(req []byte) []byte) (host string, port int) {
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
					req, err := protocol.ReadFrame(r)
					if err != nil {
						return
					}
					reply := handler(req)
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

	tcpAddr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", tcpAddr.Port
}

func TestSendAndReceive(t *testing.T) {
	host, port := startServer(t, func(req []byte) []byte {
		return []byte(fmt.Sprintf(`{"echo":%q}`, req))
	})

	tr, err := Dial(host, port)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	got, err := tr.SendAndReceive([]byte("list_pipelines"), time.Second)
	if err != nil {
		t.Fatalf("SendAndReceive failed: %v", err)
	}
	if string(got) != `{"echo":"list_pipelines"}` {
		t.Errorf("unexpected response: %q", got)
	}
}

func TestDialRefused(t *testing.T) {
	// Grab a port and close the listener so nothing is there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = Dial("127.0.0.1", port)
	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
}

func TestTimeoutTearsDownConnection(t *testing.T) {
	host, port := startServer(t, func(req []byte) []byte {
		return nil // never answer
	})

	tr, err := Dial(host, port)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	_, err = tr.SendAndReceive([]byte("bus_read p0"), 50*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !tr.Broken() {
		t.Error("transport should be broken after a timeout")
	}

	// The stream position is unknown after a timeout, so the transport must
	// refuse further use rather than resynchronize.
	_, err = tr.SendAndReceive([]byte("list_pipelines"), 50*time.Millisecond)
	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection after teardown, got %v", err)
	}
}

func TestExchangesDoNotInterleave(t *testing.T) {
	// The server answers each request with its own payload after a short
	// delay. If two exchanges ever overlapped on the wire, some caller would
	// get another caller's response back.
	host, port := startServer(t, func(req []byte) []byte {
		time.Sleep(5 * time.Millisecond)
		return append([]byte("re:"), req...)
	})

	tr, err := Dial(host, port)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := []byte("cmd-" + strconv.Itoa(n))
			got, err := tr.SendAndReceive(req, 5*time.Second)
			if err != nil {
				t.Errorf("exchange %d failed: %v", n, err)
				return
			}
			want := "re:" + string(req)
			if string(got) != want {
				t.Errorf("exchange %d got foreign response: %q, want %q", n, got, want)
			}
		}(i)
	}
	wg.Wait()
}

func TestCloseIdempotent(t *testing.T) {
	host, port := startServer(t, func(req []byte) []byte { return []byte("{}") })

	tr, err := Dial(host, port)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	_, err = tr.SendAndReceive([]byte("list_pipelines"), time.Second)
	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection after Close, got %v", err)
	}
}

func TestIndefiniteWaitHonorsLateResponse(t *testing.T) {
	host, port := startServer(t, func(req []byte) []byte {
		time.Sleep(150 * time.Millisecond)
		return []byte(`{"late":true}`)
	})

	tr, err := Dial(host, port)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	// timeout <= 0 means no deadline at all.
	got, err := tr.SendAndReceive([]byte("signal_connect p0 v0 eos"), 0)
	if err != nil {
		t.Fatalf("SendAndReceive failed: %v", err)
	}
	if string(got) != `{"late":true}` {
		t.Errorf("unexpected response: %q", got)
	}
}

// Package gstdtest runs an in-process stand-in for the GStreamer Daemon's
// TCP control server, for tests that need a full round trip without a real
// gstd on the machine.
//
// The fake implements the control protocol faithfully — NUL-framed token
// requests in, NUL-framed JSON envelopes out, one exchange at a time per
// connection — and enough pipeline semantics to exercise a client: a
// pipeline table built from gst-launch style descriptions, element property
// reads and writes, a per-pipeline bus with filter and timeout, and signal
// waits that unblock on signal_disconnect. It does not run any media.
package gstdtest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/wildhunter-66/gstd-1.x/protocol"
)

// Daemon status codes, mirroring the shape of the real daemon's: zero is
// success, anything else is a rejection explained by the description.
const (
	codeOK          = 0
	codeBadCommand  = 1
	codeBadArgument = 2
	codeNotFound    = 9
	codeExists      = 10
)

type envelope struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Response    any    `json:"response"`
}

func okEnv(payload any) envelope {
	return envelope{Code: codeOK, Description: "Success", Response: payload}
}

func failEnv(code int, format string, args ...any) envelope {
	return envelope{Code: code, Description: fmt.Sprintf(format, args...), Response: nil}
}

type element struct {
	name    string
	factory string
	props   map[string]string
}

type busMessage map[string]any

type pipeline struct {
	name        string
	description string
	state       string
	elements    []*element

	busFilter   map[string]bool // nil means no filter: everything passes
	busTimeout  int64           // nanoseconds; -1 waits forever
	bus         []busMessage
	signalWaits map[string]chan any // "element:signal" → waiter channel
	signalTimes map[string]int64    // "element:signal" → microseconds; -1 forever
}

// Daemon is one fake gstd instance listening on an ephemeral local port.
type Daemon struct {
	ln net.Listener
	wg sync.WaitGroup

	mu        sync.Mutex
	pipelines map[string]*pipeline
	debug     map[string]string
	history   []string
}

// Start listens on an ephemeral 127.0.0.1 port and serves until Close.
func Start() (*Daemon, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	d := &Daemon{
		ln:        ln,
		pipelines: make(map[string]*pipeline),
		debug:     make(map[string]string),
	}
	go d.acceptLoop()
	return d, nil
}

// Host returns the listen host.
func (d *Daemon) Host() string { return "127.0.0.1" }

// Port returns the listen port.
func (d *Daemon) Port() int {
	return d.ln.Addr().(*net.TCPAddr).Port
}

// Addr returns the listen address in host:port form.
func (d *Daemon) Addr() string { return d.ln.Addr().String() }

// Close stops the listener, releases any blocked signal waiters, and waits
// for in-flight connections to drain.
func (d *Daemon) Close() error {
	err := d.ln.Close()
	d.mu.Lock()
	for _, p := range d.pipelines {
		for key, ch := range p.signalWaits {
			select {
			case ch <- nil:
			default:
			}
			delete(p.signalWaits, key)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
	return err
}

// PostBusMessage places a message on a pipeline's bus, as the media graph
// would. Returns false if the pipeline does not exist.
func (d *Daemon) PostBusMessage(pipe string, msg map[string]any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[pipe]
	if !ok {
		return false
	}
	p.bus = append(p.bus, busMessage(msg))
	return true
}

// FireSignal delivers a signal payload to a blocked signal_connect waiter.
// Returns false if nobody is waiting on that signal.
func (d *Daemon) FireSignal(pipe, element, signal string, payload any) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pipelines[pipe]
	if !ok {
		return false
	}
	ch, ok := p.signalWaits[element+":"+signal]
	if !ok {
		return false
	}
	select {
	case ch <- map[string]any{"name": signal, "arguments": payload}:
		return true
	default:
		return false
	}
}

func (d *Daemon) acceptLoop() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.wg.Add(1)
		go d.handleConn(conn)
	}
}

// handleConn serves one control connection: strict request-response
// alternation, exactly one framed reply per framed request.
func (d *Daemon) handleConn(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		line, err := protocol.ReadFrame(r)
		if err != nil {
			return
		}
		resp := d.dispatch(string(line))
		raw, err := json.Marshal(resp)
		if err != nil {
			return
		}
		if err := protocol.WriteFrame(conn, raw); err != nil {
			return
		}
	}
}

// arity is the fixed argument count per verb. The final argument absorbs the
// rest of the line, which is how descriptions and property values may
// contain spaces.
var arity = map[string]int{
	"create":            3,
	"read":              1,
	"update":            2,
	"delete":            2,
	"pipeline_create":   2,
	"pipeline_delete":   1,
	"pipeline_play":     1,
	"pipeline_pause":    1,
	"pipeline_stop":     1,
	"list_pipelines":    0,
	"list_elements":     1,
	"list_properties":   2,
	"list_signals":      2,
	"element_get":       3,
	"element_set":       4,
	"bus_read":          1,
	"bus_filter":        2,
	"bus_timeout":       2,
	"signal_connect":    3,
	"signal_disconnect": 3,
	"signal_timeout":    4,
	"event_eos":         1,
	"event_flush_start": 1,
	"event_flush_stop":  2,
	"event_seek":        8,
	"debug_enable":      1,
	"debug_threshold":   1,
	"debug_color":       1,
	"debug_reset":       1,
}

// Commands returns every request line received so far, in order. Tests use
// it to assert exactly what a client put on the wire.
func (d *Daemon) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.history...)
}

// dispatch tokenizes one request line and routes it to the verb handler.
// This is the daemon-side parser that the client's encoder must agree with.
func (d *Daemon) dispatch(line string) envelope {
	d.mu.Lock()
	d.history = append(d.history, line)
	d.mu.Unlock()

	verb, rest, _ := strings.Cut(line, " ")
	argc, ok := arity[verb]
	if !ok {
		return failEnv(codeBadCommand, "Unknown command %q", verb)
	}

	var args []string
	if argc > 0 {
		args = strings.SplitN(rest, " ", argc)
		if rest == "" || len(args) != argc {
			return failEnv(codeBadArgument, "Command %q expects %d arguments", verb, argc)
		}
	} else if rest != "" {
		return failEnv(codeBadArgument, "Command %q takes no arguments", verb)
	}

	switch verb {
	case "create":
		return d.create(args[0], args[1], args[2])
	case "read":
		return d.read(args[0])
	case "update":
		return d.update(args[0], args[1])
	case "delete":
		return d.deleteRes(args[0], args[1])
	case "pipeline_create":
		return d.pipelineCreate(args[0], args[1])
	case "pipeline_delete":
		return d.pipelineDelete(args[0])
	case "pipeline_play":
		return d.setState(args[0], "playing")
	case "pipeline_pause":
		return d.setState(args[0], "paused")
	case "pipeline_stop":
		return d.setState(args[0], "null")
	case "list_pipelines":
		return d.listPipelines()
	case "list_elements":
		return d.listElements(args[0])
	case "list_properties":
		return d.listProperties(args[0], args[1])
	case "list_signals":
		return d.listSignals(args[0], args[1])
	case "element_get":
		return d.elementGet(args[0], args[1], args[2])
	case "element_set":
		return d.elementSet(args[0], args[1], args[2], args[3])
	case "bus_read":
		return d.busRead(args[0])
	case "bus_filter":
		return d.busFilter(args[0], args[1])
	case "bus_timeout":
		return d.busTimeout(args[0], args[1])
	case "signal_connect":
		return d.signalConnect(args[0], args[1], args[2])
	case "signal_disconnect":
		return d.signalDisconnect(args[0], args[1], args[2])
	case "signal_timeout":
		return d.signalTimeout(args[0], args[1], args[2], args[3])
	case "event_eos":
		return d.eventEOS(args[0])
	case "event_flush_start", "event_flush_stop", "event_seek":
		return d.requirePipeline(args[0])
	case "debug_enable", "debug_threshold", "debug_color", "debug_reset":
		d.mu.Lock()
		d.debug[verb] = args[0]
		d.mu.Unlock()
		return okEnv(nil)
	}
	return failEnv(codeBadCommand, "Unknown command %q", verb)
}

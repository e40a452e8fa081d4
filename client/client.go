// Package client is the control client for the GStreamer Daemon (gstd).
//
// A Client owns exactly one control connection and dispatches verb commands
// over it:
//
//	caller → convenience method → Execute → codec.Encode
//	       → transport.SendAndReceive → codec.Decode → classify → caller
//
// Every operation is one blocking round trip on the caller's goroutine; the
// outcome is either the response payload, a DaemonError (the daemon refused
// the command), or an InternalError (the client could not complete the
// exchange). There is no retry and no reconnection: after a connection-level
// failure the client is done and a new one must be created.
//
// # Concurrency
//
// The connection carries at most one request at a time. Concurrent calls on
// one Client are serialized by the transport, which is correct but means a
// long-blocking wait (signal_connect with an indefinite timeout) starves
// every other command. The supported pattern for that case is two clients:
//
//	waiter, _ := client.New(host, port)        // blocks in SignalConnect
//	control, _ := client.New(host, port)       // issues SignalDisconnect
//
// The disconnect is interpreted by the daemon, which then answers the
// waiter's pending request with a null payload.
package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wildhunter-66/gstd-1.x/codec"
	"github.com/wildhunter-66/gstd-1.x/message"
	"github.com/wildhunter-66/gstd-1.x/middleware"
	"github.com/wildhunter-66/gstd-1.x/probe"
	"github.com/wildhunter-66/gstd-1.x/transport"
)

// DefaultPort is the gstd TCP control port.
const DefaultPort = 5000

// Client talks to one gstd instance over one control connection.
type Client struct {
	host    string
	port    int
	timeout time.Duration
	log     *zap.Logger

	cdc         codec.Codec
	tr          *transport.Transport
	middlewares []middleware.Middleware
	handler     middleware.HandlerFunc
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout sets the default per-call timeout. Zero (the default) means
// calls wait indefinitely for the daemon's response; verbs that can block in
// the daemon bound their wait remotely via BusTimeout / SignalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger installs the logging sink. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMiddleware wraps the dispatcher with the given middlewares, outermost
// first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) { c.middlewares = append(c.middlewares, mws...) }
}

// New connects to the gstd instance at host:port. The local process probe
// runs first purely for the log signal it produces — a missing daemon is
// reported either way, the probe just says it sooner and more clearly.
func New(host string, port int, opts ...Option) (*Client, error) {
	c := &Client{
		host: host,
		port: port,
		log:  zap.NewNop(),
		cdc:  codec.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.log.Info("starting gstd client",
		zap.String("host", host), zap.Int("port", port))
	probe.IsDaemonRunning(c.log, host) // advisory, never gates the dial

	tr, err := transport.Dial(host, port)
	if err != nil {
		return nil, &InternalError{Op: "connect", Cause: err}
	}
	c.tr = tr
	c.handler = middleware.Chain(c.middlewares...)(c.roundTrip)
	return c, nil
}

// Close releases the control connection. Safe to call more than once.
func (c *Client) Close() error {
	c.log.Info("closing gstd client", zap.String("addr", c.tr.Addr()))
	return c.tr.Close()
}

// Execute runs one verb command with the client's default timeout and
// returns the decoded envelope on success.
func (c *Client) Execute(verb string, args ...string) (*message.Response, error) {
	return c.ExecuteTimeout(c.timeout, verb, args...)
}

// ExecuteTimeout runs one verb command with an explicit timeout, overriding
// the client default. timeout <= 0 waits indefinitely.
//
// Classification of the outcome:
//   - envelope code 0: the envelope is returned as-is
//   - envelope code != 0: a *DaemonError carrying the daemon's description
//   - anything else (encode, I/O, timeout, decode): an *InternalError
//     wrapping the original cause
func (c *Client) ExecuteTimeout(timeout time.Duration, verb string, args ...string) (*message.Response, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := c.handler(ctx, message.NewCommand(verb, args...))
	if err != nil {
		c.log.Error("command failed",
			zap.String("verb", verb), zap.Error(err))
		return nil, &InternalError{Op: verb, Cause: err}
	}
	if resp.Code != 0 {
		c.log.Error("command rejected by daemon",
			zap.String("verb", verb),
			zap.Int("code", resp.Code),
			zap.String("description", resp.Description))
		return nil, &DaemonError{Code: resp.Code, Description: resp.Description}
	}
	return resp, nil
}

// roundTrip is the innermost handler: encode, exchange, decode. Errors come
// back raw; ExecuteTimeout wraps them into the client's error kinds.
func (c *Client) roundTrip(ctx context.Context, cmd *message.Command) (*message.Response, error) {
	payload, err := c.cdc.Encode(cmd)
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	raw, err := c.tr.SendAndReceive(payload, timeout)
	if err != nil {
		return nil, err
	}

	resp := &message.Response{}
	if err := c.cdc.Decode(raw, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

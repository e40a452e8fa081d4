package client

import (
	"fmt"
	"strconv"

	"github.com/wildhunter-66/gstd-1.x/message"
)

// The methods in this file are thin wrappers: they validate the structurally
// required names, format arguments into the verb's positional token list, and
// pick which field of the response payload to surface. All real behavior
// lives in the daemon and in Execute.

// required checks name/value pairs and reports the first empty value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, pairs[i])
		}
	}
	return nil
}

// ─── Low-level resource CRUD ────────────────────────────────────────

// Create creates a resource at the given URI.
func (c *Client) Create(uri, property, value string) error {
	if err := required("uri", uri, "property", property); err != nil {
		return err
	}
	_, err := c.Execute("create", uri, property, value)
	return err
}

// Read reads the resource held at the given URI and returns its payload.
func (c *Client) Read(uri string) (*message.Response, error) {
	if err := required("uri", uri); err != nil {
		return nil, err
	}
	return c.Execute("read", uri)
}

// Update updates the resource at the given URI.
func (c *Client) Update(uri, value string) error {
	if err := required("uri", uri); err != nil {
		return err
	}
	_, err := c.Execute("update", uri, value)
	return err
}

// Delete removes the named resource under the given URI.
func (c *Client) Delete(uri, name string) error {
	if err := required("uri", uri, "name", name); err != nil {
		return err
	}
	_, err := c.Execute("delete", uri, name)
	return err
}

// ─── Pipeline lifecycle ─────────────────────────────────────────────

// PipelineCreate creates a pipeline from a gst-launch style description.
func (c *Client) PipelineCreate(name, description string) error {
	if err := required("pipeline name", name, "description", description); err != nil {
		return err
	}
	_, err := c.Execute("pipeline_create", name, description)
	return err
}

// PipelineDelete deletes the named pipeline.
func (c *Client) PipelineDelete(name string) error {
	if err := required("pipeline name", name); err != nil {
		return err
	}
	_, err := c.Execute("pipeline_delete", name)
	return err
}

// PipelinePlay sets the pipeline to playing.
func (c *Client) PipelinePlay(name string) error {
	if err := required("pipeline name", name); err != nil {
		return err
	}
	_, err := c.Execute("pipeline_play", name)
	return err
}

// PipelinePause sets the pipeline to paused.
func (c *Client) PipelinePause(name string) error {
	if err := required("pipeline name", name); err != nil {
		return err
	}
	_, err := c.Execute("pipeline_pause", name)
	return err
}

// PipelineStop sets the pipeline to null.
func (c *Client) PipelineStop(name string) error {
	if err := required("pipeline name", name); err != nil {
		return err
	}
	_, err := c.Execute("pipeline_stop", name)
	return err
}

// ListPipelines lists the existing pipelines.
func (c *Client) ListPipelines() ([]message.Node, error) {
	resp, err := c.Execute("list_pipelines")
	if err != nil {
		return nil, err
	}
	return resp.Nodes()
}

// ─── Elements ───────────────────────────────────────────────────────

// ElementGet queries a property of an element in a pipeline. The daemon
// types the returned value: enum properties come back as their descriptive
// string, numeric ones as numbers.
func (c *Client) ElementGet(pipeline, element, property string) (any, error) {
	if err := required("pipeline name", pipeline, "element", element, "property", property); err != nil {
		return nil, err
	}
	resp, err := c.Execute("element_get", pipeline, element, property)
	if err != nil {
		return nil, err
	}
	return resp.Value()
}

// ElementSet sets a property of an element in a pipeline.
func (c *Client) ElementSet(pipeline, element, property, value string) error {
	if err := required("pipeline name", pipeline, "element", element, "property", property); err != nil {
		return err
	}
	_, err := c.Execute("element_set", pipeline, element, property, value)
	return err
}

// ListElements lists the elements of a pipeline.
func (c *Client) ListElements(pipeline string) ([]message.Node, error) {
	if err := required("pipeline name", pipeline); err != nil {
		return nil, err
	}
	resp, err := c.Execute("list_elements", pipeline)
	if err != nil {
		return nil, err
	}
	return resp.Nodes()
}

// ListProperties lists the properties of an element in a pipeline.
func (c *Client) ListProperties(pipeline, element string) ([]message.Node, error) {
	if err := required("pipeline name", pipeline, "element", element); err != nil {
		return nil, err
	}
	resp, err := c.Execute("list_properties", pipeline, element)
	if err != nil {
		return nil, err
	}
	return resp.Nodes()
}

// ListSignals lists the signals of an element in a pipeline.
func (c *Client) ListSignals(pipeline, element string) ([]message.Node, error) {
	if err := required("pipeline name", pipeline, "element", element); err != nil {
		return nil, err
	}
	resp, err := c.Execute("list_signals", pipeline, element)
	if err != nil {
		return nil, err
	}
	return resp.Nodes()
}

// ─── Bus ────────────────────────────────────────────────────────────

// BusFilter selects which message types bus reads return. Types are joined
// with '+', e.g. "eos+warning+error".
func (c *Client) BusFilter(pipeline, filter string) error {
	if err := required("pipeline name", pipeline, "filter", filter); err != nil {
		return err
	}
	_, err := c.Execute("bus_filter", pipeline, filter)
	return err
}

// BusRead reads the pipeline bus, waiting up to the window configured with
// BusTimeout. With no pending message and a zero window the payload is null.
func (c *Client) BusRead(pipeline string) (*message.Response, error) {
	if err := required("pipeline name", pipeline); err != nil {
		return nil, err
	}
	return c.Execute("bus_read", pipeline)
}

// BusTimeout configures how long the daemon holds a bus read: -1 forever,
// 0 return immediately, n wait n nanoseconds. Nanoseconds are the bus unit
// on the wire; signals use microseconds. The asymmetry is the daemon's,
// preserved here.
func (c *Client) BusTimeout(pipeline string, timeoutNanos int64) error {
	if err := required("pipeline name", pipeline); err != nil {
		return err
	}
	_, err := c.Execute("bus_timeout", pipeline, strconv.FormatInt(timeoutNanos, 10))
	return err
}

// WaitForBusMessage configures the bus filter and window, then performs one
// blocking read. The client side waits without a deadline of its own; the
// daemon's window is what bounds the wait.
func (c *Client) WaitForBusMessage(pipeline, filter string, timeoutNanos int64) (*message.Response, error) {
	if err := c.BusFilter(pipeline, filter); err != nil {
		return nil, err
	}
	if err := c.BusTimeout(pipeline, timeoutNanos); err != nil {
		return nil, err
	}
	return c.ExecuteTimeout(0, "bus_read", pipeline)
}

// ─── Signals ────────────────────────────────────────────────────────

// SignalConnect connects to an element signal and blocks until it fires,
// the window configured with SignalTimeout lapses, or SignalDisconnect is
// issued for the same signal (from another connection). A disconnect or a
// lapsed window yields a null payload.
func (c *Client) SignalConnect(pipeline, element, signal string) (*message.Response, error) {
	if err := required("pipeline name", pipeline, "element", element, "signal", signal); err != nil {
		return nil, err
	}
	return c.Execute("signal_connect", pipeline, element, signal)
}

// SignalDisconnect disconnects from an element signal, unblocking a pending
// SignalConnect for it.
func (c *Client) SignalDisconnect(pipeline, element, signal string) error {
	if err := required("pipeline name", pipeline, "element", element, "signal", signal); err != nil {
		return err
	}
	_, err := c.Execute("signal_disconnect", pipeline, element, signal)
	return err
}

// SignalTimeout configures how long the daemon holds a signal wait: -1
// forever, 0 return immediately, n wait n microseconds.
func (c *Client) SignalTimeout(pipeline, element, signal string, timeoutMicros int64) error {
	if err := required("pipeline name", pipeline, "element", element, "signal", signal); err != nil {
		return err
	}
	_, err := c.Execute("signal_timeout", pipeline, element, signal,
		strconv.FormatInt(timeoutMicros, 10))
	return err
}

// ─── Events ─────────────────────────────────────────────────────────

// EventEOS sends an end-of-stream event to the pipeline.
func (c *Client) EventEOS(pipeline string) error {
	if err := required("pipeline name", pipeline); err != nil {
		return err
	}
	_, err := c.Execute("event_eos", pipeline)
	return err
}

// EventFlushStart puts the pipeline in flushing mode.
func (c *Client) EventFlushStart(pipeline string) error {
	if err := required("pipeline name", pipeline); err != nil {
		return err
	}
	_, err := c.Execute("event_flush_start", pipeline)
	return err
}

// EventFlushStop takes the pipeline out of flushing mode, resetting the
// running time.
func (c *Client) EventFlushStop(pipeline string) error {
	return c.EventFlushStopReset(pipeline, true)
}

// EventFlushStopReset takes the pipeline out of flushing mode with explicit
// control over the running-time reset.
func (c *Client) EventFlushStopReset(pipeline string, reset bool) error {
	if err := required("pipeline name", pipeline); err != nil {
		return err
	}
	_, err := c.Execute("event_flush_stop", pipeline, strconv.FormatBool(reset))
	return err
}

// SeekOptions are the parameters of an event_seek. Use DefaultSeekOptions
// for a full-range seek at normal rate and adjust the fields you need.
type SeekOptions struct {
	Rate      float64 // playback rate; negative plays backwards
	Format    int     // format of the seek values
	Flags     int     // seek flags
	StartType int
	Start     int64
	EndType   int
	End       int64
}

// DefaultSeekOptions returns the daemon's defaults: rate 1.0, time format,
// flush flag, full range.
func DefaultSeekOptions() SeekOptions {
	return SeekOptions{
		Rate:      1.0,
		Format:    3,
		Flags:     1,
		StartType: 1,
		Start:     0,
		EndType:   1,
		End:       -1,
	}
}

// EventSeek performs a seek in the given pipeline.
func (c *Client) EventSeek(pipeline string, opts SeekOptions) error {
	if err := required("pipeline name", pipeline); err != nil {
		return err
	}
	_, err := c.Execute("event_seek", pipeline,
		strconv.FormatFloat(opts.Rate, 'f', -1, 64),
		strconv.Itoa(opts.Format),
		strconv.Itoa(opts.Flags),
		strconv.Itoa(opts.StartType),
		strconv.FormatInt(opts.Start, 10),
		strconv.Itoa(opts.EndType),
		strconv.FormatInt(opts.End, 10),
	)
	return err
}

// ─── Debug controls ─────────────────────────────────────────────────

// DebugEnable enables or disables GStreamer debug output in the daemon.
func (c *Client) DebugEnable(enable bool) error {
	_, err := c.Execute("debug_enable", strconv.FormatBool(enable))
	return err
}

// DebugThreshold sets the debug filter, in the same syntax gst-launch
// accepts (e.g. "*:3" or "videotestsrc:6").
func (c *Client) DebugThreshold(threshold string) error {
	if err := required("threshold", threshold); err != nil {
		return err
	}
	_, err := c.Execute("debug_threshold", threshold)
	return err
}

// DebugColor enables or disables color in the daemon's debug output.
func (c *Client) DebugColor(enable bool) error {
	_, err := c.Execute("debug_color", strconv.FormatBool(enable))
	return err
}

// DebugReset enables or disables the debug threshold reset.
func (c *Client) DebugReset(reset bool) error {
	_, err := c.Execute("debug_reset", strconv.FormatBool(reset))
	return err
}

// Package message defines the two halves of a gstd exchange.
//
// A Command is what the client sends: an ordered list of string tokens whose
// first token names the daemon operation ("pipeline_create", "bus_read", ...).
// The remaining tokens are positional arguments, already stringified by the
// caller; their count and order are fixed per verb by the daemon's grammar.
//
// A Response is what the daemon sends back: a JSON envelope with a numeric
// status code (0 = success), a human-readable description, and a
// verb-dependent payload that may be null, a scalar, or a nested object.
package message

import (
	"encoding/json"
	"fmt"
)

// Command is a single daemon operation plus its positional arguments.
type Command struct {
	Verb string
	Args []string
}

// NewCommand builds a Command for the given verb.
func NewCommand(verb string, args ...string) *Command {
	return &Command{Verb: verb, Args: args}
}

// Tokens returns the full ordered token list, verb first.
func (c *Command) Tokens() []string {
	tokens := make([]string, 0, len(c.Args)+1)
	tokens = append(tokens, c.Verb)
	tokens = append(tokens, c.Args...)
	return tokens
}

// Response is the envelope the daemon wraps around every reply.
//
//   - Code 0 means the daemon accepted and executed the command.
//   - Any other code is a rejection; Description explains the cause.
//   - Response is the verb-dependent payload, kept raw so that each
//     convenience method can surface only the field it cares about.
type Response struct {
	Code        int             `json:"code"`
	Description string          `json:"description"`
	Response    json.RawMessage `json:"response"`
}

// Node is one named entry in a list payload ("pipelines", "elements",
// "properties", "signals").
type Node struct {
	Name string `json:"name"`
}

// Null reports whether the payload is absent or JSON null. Verbs without a
// result (pipeline_play, element_set, ...) respond this way, as does a
// bus_read that finds no pending message within the configured window.
func (r *Response) Null() bool {
	return len(r.Response) == 0 || string(r.Response) == "null"
}

// Nodes extracts the "nodes" list from a list-style payload.
func (r *Response) Nodes() ([]Node, error) {
	if r.Null() {
		return nil, nil
	}
	var body struct {
		Nodes []Node `json:"nodes"`
	}
	if err := json.Unmarshal(r.Response, &body); err != nil {
		return nil, fmt.Errorf("payload has no nodes list: %w", err)
	}
	return body.Nodes, nil
}

// Value extracts the "value" field from a property-style payload
// (element_get). The daemon types the value itself: strings for enum nicks
// and string properties, numbers for numeric ones, booleans for flags.
func (r *Response) Value() (any, error) {
	if r.Null() {
		return nil, fmt.Errorf("payload is null, no value field")
	}
	var body struct {
		Value any `json:"value"`
	}
	if err := json.Unmarshal(r.Response, &body); err != nil {
		return nil, fmt.Errorf("payload has no value field: %w", err)
	}
	return body.Value, nil
}

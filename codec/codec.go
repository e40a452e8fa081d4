// Package codec translates between the client's view of an exchange and the
// bytes on the wire.
//
// Encoding is asymmetric by design: requests are space-joined token lines
// (the daemon's own command grammar), while responses are JSON envelopes.
// There is no request/response roundtrip of one format — the daemon defines
// both and this package just follows.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wildhunter-66/gstd-1.x/message"
)

// Codec serializes commands and parses response envelopes.
type Codec interface {
	// Encode renders a command as a wire payload (no frame terminator).
	Encode(cmd *message.Command) ([]byte, error)
	// Decode parses a raw response payload into the envelope.
	Decode(raw []byte, resp *message.Response) error
}

// ProtocolError reports bytes that do not fit the wire contract: a command
// whose tokens cannot be represented unambiguously, or a response payload
// that is not a well-formed envelope. It is distinct from a daemon rejection,
// which arrives as a perfectly well-formed envelope with a nonzero code.
type ProtocolError struct {
	Reason string
	Cause  error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Cause }

// New returns the production codec for the gstd wire format.
func New() Codec { return gstdCodec{} }

type gstdCodec struct{}

// Encode joins the command tokens with single spaces.
//
// The daemon tokenizes greedily: it splits off as many space-separated tokens
// as the verb requires and treats the remainder of the line as the final
// argument. That grammar makes boundaries unambiguous only if every token
// except the last is free of whitespace, so Encode enforces exactly that.
// Empty tokens and tokens containing the frame terminator can never be
// represented and are rejected outright.
func (gstdCodec) Encode(cmd *message.Command) ([]byte, error) {
	tokens := cmd.Tokens()
	for i, tok := range tokens {
		if tok == "" {
			return nil, &ProtocolError{Reason: fmt.Sprintf("empty token at position %d", i)}
		}
		if strings.IndexByte(tok, 0x00) >= 0 {
			return nil, &ProtocolError{Reason: fmt.Sprintf("token %d contains a NUL byte", i)}
		}
		last := i == len(tokens)-1
		if !last && strings.ContainsAny(tok, " \t\r\n") {
			return nil, &ProtocolError{Reason: fmt.Sprintf("token %d contains whitespace but is not the final token", i)}
		}
	}
	return []byte(strings.Join(tokens, " ")), nil
}

// Decode parses the JSON envelope. Anything that does not unmarshal into an
// object with the expected fields is a ProtocolError — the daemon never
// answers with non-JSON bytes, so this means the stream is corrupt or the
// peer is not gstd.
func (gstdCodec) Decode(raw []byte, resp *message.Response) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &ProtocolError{Reason: "empty response payload"}
	}
	if trimmed[0] != '{' {
		return &ProtocolError{Reason: "response is not a JSON object"}
	}
	if err := json.Unmarshal(trimmed, resp); err != nil {
		return &ProtocolError{Reason: "malformed response envelope", Cause: err}
	}
	return nil
}

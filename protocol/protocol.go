// Package protocol implements the gstd wire framing.
//
// The daemon speaks a plain-text protocol over TCP. Requests are ASCII token
// lines; responses are JSON documents. Both directions delimit messages with
// a single terminating NUL byte (0x00), which is how message boundaries are
// recovered from the raw byte stream:
//
//	request:  pipeline_create p0 videotestsrc ! fakesink\x00
//	response: {"code":0,"description":"Success","response":null}\x00
//
// There is no sequence number in a frame: the protocol is strict
// request-response alternation, one exchange at a time per connection.
package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Terminator marks the end of a frame in both directions.
const Terminator byte = 0x00

// MaxFrameSize bounds how many bytes ReadFrame will buffer while looking for
// the terminator. A frame longer than this means the peer is not speaking the
// gstd protocol (or the stream is corrupt), not that the message is large:
// daemon responses are small JSON documents.
const MaxFrameSize = 4 << 20

// ErrFrameTooLarge is returned by ReadFrame when no terminator shows up
// within MaxFrameSize bytes.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// WriteFrame writes payload followed by the terminator. The payload must not
// itself contain the terminator byte, otherwise the peer would split it into
// two bogus messages.
func WriteFrame(w io.Writer, payload []byte) error {
	if i := bytes.IndexByte(payload, Terminator); i >= 0 {
		return fmt.Errorf("payload contains terminator byte at offset %d", i)
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.Write([]byte{Terminator}); err != nil {
		return err
	}
	return nil
}

// ReadFrame reads one complete frame from r and returns the payload with the
// terminator stripped. It blocks until the terminator arrives, the reader
// fails, or MaxFrameSize is exceeded.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	payload := make([]byte, 0, 256)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == Terminator {
			return payload, nil
		}
		payload = append(payload, b)
		if len(payload) > MaxFrameSize {
			return nil, ErrFrameTooLarge
		}
	}
}

package chat

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or message failed validation.
	ErrValidation = errors.New("validation error")

	// ErrBusy indicates a send was attempted while a stream session is active.
	ErrBusy = errors.New("a response is already streaming")

	// ErrEmptyInput indicates the submitted text was empty after trimming.
	ErrEmptyInput = errors.New("input is empty")

	// ErrUnknownModel indicates a model ID that is not in the catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrThinkingUnsupported indicates the selected model has no thinking trace.
	ErrThinkingUnsupported = errors.New("model does not support thinking")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// TransportError reports a connection failure or a non-success response from
// the completion endpoint. StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("transport: HTTP %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("transport: HTTP %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("transport: %v", e.Err)
	default:
		return "transport: " + e.Message
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedFrameError reports an event payload that could not be decoded.
// It never terminates a stream; decoders log it and move on.
type MalformedFrameError struct {
	Data string
	Err  error
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame %q: %v", e.Data, e.Err)
}

func (e *MalformedFrameError) Unwrap() error { return e.Err }

package chat

import (
	"context"
	"fmt"
)

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving fragments.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Fragment is one incremental unit of generated text. Text belongs to the
// reply; Reasoning carries a thinking trace when the provider sends one as a
// separate field. Both may be empty.
type Fragment struct {
	Text      string
	Reasoning string
}

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream().
//
// Next returns io.EOF once the end-of-stream sentinel is reached. A canceled
// context surfaces as an error matching context.Canceled. Any other error is
// terminal and is returned again by subsequent calls.
type Stream interface {
	Next() (Fragment, error)
	State() StreamState
	Close() error
}

// Provider opens one streamed completion per call.
type Provider interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Request carries the model selection and the conversation so far.
type Request struct {
	Model    string // model ID, provider-specific; empty = provider default
	Messages []Message
}

// Validate checks universal constraints on Request.
func (r Request) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("request has no messages: %w", ErrValidation)
	}
	for i, m := range r.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("message %d has unknown role %q: %w", i, m.Role, ErrValidation)
		}
	}
	return nil
}

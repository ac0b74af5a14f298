package mock

import (
	"io"

	"github.com/fwojciec/chat"
)

// Interface compliance check.
var _ chat.Stream = (*Stream)(nil)

// Stream is a test double for chat.Stream.
// NextFn panics when nil to catch missing setup. CloseFn and StateFn are
// nil-safe (no-op and zero value) because callers commonly defer Close.
type Stream struct {
	NextFn  func() (chat.Fragment, error)
	StateFn func() chat.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (chat.Fragment, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() chat.StreamState {
	if s.StateFn == nil {
		return chat.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Fragments returns a Stream that yields frags in order and then io.EOF.
// It is not safe for concurrent use.
func Fragments(frags ...chat.Fragment) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (chat.Fragment, error) {
			if i >= len(frags) {
				return chat.Fragment{}, io.EOF
			}
			f := frags[i]
			i++
			return f, nil
		},
	}
}

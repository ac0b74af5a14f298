package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/fwojciec/chat"
	openai "github.com/sashabaranov/go-openai"
	sse "github.com/tmaxmax/go-sse"
)

// stream implements [chat.Stream] by decoding SSE frames from an HTTP
// response body.
type stream struct {
	body   io.ReadCloser
	ctx    context.Context
	logger *slog.Logger
	next   func() (sse.Event, error, bool)
	stop   func()
	lines  []string // data lines of the current event not yet consumed
	state  chat.StreamState
	err    error // terminal error, if any
}

// Interface compliance check.
var _ chat.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser, logger *slog.Logger) *stream {
	next, stop := iter.Pull2[sse.Event, error](sse.Read(body, nil))
	return &stream{
		body:   body,
		ctx:    ctx,
		logger: logger,
		next:   next,
		stop:   stop,
		state:  chat.StreamStateNew,
	}
}

// Next returns the next non-empty fragment. It returns io.EOF at the [DONE]
// sentinel or when the body ends.
func (s *stream) Next() (chat.Fragment, error) {
	switch s.state {
	case chat.StreamStateComplete:
		return chat.Fragment{}, io.EOF
	case chat.StreamStateError:
		return chat.Fragment{}, s.err
	case chat.StreamStateClosed:
		return chat.Fragment{}, fmt.Errorf("openrouter: %w", chat.ErrStreamClosed)
	}

	for {
		data, err := s.readFrame()
		if err == io.EOF {
			s.state = chat.StreamStateComplete
			return chat.Fragment{}, io.EOF
		}
		if err != nil {
			s.terminate(err)
			return chat.Fragment{}, s.err
		}

		s.state = chat.StreamStateStreaming

		frag, err := parseFrame(data)
		var malformed *chat.MalformedFrameError
		if errors.As(err, &malformed) {
			s.logger.Warn("skipping malformed frame",
				slog.String("data", malformed.Data),
				slog.String("error", malformed.Err.Error()),
			)
			continue
		}
		if err != nil {
			s.terminate(err)
			return chat.Fragment{}, s.err
		}
		if frag == (chat.Fragment{}) {
			// Role-only or finish-reason deltas carry no text.
			continue
		}
		return frag, nil
	}
}

// State returns the current stream state.
func (s *stream) State() chat.StreamState {
	return s.state
}

// Close releases the decoder and closes the response body.
func (s *stream) Close() error {
	if s.state != chat.StreamStateComplete && s.state != chat.StreamStateError {
		s.state = chat.StreamStateClosed
	}
	err := s.body.Close()
	s.stop()
	return err
}

// terminate records a terminal error. Read errors caused by cancellation
// keep their context error; other read errors are transport failures.
func (s *stream) terminate(err error) {
	s.state = chat.StreamStateError
	var te *chat.TransportError
	switch {
	case s.ctx.Err() != nil:
		s.err = fmt.Errorf("openrouter: %w", s.ctx.Err())
	case errors.As(err, &te):
		s.err = err
	default:
		s.err = &chat.TransportError{Err: err}
	}
}

// readFrame returns the next non-blank data line. Every data line is a frame
// of its own: the SSE reader joins consecutive data lines of one event with
// newlines, so they are split apart again here. Comment lines are dropped by
// the reader.
func (s *stream) readFrame() (string, error) {
	for {
		if len(s.lines) == 0 {
			ev, err, ok := s.next()
			if !ok {
				return "", io.EOF
			}
			if err != nil {
				return "", err
			}
			s.lines = strings.Split(ev.Data, "\n")
		}
		data := strings.TrimSpace(s.lines[0])
		s.lines = s.lines[1:]
		if data == "" {
			continue
		}
		if data == doneSentinel {
			s.lines = nil
			return "", io.EOF
		}
		return data, nil
	}
}

// parseFrame decodes one data payload. A payload without choices or without
// content yields an empty fragment.
func parseFrame(data string) (chat.Fragment, error) {
	var chunk apiChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return chat.Fragment{}, &chat.MalformedFrameError{Data: data, Err: err}
	}
	if len(chunk.Error) > 0 && string(chunk.Error) != "null" {
		return chat.Fragment{}, inBandError(chunk.Error)
	}
	if len(chunk.Choices) == 0 {
		return chat.Fragment{}, nil
	}
	delta := chunk.Choices[0].Delta
	reasoning := delta.Reasoning
	if reasoning == "" {
		reasoning = delta.ReasoningContent
	}
	return chat.Fragment{Text: delta.Content, Reasoning: reasoning}, nil
}

// inBandError converts an error payload into a transport error. Payloads
// without a message are reported raw.
func inBandError(raw json.RawMessage) *chat.TransportError {
	var apiErr openai.APIError
	if err := json.Unmarshal(raw, &apiErr); err == nil {
		return &chat.TransportError{StatusCode: errorStatus(apiErr.Code), Message: apiErr.Message}
	}
	var fallback apiErrorCode
	_ = json.Unmarshal(raw, &fallback)
	return &chat.TransportError{StatusCode: fallback.Code, Message: string(raw)}
}

// errorStatus returns a numeric error code, or 0 when the provider sent a
// symbolic one.
func errorStatus(code any) int {
	if c, ok := code.(int); ok {
		return c
	}
	return 0
}

package chat

import (
	"fmt"
	"slices"
	"strings"
)

// Phase is the lifecycle position of the most recent stream session.
type Phase int

const (
	PhaseIdle      Phase = iota // No exchange has happened yet.
	PhaseSending                // Request sent, response not accepted yet.
	PhaseStreaming              // Response accepted, fragments arriving.
	PhaseFinalized              // Last exchange reached end of stream.
	PhaseCanceled               // Last exchange was canceled by the user.
	PhaseFailed                 // Last exchange failed.
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseStreaming:
		return "streaming"
	case PhaseFinalized:
		return "finalized"
	case PhaseCanceled:
		return "canceled"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// StreamSession is the bookkeeping for one in-flight exchange. ShowThinking
// is captured at submit time so toggling mid-stream does not change how the
// current reply is parsed.
type StreamSession struct {
	ID                 string
	AssistantMessageID string
	ShowThinking       bool
	Accumulated
}

// State is the whole conversation state. Values returned by Reduce never
// share mutable message storage with their input, so a State can be handed
// to renderers while the next one is computed.
type State struct {
	Messages     []Message
	Loading      bool
	Phase        Phase
	Session      *StreamSession // nil when no exchange is active
	Models       []Model        // empty = any model ID accepted
	Model        string
	ShowThinking bool
	Err          error // error of the last failed exchange
}

// Reduce returns the state that results from applying a to s. Actions that
// do not apply in the current state, including those addressed to a session
// that is no longer active, return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Submit:
		if s.Session != nil || strings.TrimSpace(a.Text) == "" {
			return s
		}
		s.Messages = append(slices.Clip(s.Messages), Message{
			ID:      a.MessageID,
			Role:    RoleUser,
			Content: a.Text,
		})
		s.Session = &StreamSession{
			ID:                 a.SessionID,
			AssistantMessageID: a.AssistantMessageID,
			ShowThinking:       s.ShowThinking,
		}
		s.Loading = true
		s.Phase = PhaseSending
		s.Err = nil

	case Opened:
		if !s.active(a.SessionID) || s.Phase != PhaseSending {
			return s
		}
		s.Messages = append(slices.Clip(s.Messages), Message{
			ID:        s.Session.AssistantMessageID,
			Role:      RoleAssistant,
			Streaming: true,
		})
		s.Phase = PhaseStreaming

	case Received:
		if !s.active(a.SessionID) || s.Phase != PhaseStreaming {
			return s
		}
		sess := *s.Session
		sess.Accumulated = Accumulate(sess.Accumulated, a.Fragment, sess.ShowThinking)
		s.Session = &sess
		s.Messages = updateMessage(s.Messages, sess.AssistantMessageID, func(m *Message) {
			m.Content = sess.Content
			m.Thinking = sess.Thinking
		})

	case Finished:
		if !s.active(a.SessionID) {
			return s
		}
		s = s.finish(PhaseFinalized)

	case Canceled:
		if !s.active(a.SessionID) {
			return s
		}
		s = s.finish(PhaseCanceled)

	case Failed:
		if !s.active(a.SessionID) {
			return s
		}
		s = s.finish(PhaseFailed)
		s.Messages = append(slices.Clip(s.Messages), Message{
			ID:      a.MessageID,
			Role:    RoleAssistant,
			Content: FailureText,
			Failed:  true,
		})
		s.Err = a.Err

	case SelectModel:
		s.Model = a.ID
		if !s.SupportsThinking(a.ID) {
			s.ShowThinking = false
		}

	case ShowThinking:
		if a.Show && !s.SupportsThinking(s.Model) {
			return s
		}
		s.ShowThinking = a.Show
	}
	return s
}

// Active reports whether an exchange is in flight.
func (s State) Active() bool { return s.Session != nil }

// SupportsThinking reports whether the model with the given ID emits a
// thinking trace. Without a catalog every model is assumed to.
func (s State) SupportsThinking(id string) bool {
	if len(s.Models) == 0 {
		return true
	}
	m, ok := FindModel(s.Models, id)
	return ok && m.Thinking
}

// Request returns the request for the conversation as it stands.
func (s State) Request() Request {
	return Request{Model: s.Model, Messages: slices.Clone(s.Messages)}
}

// Validate checks the conversation invariants.
func (s State) Validate() error {
	var streaming []Message
	for _, m := range s.Messages {
		if m.Streaming {
			streaming = append(streaming, m)
		}
	}
	if len(streaming) > 1 {
		return fmt.Errorf("%d messages streaming at once: %w", len(streaming), ErrValidation)
	}
	if s.Loading != (s.Session != nil) {
		return fmt.Errorf("loading=%t with session=%t: %w", s.Loading, s.Session != nil, ErrValidation)
	}
	inFlight := s.Phase == PhaseSending || s.Phase == PhaseStreaming
	if inFlight != (s.Session != nil) {
		return fmt.Errorf("phase %s with session=%t: %w", s.Phase, s.Session != nil, ErrValidation)
	}
	if len(streaming) == 1 {
		m := streaming[0]
		if m.Role != RoleAssistant {
			return fmt.Errorf("streaming message %s has role %s: %w", m.ID, m.Role, ErrValidation)
		}
		if s.Phase != PhaseStreaming || s.Session.AssistantMessageID != m.ID {
			return fmt.Errorf("message %s streams outside its session: %w", m.ID, ErrValidation)
		}
	}
	return nil
}

func (s State) active(sessionID string) bool {
	return s.Session != nil && s.Session.ID == sessionID
}

// finish finalizes the session's message, if it was created, and releases
// the session.
func (s State) finish(p Phase) State {
	id := s.Session.AssistantMessageID
	s.Messages = updateMessage(s.Messages, id, func(m *Message) {
		m.Streaming = false
	})
	s.Session = nil
	s.Loading = false
	s.Phase = p
	return s
}

// updateMessage returns a copy of msgs with fn applied to the message with
// the given ID. msgs is returned as is when no message matches.
func updateMessage(msgs []Message, id string, fn func(*Message)) []Message {
	i := slices.IndexFunc(msgs, func(m Message) bool { return m.ID == id })
	if i < 0 {
		return msgs
	}
	out := slices.Clone(msgs)
	fn(&out[i])
	return out
}

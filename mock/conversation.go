package mock

import "github.com/fwojciec/chat"

// Interface compliance check.
var _ chat.Conversation = (*Conversation)(nil)

// Conversation is a test double for chat.Conversation.
// Unset function fields panic, except CancelFn which is a no-op.
type Conversation struct {
	SubmitFn          func(text string) error
	CancelFn          func()
	SetModelFn        func(id string) error
	SetShowThinkingFn func(show bool) error
	StateFn           func() chat.State
	SubscribeFn       func() (<-chan chat.State, func())
}

// Submit delegates to SubmitFn.
func (c *Conversation) Submit(text string) error {
	return c.SubmitFn(text)
}

// Cancel delegates to CancelFn.
func (c *Conversation) Cancel() {
	if c.CancelFn != nil {
		c.CancelFn()
	}
}

// SetModel delegates to SetModelFn.
func (c *Conversation) SetModel(id string) error {
	return c.SetModelFn(id)
}

// SetShowThinking delegates to SetShowThinkingFn.
func (c *Conversation) SetShowThinking(show bool) error {
	return c.SetShowThinkingFn(show)
}

// State delegates to StateFn.
func (c *Conversation) State() chat.State {
	return c.StateFn()
}

// Subscribe delegates to SubscribeFn.
func (c *Conversation) Subscribe() (<-chan chat.State, func()) {
	return c.SubscribeFn()
}

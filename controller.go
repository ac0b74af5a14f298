package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Controller owns a conversation and drives exchanges with a Provider.
//
// Every state change goes through Reduce under one lock, so the conversation
// has a single logical writer even though each exchange reads its stream on
// its own goroutine. Callers observe the conversation through State or
// Subscribe.
type Controller struct {
	provider Provider
	logger   *slog.Logger
	newID    func() string

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc // cancels the active exchange
	subs   map[int]chan State
	nextID int
}

// ControllerOption configures a [Controller].
type ControllerOption func(*Controller)

// WithModels sets the model catalog. The first model becomes the selection
// unless WithModel is also given.
func WithModels(models []Model) ControllerOption {
	return func(c *Controller) {
		c.state.Models = models
		if c.state.Model == "" && len(models) > 0 {
			c.state.Model = models[0].ID
		}
	}
}

// WithModel sets the initially selected model.
func WithModel(id string) ControllerOption {
	return func(c *Controller) { c.state.Model = id }
}

// WithGreeting seeds the conversation with a complete assistant message.
func WithGreeting(text string) ControllerOption {
	return func(c *Controller) {
		if text == "" {
			return
		}
		c.state.Messages = append(c.state.Messages, Message{
			ID:      c.newID(),
			Role:    RoleAssistant,
			Content: text,
		})
	}
}

// WithLogger sets the logger used for exchange outcomes.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithIDGenerator replaces the generator of message and session IDs.
// It must be given before WithGreeting to affect the greeting's ID.
func WithIDGenerator(fn func() string) ControllerOption {
	return func(c *Controller) { c.newID = fn }
}

// NewController creates a Controller that sends exchanges to provider.
func NewController(provider Provider, opts ...ControllerOption) *Controller {
	c := &Controller{
		provider: provider,
		logger:   slog.New(slog.DiscardHandler),
		newID:    uuid.NewString,
		subs:     make(map[int]chan State),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With(slog.String("module", "controller"))
	if c.state.Model != "" && !c.state.SupportsThinking(c.state.Model) {
		c.state.ShowThinking = false
	}
	return c
}

// State returns the current conversation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe returns a channel that receives the state after every change,
// starting with the current one. Delivery is latest-wins: a slow reader
// skips intermediate states but always sees the newest. The returned
// function unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	ch := make(chan State, 1)
	ch <- c.state
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

// Submit appends text as a user message and starts streaming the reply.
// It returns ErrEmptyInput for blank text and ErrBusy while a reply is
// still streaming.
func (c *Controller) Submit(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Active() {
		return ErrBusy
	}
	sessionID := c.newID()
	c.apply(Submit{
		Text:               text,
		MessageID:          c.newID(),
		SessionID:          sessionID,
		AssistantMessageID: c.newID(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	req := c.state.Request()
	c.logger.Debug("exchange started",
		slog.String("session", sessionID),
		slog.String("model", req.Model),
		slog.Int("messages", len(req.Messages)),
	)
	go c.exchange(ctx, sessionID, req)
	return nil
}

// Cancel aborts the active exchange. The partial reply is kept and no error
// message is added. Calling Cancel with no active exchange does nothing.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Active() {
		return
	}
	sessionID := c.state.Session.ID
	c.apply(Canceled{SessionID: sessionID})
	c.logger.Info("exchange canceled", slog.String("session", sessionID))
}

// SetModel selects the model for the next send. Selecting a model without a
// thinking trace turns ShowThinking off.
func (c *Controller) SetModel(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.state.Models) > 0 {
		if _, ok := FindModel(c.state.Models, id); !ok {
			return ErrUnknownModel
		}
	}
	c.apply(SelectModel{ID: id})
	return nil
}

// SetShowThinking toggles thinking-trace extraction for the next send.
func (c *Controller) SetShowThinking(show bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if show && !c.state.SupportsThinking(c.state.Model) {
		return ErrThinkingUnsupported
	}
	c.apply(ShowThinking{Show: show})
	return nil
}

// dispatch applies a from the exchange goroutine.
func (c *Controller) dispatch(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(a)
}

// apply reduces a into the state and publishes the result. c.mu must be held.
func (c *Controller) apply(a Action) {
	prev := c.state
	c.state = Reduce(c.state, a)
	if prev.Session != nil && c.state.Session == nil && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	for _, ch := range c.subs {
		publish(ch, c.state)
	}
}

// publish replaces any unread state in ch with s. Only apply sends on
// subscriber channels, so the second send cannot block.
func publish(ch chan State, s State) {
	select {
	case ch <- s:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// exchange streams one reply. Cancellation is checked before every pull; a
// fragment read just before cancellation is dropped by Reduce because the
// session is no longer active.
func (c *Controller) exchange(ctx context.Context, sessionID string, req Request) {
	stream, err := c.provider.Stream(ctx, req)
	if err != nil {
		c.fail(ctx, sessionID, err)
		return
	}
	defer stream.Close()

	c.dispatch(Opened{SessionID: sessionID})
	for {
		if ctx.Err() != nil {
			c.fail(ctx, sessionID, ctx.Err())
			return
		}
		frag, err := stream.Next()
		if err == io.EOF {
			c.dispatch(Finished{SessionID: sessionID})
			c.logger.Debug("exchange finished", slog.String("session", sessionID))
			return
		}
		if err != nil {
			c.fail(ctx, sessionID, err)
			return
		}
		c.dispatch(Received{SessionID: sessionID, Fragment: frag})
	}
}

// fail ends the exchange. Cancellation is silent; anything else appends the
// failure notice.
func (c *Controller) fail(ctx context.Context, sessionID string, err error) {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		c.dispatch(Canceled{SessionID: sessionID})
		return
	}
	c.logger.Error("exchange failed",
		slog.String("session", sessionID),
		slog.String("error", err.Error()),
	)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(Failed{SessionID: sessionID, MessageID: c.newID(), Err: err})
}

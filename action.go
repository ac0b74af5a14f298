package chat

// Action is a sealed interface representing one input to the conversation
// state machine. Actions are plain values; Reduce applies them.
// The unexported marker method prevents external implementations.
type Action interface {
	action()
}

// Submit sends user input. The IDs are chosen by the caller so that Reduce
// stays deterministic.
type Submit struct {
	Text               string
	MessageID          string
	SessionID          string
	AssistantMessageID string
}

func (Submit) action() {}

// Opened signals that the endpoint accepted the request and the response
// body is about to be read.
type Opened struct {
	SessionID string
}

func (Opened) action() {}

// Received carries one decoded fragment of the response.
type Received struct {
	SessionID string
	Fragment  Fragment
}

func (Received) action() {}

// Finished signals that the end-of-stream sentinel was reached.
type Finished struct {
	SessionID string
}

func (Finished) action() {}

// Canceled signals that the user aborted the exchange.
type Canceled struct {
	SessionID string
}

func (Canceled) action() {}

// Failed signals a transport or read error. MessageID identifies the
// failure notice that gets appended.
type Failed struct {
	SessionID string
	MessageID string
	Err       error
}

func (Failed) action() {}

// SelectModel changes the model used for the next send.
type SelectModel struct {
	ID string
}

func (SelectModel) action() {}

// ShowThinking toggles thinking-trace extraction for the next send.
type ShowThinking struct {
	Show bool
}

func (ShowThinking) action() {}

// Interface compliance checks.
var (
	_ Action = Submit{}
	_ Action = Opened{}
	_ Action = Received{}
	_ Action = Finished{}
	_ Action = Canceled{}
	_ Action = Failed{}
	_ Action = SelectModel{}
	_ Action = ShowThinking{}
)

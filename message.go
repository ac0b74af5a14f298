package chat

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FailureText is the assistant reply appended when an exchange fails.
const FailureText = "I'm having trouble connecting to the AI service. Please try again."

// DefaultGreeting is the assistant message a new conversation starts with.
const DefaultGreeting = "Hello! I'm your AI assistant. How can I help you today?"

// Message is one entry of the conversation.
//
// Role never changes after creation. Content and Thinking only change while
// Streaming is true, and at most one message in a conversation streams.
// Failed marks the notice appended when an exchange fails.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Streaming bool
	Thinking  string
	Failed    bool
}

// Model describes a selectable completion model.
type Model struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Thinking bool   `yaml:"thinking"` // emits a thinking trace
}

// DefaultModels returns the built-in model catalog. The first entry is the
// default selection.
func DefaultModels() []Model {
	return []Model{
		{ID: "qwen/qwen3-235b-a22b", Name: "Qwen3 (235B)", Thinking: true},
		{ID: "anthropic/claude-3-5-sonnet-20240620", Name: "Claude 3.5", Thinking: true},
		{ID: "openai/gpt-4o", Name: "GPT-4o"},
		{ID: "meta-llama/llama-3-70b", Name: "Llama 3 70B"},
	}
}

// FindModel returns the catalog entry with the given ID.
func FindModel(models []Model, id string) (Model, bool) {
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

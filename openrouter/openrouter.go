// Package openrouter implements [chat.Provider] for OpenAI-compatible
// chat-completions endpoints, OpenRouter by default.
//
// The response body is framed with go-sse, which buffers partial lines across
// reads. Each data payload is decoded into a [chat.Fragment]; malformed
// payloads are logged and skipped so one bad frame never ends a reply.
package openrouter

import "encoding/json"

const (
	defaultBaseURL  = "https://openrouter.ai/api/v1"
	defaultModel    = "qwen/qwen3-235b-a22b"
	completionsPath = "/chat/completions"

	// doneSentinel is the data payload that ends a completion stream.
	doneSentinel = "[DONE]"
)

// apiRequest is the JSON body sent to the chat-completions endpoint.
type apiRequest struct {
	Model    string       `json:"model"`
	Messages []apiMessage `json:"messages"`
	Stream   bool         `json:"stream"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SSE response types.

// apiChunk is one streamed completion payload. Error is set instead of
// Choices when the provider fails mid-stream. It stays raw because providers
// do not always follow the OpenAI error shape.
type apiChunk struct {
	Choices []apiChoice     `json:"choices"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// apiErrorCode is the fallback decoding of an error go-openai rejects.
type apiErrorCode struct {
	Code int `json:"code"`
}

type apiChoice struct {
	Delta        apiDelta `json:"delta"`
	FinishReason *string  `json:"finish_reason"`
}

// apiDelta carries the incremental text. Reasoning is OpenRouter's field for
// thinking tokens; ReasoningContent is the DeepSeek-style name for the same.
type apiDelta struct {
	Content          string `json:"content"`
	Reasoning        string `json:"reasoning"`
	ReasoningContent string `json:"reasoning_content"`
}

package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fwojciec/chat"
	openai "github.com/sashabaranov/go-openai"
)

// Interface compliance check.
var _ chat.Provider = (*Client)(nil)

// Client implements [chat.Provider] for a chat-completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	referer    string
	title      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger that receives skipped-frame warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithReferer sets the HTTP-Referer header OpenRouter uses for app attribution.
func WithReferer(referer string) Option {
	return func(c *Client) { c.referer = referer }
}

// WithTitle sets the X-Title header OpenRouter uses for app attribution.
func WithTitle(title string) Option {
	return func(c *Client) { c.title = title }
}

// New creates a new [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With(slog.String("module", "openrouter"))
	return c
}

// Stream sends the conversation and returns a [chat.Stream] over the
// response body. Connection failures and non-2xx responses are returned as
// [*chat.TransportError]; a canceled ctx is returned as is.
func (c *Client) Stream(ctx context.Context, req chat.Request) (chat.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	body, err := c.buildRequestBody(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openrouter: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		httpReq.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("openrouter: %w", ctx.Err())
		}
		return nil, &chat.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newStream(ctx, resp.Body, c.logger), nil
}

func (c *Client) buildRequestBody(req chat.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	return json.Marshal(apiRequest{
		Model:    model,
		Messages: convertMessages(req.Messages),
		Stream:   true,
	})
}

// convertMessages keeps only role and content; IDs and streaming flags are
// client-side bookkeeping.
func convertMessages(msgs []chat.Message) []apiMessage {
	result := make([]apiMessage, len(msgs))
	for i, m := range msgs {
		result[i] = apiMessage{Role: string(m.Role), Content: m.Content}
	}
	return result
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &chat.TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	var apiErr openai.ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == nil {
		return &chat.TransportError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return &chat.TransportError{StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
}

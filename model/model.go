package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/beachparty/core"
)

// Request captures the normalized model input produced by executors.
type Request struct {
	Instructions string         `json:"instructions"` // System instructions for the model
	Contents     []core.Content `json:"contents"`     // Conversation turns converted to provider messages
	Stream       bool           `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	ID           string       `json:"id"`
	Partial      bool         `json:"partial"` // Indicates if this is a partial response
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface a provider implements.
//
// Generate runs on its own goroutine and closes both channels when done.
// When req.Stream is set, the provider emits Partial responses in arrival
// order followed by one final response; otherwise it emits only the final
// response. At most one error is sent.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Send delivers resp on out unless ctx is done first. Providers use it so
// that an abandoned stream never blocks their goroutine.
func Send(ctx context.Context, out chan<- Response, resp Response) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- resp:
		return true
	}
}

// MockModel is a lightweight in-memory Model useful for offline demos.
// It answers with a canned response for known prompts and echoes otherwise,
// streaming word by word when asked to stream.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a user prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if len(req.Contents) == 0 {
			errCh <- fmt.Errorf("no contents provided")
			return
		}

		input := req.Contents[len(req.Contents)-1].Text()

		full, ok := m.responses[input]
		if !ok {
			full = fmt.Sprintf("Mock response to: %s", input)
		}

		if req.Stream {
			for _, word := range strings.SplitAfter(full, " ") {
				if !Send(ctx, respCh, Response{
					Partial: true,
					Content: core.NewTextContent("assistant", word),
				}) {
					errCh <- ctx.Err()
					return
				}
			}
		}

		Send(ctx, respCh, Response{
			Content:      core.NewTextContent("assistant", full),
			FinishReason: "stop",
		})
	}()

	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

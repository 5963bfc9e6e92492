package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/model"
)

// ScriptedModel is a model.Model fake that returns fixed text, streams a fixed
// chunk sequence, or fails on demand.
//
// Non-streaming requests receive Text (or the joined Chunks when Text is
// empty), or Err. Streaming requests receive Chunks as partial responses; when
// Err is set only the first FailAfter chunks are emitted before Err.
type ScriptedModel struct {
	Text      string
	Chunks    []string
	Err       error
	FailAfter int

	mu       sync.Mutex
	requests []model.Request
}

var _ model.Model = (*ScriptedModel)(nil)

// Generate implements model.Model.
func (m *ScriptedModel) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	out := make(chan model.Response)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		if !req.Stream {
			if m.Err != nil {
				errCh <- m.Err
				return
			}
			model.Send(ctx, out, final(m.text()))
			return
		}

		limit := len(m.Chunks)
		if m.Err != nil && m.FailAfter < limit {
			limit = max(m.FailAfter, 0)
		}

		for _, c := range m.Chunks[:limit] {
			if !model.Send(ctx, out, model.Response{Partial: true, Content: core.NewTextContent("assistant", c)}) {
				errCh <- ctx.Err()
				return
			}
		}

		if m.Err != nil {
			errCh <- m.Err
			return
		}

		model.Send(ctx, out, final(strings.Join(m.Chunks, "")))
	}()

	return out, errCh
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "test"}
}

// Requests returns a copy of every request received so far.
func (m *ScriptedModel) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]model.Request(nil), m.requests...)
}

// Calls returns the number of Generate calls.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.requests)
}

func (m *ScriptedModel) text() string {
	if m.Text != "" {
		return m.Text
	}
	return strings.Join(m.Chunks, "")
}

func final(text string) model.Response {
	return model.Response{Content: core.NewTextContent("assistant", text), FinishReason: "stop"}
}

package model

import (
	"context"
	"errors"
	"iter"
)

// ErrNoResponse is returned when a provider finishes without a final response.
var ErrNoResponse = errors.New("model returned no response")

// Chunk is one incremental piece of streamed output. Text may be empty.
type Chunk struct {
	Text string
}

// TextCompletionService performs a single request/response generation.
type TextCompletionService interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// StreamingTextService performs a generation delivered as a lazy sequence of
// chunks. The sequence yields chunks in arrival order; a failure is yielded
// once as the last element with an empty chunk. Each range over the sequence
// starts a new generation.
type StreamingTextService interface {
	Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error]
}

// Backend is a language model offering both capabilities.
type Backend interface {
	TextCompletionService
	StreamingTextService
}

// Client adapts a Model to the Backend capabilities.
type Client struct {
	model Model
}

var _ Backend = (*Client)(nil)

// NewClient wraps m.
func NewClient(m Model) *Client {
	return &Client{model: m}
}

// Info returns the wrapped model's info.
func (c *Client) Info() Info { return c.model.Info() }

// Complete runs a non-streaming generation and returns the final text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	req.Stream = false

	out, errCh := c.model.Generate(ctx, req)

	var (
		text  string
		final bool
	)
	for resp := range out {
		if resp.Partial {
			continue
		}
		text += resp.Content.Text()
		final = true
	}

	if err, ok := <-errCh; ok && err != nil {
		return "", err
	}
	if !final {
		return "", ErrNoResponse
	}

	return text, nil
}

// Stream runs a streaming generation. Final aggregated responses are skipped
// when partial chunks were already delivered and yielded as one chunk
// otherwise, so providers without incremental output still stream.
func (c *Client) Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		req.Stream = true
		out, errCh := c.model.Generate(ctx, req)

		stopped := false
		defer func() {
			if stopped {
				cancel()
				go func() {
					for range out {
					}
				}()
			}
		}()

		sawPartial := false
		for resp := range out {
			if resp.Partial {
				sawPartial = true
				if !yield(Chunk{Text: resp.Content.Text()}, nil) {
					stopped = true
					return
				}
				continue
			}
			if sawPartial {
				continue
			}
			if !yield(Chunk{Text: resp.Content.Text()}, nil) {
				stopped = true
				return
			}
		}

		if err, ok := <-errCh; ok && err != nil {
			yield(Chunk{}, err)
		}
	}
}

package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/logging"
	"github.com/hupe1980/beachparty/model"
	"github.com/hupe1980/beachparty/tool"
)

// ErrEmptyRetrieval is returned when a retriever produced no usable text.
var ErrEmptyRetrieval = errors.New("retrieval returned no content")

// Retriever gathers supplementary context for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// RetrieverFunc is a functional adapter to allow ordinary functions to be used as Retrievers.
type RetrieverFunc func(ctx context.Context, query string) (string, error)

// Retrieve implements Retriever.
func (f RetrieverFunc) Retrieve(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// Source is a named block of retrieved text.
type Source struct {
	Name string
	Text string
}

// JoinSources renders sources as "[name]\ntext" blocks separated by blank lines.
func JoinSources(sources []Source) string {
	blocks := make([]string, 0, len(sources))
	for _, s := range sources {
		blocks = append(blocks, "["+s.Name+"]\n"+s.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// ToolRetriever asks every tool of a tool set about the query. Individual
// tool failures are logged and skipped; the retrieval fails only when every
// tool failed.
type ToolRetriever struct {
	tools  tool.ToolSet
	logger logging.Logger
}

// NewToolRetriever creates a ToolRetriever over tools.
func NewToolRetriever(tools tool.ToolSet, logger logging.Logger) *ToolRetriever {
	return &ToolRetriever{tools: tools, logger: logging.OrNoOp(logger)}
}

// Retrieve implements Retriever.
func (r *ToolRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	if len(r.tools) == 0 {
		return "", nil
	}

	var (
		sources []Source
		errs    []error
	)
	for _, t := range r.tools {
		out, err := t.Call(ctx, query)
		if err != nil {
			r.logger.Warn("agent.tool.failed", "tool", t.Name(), "error", err.Error())
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			continue
		}
		sources = append(sources, Source{Name: t.Name(), Text: out})
	}

	if len(errs) == len(r.tools) {
		return "", fmt.Errorf("all %d tools failed: %w", len(errs), errors.Join(errs...))
	}

	return JoinSources(sources), nil
}

// DefaultSearchPrompt asks the model itself to act as a web search step.
const DefaultSearchPrompt = `You are an excellent beach information assistant. Search the internet for the query below and gather relevant information.
Query: %s
Focus on information about beaches. Summarize the findings quickly without deliberating too long.`

// ModelRetriever uses the language model to produce search-like notes for
// the query before the real answer is generated.
type ModelRetriever struct {
	backend model.TextCompletionService
	prompt  string
}

// NewModelRetriever creates a ModelRetriever. prompt is a fmt format with one
// %s verb for the query; empty selects DefaultSearchPrompt.
func NewModelRetriever(backend model.TextCompletionService, prompt string) *ModelRetriever {
	if prompt == "" {
		prompt = DefaultSearchPrompt
	}
	return &ModelRetriever{backend: backend, prompt: prompt}
}

// Retrieve implements Retriever.
func (r *ModelRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	text, err := r.backend.Complete(ctx, model.Request{
		Contents: []core.Content{core.NewTextContent("user", fmt.Sprintf(r.prompt, query))},
	})
	if err != nil {
		return "", fmt.Errorf("model search: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyRetrieval
	}
	return text, nil
}

// Join combines retrievers, concatenating their non-empty results in order.
// It fails only when every retriever failed.
func Join(retrievers ...Retriever) Retriever {
	return RetrieverFunc(func(ctx context.Context, query string) (string, error) {
		var (
			parts []string
			errs  []error
		)
		for _, r := range retrievers {
			text, err := r.Retrieve(ctx, query)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if text != "" {
				parts = append(parts, text)
			}
		}
		if len(retrievers) > 0 && len(errs) == len(retrievers) {
			return "", errors.Join(errs...)
		}
		return strings.Join(parts, "\n\n"), nil
	})
}

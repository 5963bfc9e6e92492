package agent

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/internal/util"
	"github.com/hupe1980/beachparty/logging"
	"github.com/hupe1980/beachparty/model"
)

// Default user-visible messages.
const (
	DefaultFailureMessage     = "Failed to retrieve information."
	DefaultStreamErrorMessage = "Streaming error occurred."
	DefaultCancelledMessage   = "Request was cancelled."
)

// DefaultPromptTemplate renders the user turn from .Context, .ContextLabel and .Query.
const DefaultPromptTemplate = `{{if .Context}}{{.ContextLabel}}:
{{.Context}}

{{end}}Answer the question: {{.Query}}`

// Options configures an Executor.
type Options struct {
	// Instruction is the fixed system instruction sent with every request.
	Instruction string
	// Retriever gathers supplementary context. Nil skips retrieval.
	Retriever Retriever
	// PromptTemplate is a text/template rendering the user turn.
	PromptTemplate string
	// ContextLabel heads the supplementary context inside the prompt.
	ContextLabel string

	FailureMessage     string
	StreamErrorMessage string
	CancelledMessage   string

	Logger logging.Logger
}

// WithProfile applies the instruction, context label and messages of p.
func WithProfile(p Profile) func(o *Options) {
	return func(o *Options) {
		o.Instruction = p.Instruction
		if p.ContextLabel != "" {
			o.ContextLabel = p.ContextLabel
		}
		if p.FailureMessage != "" {
			o.FailureMessage = p.FailureMessage
		}
		if p.StreamErrorMessage != "" {
			o.StreamErrorMessage = p.StreamErrorMessage
		}
	}
}

// Executor drives one task per call. It holds no per-request state, so a
// single Executor serves concurrent requests.
type Executor struct {
	name    string
	backend model.Backend
	opts    Options
	logger  logging.Logger
}

// New creates an Executor named name on top of backend.
func New(name string, backend model.Backend, optFns ...func(o *Options)) *Executor {
	opts := Options{
		PromptTemplate:     DefaultPromptTemplate,
		ContextLabel:       "Context",
		FailureMessage:     DefaultFailureMessage,
		StreamErrorMessage: DefaultStreamErrorMessage,
		CancelledMessage:   DefaultCancelledMessage,
		Logger:             logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.With(opts.Logger, "agent", name)

	if _, err := util.ParseTemplate(opts.PromptTemplate); err != nil {
		logger.Error("agent.prompt_template.invalid", "error", err.Error())
		opts.PromptTemplate = DefaultPromptTemplate
	}

	return &Executor{name: name, backend: backend, opts: opts, logger: logger}
}

// Name returns the executor name.
func (e *Executor) Name() string { return e.name }

// Invoke answers q with a single backend call and returns the terminal event.
func (e *Executor) Invoke(ctx context.Context, q core.Query) core.TaskEvent {
	logger := logging.With(e.logger, "session_id", q.SessionID)
	logger.Info("agent.invoke", "query", q.Text)

	req := e.prepare(ctx, q, logger)

	start := time.Now()
	text, err := e.backend.Complete(ctx, req)
	if err != nil {
		e.logBackendFailure(logger, "complete", err)
		return core.TerminalEvent(e.opts.FailureMessage)
	}

	logger.Info("agent.invoke.done", "duration_ms", time.Since(start).Milliseconds(), "chars", len(text))

	return core.TerminalEvent(text)
}

// Stream answers q incrementally. Every range over the returned sequence
// performs its own retrieval and backend call. Non-empty chunks become
// partial events in arrival order; the sequence always ends with exactly one
// terminal event: empty on success, the stream error message if the backend
// fails, or the cancelled message once ctx is done. Partial events already
// delivered are never retracted.
func (e *Executor) Stream(ctx context.Context, q core.Query) iter.Seq[core.TaskEvent] {
	return func(yield func(core.TaskEvent) bool) {
		logger := logging.With(e.logger, "session_id", q.SessionID)
		logger.Info("agent.stream", "query", q.Text)

		req := e.prepare(ctx, q, logger)

		start := time.Now()
		chunks := 0
		for chunk, err := range e.backend.Stream(ctx, req) {
			if err != nil {
				if ctx.Err() != nil {
					logger.Info("agent.stream.cancelled", "chunks", chunks)
					yield(core.TerminalEvent(e.opts.CancelledMessage))
					return
				}
				e.logBackendFailure(logger, "stream", err, "chunks", chunks)
				yield(core.TerminalEvent(e.opts.StreamErrorMessage))
				return
			}
			if ctx.Err() != nil {
				logger.Info("agent.stream.cancelled", "chunks", chunks)
				yield(core.TerminalEvent(e.opts.CancelledMessage))
				return
			}
			if chunk.Text == "" {
				continue
			}
			chunks++
			if !yield(core.PartialEvent(chunk.Text)) {
				return
			}
		}

		logger.Info("agent.stream.done", "duration_ms", time.Since(start).Milliseconds(), "chunks", chunks)
		yield(core.TerminalEvent(""))
	}
}

// prepare runs retrieval and renders the model request.
func (e *Executor) prepare(ctx context.Context, q core.Query, logger logging.Logger) model.Request {
	supplementary := e.retrieve(ctx, q, logger)
	return BuildRequest(e.opts.Instruction, e.opts.PromptTemplate, e.opts.ContextLabel, supplementary, q.Text)
}

func (e *Executor) retrieve(ctx context.Context, q core.Query, logger logging.Logger) string {
	if e.opts.Retriever == nil {
		return ""
	}

	text, err := e.opts.Retriever.Retrieve(ctx, q.Text)
	if err != nil {
		failure := core.NewFailure(core.RetrievalFailure, "retrieve", err)
		logger.Warn("agent.retrieve.failed",
			"error", failure.Error(),
			"recovery", core.RecoveryFor(core.RetrievalFailure).String(),
		)
		return ""
	}

	logger.Debug("agent.retrieve.done", "chars", len(text))

	return text
}

func (e *Executor) logBackendFailure(logger logging.Logger, op string, err error, args ...any) {
	failure := core.NewFailure(core.BackendFailure, op, err)
	fields := append([]any{
		"error", failure.Error(),
		"recovery", core.RecoveryFor(core.BackendFailure).String(),
	}, args...)
	logger.Error("agent.backend.failed", fields...)
}

// BuildRequest combines the system instruction, the supplementary context and
// the query into one model request. An unrenderable template falls back to
// DefaultPromptTemplate.
func BuildRequest(instruction, promptTemplate, contextLabel, supplementary, query string) model.Request {
	state := map[string]any{
		"Instruction":  instruction,
		"Context":      supplementary,
		"ContextLabel": contextLabel,
		"Query":        query,
	}

	prompt, err := util.RenderTemplate(promptTemplate, state)
	if err != nil {
		prompt, _ = util.RenderTemplate(DefaultPromptTemplate, state)
	}

	return model.Request{
		Instructions: instruction,
		Contents:     []core.Content{core.NewTextContent("user", prompt)},
	}
}

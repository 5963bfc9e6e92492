package tool

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/beachparty/logging"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a Tool.
//
// Error Semantics:
//
//	*ToolError (returned directly)  -> forwarded unchanged
//	other error                     -> *ToolError{Code: "EXECUTION_ERROR"}
//
// A FunctionTool has no internal mutable state after construction and is safe
// for concurrent use as long as fn is.
type FunctionTool struct {
	name        string
	description string
	fn          func(ctx context.Context, input string) (string, error)
	logger      logging.Logger
}

// NewFunctionTool constructs a FunctionTool.
func NewFunctionTool(
	name, description string,
	fn func(ctx context.Context, input string) (string, error),
	optFns ...func(t *FunctionTool),
) *FunctionTool {
	t := &FunctionTool{
		name:        name,
		description: description,
		fn:          fn,
		logger:      logging.NoOpLogger{},
	}
	for _, opt := range optFns {
		opt(t)
	}
	return t
}

// WithLogger sets the logger used for call tracing.
func WithLogger(l logging.Logger) func(t *FunctionTool) {
	return func(t *FunctionTool) { t.logger = logging.OrNoOp(l) }
}

// Name implements Tool.
func (t *FunctionTool) Name() string { return t.name }

// Description implements Tool.
func (t *FunctionTool) Description() string { return t.description }

// Call invokes the wrapped function and normalizes its error.
func (t *FunctionTool) Call(ctx context.Context, input string) (string, error) {
	start := time.Now()

	t.logger.Debug("tool.call.start", "tool", t.name)

	result, err := t.fn(ctx, input)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			t.logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)
			return "", toolErr
		}

		t.logger.Error("tool.call.error", "tool", t.name, "error", err.Error())

		return "", &ToolError{Tool: t.name, Message: err.Error(), Code: CodeExecution, Err: err}
	}

	t.logger.Debug("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

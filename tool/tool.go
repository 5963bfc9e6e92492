// Package tool implements the callable helpers (search, lookup) that agents
// consult before asking their language model. A tool takes free text and
// returns free text; it may fail.
package tool

import (
	"context"
	"fmt"
)

// Tool defines a callable helper exposed to an agent.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Handle errors gracefully
//   - Be safe for concurrent use, since one tool set serves every request
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Call executes the tool with the free text input.
	Call(ctx context.Context, input string) (string, error)
}

// ToolSet is an ordered sequence of tools.
type ToolSet []Tool

// Names returns the tool names in order.
func (s ToolSet) Names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.Name()
	}
	return names
}

// Lookup returns the first tool called name.
func (s ToolSet) Lookup(name string) (Tool, bool) {
	for _, t := range s {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
	Err     error  `json:"-"`       // Underlying cause, if any
}

// Error codes used by the tools in this module.
const (
	CodeExecution = "EXECUTION_ERROR"
	CodeRemote    = "REMOTE_ERROR"
	CodeEmpty     = "EMPTY_INPUT"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

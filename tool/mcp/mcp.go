// Package mcp adapts tools exposed by Model Context Protocol servers to the
// free-text tool.Tool contract.
package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/hupe1980/beachparty/tool"
)

// DefaultArgument is the argument name used when a tool schema gives no better hint.
const DefaultArgument = "query"

// Caller is the subset of an MCP client needed to invoke a tool.
type Caller interface {
	CallTool(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error)
}

// Tool is a tool.Tool backed by a remote MCP tool.
type Tool struct {
	server string
	def    mcpgo.Tool
	caller Caller
}

var _ tool.Tool = (*Tool)(nil)

// NewTool wraps def, served by server through caller.
func NewTool(server string, def mcpgo.Tool, caller Caller) *Tool {
	return &Tool{server: server, def: def, caller: caller}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return t.def.Name }

// Description implements tool.Tool.
func (t *Tool) Description() string { return t.def.Description }

// Server returns the name of the server exposing the tool.
func (t *Tool) Server() string { return t.server }

// Call sends input to the remote tool and returns its text content.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = t.def.Name
	req.Params.Arguments = Arguments(t.def, input)

	res, err := t.caller.CallTool(ctx, req)
	if err != nil {
		return "", &tool.ToolError{Tool: t.def.Name, Message: err.Error(), Code: tool.CodeRemote, Err: err}
	}

	text := Text(res)
	if res.IsError {
		return "", tool.NewToolError(t.def.Name, text, tool.CodeExecution)
	}
	return text, nil
}

// Arguments maps free text onto the tool's input schema. A JSON object input
// is passed through. Otherwise the text is bound to the only (or only
// required) property, to a "query" property, or to DefaultArgument.
func Arguments(def mcpgo.Tool, input string) map[string]any {
	if trimmed := strings.TrimSpace(input); strings.HasPrefix(trimmed, "{") {
		var args map[string]any
		if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
			return args
		}
	}

	schema := def.InputSchema
	switch {
	case len(schema.Required) == 1:
		return map[string]any{schema.Required[0]: input}
	case len(schema.Properties) == 1:
		for name := range schema.Properties {
			return map[string]any{name: input}
		}
	}

	if _, ok := schema.Properties[DefaultArgument]; ok || len(schema.Properties) == 0 {
		return map[string]any{DefaultArgument: input}
	}

	// Prefer the first string-typed property in name order.
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if prop, ok := schema.Properties[name].(map[string]any); ok && prop["type"] == "string" {
			return map[string]any{name: input}
		}
	}

	return map[string]any{DefaultArgument: input}
}

// Text joins the text contents of res with newlines.
func Text(res *mcpgo.CallToolResult) string {
	if res == nil {
		return ""
	}
	var parts []string
	for _, c := range res.Content {
		switch tc := c.(type) {
		case mcpgo.TextContent:
			parts = append(parts, tc.Text)
		case *mcpgo.TextContent:
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

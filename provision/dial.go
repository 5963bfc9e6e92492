package provision

import (
	"context"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// ClientName and ClientVersion identify this module to MCP servers.
const (
	ClientName    = "beachparty"
	ClientVersion = "1.0.0"
)

// DialMCP is the default Dialer. It starts the transport named by cfg and
// runs the MCP initialize handshake.
func DialMCP(ctx context.Context, name string, cfg ServerConfig) (Client, error) {
	c, err := newMCPClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("mcp server %s: %w", name, err)
	}

	req := mcpgo.InitializeRequest{}
	req.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcpgo.Implementation{Name: ClientName, Version: ClientVersion}

	if _, err := c.Initialize(ctx, req); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("mcp server %s: initialize: %w", name, err)
	}

	return c, nil
}

func newMCPClient(ctx context.Context, cfg ServerConfig) (*client.Client, error) {
	switch transportKind(cfg) {
	case "stdio":
		// Stdio clients start their subprocess on construction.
		return client.NewStdioMCPClient(cfg.Command, envList(cfg.Env), cfg.Args...)
	case "http":
		var opts []transport.StreamableHTTPCOption
		if len(cfg.Headers) > 0 {
			opts = append(opts, transport.WithHTTPHeaders(cfg.Headers))
		}
		c, err := client.NewStreamableHttpClient(cfg.URL, opts...)
		if err != nil {
			return nil, err
		}
		return started(ctx, c)
	case "sse":
		var opts []transport.ClientOption
		if len(cfg.Headers) > 0 {
			opts = append(opts, transport.WithHeaders(cfg.Headers))
		}
		c, err := client.NewSSEMCPClient(cfg.URL, opts...)
		if err != nil {
			return nil, err
		}
		return started(ctx, c)
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
	}
}

func started(ctx context.Context, c *client.Client) (*client.Client, error) {
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("start: %w", err)
	}
	return c, nil
}

func transportKind(cfg ServerConfig) string {
	switch cfg.Transport {
	case "":
		if cfg.Command != "" {
			return "stdio"
		}
		if cfg.URL != "" {
			return "http"
		}
		return ""
	case "streamable-http", "streamable_http":
		return "http"
	default:
		return cfg.Transport
	}
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

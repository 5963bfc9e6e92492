// Package provision acquires the tool set an agent serves with. At startup it
// connects to every configured MCP tool server and collects their tools; if
// anything goes wrong, or no tool is found, it substitutes a local fallback
// tool so the agent keeps working in a degraded mode.
package provision

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/logging"
	"github.com/hupe1980/beachparty/tool"
	"github.com/hupe1980/beachparty/tool/mcp"
)

// ErrNoTools is the provisioning failure recorded when no tool was collected.
var ErrNoTools = errors.New("tool servers returned no tools")

// ServerConfig describes one MCP tool server. It is passed through to the
// Dialer untouched.
type ServerConfig struct {
	Transport string            `yaml:"transport" json:"transport"` // stdio (default when Command is set), http or sse
	Command   string            `yaml:"command" json:"command"`
	Args      []string          `yaml:"args" json:"args"`
	Env       map[string]string `yaml:"env" json:"env"`
	URL       string            `yaml:"url" json:"url"`
	Headers   map[string]string `yaml:"headers" json:"headers"`
}

// Client is the subset of an MCP client session the provisioner uses.
type Client interface {
	mcp.Caller
	ListTools(ctx context.Context, request mcpgo.ListToolsRequest) (*mcpgo.ListToolsResult, error)
	Close() error
}

// Dialer opens an initialized client session for the named server.
type Dialer func(ctx context.Context, name string, cfg ServerConfig) (Client, error)

// Options configure Provision.
type Options struct {
	Dialer Dialer
	Logger logging.Logger
}

type namedClient struct {
	name   string
	client Client
}

// State is the process-wide result of provisioning. It is read-only after
// Provision returns and must be closed exactly once at shutdown; Close is
// idempotent so a deferred call on every exit path is safe.
type State struct {
	UsingFallback bool
	Tools         tool.ToolSet

	clients  []namedClient
	logger   logging.Logger
	once     sync.Once
	closeErr error
}

// Provision connects to every server in servers and returns the combined
// tool set. It is all-or-nothing: any connection or listing error, or an
// empty result, releases whatever was opened and returns a State holding
// only fallback.
func Provision(ctx context.Context, servers map[string]ServerConfig, fallback tool.Tool, optFns ...func(o *Options)) *State {
	opts := Options{
		Dialer: DialMCP,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	state, err := provisionLive(ctx, servers, opts.Dialer, logger)
	if err == nil {
		logger.Info("provision.live", "servers", len(state.clients), "tools", state.Tools.Names())
		return state
	}

	logger.Warn("provision.fallback",
		"error", err.Error(),
		"failure", core.ProvisioningFailure.String(),
		"recovery", core.RecoveryFor(core.ProvisioningFailure).String(),
		"fallback_tool", fallback.Name(),
	)

	return &State{
		UsingFallback: true,
		Tools:         tool.ToolSet{fallback},
		logger:        logger,
	}
}

func provisionLive(ctx context.Context, servers map[string]ServerConfig, dial Dialer, logger logging.Logger) (*State, error) {
	state := &State{logger: logger}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		client, err := dial(ctx, name, servers[name])
		if err != nil {
			state.release()
			return nil, core.NewFailure(core.ProvisioningFailure, "connect "+name, err)
		}
		state.clients = append(state.clients, namedClient{name: name, client: client})

		list, err := client.ListTools(ctx, mcpgo.ListToolsRequest{})
		if err != nil {
			state.release()
			return nil, core.NewFailure(core.ProvisioningFailure, "list tools "+name, err)
		}

		for _, def := range list.Tools {
			state.Tools = append(state.Tools, mcp.NewTool(name, def, client))
		}
		logger.Debug("provision.server", "server", name, "tools", len(list.Tools))
	}

	if len(state.Tools) == 0 {
		state.release()
		return nil, core.NewFailure(core.ProvisioningFailure, "collect tools", ErrNoTools)
	}

	return state, nil
}

// release closes partially established clients after a failed attempt.
// Errors are swallowed; they are only worth a debug line.
func (s *State) release() {
	for _, nc := range s.clients {
		if err := nc.client.Close(); err != nil {
			s.logger.Debug("provision.release.failed", "server", nc.name, "error", err.Error())
		}
	}
	s.clients = nil
	s.Tools = nil
}

// Servers returns the names of the live servers backing the tool set.
func (s *State) Servers() []string {
	names := make([]string, len(s.clients))
	for i, nc := range s.clients {
		names[i] = nc.name
	}
	return names
}

// Close releases every live server connection. Release failures are logged
// and returned joined; they never stop the remaining releases. Calls after
// the first return the first call's result.
func (s *State) Close() error {
	s.once.Do(func() {
		var errs []error
		for _, nc := range s.clients {
			if err := nc.client.Close(); err != nil {
				failure := core.NewFailure(core.ShutdownCleanupFailure, "close "+nc.name, err)
				s.logger.Warn("provision.close.failed", "server", nc.name, "error", failure.Error())
				errs = append(errs, failure)
			}
		}
		s.closeErr = errors.Join(errs...)
		if len(s.clients) > 0 {
			s.logger.Info("provision.closed", "servers", len(s.clients))
		}
	})
	return s.closeErr
}

// String summarizes the state for logs.
func (s *State) String() string {
	if s.UsingFallback {
		return fmt.Sprintf("fallback%v", s.Tools.Names())
	}
	return fmt.Sprintf("live%v", s.Tools.Names())
}

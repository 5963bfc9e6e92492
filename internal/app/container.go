package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/dig"

	"github.com/hupe1980/beachparty/a2a"
	"github.com/hupe1980/beachparty/agent"
	"github.com/hupe1980/beachparty/config"
	"github.com/hupe1980/beachparty/logging"
	"github.com/hupe1980/beachparty/model"
	"github.com/hupe1980/beachparty/model/anthropic"
	"github.com/hupe1980/beachparty/model/openai"
	"github.com/hupe1980/beachparty/provision"
	"github.com/hupe1980/beachparty/tool"
)

// Server is one agent ready to serve.
type Server struct {
	Name    string
	Addr    string
	URL     string
	Handler http.Handler

	closers []func() error
	logger  logging.Logger
}

// Run serves until ctx is done and releases every acquired resource on the
// way out, whatever the exit path.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	return a2a.Serve(ctx, s.Addr, s.Handler, s.logger)
}

// Close releases provisioned tool servers and peer connections. Failures are
// logged and returned but never block shutdown.
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	err := errors.Join(errs...)
	if err != nil {
		s.logger.Warn("app.close.failed", "error", err.Error())
	}
	return err
}

// Options configure Build.
type Options struct {
	Logger logging.Logger
	// Dialer overrides the MCP dialer.
	Dialer provision.Dialer
	// Model overrides the configured provider.
	Model model.Model
}

// agentName distinguishes the agent name from other strings in the graph.
type agentName string

// toolState is nil when the agent does not use tools.
type toolState struct{ *provision.State }

type peers struct{ *a2a.RemoteAgents }

// Build wires the named agent from cfg. Provisioning and peer discovery run
// here, before any request is served.
func Build(ctx context.Context, cfg *config.Config, name string, optFns ...func(o *Options)) (*Server, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Dialer: provision.DialMCP,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ac, err := cfg.Agent(name)
	if err != nil {
		return nil, err
	}
	profile, ok := agent.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownAgent, name)
	}

	logger := logging.With(opts.Logger, "agent", name)

	srv := &Server{
		Name:   name,
		Addr:   cfg.Addr(name),
		URL:    cfg.URL(name),
		logger: logger,
	}

	d := dig.New()

	provide := []any{
		func() context.Context { return ctx },
		func() agentName { return agentName(name) },
		func() config.AgentConfig { return ac },
		func() agent.Profile { return profile },
		func() logging.Logger { return logger },
		func() Options { return opts },
		func() *Server { return srv },
		newModel,
		newBackend,
		newToolState,
		newPeers,
		newRetriever,
		newExecutor,
		newHandler,
	}
	for _, p := range provide {
		if err := d.Provide(p); err != nil {
			return nil, fmt.Errorf("wire %s: %w", name, err)
		}
	}

	err = d.Invoke(func(h http.Handler) {
		srv.Handler = h
	})
	if err != nil {
		srv.Close()
		return nil, fmt.Errorf("build %s: %w", name, dig.RootCause(err))
	}

	return srv, nil
}

func newModel(ac config.AgentConfig, opts Options, name agentName) (model.Model, error) {
	if opts.Model != nil {
		return model.NewRateLimited(opts.Model, model.PerMinute(ac.RequestsPerMinute)), nil
	}

	key, err := ac.Model.ResolveAPIKey()
	if err != nil {
		return nil, err
	}

	var m model.Model
	switch ac.Model.Provider {
	case config.ProviderOpenAI:
		m = openai.NewModel(func(o *openai.Options) {
			o.Model = ac.Model.ModelName
			o.BaseURL = ac.Model.BaseURL
			o.APIKey = key
			if ac.Model.Temperature != nil {
				o.Temperature = *ac.Model.Temperature
			}
		})
	case config.ProviderAnthropic:
		m = anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(ac.Model.ModelName)
			o.BaseURL = ac.Model.BaseURL
			o.APIKey = key
			if ac.Model.Temperature != nil {
				o.Temperature = *ac.Model.Temperature
			}
		})
	case config.ProviderMock:
		m = model.NewMockModel(string(name))
	default:
		return nil, fmt.Errorf("unknown model provider %q", ac.Model.Provider)
	}

	return model.NewRateLimited(m, model.PerMinute(ac.RequestsPerMinute)), nil
}

func newBackend(m model.Model) model.Backend {
	return model.NewClient(m)
}

func newToolState(ctx context.Context, ac config.AgentConfig, opts Options, logger logging.Logger, srv *Server) toolState {
	if !ac.Uses(config.RetrievalTools) {
		return toolState{}
	}

	state := provision.Provision(ctx, ac.MCPServers, tool.NewBeachCatalogTool(), func(o *provision.Options) {
		o.Dialer = opts.Dialer
		o.Logger = logger
	})
	srv.closers = append(srv.closers, state.Close)

	return toolState{state}
}

func newPeers(ctx context.Context, ac config.AgentConfig, logger logging.Logger, srv *Server) (peers, error) {
	if !ac.Uses(config.RetrievalPeers) {
		return peers{}, nil
	}

	list, err := a2a.DialPeers(ctx, ac.Peers, logger)
	if err != nil {
		// The host still answers from its own model when peers are down.
		logger.Warn("app.peers.unavailable", "error", err.Error())
	}
	remote := a2a.NewRemoteAgents(list, logger)
	srv.closers = append(srv.closers, remote.Close)

	return peers{remote}, nil
}

func newRetriever(ac config.AgentConfig, backend model.Backend, ts toolState, p peers, logger logging.Logger) agent.Retriever {
	var steps []agent.Retriever
	for _, step := range ac.Retrieval {
		switch step {
		case config.RetrievalTools:
			if ts.State != nil {
				steps = append(steps, agent.NewToolRetriever(ts.Tools, logger))
			}
		case config.RetrievalModel:
			steps = append(steps, agent.NewModelRetriever(backend, ""))
		case config.RetrievalPeers:
			if p.RemoteAgents != nil {
				steps = append(steps, p.RemoteAgents)
			}
		}
	}

	switch len(steps) {
	case 0:
		return nil
	case 1:
		return steps[0]
	default:
		return agent.Join(steps...)
	}
}

func newExecutor(name agentName, backend model.Backend, profile agent.Profile, r agent.Retriever, logger logging.Logger) *agent.Executor {
	return agent.New(string(name), backend, agent.WithProfile(profile), func(o *agent.Options) {
		o.Retriever = r
		o.Logger = logger
	})
}

func newHandler(exec *agent.Executor, profile agent.Profile, logger logging.Logger, srv *Server) http.Handler {
	card := a2a.NewAgentCard(profile, srv.URL)
	return a2a.NewHandler(card, a2a.NewExecutor(exec, func(o *a2a.Options) { o.Logger = logger }))
}

// Package config loads the beachparty configuration file.
//
// The file is YAML; JSON files are accepted as well since every JSON document
// is valid YAML. A flat file holding only model keys (api_key, model_name,
// base_url) configures the planner agent, matching the planner's historic
// config.json.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/beachparty/agent"
	"github.com/hupe1980/beachparty/provision"
)

// Retrieval steps an agent can run before calling its model.
const (
	RetrievalTools = "tools"
	RetrievalModel = "model"
	RetrievalPeers = "peers"
)

// Model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

var (
	// ErrUnknownAgent is returned for an agent name without a profile.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrMissingAPIKey is returned when the configured key variable is unset.
	ErrMissingAPIKey = errors.New("api key environment variable not set")
)

// Config is the whole configuration file.
type Config struct {
	Host   string                 `yaml:"host"`
	Log    LogConfig              `yaml:"log"`
	Agents map[string]AgentConfig `yaml:"agents"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AgentConfig configures one agent server.
type AgentConfig struct {
	Port              int                               `yaml:"port"`
	Model             ModelConfig                       `yaml:"model"`
	Retrieval         []string                          `yaml:"retrieval"`
	MCPServers        map[string]provision.ServerConfig `yaml:"mcp_servers"`
	Peers             []string                          `yaml:"peers"`
	RequestsPerMinute int                               `yaml:"requests_per_minute"`
}

// Uses reports whether step is one of the agent's retrieval steps.
func (a AgentConfig) Uses(step string) bool {
	return slices.Contains(a.Retrieval, step)
}

// ModelConfig selects the language model of an agent.
type ModelConfig struct {
	Provider  string `yaml:"provider"`
	ModelName string `yaml:"model_name"`
	BaseURL   string `yaml:"base_url"`
	// APIKey names the environment variable holding the key, not the key itself.
	APIKey      string   `yaml:"api_key"`
	Temperature *float64 `yaml:"temperature"`
}

// ResolveAPIKey reads the key from the environment variable named by APIKey.
// The mock provider needs no key.
func (m ModelConfig) ResolveAPIKey() (string, error) {
	if m.Provider == ProviderMock || m.APIKey == "" {
		return "", nil
	}
	key := os.Getenv(m.APIKey)
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingAPIKey, m.APIKey)
	}
	return key, nil
}

func float(v float64) *float64 { return &v }

// Default returns the built-in configuration: four agents on their default
// ports using OpenAI, the beach and weather agents backed by tools and the
// host consulting the other three.
func Default() *Config {
	cfg := &Config{
		Host:   "localhost",
		Log:    LogConfig{Level: "info", Format: "text"},
		Agents: map[string]AgentConfig{},
	}

	for _, name := range agent.Names() {
		p, _ := agent.Lookup(name)
		cfg.Agents[name] = AgentConfig{
			Port:  p.DefaultPort,
			Model: defaultModel(),
		}
	}

	planner := cfg.Agents[agent.PlannerName]
	planner.Model.Temperature = float(0.7)
	cfg.Agents[agent.PlannerName] = planner

	beach := cfg.Agents[agent.BeachName]
	beach.Retrieval = []string{RetrievalTools, RetrievalModel}
	cfg.Agents[agent.BeachName] = beach

	weather := cfg.Agents[agent.WeatherName]
	weather.Retrieval = []string{RetrievalTools}
	cfg.Agents[agent.WeatherName] = weather

	host := cfg.Agents[agent.HostName]
	host.Retrieval = []string{RetrievalPeers}
	host.Peers = []string{
		peerURL(cfg.Host, cfg.Agents[agent.PlannerName].Port),
		peerURL(cfg.Host, cfg.Agents[agent.BeachName].Port),
		peerURL(cfg.Host, cfg.Agents[agent.WeatherName].Port),
	}
	cfg.Agents[agent.HostName] = host

	return cfg
}

func defaultModel() ModelConfig {
	return providerDefaults(ProviderOpenAI)
}

func providerDefaults(provider string) ModelConfig {
	switch provider {
	case ProviderOpenAI:
		return ModelConfig{Provider: provider, ModelName: "gpt-4o-mini", APIKey: "OPENAI_API_KEY"}
	case ProviderAnthropic:
		return ModelConfig{Provider: provider, ModelName: "claude-3-5-haiku-latest", APIKey: "ANTHROPIC_API_KEY"}
	default:
		return ModelConfig{Provider: provider}
	}
}

func peerURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

// Load reads path and merges it over Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data and merges it over Default.
func Parse(data []byte) (*Config, error) {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()

	if len(file.Agents) == 0 {
		var flat ModelConfig
		if err := yaml.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if flat.ModelName != "" {
			file.Agents = map[string]AgentConfig{agent.PlannerName: {Model: flat}}
		}
	}

	if file.Host != "" {
		cfg.Host = file.Host
	}
	if file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}
	if file.Log.Format != "" {
		cfg.Log.Format = file.Log.Format
	}

	for name, ac := range file.Agents {
		base, ok := cfg.Agents[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, name)
		}
		cfg.Agents[name] = merge(base, ac)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func merge(base, over AgentConfig) AgentConfig {
	if over.Port != 0 {
		base.Port = over.Port
	}
	if over.Model.Provider != "" {
		if over.Model.Provider != base.Model.Provider {
			temperature := base.Model.Temperature
			base.Model = providerDefaults(over.Model.Provider)
			base.Model.Temperature = temperature
		}
	}
	if over.Model.ModelName != "" {
		base.Model.ModelName = over.Model.ModelName
	}
	if over.Model.BaseURL != "" {
		base.Model.BaseURL = over.Model.BaseURL
	}
	if over.Model.APIKey != "" {
		base.Model.APIKey = over.Model.APIKey
	}
	if over.Model.Temperature != nil {
		base.Model.Temperature = over.Model.Temperature
	}
	if over.Retrieval != nil {
		base.Retrieval = over.Retrieval
	}
	if over.MCPServers != nil {
		base.MCPServers = over.MCPServers
	}
	if over.Peers != nil {
		base.Peers = over.Peers
	}
	if over.RequestsPerMinute != 0 {
		base.RequestsPerMinute = over.RequestsPerMinute
	}
	return base
}

// Validate checks providers, retrieval steps and ports.
func (c *Config) Validate() error {
	var errs []error

	ports := map[int]string{}
	for _, name := range agent.Names() {
		ac, ok := c.Agents[name]
		if !ok {
			continue
		}

		switch ac.Model.Provider {
		case ProviderOpenAI, ProviderAnthropic, ProviderMock:
		default:
			errs = append(errs, fmt.Errorf("agent %s: unknown model provider %q", name, ac.Model.Provider))
		}

		for _, step := range ac.Retrieval {
			switch step {
			case RetrievalTools, RetrievalModel, RetrievalPeers:
			default:
				errs = append(errs, fmt.Errorf("agent %s: unknown retrieval step %q", name, step))
			}
		}

		if ac.Port <= 0 || ac.Port > 65535 {
			errs = append(errs, fmt.Errorf("agent %s: invalid port %d", name, ac.Port))
		} else if other, dup := ports[ac.Port]; dup {
			errs = append(errs, fmt.Errorf("agent %s: port %d already used by %s", name, ac.Port, other))
		}
		ports[ac.Port] = name

		if ac.RequestsPerMinute < 0 {
			errs = append(errs, fmt.Errorf("agent %s: requests_per_minute must not be negative", name))
		}
	}

	return errors.Join(errs...)
}

// Agent returns the configuration of the named agent.
func (c *Config) Agent(name string) (AgentConfig, error) {
	ac, ok := c.Agents[name]
	if !ok {
		return AgentConfig{}, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownAgent, name, strings.Join(agent.Names(), ", "))
	}
	return ac, nil
}

// Addr returns the listen address of the named agent.
func (c *Config) Addr(name string) string {
	return fmt.Sprintf("%s:%d", c.Host, c.Agents[name].Port)
}

// URL returns the base URL peers use to reach the named agent.
func (c *Config) URL(name string) string {
	return peerURL(c.Host, c.Agents[name].Port) + "/"
}

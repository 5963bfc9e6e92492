package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/beachparty/agent"
	"github.com/hupe1980/beachparty/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10000, cfg.Agents[agent.HostName].Port)
	assert.Equal(t, 10001, cfg.Agents[agent.PlannerName].Port)
	assert.Equal(t, 10002, cfg.Agents[agent.BeachName].Port)
	assert.Equal(t, 10003, cfg.Agents[agent.WeatherName].Port)

	assert.True(t, cfg.Agents[agent.BeachName].Uses(config.RetrievalTools))
	assert.True(t, cfg.Agents[agent.BeachName].Uses(config.RetrievalModel))
	assert.False(t, cfg.Agents[agent.PlannerName].Uses(config.RetrievalTools))
	assert.Len(t, cfg.Agents[agent.HostName].Peers, 3)
	require.NotNil(t, cfg.Agents[agent.PlannerName].Model.Temperature)
	assert.InDelta(t, 0.7, *cfg.Agents[agent.PlannerName].Model.Temperature, 1e-9)

	assert.Equal(t, "localhost:10002", cfg.Addr(agent.BeachName))
	assert.Equal(t, "http://localhost:10002/", cfg.URL(agent.BeachName))
}

func TestParse_YAML(t *testing.T) {
	cfg, err := config.Parse([]byte(`
host: 0.0.0.0
log:
  level: debug
agents:
  beach:
    port: 12002
    model:
      provider: anthropic
    mcp_servers:
      search:
        command: npx
        args: ["-y", "search-mcp"]
      remote:
        transport: http
        url: http://localhost:9000/mcp
    requests_per_minute: 30
`))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	beach := cfg.Agents[agent.BeachName]
	assert.Equal(t, 12002, beach.Port)
	assert.Equal(t, config.ProviderAnthropic, beach.Model.Provider)
	assert.Equal(t, "ANTHROPIC_API_KEY", beach.Model.APIKey)
	assert.Equal(t, 30, beach.RequestsPerMinute)
	require.Len(t, beach.MCPServers, 2)
	assert.Equal(t, []string{"-y", "search-mcp"}, beach.MCPServers["search"].Args)
	assert.Equal(t, "http", beach.MCPServers["remote"].Transport)

	assert.Equal(t, 10001, cfg.Agents[agent.PlannerName].Port)
}

func TestParse_FlatPlannerJSON(t *testing.T) {
	cfg, err := config.Parse([]byte(`{
  "api_key": "GEMINI_API_KEY",
  "model_name": "gemini-2.0-flash",
  "base_url": "https://generativelanguage.googleapis.com/v1beta/openai/"
}`))
	require.NoError(t, err)

	m := cfg.Agents[agent.PlannerName].Model
	assert.Equal(t, config.ProviderOpenAI, m.Provider)
	assert.Equal(t, "GEMINI_API_KEY", m.APIKey)
	assert.Equal(t, "gemini-2.0-flash", m.ModelName)
	assert.Contains(t, m.BaseURL, "generativelanguage")
	require.NotNil(t, m.Temperature)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown agent", "agents:\n  lifeguard:\n    port: 1\n"},
		{"bad provider", "agents:\n  beach:\n    model:\n      provider: llama\n"},
		{"bad retrieval", "agents:\n  beach:\n    retrieval: [crystal_ball]\n"},
		{"duplicate port", "agents:\n  beach:\n    port: 10001\n"},
		{"negative rate", "agents:\n  beach:\n    requests_per_minute: -1\n"},
		{"syntax", "agents: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "beachparty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agents:\n  weather:\n    model:\n      provider: mock\n"), 0o600))

	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.ProviderMock, cfg.Agents[agent.WeatherName].Model.Provider)
	assert.Empty(t, cfg.Agents[agent.WeatherName].Model.APIKey)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("BEACHPARTY_TEST_KEY", "secret")

	key, err := config.ModelConfig{Provider: config.ProviderOpenAI, APIKey: "BEACHPARTY_TEST_KEY"}.ResolveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)

	_, err = config.ModelConfig{Provider: config.ProviderOpenAI, APIKey: "BEACHPARTY_TEST_UNSET"}.ResolveAPIKey()
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)

	key, err = config.ModelConfig{Provider: config.ProviderMock, APIKey: "BEACHPARTY_TEST_UNSET"}.ResolveAPIKey()
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestAgent(t *testing.T) {
	cfg := config.Default()

	_, err := cfg.Agent(agent.BeachName)
	require.NoError(t, err)

	_, err = cfg.Agent("lifeguard")
	assert.ErrorIs(t, err, config.ErrUnknownAgent)
}

package a2a

import (
	a2ago "github.com/a2aproject/a2a-go/a2a"

	"github.com/hupe1980/beachparty/agent"
)

// CardVersion is the version advertised on every agent card.
const CardVersion = "1.0.0"

// NewAgentCard describes the agent of profile p reachable at url.
func NewAgentCard(p agent.Profile, url string) *a2ago.AgentCard {
	skills := make([]a2ago.AgentSkill, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = a2ago.AgentSkill{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Tags:        s.Tags,
			Examples:    s.Examples,
		}
	}

	return &a2ago.AgentCard{
		Name:               p.Name,
		Description:        p.Description,
		URL:                url,
		Version:            CardVersion,
		ProtocolVersion:    "0.3.0",
		PreferredTransport: a2ago.TransportProtocolJSONRPC,
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Capabilities:       a2ago.AgentCapabilities{Streaming: true},
		Skills:             skills,
	}
}

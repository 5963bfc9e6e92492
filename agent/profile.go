package agent

// Skill advertises one capability of an agent on its card.
type Skill struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	Examples    []string
}

// Profile is the fixed persona of an agent: what it tells the model, how it
// labels retrieved context, what it says when things fail, and what it
// advertises to peers.
type Profile struct {
	Name               string
	Description        string
	Instruction        string
	ContextLabel       string
	FailureMessage     string
	StreamErrorMessage string
	DefaultPort        int
	Skills             []Skill
}

// Agent names accepted by Lookup.
const (
	PlannerName = "planner"
	BeachName   = "beach"
	WeatherName = "weather"
	HostName    = "host"
)

const plannerError = "Sorry, an error occurred while processing your request."

// Planner helps users plan a beach party end to end.
func Planner() Profile {
	return Profile{
		Name:        "Planner Agent",
		Description: "Plans beach parties: location, activities, food, drinks, decorations and music.",
		Instruction: `You are an expert at helping people plan beach parties. Help the user plan a fun and realistic beach party:
- Consider every aspect of the party: choice of beach, activities, food, drinks, decorations and music.
- Take realistic constraints into account such as budget, guest preferences, weather and season.
- Respect local culture and customs, and keep the party enjoyable and safe.
- Give concrete advice and suggestions the user can act on.`,
		FailureMessage:     plannerError,
		StreamErrorMessage: plannerError,
		DefaultPort:        10001,
		Skills: []Skill{{
			ID:          "planner",
			Name:        "Beach party planner",
			Description: "Plans beach parties from a short description of the event.",
			Tags:        []string{"planner", "beach party"},
			Examples:    []string{"Plan a beach party for 20 people next Saturday.", "What should I bring to a sunset beach barbecue?"},
		}},
	}
}

// Beach answers questions about beaches using search results.
func Beach() Profile {
	return Profile{
		Name:         "Beach Agent",
		Description:  "Helps with searching for beaches and answering related questions",
		Instruction:  "You are a specialized assistant for beach information. Use the provided web search results to respond accurately.",
		ContextLabel: "Web results",
		DefaultPort:  10002,
		Skills: []Skill{{
			ID:          "beach_search",
			Name:        "Search for beaches",
			Description: "Helps with beach search and related questions",
			Tags:        []string{"beach information", "beach search"},
			Examples: []string{
				"Please find a beach in California with good surfing conditions for tomorrow.",
				"What are the amenities at Bondi Beach?",
				"Show me family-friendly beaches near San Diego.",
			},
		}},
	}
}

// Weather answers weather questions for beach outings using tool results.
func Weather() Profile {
	return Profile{
		Name:         "Weather Agent",
		Description:  "Answers weather and sea condition questions for beach outings",
		Instruction:  "You are a weather assistant for beach outings. Use the provided tool results to describe temperature, wind, rain and sea conditions. Say so when the results do not cover the question.",
		ContextLabel: "Tool results",
		DefaultPort:  10003,
		Skills: []Skill{{
			ID:          "weather_lookup",
			Name:        "Beach weather",
			Description: "Reports the forecast and sea conditions for a beach or city",
			Tags:        []string{"weather", "forecast"},
			Examples:    []string{"Will it rain at Waikiki Beach tomorrow?", "How windy is Bondi this weekend?"},
		}},
	}
}

// Host coordinates the other agents and merges their answers into a plan.
func Host() Profile {
	return Profile{
		Name:         "Host Agent",
		Description:  "Coordinates the weather and beach agents to plan a beach day",
		Instruction:  "You are the host of a beach party. Combine the answers from the specialist agents below into one clear, friendly recommendation. Do not invent facts the agents did not provide.",
		ContextLabel: "Agent answers",
		DefaultPort:  10000,
		Skills: []Skill{{
			ID:          "host",
			Name:        "Beach party host",
			Description: "Asks the specialist agents and summarizes their answers",
			Tags:        []string{"host", "coordination"},
			Examples:    []string{"Is Saturday a good day for a party at La Jolla Shores?"},
		}},
	}
}

// Lookup returns the profile for name.
func Lookup(name string) (Profile, bool) {
	switch name {
	case PlannerName:
		return Planner(), true
	case BeachName:
		return Beach(), true
	case WeatherName:
		return Weather(), true
	case HostName:
		return Host(), true
	default:
		return Profile{}, false
	}
}

// Names lists every known agent name.
func Names() []string {
	return []string{HostName, PlannerName, BeachName, WeatherName}
}

package tool

import (
	"context"
	"strings"
)

// NoBeachInfoMessage is returned by the catalog tool when nothing matches.
const NoBeachInfoMessage = "No local beach information found."

// BeachCatalogToolName is the name of the local fallback tool.
const BeachCatalogToolName = "local_beach_catalog"

// Beach is one entry of the local catalog.
type Beach struct {
	Name     string
	Location string
	Features []string
}

func (b Beach) String() string {
	return b.Name + " (" + b.Location + "): " + strings.Join(b.Features, ", ")
}

func (b Beach) searchable() string {
	return strings.ToLower(b.Name + " " + b.Location + " " + strings.Join(b.Features, " "))
}

// DefaultBeaches is the fixed catalog served when no tool server is reachable.
var DefaultBeaches = []Beach{
	{Name: "Bondi Beach", Location: "Sydney, Australia", Features: []string{"surfing", "lifeguards", "ocean pool", "cafes"}},
	{Name: "Waikiki Beach", Location: "Honolulu, Hawaii", Features: []string{"beginner surfing", "calm water", "hotels", "sunset views"}},
	{Name: "La Jolla Shores", Location: "San Diego, California", Features: []string{"family friendly", "kayaking", "snorkeling", "tide pools"}},
	{Name: "Huntington Beach", Location: "Orange County, California", Features: []string{"surfing", "bonfire pits", "pier", "volleyball"}},
	{Name: "Shonan Beach", Location: "Kanagawa, Japan", Features: []string{"surfing", "beach houses", "mount fuji views"}},
	{Name: "Okinawa Emerald Beach", Location: "Okinawa, Japan", Features: []string{"clear water", "snorkeling", "family friendly"}},
	{Name: "Copacabana", Location: "Rio de Janeiro, Brazil", Features: []string{"beach sports", "nightlife", "kiosks"}},
}

// BeachCatalog answers beach questions from a fixed in-memory list. It performs
// no I/O and never fails.
type BeachCatalog struct {
	beaches []Beach
}

// NewBeachCatalog returns a catalog over beaches, or DefaultBeaches when none are given.
func NewBeachCatalog(beaches ...Beach) *BeachCatalog {
	if len(beaches) == 0 {
		beaches = DefaultBeaches
	}
	return &BeachCatalog{beaches: beaches}
}

// Search returns every entry matching query. An entry matches when its name,
// location or features contain the query, or when the query mentions the
// entry's name or location. Matching is case-insensitive.
func (c *BeachCatalog) Search(query string) []Beach {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []Beach
	for _, b := range c.beaches {
		if strings.Contains(b.searchable(), q) ||
			strings.Contains(q, strings.ToLower(b.Name)) ||
			strings.Contains(q, strings.ToLower(b.Location)) {
			matches = append(matches, b)
		}
	}
	return matches
}

// Render formats the matches for query, one per line, or NoBeachInfoMessage.
func (c *BeachCatalog) Render(query string) string {
	matches := c.Search(query)
	if len(matches) == 0 {
		return NoBeachInfoMessage
	}

	lines := make([]string, len(matches))
	for i, b := range matches {
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// NewBeachCatalogTool exposes the catalog as a Tool.
func NewBeachCatalogTool(beaches ...Beach) Tool {
	catalog := NewBeachCatalog(beaches...)
	return NewFunctionTool(
		BeachCatalogToolName,
		"Look up beaches by name, location or feature in a small local catalog.",
		func(_ context.Context, input string) (string, error) {
			return catalog.Render(input), nil
		},
	)
}

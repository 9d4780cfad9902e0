// Package world models the small location graph Eevee lives in. Locations
// carry the safety level that feeds council weight adjustment and the
// resource flags that drive need satisfaction.
package world

import (
	"fmt"
	"sort"
	"strings"
)

// Location is one place on the map. Safety and ExplorationValue run 0-10.
type Location struct {
	ID               string
	Name             string
	Description      string
	Safety           int
	HasFood          bool
	HasWater         bool
	HasShelter       bool
	ExplorationValue int
	WeatherExposure  int
	ConnectedTo      []string
}

// Map holds the location graph. Travel is only allowed along edges.
type Map struct {
	locations map[string]*Location
}

// NewMap builds the default eight-location world.
func NewMap() *Map {
	m := &Map{locations: make(map[string]*Location)}
	for _, loc := range defaultLocations() {
		m.Add(loc)
	}
	return m
}

// Add registers a location, replacing any existing one with the same ID.
func (m *Map) Add(loc *Location) {
	m.locations[loc.ID] = loc
}

// Get returns the location with the given ID, or nil.
func (m *Map) Get(id string) *Location {
	return m.locations[id]
}

// GetByName looks a location up by its display name, case-insensitively.
func (m *Map) GetByName(name string) *Location {
	for _, loc := range m.locations {
		if strings.EqualFold(loc.Name, name) {
			return loc
		}
	}
	return nil
}

// Connected returns the locations reachable in one step from id.
func (m *Map) Connected(id string) []*Location {
	loc := m.Get(id)
	if loc == nil {
		return nil
	}
	var out []*Location
	for _, next := range loc.ConnectedTo {
		if l, ok := m.locations[next]; ok {
			out = append(out, l)
		}
	}
	return out
}

// CanTravel reports whether to is directly connected to from.
func (m *Map) CanTravel(from, to string) bool {
	loc := m.Get(from)
	if loc == nil {
		return false
	}
	for _, next := range loc.ConnectedTo {
		if next == to {
			return true
		}
	}
	return false
}

// Names returns every location name, sorted.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.locations))
	for _, loc := range m.locations {
		names = append(names, loc.Name)
	}
	sort.Strings(names)
	return names
}

// Describe renders a location with its travel options.
func (m *Map) Describe(id string) string {
	loc := m.Get(id)
	if loc == nil {
		return "Unknown location"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", strings.ToUpper(loc.Name), loc.Description)
	if connected := m.Connected(id); len(connected) > 0 {
		names := make([]string, len(connected))
		for i, l := range connected {
			names[i] = l.Name
		}
		fmt.Fprintf(&b, "\nYou can go to: %s", strings.Join(names, ", "))
	}
	return b.String()
}

func defaultLocations() []*Location {
	return []*Location{
		{
			ID:               "trainer_home",
			Name:             "Trainer's Home",
			Description:      "A cozy house with familiar scents. This is where you usually meet your trainer. The warm sunlight streams through the windows.",
			Safety:           10,
			HasFood:          true,
			HasWater:         true,
			HasShelter:       true,
			ExplorationValue: 2,
			WeatherExposure:  0,
			ConnectedTo:      []string{"meadow", "garden"},
		},
		{
			ID:               "garden",
			Name:             "Sunny Garden",
			Description:      "A pleasant garden with flowers and soft grass. Perfect for playing and relaxing in the sun.",
			Safety:           9,
			HasFood:          true,
			HasWater:         true,
			ExplorationValue: 4,
			WeatherExposure:  5,
			ConnectedTo:      []string{"trainer_home", "meadow"},
		},
		{
			ID:               "meadow",
			Name:             "Wide Meadow",
			Description:      "An open meadow with tall grass swaying in the breeze. Great for running and spotting other Pokemon from afar.",
			Safety:           7,
			HasFood:          true,
			ExplorationValue: 6,
			WeatherExposure:  8,
			ConnectedTo:      []string{"trainer_home", "garden", "stream", "forest_edge"},
		},
		{
			ID:               "stream",
			Name:             "Clear Stream",
			Description:      "A gentle stream with cool, fresh water. Berry bushes grow along the banks. The sound of flowing water is peaceful.",
			Safety:           8,
			HasFood:          true,
			HasWater:         true,
			ExplorationValue: 5,
			WeatherExposure:  6,
			ConnectedTo:      []string{"meadow", "forest_edge", "sunny_hill"},
		},
		{
			ID:               "forest_edge",
			Name:             "Forest Edge",
			Description:      "The border between the meadow and the deeper forest. Shadows from tall trees create patterns on the ground. You can hear rustling in the bushes.",
			Safety:           5,
			HasFood:          true,
			HasShelter:       true,
			ExplorationValue: 8,
			WeatherExposure:  3,
			ConnectedTo:      []string{"meadow", "stream", "hidden_den", "deep_forest"},
		},
		{
			ID:               "hidden_den",
			Name:             "Hidden Den",
			Description:      "Your secret den tucked under the roots of an old tree. Only you know about this place. It's small, dark, and perfectly cozy.",
			Safety:           10,
			HasShelter:       true,
			ExplorationValue: 3,
			WeatherExposure:  0,
			ConnectedTo:      []string{"forest_edge"},
		},
		{
			ID:               "sunny_hill",
			Name:             "Sunny Hill",
			Description:      "A gentle hill with the perfect view of the sunset. The grass is soft and warm. This is your favorite spot for napping and thinking.",
			Safety:           8,
			ExplorationValue: 7,
			WeatherExposure:  9,
			ConnectedTo:      []string{"stream", "meadow"},
		},
		{
			ID:               "deep_forest",
			Name:             "Deep Forest",
			Description:      "The forest grows thick and shadowy here. Strange sounds echo between the trees. It's both scary and exciting.",
			Safety:           3,
			HasFood:          true,
			HasShelter:       true,
			ExplorationValue: 10,
			WeatherExposure:  2,
			ConnectedTo:      []string{"forest_edge"},
		},
	}
}

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMapLocations(t *testing.T) {
	m := NewMap()
	assert.Len(t, m.Names(), 8)

	home := m.Get("trainer_home")
	require.NotNil(t, home)
	assert.Equal(t, 10, home.Safety)
	assert.True(t, home.HasFood)

	forest := m.Get("deep_forest")
	require.NotNil(t, forest)
	assert.Equal(t, 3, forest.Safety)
	assert.Equal(t, 10, forest.ExplorationValue)
}

func TestEdgesAreBidirectional(t *testing.T) {
	m := NewMap()
	for _, name := range m.Names() {
		loc := m.GetByName(name)
		require.NotNil(t, loc)
		for _, next := range loc.ConnectedTo {
			assert.True(t, m.CanTravel(next, loc.ID),
				"edge %s -> %s has no return path", loc.ID, next)
		}
	}
}

func TestCanTravel(t *testing.T) {
	m := NewMap()

	tests := []struct {
		from, to string
		want     bool
	}{
		{"trainer_home", "meadow", true},
		{"trainer_home", "garden", true},
		{"trainer_home", "deep_forest", false},
		{"hidden_den", "forest_edge", true},
		{"hidden_den", "trainer_home", false},
		{"nowhere", "meadow", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.CanTravel(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestGetByName(t *testing.T) {
	m := NewMap()
	assert.NotNil(t, m.GetByName("Sunny Hill"))
	assert.NotNil(t, m.GetByName("sunny hill"))
	assert.Nil(t, m.GetByName("atlantis"))
}

func TestConnected(t *testing.T) {
	m := NewMap()
	got := m.Connected("meadow")
	ids := make([]string, len(got))
	for i, loc := range got {
		ids[i] = loc.ID
	}
	assert.ElementsMatch(t, []string{"trainer_home", "garden", "stream", "forest_edge"}, ids)

	assert.Nil(t, m.Connected("nowhere"))
}

func TestDescribe(t *testing.T) {
	m := NewMap()
	got := m.Describe("stream")
	assert.Contains(t, got, "CLEAR STREAM")
	assert.Contains(t, got, "You can go to:")
	assert.Contains(t, got, "Wide Meadow")

	assert.Equal(t, "Unknown location", m.Describe("nowhere"))
}

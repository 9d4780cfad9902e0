package council

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YourBr0ther/EeveeLLM/core"
)

func TestDefaultWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{
			name:    "defaults",
			weights: DefaultWeights(),
		},
		{
			name:    "uniform",
			weights: Weights{0.2, 0.2, 0.2, 0.2, 0.2},
		},
		{
			name:    "sum too low",
			weights: Weights{0.2, 0.2, 0.2, 0.2, 0.1},
			wantErr: true,
		},
		{
			name:    "negative weight",
			weights: Weights{-0.1, 0.4, 0.3, 0.2, 0.2},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func calmContext() *core.Context {
	return &core.Context{
		Situation:      "hello",
		Location:       "trainer_home",
		LocationSafety: 10,
		Physical:       core.PhysicalState{Hunger: 40, Energy: 70, Health: 95, Happiness: 85},
	}
}

func sum(w Weights) float64 {
	total := 0.0
	for _, r := range Regions {
		total += w[r]
	}
	return total
}

func TestAdjustedNoTrigger(t *testing.T) {
	w := DefaultWeights()
	got := w.Adjusted(calmContext(), 5)
	assert.Equal(t, w, got)
}

func TestAdjustedDangerScalesWithDeficit(t *testing.T) {
	c := calmContext()
	c.LocationSafety = 2

	got := DefaultWeights().Adjusted(c, 5)

	// deficit 3 of threshold 5: 0.30 + (0.60-0.30)*3/5
	assert.InDelta(t, 0.48, got[Amygdala], 1e-9)
	assert.InDelta(t, 1.0, sum(got), 1e-9)

	// Others shrink proportionally.
	scale := (1 - 0.48) / (1 - 0.30)
	assert.InDelta(t, 0.25*scale, got[Prefrontal], 1e-9)
	assert.InDelta(t, 0.10*scale, got[Cerebellum], 1e-9)
}

func TestAdjustedDangerFullDeficit(t *testing.T) {
	c := calmContext()
	c.LocationSafety = 0

	got := DefaultWeights().Adjusted(c, 5)
	assert.InDelta(t, 0.60, got[Amygdala], 1e-9)
	assert.InDelta(t, 1.0, sum(got), 1e-9)
}

func TestAdjustedLowHealth(t *testing.T) {
	c := calmContext()
	c.Physical.Health = 20

	got := DefaultWeights().Adjusted(c, 5)
	assert.InDelta(t, 0.50, got[Amygdala], 1e-9)
	assert.InDelta(t, 1.0, sum(got), 1e-9)
}

func TestAdjustedPhysicalNeeds(t *testing.T) {
	tests := []struct {
		name     string
		hunger   int
		energy   int
		expected float64
	}{
		{"urgent hunger", 85, 70, 0.35},
		{"urgent exhaustion", 40, 10, 0.35},
		{"elevated hunger", 65, 70, 0.25},
		{"elevated tiredness", 40, 35, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := calmContext()
			c.Physical.Hunger = tt.hunger
			c.Physical.Energy = tt.energy

			got := DefaultWeights().Adjusted(c, 5)
			assert.InDelta(t, tt.expected, got[Hypothalamus], 1e-9)
			assert.InDelta(t, 1.0, sum(got), 1e-9)
		})
	}
}

func TestAdjustedSafetyOutranksHunger(t *testing.T) {
	// Both a safety deficit and an urgent need: only the amygdala gets
	// boosted, and the hypothalamus ends up below its baseline.
	c := calmContext()
	c.LocationSafety = 2
	c.Physical.Hunger = 90

	got := DefaultWeights().Adjusted(c, 5)
	assert.InDelta(t, 0.48, got[Amygdala], 1e-9)
	assert.Less(t, got[Hypothalamus], 0.15)
	assert.InDelta(t, 1.0, sum(got), 1e-9)
}

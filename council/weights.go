package council

import (
	"fmt"
	"math"

	"github.com/YourBr0ther/EeveeLLM/core"
)

// Weights holds one voting weight per region, indexed by Region. A valid
// table sums to 1.0.
type Weights [regionCount]float64

// DefaultWeights returns the baseline influence of each region.
func DefaultWeights() Weights {
	return Weights{
		Prefrontal:   0.25,
		Amygdala:     0.30,
		Hippocampus:  0.20,
		Hypothalamus: 0.15,
		Cerebellum:   0.10,
	}
}

const weightSumTolerance = 1e-6

// Validate checks that every weight is within [0,1] and the table sums to 1.
func (w Weights) Validate() error {
	sum := 0.0
	for _, r := range Regions {
		if w[r] < 0 || w[r] > 1 {
			return fmt.Errorf("weight for %s out of range: %g", r, w[r])
		}
		sum += w[r]
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights sum to %g, want 1.0", sum)
	}
	return nil
}

// Boost targets for the situational weight rules.
const (
	amygdalaDangerWeight = 0.60
	amygdalaHurtWeight   = 0.50
	needsUrgentWeight    = 0.35
	needsElevatedWeight  = 0.25

	lowHealthMark    = 30
	urgentHungerMark = 80
	urgentEnergyMark = 20
	needHungerMark   = 60
	needEnergyMark   = 40
)

// Adjusted returns the weight table rebalanced for the current context. At
// most one region receives a boost per deliberation; the rules are checked
// in fixed priority order:
//
//  1. unsafe location (amygdala, scaled by how far below the threshold)
//  2. low health (amygdala)
//  3. urgent physical need (hypothalamus)
//  4. elevated physical need (hypothalamus)
//
// The other regions are scaled down proportionally so the result still sums
// to 1.0. A context that triggers no rule returns the table unchanged.
func (w Weights) Adjusted(c *core.Context, safetyThreshold int) Weights {
	hunger := c.Physical.Hunger
	energy := c.Physical.Energy

	var boosted Region
	var target float64

	switch {
	case c.LocationSafety < safetyThreshold:
		// The boost grows linearly with the safety deficit, reaching the
		// full danger weight at safety 0.
		boosted = Amygdala
		deficit := float64(safetyThreshold - c.LocationSafety)
		target = w[Amygdala] + (amygdalaDangerWeight-w[Amygdala])*deficit/float64(safetyThreshold)
		if target > amygdalaDangerWeight {
			target = amygdalaDangerWeight
		}
	case c.Physical.Health < lowHealthMark:
		boosted = Amygdala
		target = amygdalaHurtWeight
	case hunger > urgentHungerMark || energy < urgentEnergyMark:
		boosted = Hypothalamus
		target = needsUrgentWeight
	case hunger > needHungerMark || energy < needEnergyMark:
		boosted = Hypothalamus
		target = needsElevatedWeight
	default:
		return w
	}

	if target <= w[boosted] {
		return w
	}

	out := w
	out[boosted] = target
	scale := (1 - target) / (1 - w[boosted])
	for _, r := range Regions {
		if r != boosted {
			out[r] = w[r] * scale
		}
	}
	return out
}

package layout

import (
	"fmt"
	"strings"
)

// Symmetry selects how the weight between two nodes is read from the
// directed edges stored by the crawler.
type Symmetry string

const (
	// SymmetryDirected uses the edge as seen from the node being moved.
	SymmetryDirected Symmetry = "directed"
	// SymmetryMax uses the larger of both directions.
	SymmetryMax Symmetry = "max"
	// SymmetrySum adds both directions.
	SymmetrySum Symmetry = "sum"
)

// ParseSymmetry parses "directed", "max" or "sum". The empty string is
// [SymmetryDirected].
func ParseSymmetry(s string) (Symmetry, error) {
	switch Symmetry(strings.ToLower(strings.TrimSpace(s))) {
	case "", SymmetryDirected:
		return SymmetryDirected, nil
	case SymmetryMax:
		return SymmetryMax, nil
	case SymmetrySum:
		return SymmetrySum, nil
	}
	return "", fmt.Errorf("unknown symmetry %q (want directed, max or sum)", s)
}

// Config holds the tunable constants of the simulation.
// Zero fields take the values of [DefaultConfig].
type Config struct {
	Step          float64 // Simulation time per frame
	SofteningTime float64 // Decay time of the annealing factor
	DampingSpread float64 // Initial damping is 1 - DampingSpread
	DampingPower  float64

	RepelStrength   float64
	RepelCrowd      float64 // Crowd factor: strength / (RepelCrowd·n)^RepelCrowdPower
	RepelCrowdPower float64
	RepelPower      float64 // Distance exponent
	Saturation      float64 // Degree saturation k·S/(S+k)

	AttractStrength    float64
	AttractWeightPower float64 // Exponent on edge weight and visible degree
	AttractPower       float64 // Distance exponent
	AttractSoftening   float64 // Early-frame boost 1/(1 - c·softening²)

	CenterStrength float64
	CenterPower    float64

	Jitter float64 // Noise amplitude; each axis draws from U(-Jitter/2, Jitter/2)
	Spread float64 // Seeds lie within W/Spread, H/Spread of the center

	Symmetry Symmetry
	Seed     uint64 // Random seed; 0 seeds from the clock
}

// DefaultConfig returns the tuned constants.
func DefaultConfig() Config {
	return Config{
		Step:          1,
		SofteningTime: 1000,
		DampingSpread: 0.9,
		DampingPower:  0.3,

		RepelStrength:   0.005,
		RepelCrowd:      1.8,
		RepelCrowdPower: 1.5,
		RepelPower:      2.8,
		Saturation:      10,

		AttractStrength:    65,
		AttractWeightPower: 1.1,
		AttractPower:       0.1,
		AttractSoftening:   0.5,

		CenterStrength: 0.001,
		CenterPower:    1,

		Jitter: 1,
		Spread: 4,

		Symmetry: SymmetryDirected,
	}
}

// WithDefaults returns a copy of Config with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.Step, d.Step)
	fill(&c.SofteningTime, d.SofteningTime)
	fill(&c.DampingSpread, d.DampingSpread)
	fill(&c.DampingPower, d.DampingPower)
	fill(&c.RepelStrength, d.RepelStrength)
	fill(&c.RepelCrowd, d.RepelCrowd)
	fill(&c.RepelCrowdPower, d.RepelCrowdPower)
	fill(&c.RepelPower, d.RepelPower)
	fill(&c.Saturation, d.Saturation)
	fill(&c.AttractStrength, d.AttractStrength)
	fill(&c.AttractWeightPower, d.AttractWeightPower)
	fill(&c.AttractPower, d.AttractPower)
	fill(&c.AttractSoftening, d.AttractSoftening)
	fill(&c.CenterStrength, d.CenterStrength)
	fill(&c.CenterPower, d.CenterPower)
	fill(&c.Jitter, d.Jitter)
	fill(&c.Spread, d.Spread)
	if c.Symmetry == "" {
		c.Symmetry = d.Symmetry
	}
	return c
}

// Validate reports constants that would break the simulation.
func (c Config) Validate() error {
	switch {
	case c.Step <= 0:
		return fmt.Errorf("step must be positive")
	case c.SofteningTime <= 0:
		return fmt.Errorf("softening time must be positive")
	case c.DampingSpread < 0 || c.DampingSpread >= 1:
		return fmt.Errorf("damping spread must be in [0, 1)")
	case c.AttractSoftening < 0 || c.AttractSoftening >= 1:
		return fmt.Errorf("attract softening must be in [0, 1)")
	case c.Spread < 1:
		return fmt.Errorf("spread must be >= 1")
	}
	if _, err := ParseSymmetry(string(c.Symmetry)); err != nil {
		return err
	}
	return nil
}

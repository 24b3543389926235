package spaced_repetition

import (
	"fmt"
	"math"
	"time"
)

// Parameters are the tunable constants of the prediction engine and the
// interval schedule. The zero value is not usable; start from DefaultParameters.
type Parameters struct {
	// NeutralPrior is the predicted quality for a never-seen fact and the value
	// every forgetting curve converges to.
	NeutralPrior float64
	// BaseHalfLife is the half-life after a single review, and the floor for
	// every adapted half-life.
	BaseHalfLife time.Duration
	// HalfLifeGain scales how much a recalled gap between two reviews stretches
	// the half-life.
	HalfLifeGain float64
	// RecencyWeight is the share of the newest review's implied half-life in
	// the smoothed half-life; the rest is carried over from older reviews.
	RecencyWeight float64

	// BaseInterval is the wait for repetition count 0.
	BaseInterval time.Duration
	// IntervalMultiplier is the growth factor from count 0 to count 1.
	IntervalMultiplier float64
	// MultiplierGrowth is added to the multiplier for every further repetition.
	MultiplierGrowth float64
	// MaxMultiplier caps the per-repetition growth factor.
	MaxMultiplier float64
}

// DefaultParameters returns the documented defaults:
// prior 0, one-day base half-life, one-day first interval, intervals growing
// 2x at first and up to 2.5x per repetition.
func DefaultParameters() Parameters {
	return Parameters{
		NeutralPrior:       0.0,
		BaseHalfLife:       24 * time.Hour,
		HalfLifeGain:       1.0,
		RecencyWeight:      0.75,
		BaseInterval:       24 * time.Hour,
		IntervalMultiplier: 2.0,
		MultiplierGrowth:   0.05,
		MaxMultiplier:      2.5,
	}
}

// minMultiplierGrowth keeps the number of distinct multipliers small enough to
// walk step by step.
const minMultiplierGrowth = 1e-3

// maxIntervalMultiplier bounds the per-step factor.
const maxIntervalMultiplier = 10.0

// Validate checks every parameter against its allowed range.
func (p Parameters) Validate() error {
	switch {
	case !(p.NeutralPrior >= 0 && p.NeutralPrior <= 1):
		return fmt.Errorf("%w: neutral prior %v not in [0, 1]", ErrInvalidParameters, p.NeutralPrior)
	case p.BaseHalfLife <= 0:
		return fmt.Errorf("%w: base half-life %v must be positive", ErrInvalidParameters, p.BaseHalfLife)
	case !(p.HalfLifeGain >= 0) || math.IsInf(p.HalfLifeGain, 0):
		return fmt.Errorf("%w: half-life gain %v must be finite and non-negative", ErrInvalidParameters, p.HalfLifeGain)
	case !(p.RecencyWeight > 0 && p.RecencyWeight <= 1):
		return fmt.Errorf("%w: recency weight %v not in (0, 1]", ErrInvalidParameters, p.RecencyWeight)
	case p.BaseInterval <= 0:
		return fmt.Errorf("%w: base interval %v must be positive", ErrInvalidParameters, p.BaseInterval)
	case !(p.IntervalMultiplier >= 1 && p.IntervalMultiplier <= maxIntervalMultiplier):
		return fmt.Errorf("%w: interval multiplier %v not in [1, %v]", ErrInvalidParameters, p.IntervalMultiplier, maxIntervalMultiplier)
	case !(p.MaxMultiplier >= p.IntervalMultiplier && p.MaxMultiplier <= maxIntervalMultiplier):
		return fmt.Errorf("%w: max multiplier %v not in [%v, %v]", ErrInvalidParameters, p.MaxMultiplier, p.IntervalMultiplier, maxIntervalMultiplier)
	case p.MultiplierGrowth != 0 && !(p.MultiplierGrowth >= minMultiplierGrowth && p.MultiplierGrowth <= maxIntervalMultiplier):
		return fmt.Errorf("%w: multiplier growth %v must be 0 or in [%v, %v]", ErrInvalidParameters, p.MultiplierGrowth, minMultiplierGrowth, maxIntervalMultiplier)
	}
	return nil
}

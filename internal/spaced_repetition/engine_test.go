package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNewEngine(t *testing.T, p Parameters) *Engine {
	t.Helper()
	e, err := NewEngine(p)
	require.NoError(t, err)
	return e
}

func TestDefaultParametersValid(t *testing.T) {
	require.NoError(t, DefaultParameters().Validate())
	assert.Equal(t, DefaultParameters(), Default().Parameters())
}

func TestNewEngineRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Parameters)
	}{
		{"prior above one", func(p *Parameters) { p.NeutralPrior = 1.1 }},
		{"prior negative", func(p *Parameters) { p.NeutralPrior = -0.1 }},
		{"zero half-life", func(p *Parameters) { p.BaseHalfLife = 0 }},
		{"negative gain", func(p *Parameters) { p.HalfLifeGain = -1 }},
		{"zero recency weight", func(p *Parameters) { p.RecencyWeight = 0 }},
		{"recency weight above one", func(p *Parameters) { p.RecencyWeight = 1.5 }},
		{"zero base interval", func(p *Parameters) { p.BaseInterval = 0 }},
		{"shrinking multiplier", func(p *Parameters) { p.IntervalMultiplier = 0.9 }},
		{"cap below multiplier", func(p *Parameters) { p.MaxMultiplier = 1.5 }},
		{"cap too large", func(p *Parameters) { p.MaxMultiplier = 11 }},
		{"tiny growth", func(p *Parameters) { p.MultiplierGrowth = 1e-6 }},
		{"negative growth", func(p *Parameters) { p.MultiplierGrowth = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.modify(&p)
			_, err := NewEngine(p)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestNewEngineAcceptsEdgeParameters(t *testing.T) {
	p := DefaultParameters()
	p.NeutralPrior = 1
	p.RecencyWeight = 1
	p.HalfLifeGain = 0
	p.IntervalMultiplier = 1
	p.MaxMultiplier = 1
	p.MultiplierGrowth = 0
	p.BaseHalfLife = time.Nanosecond
	mustNewEngine(t, p)
}

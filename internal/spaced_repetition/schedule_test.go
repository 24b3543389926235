package spaced_repetition

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalForCountBase(t *testing.T) {
	got, err := IntervalForCount(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultParameters().BaseInterval, got)
}

func TestIntervalForCountGrows(t *testing.T) {
	four, err := IntervalForCount(4)
	require.NoError(t, err)
	five, err := IntervalForCount(5)
	require.NoError(t, err)
	assert.Greater(t, five, four)
}

func TestIntervalForCountDefaultTable(t *testing.T) {
	// 1d, then x2, x2.05, x2.10, x2.15 ...
	want := []float64{1, 2, 4.1, 8.61, 18.5115}
	for n, days := range want {
		got, err := IntervalForCount(n)
		require.NoError(t, err)
		assert.InDelta(t, days*float64(day), float64(got), float64(time.Second), "count %d", n)
	}
}

func TestIntervalForCountNegative(t *testing.T) {
	for _, n := range []int{-1, -100, math.MinInt} {
		_, err := IntervalForCount(n)
		assert.ErrorIs(t, err, ErrInvalidCount)
	}
}

func TestIntervalForCountMonotone(t *testing.T) {
	engines := map[string]*Engine{
		"default": Default(),
		"flat": mustNewEngine(t, Parameters{
			NeutralPrior: 0, BaseHalfLife: day, HalfLifeGain: 1, RecencyWeight: 1,
			BaseInterval: time.Hour, IntervalMultiplier: 1, MaxMultiplier: 1,
		}),
		"constant factor": mustNewEngine(t, Parameters{
			NeutralPrior: 0, BaseHalfLife: day, HalfLifeGain: 1, RecencyWeight: 1,
			BaseInterval: time.Minute, IntervalMultiplier: 1.3, MaxMultiplier: 3,
		}),
		"steep growth": mustNewEngine(t, Parameters{
			NeutralPrior: 0, BaseHalfLife: day, HalfLifeGain: 1, RecencyWeight: 1,
			BaseInterval: 10 * time.Minute, IntervalMultiplier: 1.1, MultiplierGrowth: 0.3, MaxMultiplier: 4,
		}),
	}
	for name, e := range engines {
		t.Run(name, func(t *testing.T) {
			prev, err := e.IntervalForCount(0)
			require.NoError(t, err)
			assert.Equal(t, e.Parameters().BaseInterval, prev)
			for n := 1; n <= 500; n++ {
				cur, err := e.IntervalForCount(n)
				require.NoError(t, err)
				require.GreaterOrEqual(t, cur, prev, "count %d", n)
				prev = cur
			}
		})
	}
}

func TestIntervalForCountSaturates(t *testing.T) {
	maxed := time.Duration(math.MaxInt64)
	for _, n := range []int{100, 10_000, math.MaxInt32, math.MaxInt} {
		got, err := IntervalForCount(n)
		require.NoError(t, err)
		assert.Equal(t, maxed, got, "count %d", n)
	}
}

func TestIntervalForCountFlatScheduleIsCheapForHugeCounts(t *testing.T) {
	e := mustNewEngine(t, Parameters{
		NeutralPrior: 0, BaseHalfLife: day, HalfLifeGain: 1, RecencyWeight: 1,
		BaseInterval: time.Hour, IntervalMultiplier: 1, MaxMultiplier: 2,
	})
	got, err := e.IntervalForCount(math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, got)
}

func TestNextReview(t *testing.T) {
	due, err := Default().NextReview(t0, 1)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(2*day), due)

	_, err = Default().NextReview(t0, -1)
	assert.ErrorIs(t, err, ErrInvalidCount)

	far, err := Default().NextReview(t0, 1000)
	require.NoError(t, err)
	assert.True(t, far.After(t0.Add(100*365*day)))
}

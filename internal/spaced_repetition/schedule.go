package spaced_repetition

import (
	"fmt"
	"math"
	"time"
)

// IntervalForCount returns how long to wait before the count-th scheduled
// review of a fact (0 = first). It depends on count alone:
//
//	interval(0) = BaseInterval
//	interval(n) = interval(n-1) * min(IntervalMultiplier + MultiplierGrowth*(n-1), MaxMultiplier)
//
// Every factor is at least 1, so intervals never shrink. Growth is unbounded
// in principle; the result saturates at the largest time.Duration.
// A negative count returns ErrInvalidCount.
func (e *Engine) IntervalForCount(count int) (time.Duration, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	ivl := float64(e.params.BaseInterval)
	for n := 1; n <= count; n++ {
		m := e.multiplier(n)
		if m >= e.params.MaxMultiplier || e.params.MultiplierGrowth == 0 {
			// Constant factor from here on.
			ivl *= math.Pow(m, float64(count-n+1))
			break
		}
		ivl *= m
		if ivl >= maxDurationNanos {
			break
		}
	}
	return durationOf(ivl), nil
}

// multiplier is the growth factor applied on the n-th step (n >= 1).
func (e *Engine) multiplier(n int) float64 {
	m := e.params.IntervalMultiplier + e.params.MultiplierGrowth*float64(n-1)
	return math.Min(m, e.params.MaxMultiplier)
}

// NextReview returns the due date of a fact last reviewed at last whose
// repetition count is count.
func (e *Engine) NextReview(last time.Time, count int) (time.Time, error) {
	ivl, err := e.IntervalForCount(count)
	if err != nil {
		return time.Time{}, err
	}
	return addSaturating(last, ivl), nil
}

var maxTime = time.Unix(1<<62, 0).UTC()

// addSaturating adds d to t, pinning the result far in the future instead of
// wrapping around.
func addSaturating(t time.Time, d time.Duration) time.Time {
	if d >= maxDuration || t.After(maxTime.Add(-d)) {
		return maxTime
	}
	return t.Add(d)
}

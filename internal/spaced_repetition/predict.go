package spaced_repetition

import (
	"math"
	"sort"
	"time"

	"github.com/example/genius/pkg/models"
)

// Predict estimates the recall quality of a fact at instant at, given its
// review history. The result is always in [0, 1].
//
// With no history it returns the neutral prior. Otherwise the quality of the
// most recent review decays toward the prior along
//
//	prior + (q - prior) * 2^(-elapsed / halfLife)
//
// where halfLife adapts to the whole history (see HalfLife). The curve never
// rises while the last quality is at or above the prior, which always holds
// for the default prior of 0. An instant at or before the most recent review
// yields that review's quality exactly.
//
// history need not be sorted; records with equal timestamps keep their input
// order, so the later-supplied one counts as more recent. history is never
// modified or retained.
func (e *Engine) Predict(history []models.ReviewRecord, at time.Time) float64 {
	if len(history) == 0 {
		return e.params.NeutralPrior
	}
	sorted := Chronological(history)
	last := sorted[len(sorted)-1]

	elapsed := at.Sub(last.Timestamp())
	if elapsed <= 0 {
		return last.Quality()
	}
	return e.decay(last.Quality(), elapsed.Seconds(), e.halfLife(sorted))
}

// HalfLife returns the effective memory half-life implied by history. An
// empty or single-record history has the base half-life.
func (e *Engine) HalfLife(history []models.ReviewRecord) time.Duration {
	if len(history) < 2 {
		return e.params.BaseHalfLife
	}
	return durationOf(e.halfLife(Chronological(history)) * float64(time.Second))
}

// halfLife walks a chronological history oldest first. Each review implies a
// half-life of q * (h + gain*gap): recalling well after a long gap stretches
// memory, a failed review falls back to the base. The implied value is blended
// with the running half-life by RecencyWeight.
func (e *Engine) halfLife(sorted []models.ReviewRecord) float64 {
	h := e.baseHalfLife
	w := e.params.RecencyWeight
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Timestamp().Sub(sorted[i-1].Timestamp()).Seconds()
		implied := sorted[i].Quality() * (h + e.params.HalfLifeGain*gap)
		if implied < e.baseHalfLife {
			implied = e.baseHalfLife
		}
		h = w*implied + (1-w)*h
	}
	return h
}

func (e *Engine) decay(quality, elapsed, halfLife float64) float64 {
	prior := e.params.NeutralPrior
	return clamp01(prior + (quality-prior)*math.Exp2(-elapsed/halfLife))
}

// Chronological returns history ordered by timestamp, oldest first. Records
// with equal timestamps keep their input order. An already ordered slice is
// returned as is; otherwise a sorted copy, so the input is never modified.
func Chronological(history []models.ReviewRecord) []models.ReviewRecord {
	less := func(s []models.ReviewRecord) func(i, j int) bool {
		return func(i, j int) bool {
			return s[i].Timestamp().Before(s[j].Timestamp())
		}
	}
	if sort.SliceIsSorted(history, less(history)) {
		return history
	}
	sorted := make([]models.ReviewRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, less(sorted))
	return sorted
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

const maxDuration = time.Duration(math.MaxInt64)

// maxDurationNanos is 2^63; every float64 below it converts to a
// time.Duration without overflow.
var maxDurationNanos = float64(math.MaxInt64)

// durationOf converts nanoseconds to a Duration, saturating at maxDuration.
func durationOf(ns float64) time.Duration {
	if ns >= maxDurationNanos {
		return maxDuration
	}
	return time.Duration(ns)
}

package scheduler

import (
	"time"

	"github.com/example/genius/internal/spaced_repetition"
	"github.com/example/genius/pkg/models"
)

// Clock supplies the current time to the scheduler. The prediction engine
// never reads a clock; every instant it sees comes from here.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Plan is the scheduling decision for one fact at one instant
type Plan struct {
	PredictedQuality float64
	RepetitionCount  int
	HalfLife         time.Duration
	NextReviewAt     time.Time
}

// RepetitionCount is the number of consecutive recalled reviews at the end of
// history. A failed most recent review resets it to 0.
func RepetitionCount(history []models.ReviewRecord) int {
	sorted := spaced_repetition.Chronological(history)
	n := 0
	for i := len(sorted) - 1; i >= 0 && sorted[i].Recalled(); i-- {
		n++
	}
	return n
}

// PlanFor predicts recall at now and derives the next due date: the most
// recent review plus the interval for the repetition count. A fact with no
// history is due at now.
func PlanFor(engine *spaced_repetition.Engine, history []models.ReviewRecord, now time.Time) (Plan, error) {
	plan := Plan{
		PredictedQuality: engine.Predict(history, now),
		HalfLife:         engine.HalfLife(history),
		NextReviewAt:     now,
	}
	if len(history) == 0 {
		return plan, nil
	}

	sorted := spaced_repetition.Chronological(history)
	plan.RepetitionCount = RepetitionCount(sorted)
	due, err := engine.NextReview(sorted[len(sorted)-1].Timestamp(), plan.RepetitionCount)
	if err != nil {
		return Plan{}, err
	}
	plan.NextReviewAt = due
	return plan, nil
}

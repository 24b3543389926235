package spaced_repetition

import (
	"fmt"
	"time"

	"github.com/example/genius/pkg/models"
)

// Engine predicts recall quality from a review history and maps repetition
// counts to waiting intervals. It holds only its validated parameters, so a
// single Engine may be shared by any number of goroutines.
type Engine struct {
	params Parameters

	// Cached in seconds; every curve computation works in float64 seconds.
	baseHalfLife float64
}

// NewEngine validates p and returns an Engine using it.
func NewEngine(p Parameters) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		params:       p,
		baseHalfLife: p.BaseHalfLife.Seconds(),
	}, nil
}

// Parameters returns a copy of the engine's parameters.
func (e *Engine) Parameters() Parameters { return e.params }

var defaultEngine = mustEngine(DefaultParameters())

func mustEngine(p Parameters) *Engine {
	e, err := NewEngine(p)
	if err != nil {
		panic(fmt.Sprintf("spaced_repetition: default parameters: %v", err))
	}
	return e
}

// Default returns the engine built from DefaultParameters.
func Default() *Engine { return defaultEngine }

// Predict is Default().Predict.
func Predict(history []models.ReviewRecord, at time.Time) float64 {
	return defaultEngine.Predict(history, at)
}

// IntervalForCount is Default().IntervalForCount.
func IntervalForCount(count int) (time.Duration, error) {
	return defaultEngine.IntervalForCount(count)
}

package spaced_repetition

import (
	"math"
	"testing"
	"time"

	"github.com/example/genius/pkg/models"
)

func FuzzPredict(f *testing.F) {
	f.Add(0.9, 0.9, int64(7*24*3600), int64(30*24*3600))
	f.Add(0.0, 1.0, int64(0), int64(0))
	f.Add(1.0, 0.0, int64(-3600), int64(-1))
	f.Add(0.5, 0.5, int64(math.MaxInt32), int64(math.MaxInt64/2))

	f.Fuzz(func(t *testing.T, q1, q2 float64, gapSec, atSec int64) {
		r1, err1 := models.NewReviewRecord(t0, q1)
		r2, err2 := models.NewReviewRecord(t0.Add(time.Duration(gapSec)*time.Second), q2)
		var history []models.ReviewRecord
		if err1 == nil {
			history = append(history, r1)
		}
		if err2 == nil {
			history = append(history, r2)
		}

		at := t0.Add(time.Duration(atSec) * time.Second)
		v := Predict(history, at)
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Fatalf("Predict(%v, %v) = %v, want value in [0, 1]", history, at, v)
		}
		if v != Predict(history, at) {
			t.Fatalf("Predict(%v, %v) is not deterministic", history, at)
		}
	})
}

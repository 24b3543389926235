package models

import "time"

// FactSchedule is the persisted scheduling state of one fact
type FactSchedule struct {
	FactID           string    `json:"fact_id" db:"fact_id"`
	RepetitionCount  int       `json:"repetition_count" db:"repetition_count"`
	PredictedQuality float64   `json:"predicted_quality" db:"predicted_quality"` // Predicted recall at UpdatedAt
	NextReviewAt     time.Time `json:"next_review_at" db:"next_review_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

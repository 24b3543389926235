package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidQuality is returned when a review is graded outside [0, 1].
var ErrInvalidQuality = errors.New("models: recall quality out of range")

// RecallThreshold is the quality at or above which a review counts as recalled.
const RecallThreshold = 0.5

// ReviewRecord is one graded review of a fact: when it happened and how well
// the fact was recalled (0 = forgotten, 1 = perfect).
type ReviewRecord struct {
	timestamp time.Time
	quality   float64
}

// NewReviewRecord creates a review record. Quality outside [0, 1] (or NaN) is
// rejected, never clamped.
func NewReviewRecord(timestamp time.Time, quality float64) (ReviewRecord, error) {
	if !(quality >= 0 && quality <= 1) {
		return ReviewRecord{}, fmt.Errorf("%w: %v", ErrInvalidQuality, quality)
	}
	// Round(0) drops the monotonic reading so records compare by instant only.
	return ReviewRecord{timestamp: timestamp.Round(0), quality: quality}, nil
}

// MustReviewRecord is like NewReviewRecord but panics on invalid quality.
func MustReviewRecord(timestamp time.Time, quality float64) ReviewRecord {
	r, err := NewReviewRecord(timestamp, quality)
	if err != nil {
		panic(err)
	}
	return r
}

// ReviewRecordFromTuple rebuilds a record from its flat (timestamp, quality) form.
func ReviewRecordFromTuple(timestamp time.Time, quality float64) (ReviewRecord, error) {
	return NewReviewRecord(timestamp, quality)
}

// Timestamp returns when the review happened.
func (r ReviewRecord) Timestamp() time.Time { return r.timestamp }

// Quality returns the recall quality in [0, 1].
func (r ReviewRecord) Quality() float64 { return r.quality }

// Recalled reports whether the quality reaches RecallThreshold.
func (r ReviewRecord) Recalled() bool { return r.quality >= RecallThreshold }

// Tuple returns the flat (timestamp, quality) form used by persistence.
func (r ReviewRecord) Tuple() (time.Time, float64) { return r.timestamp, r.quality }

// Equal reports whether both records describe the same instant and quality,
// regardless of the time zone the timestamps carry.
func (r ReviewRecord) Equal(other ReviewRecord) bool {
	return r.timestamp.Equal(other.timestamp) && r.quality == other.quality
}

func (r ReviewRecord) String() string {
	return fmt.Sprintf("%s@%.3f", r.timestamp.UTC().Format(time.RFC3339), r.quality)
}

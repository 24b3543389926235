package spaced_repetition

import (
	"fmt"
	"math"
)

// QualityResponse is an SM-2 style grade from 0 to 5. Importers and the CLI
// accept grades and convert them to the continuous quality the engine uses.
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// IsValid reports whether g is within 0..5.
func (g QualityResponse) IsValid() bool {
	return g >= QualityBlackout && g <= QualityPerfect
}

// Quality maps the grade onto [0, 1] as g/5.
func (g QualityResponse) Quality() (float64, error) {
	if !g.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return float64(g) / float64(QualityPerfect), nil
}

// GradeOf returns the nearest SM-2 grade for a quality in [0, 1].
func GradeOf(quality float64) (QualityResponse, error) {
	if !(quality >= 0 && quality <= 1) {
		return 0, fmt.Errorf("%w: quality %v", ErrInvalidGrade, quality)
	}
	return QualityResponse(math.Round(quality * float64(QualityPerfect))), nil
}

package spaced_repetition

import "errors"

// Sentinel errors for the spaced_repetition package.
// Use errors.Is to check: errors.Is(err, spaced_repetition.ErrInvalidCount)
var (
	ErrInvalidCount      = errors.New("spaced_repetition: negative repetition count")
	ErrInvalidParameters = errors.New("spaced_repetition: parameters out of bounds")
	ErrInvalidGrade      = errors.New("spaced_repetition: invalid SM-2 grade")
)

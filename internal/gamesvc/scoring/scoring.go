package scoring

import (
	"errors"
	"math"
	"time"
)

// Timing validation failures. Both are detected before any row is written.
var (
	ErrTooQuick     = errors.New("answer submitted with zero elapsed time")
	ErrTimeExceeded = errors.New("answer submitted past the question time limit")
)

// Points computes the time-decayed award for a correct answer.
// The decay is linear over the question's time limit: an instant answer is
// worth 1100 points, an answer on the final second is worth 500. The
// question's authoring-side weight does not participate.
func Points(timeLimit, timeTaken int) int {
	ratio := float64(timeTaken) / float64(timeLimit) * 60
	return 1100 - int(math.Floor(ratio*10))
}

// ValidateTiming enforces 0 < timeTaken <= timeLimit.
func ValidateTiming(timeLimit, timeTaken int) error {
	if timeTaken <= 0 {
		return ErrTooQuick
	}
	if timeTaken > timeLimit {
		return ErrTimeExceeded
	}
	return nil
}

// Expired reports whether a room deadline has passed. Expired rooms behave
// as not found even though their rows persist.
func Expired(expiredAt, now time.Time) bool {
	return !expiredAt.After(now)
}

package tilemap

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange means the boundary constraint would read a sample
	// coordinate that does not exist, usually because the sample is smaller
	// than the pattern size.
	ErrOutOfRange = errors.New("tilemap: sample coordinate out of range")
	// ErrMalformedInput covers empty or ragged tabular input and unparsable
	// tile values.
	ErrMalformedInput = errors.New("tilemap: malformed input")
	// ErrPropagationFailed is matched by *PropagationError.
	ErrPropagationFailed = errors.New("tilemap: propagation failed")
	ErrIO                = errors.New("tilemap: i/o failure")
	ErrInvalidArgument   = errors.New("tilemap: invalid argument")
)

// PropagationError reports that every collapse attempt ended in a
// contradiction. Last is the contradiction of the final attempt.
type PropagationError struct {
	Attempts int
	Last     error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("tilemap: propagation failed after %d attempts: %v", e.Attempts, e.Last)
}

// Is reports ErrPropagationFailed as a match.
func (e *PropagationError) Is(target error) bool {
	return target == ErrPropagationFailed
}

func (e *PropagationError) Unwrap() error { return e.Last }

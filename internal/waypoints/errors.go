package waypoints

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrNoSolution is returned when no rendering fits the size limit.
var ErrNoSolution = eris.New("waypoints: rendering does not fit size limit")

// SizeBudgetError reports the smallest rendering reached and the limit it
// missed. It matches ErrNoSolution under errors.Is.
type SizeBudgetError struct {
	MaxSize  int
	Smallest int
}

func (e *SizeBudgetError) Error() string {
	return fmt.Sprintf("waypoints: smallest rendering is %d chars, limit is %d", e.Smallest, e.MaxSize)
}

// Is reports whether target is ErrNoSolution.
func (e *SizeBudgetError) Is(target error) bool {
	return target == ErrNoSolution
}

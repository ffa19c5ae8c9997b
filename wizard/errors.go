package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrStepMismatch = errors.New("record submitted for a step that is not current")
	ErrComplete     = errors.New("wizard already complete")
	ErrSubmit       = errors.New("final submission failed")
)

// OutOfRangeError is returned when a step index falls outside the wizard.
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("step index %d out of range [0, %d)", e.Index, e.Len)
}

package booking

import (
	"errors"
	"fmt"
)

// ErrNoCapacity means no doctor was under the daily cap for the
// requested specialization or the general fallback.
var ErrNoCapacity = errors.New("no doctors available on the selected date")

// StepError names the booking step that failed. Steps before it have
// already committed and are not rolled back.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("booking step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

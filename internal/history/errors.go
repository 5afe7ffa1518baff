package history

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a build carries an outcome that cannot be
// attributed to a page.
var ErrInvalidInput = errors.New("invalid input")

// InvalidOutcomeError identifies the offending outcome by build number and
// its position within the build.
type InvalidOutcomeError struct {
	Build  int64
	Index  int
	Reason string
}

func (e *InvalidOutcomeError) Error() string {
	return fmt.Sprintf("build %d outcome %d: %s", e.Build, e.Index, e.Reason)
}

func (e *InvalidOutcomeError) Unwrap() error { return ErrInvalidInput }

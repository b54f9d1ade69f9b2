package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrSkipped is recorded for variants that were not built because an earlier variant
	// failed and the Library stops on the first failure.
	ErrSkipped = errors.New("skipped after an earlier variant failed")

	// ErrVariantUnavailable is returned when a variant has no usable program.
	ErrVariantUnavailable = errors.New("shading variant unavailable")
)

// LinkError reports a program whose stages compiled but failed to link.
// Log carries the driver's info log verbatim.
type LinkError struct {
	Key string
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("pipeline %q: failed to link: %s", e.Key, e.Log)
}

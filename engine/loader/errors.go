package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedToken is returned when a token cannot be parsed as the expected number.
	ErrMalformedToken = errors.New("malformed token")

	// ErrIndexOutOfRange is returned when a face references a vertex index >= the vertex count.
	ErrIndexOutOfRange = errors.New("vertex index out of range")

	// ErrNonTriangularFace is returned in strict face validation when a face declares a vertex
	// count other than 3.
	ErrNonTriangularFace = errors.New("face is not a triangle")
)

// IOError reports a failure to read or parse a mesh file.
// Line is the 1-based line at which parsing failed, or 0 when the failure is not tied to a line
// (for example when the file cannot be opened).
type IOError struct {
	Path string
	Line int
	Err  error
}

func (e *IOError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("loader: %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("loader: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

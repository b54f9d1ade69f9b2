package shader

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is returned when a backend is handed a shader written for another API.
var ErrUnsupportedLanguage = errors.New("unsupported shader language")

// CompileError reports a shader stage that the GPU driver rejected.
// Log carries the driver's info log verbatim.
type CompileError struct {
	Key   string
	Stage ShaderType
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %q: %s stage failed to compile: %s", e.Key, e.Stage, e.Log)
}

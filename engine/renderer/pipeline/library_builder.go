package pipeline

import "io/fs"

// LibraryBuilderOption is a functional option used to configure a Library during construction.
type LibraryBuilderOption func(*library)

// WithSourceFS replaces the built-in shader sources. The file system must use the layout of
// shader.Assets.
//
// Parameters:
//   - fsys: the file system holding the shader sources
//
// Returns:
//   - LibraryBuilderOption: a function that sets the source file system of a library
func WithSourceFS(fsys fs.FS) LibraryBuilderOption {
	return func(l *library) {
		l.sources = fsys
	}
}

// WithStopOnFirstFailure makes Build stop at the first variant that fails and record ErrSkipped
// for every later variant. By default each variant is built regardless of earlier failures.
//
// Parameters:
//   - stop: true to stop on the first failure
//
// Returns:
//   - LibraryBuilderOption: a function that sets the failure policy of a library
func WithStopOnFirstFailure(stop bool) LibraryBuilderOption {
	return func(l *library) {
		l.stopOnFirstFailure = stop
	}
}

// WithPipelineOptions applies extra options to every Pipeline the library creates.
//
// Parameters:
//   - opts: the options, e.g. WithCullMode(wgpu.CullModeBack)
//
// Returns:
//   - LibraryBuilderOption: a function that sets the pipeline options of a library
func WithPipelineOptions(opts ...PipelineBuilderOption) LibraryBuilderOption {
	return func(l *library) {
		l.pipelineOptions = append(l.pipelineOptions, opts...)
	}
}

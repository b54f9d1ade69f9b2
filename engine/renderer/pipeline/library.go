package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
)

// Registrar turns Pipelines into backend program objects. It is implemented by the renderer;
// calls must be made while the rendering context is current.
type Registrar interface {
	// Language returns the shading language the backend compiles.
	Language() shader.Language

	// RegisterPipeline compiles and links the pipeline's shaders and stores the program on it.
	// Compile failures are *shader.CompileError and link failures are *LinkError.
	RegisterPipeline(p Pipeline) error

	// ReleasePipeline deletes the pipeline's program object. It is safe to call twice.
	ReleasePipeline(p Pipeline)
}

// library is the implementation of the Library interface.
type library struct {
	mu   sync.RWMutex
	once sync.Once

	sources            fs.FS
	stopOnFirstFailure bool
	pipelineOptions    []PipelineBuilderOption

	built     bool
	released  bool
	pipelines map[ShadingVariant]Pipeline
	results   map[ShadingVariant]error
}

// Library holds one program per ShadingVariant for a rendering context. The programs are built
// once, on the first call to Build, and every later Build call returns the recorded results.
// Each variant is built independently unless WithStopOnFirstFailure is set.
type Library interface {
	// Build compiles and links every variant in order through the registrar. Only the first call
	// does any work.
	//
	// Parameters:
	//   - r: the registrar of the current rendering context
	//
	// Returns:
	//   - map[ShadingVariant]error: the result of each variant, nil on success
	Build(r Registrar) map[ShadingVariant]error

	// Built reports whether Build has run.
	//
	// Returns:
	//   - bool: true once Build has been called
	Built() bool

	// Pipeline returns the program of a variant.
	//
	// Parameters:
	//   - v: the variant
	//
	// Returns:
	//   - Pipeline: the registered pipeline
	//   - error: ErrVariantUnavailable, wrapping the build failure if there was one
	Pipeline(v ShadingVariant) (Pipeline, error)

	// Result returns the recorded build result of a variant, nil on success or before Build.
	//
	// Parameters:
	//   - v: the variant
	//
	// Returns:
	//   - error: the build failure
	Result(v ShadingVariant) error

	// Results returns a copy of every recorded build result.
	//
	// Returns:
	//   - map[ShadingVariant]error: the result of each variant built so far
	Results() map[ShadingVariant]error

	// Err joins every variant failure into one error, or returns nil if all variants built.
	//
	// Returns:
	//   - error: the joined failures
	Err() error

	// Release deletes every program through the registrar. The library cannot be rebuilt.
	//
	// Parameters:
	//   - r: the registrar the programs were built with
	Release(r Registrar)
}

var _ Library = &library{}

// NewLibrary creates an unbuilt Library that reads the built-in shader sources.
//
// Parameters:
//   - options: a variadic list of LibraryBuilderOption functions
//
// Returns:
//   - Library: the new library
func NewLibrary(options ...LibraryBuilderOption) Library {
	l := &library{
		sources:   shader.Assets,
		pipelines: make(map[ShadingVariant]Pipeline, VariantCount),
		results:   make(map[ShadingVariant]error, VariantCount),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *library) Build(r Registrar) map[ShadingVariant]error {
	l.once.Do(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.build(r)
		l.built = true
	})
	return l.Results()
}

func (l *library) build(r Registrar) {
	language := r.Language()
	failed := false
	for _, v := range Variants {
		if failed && l.stopOnFirstFailure {
			l.results[v] = ErrSkipped
			log.Warnf("shading variant %s: %v", v, ErrSkipped)
			continue
		}

		p, err := l.buildVariant(r, language, v)
		l.results[v] = err
		if err != nil {
			failed = true
			log.Errf("shading variant %s: %v", v, err)
			continue
		}
		l.pipelines[v] = p
		log.Debugf("shading variant %s ready", v)
	}
}

// buildVariant reads, pre-processes and registers the two stages of one variant.
func (l *library) buildVariant(r Registrar, language shader.Language, v ShadingVariant) (Pipeline, error) {
	name := v.String()
	vert, err := shader.NewShaderFromFS(name+"_vs", shader.ShaderTypeVertex, language, l.sources,
		shader.SourcePath(language, name, shader.ShaderTypeVertex))
	if err != nil {
		return nil, err
	}
	frag, err := shader.NewShaderFromFS(name+"_fs", shader.ShaderTypeFragment, language, l.sources,
		shader.SourcePath(language, name, shader.ShaderTypeFragment))
	if err != nil {
		return nil, err
	}

	opts := append([]PipelineBuilderOption{WithVertexShader(vert), WithFragmentShader(frag)}, l.pipelineOptions...)
	p := NewPipeline(name, opts...)
	if err := r.RegisterPipeline(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *library) Built() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.built
}

func (l *library) Pipeline(v ShadingVariant) (Pipeline, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: index %d out of range", ErrVariantUnavailable, int(v))
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	switch {
	case !l.built:
		return nil, fmt.Errorf("%w: %s: shaders not built", ErrVariantUnavailable, v)
	case l.released:
		return nil, fmt.Errorf("%w: %s: shaders released", ErrVariantUnavailable, v)
	case l.results[v] != nil:
		return nil, fmt.Errorf("%w: %s: %w", ErrVariantUnavailable, v, l.results[v])
	}
	return l.pipelines[v], nil
}

func (l *library) Result(v ShadingVariant) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.results[v]
}

func (l *library) Results() map[ShadingVariant]error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[ShadingVariant]error, len(l.results))
	for v, err := range l.results {
		out[v] = err
	}
	return out
}

func (l *library) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var errs []error
	for _, v := range Variants {
		if err := l.results[v]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", v, err))
		}
	}
	return errors.Join(errs...)
}

func (l *library) Release(r Registrar) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, v := range Variants {
		if p, ok := l.pipelines[v]; ok {
			r.ReleasePipeline(p)
		}
	}
	clear(l.pipelines)
	l.released = true
}

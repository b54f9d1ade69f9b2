// pre_processor.go implements the Oxy shader pre-processor. It scans shader source for
// @oxy: annotations, replaces include annotations with the shared chunk for the source's
// language, expands WGSL group annotations into binding declarations, and collects the
// declared bindings for the backend.
package shader

import (
	"fmt"
	"strings"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	language Language

	// declarations accumulates group annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw shader source containing @oxy: annotations.
type PreProcessor interface {
	// Process replaces every annotation in source with its generated output. Each chunk is
	// injected at most once per source; repeated includes of the same chunk are dropped.
	// The declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw shader source
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error if any annotation is malformed or not valid for the language
	Process(source string) (string, error)

	// Declarations returns the group annotations collected during the most recent Process
	// call, in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor for sources written in the given language.
//
// Parameters:
//   - language: the language whose chunks are injected
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(language Language) PreProcessor {
	return &preProcessor{language: language}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			chunk, ok := includeSource(p.language, a.Args[0])
			if !ok {
				return "", fmt.Errorf("line %d: chunk %q has no %s source", a.Line, a.Args[0], p.language)
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(chunk, "\n"))
		case AnnotationTypeBindingGroup:
			if p.language != LanguageWGSL {
				return "", fmt.Errorf("line %d: @oxy group annotation is only valid in WGSL", a.Line)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, addressSpaces[a.Args[0]], a.Args[1], bindableTypes[a.Args[2]]))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// FaceValidation controls how the OFF parser treats the per-face vertex count.
type FaceValidation int

const (
	// FaceValidationStrict rejects faces that do not declare exactly 3 vertices.
	FaceValidationStrict FaceValidation = iota

	// FaceValidationIgnore reads the declared count and always consumes 3 indices.
	FaceValidationIgnore
)

func (f FaceValidation) String() string {
	switch f {
	case FaceValidationStrict:
		return "strict"
	case FaceValidationIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("FaceValidation(%d)", int(f))
	}
}

// ParseFaceValidation maps a configuration name to a FaceValidation.
//
// Parameters:
//   - name: "strict" or "ignore"
//
// Returns:
//   - FaceValidation: the parsed policy
//   - error: error if the name is unknown
func ParseFaceValidation(name string) (FaceValidation, error) {
	switch strings.ToLower(name) {
	case "", "strict":
		return FaceValidationStrict, nil
	case "ignore":
		return FaceValidationIgnore, nil
	default:
		return FaceValidationStrict, fmt.Errorf("unknown face validation %q", name)
	}
}

// offTokenizer yields whitespace-delimited tokens and tracks the current line.
// Everything from a '#' to the end of its line is skipped. Lines have no length limit.
type offTokenizer struct {
	reader *bufio.Reader
	fields []string
	line   int
	eof    bool
}

func newOFFTokenizer(r io.Reader) *offTokenizer {
	return &offTokenizer{reader: bufio.NewReaderSize(r, 64*1024)}
}

// next returns the next token, or io.ErrUnexpectedEOF when the input is exhausted.
func (t *offTokenizer) next() (string, error) {
	for len(t.fields) == 0 {
		if t.eof {
			return "", io.ErrUnexpectedEOF
		}
		text, err := t.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			t.eof = true
			if text == "" {
				continue
			}
		}
		t.line++
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		t.fields = strings.Fields(text)
	}
	tok := t.fields[0]
	t.fields = t.fields[1:]
	return tok, nil
}

func (t *offTokenizer) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", ErrMalformedToken, tok)
	}
	return v, nil
}

func (t *offTokenizer) nextFloat() (float32, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedToken, tok)
	}
	return float32(v), nil
}

// maxPrealloc bounds the element count reserved up front from the header.
const maxPrealloc = 1 << 16

// offParser reads the OFF text format into an ImportedMesh.
type offParser struct {
	faceValidation FaceValidation
	boundsMode     mesh.BoundsMode
}

// parse reads a complete OFF document from r. Any failure is returned as an *IOError carrying
// the name and the line the tokenizer had reached.
//
// Parameters:
//   - name: the path or stream name used in errors and as the mesh name
//   - r: the reader providing OFF text
//
// Returns:
//   - *mesh.ImportedMesh: the parsed geometry and its tracked bounds
//   - error: *IOError if the input is malformed or truncated
func (p *offParser) parse(name string, r io.Reader) (*mesh.ImportedMesh, error) {
	t := newOFFTokenizer(r)
	fail := func(err error) (*mesh.ImportedMesh, error) {
		return nil, &IOError{Path: name, Line: t.line, Err: err}
	}

	// The header keyword is read but not enforced.
	if _, err := t.next(); err != nil {
		return fail(err)
	}

	vertexCount, err := t.nextInt()
	if err != nil {
		return fail(err)
	}
	faceCount, err := t.nextInt()
	if err != nil {
		return fail(err)
	}
	if _, err := t.nextInt(); err != nil {
		return fail(err)
	}

	// Header counts are untrusted: preallocation is capped and a short file ends in
	// io.ErrUnexpectedEOF.
	tracker := mesh.NewBoundsTracker(p.boundsMode)
	positions := make([]mgl32.Vec4, 0, min(vertexCount, maxPrealloc))
	for range vertexCount {
		var xyz mgl32.Vec3
		for axis := range 3 {
			if xyz[axis], err = t.nextFloat(); err != nil {
				return fail(err)
			}
		}
		tracker.Add(xyz)
		positions = append(positions, xyz.Vec4(1))
	}

	indices := make([]uint32, 0, 3*min(faceCount, maxPrealloc))
	for f := range faceCount {
		n, err := t.nextInt()
		if err != nil {
			return fail(err)
		}
		if n != 3 && p.faceValidation == FaceValidationStrict {
			return fail(fmt.Errorf("%w: face %d declares %d vertices", ErrNonTriangularFace, f, n))
		}
		for range 3 {
			idx, err := t.nextInt()
			if err != nil {
				return fail(err)
			}
			if idx >= vertexCount {
				return fail(fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndexOutOfRange, f, idx, vertexCount))
			}
			indices = append(indices, uint32(idx))
		}
	}

	return &mesh.ImportedMesh{
		Name:        name,
		VertexCount: vertexCount,
		FaceCount:   faceCount,
		Positions:   positions,
		Indices:     indices,
		Bounds:      tracker.Bounds(),
	}, nil
}

package mesh

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// BoundsMode selects how a BoundsTracker updates the running minimum corner.
type BoundsMode int

const (
	// BoundsModeCorrected compares each coordinate against the running minimum. This is the default.
	BoundsModeCorrected BoundsMode = iota

	// BoundsModeLegacy compares each coordinate against the running maximum when updating the
	// minimum corner, matching files framed by older releases of the viewer. The resulting box
	// is usually wrong; use it only to reproduce old framing.
	BoundsModeLegacy
)

// String returns the config name of the bounds mode.
func (m BoundsMode) String() string {
	switch m {
	case BoundsModeLegacy:
		return "legacy"
	default:
		return "corrected"
	}
}

// Bounds is an axis-aligned bounding box in object space.
type Bounds struct {
	// Min is the minimum corner.
	Min mgl32.Vec3

	// Max is the maximum corner.
	Max mgl32.Vec3
}

// Center returns the midpoint of the min and max corners.
//
// Returns:
//   - mgl32.Vec3: the box center
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the length of the box diagonal.
//
// Returns:
//   - float32: |max - min|
func (b Bounds) Diagonal() float32 {
	return b.Max.Sub(b.Min).Len()
}

// Scale returns the uniform factor that maps the box diagonal to length 2, so the mesh fits
// the canonical [-1, 1] viewing volume. A zero-length diagonal (every vertex at one point)
// returns 1 instead of dividing by zero.
//
// Returns:
//   - float32: 2 / diagonal, or 1 for a degenerate box
func (b Bounds) Scale() float32 {
	d := b.Diagonal()
	if d == 0 {
		return 1
	}
	return 2 / d
}

// ModelMatrix returns the normalizing transform Scale(scale) * Translate(-center).
// Applied to object-space points it centers the mesh at the origin first, then scales it.
//
// Returns:
//   - mgl32.Mat4: the model matrix
func (b Bounds) ModelMatrix() mgl32.Mat4 {
	c := b.Center()
	s := b.Scale()
	return mgl32.Scale3D(s, s, s).Mul4(mgl32.Translate3D(-c[0], -c[1], -c[2]))
}

// BoundsTracker accumulates the min and max corners of a stream of points.
type BoundsTracker struct {
	mode  BoundsMode
	min   mgl32.Vec3
	max   mgl32.Vec3
	count int
}

// NewBoundsTracker creates a tracker with an empty box.
//
// Parameters:
//   - mode: how the minimum corner is updated
//
// Returns:
//   - *BoundsTracker: the tracker
func NewBoundsTracker(mode BoundsMode) *BoundsTracker {
	inf := float32(math.Inf(1))
	return &BoundsTracker{
		mode: mode,
		min:  mgl32.Vec3{inf, inf, inf},
		max:  mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Add extends the box with one point.
//
// Parameters:
//   - p: the point to include
func (t *BoundsTracker) Add(p mgl32.Vec3) {
	for axis := range 3 {
		v := p[axis]
		t.max[axis] = max(t.max[axis], v)
		switch t.mode {
		case BoundsModeLegacy:
			t.min[axis] = min(t.max[axis], v)
		default:
			t.min[axis] = min(t.min[axis], v)
		}
	}
	t.count++
}

// Count returns the number of points added so far.
func (t *BoundsTracker) Count() int {
	return t.count
}

// Bounds returns the accumulated box. An empty tracker returns the zero box.
//
// Returns:
//   - Bounds: the min and max corners
func (t *BoundsTracker) Bounds() Bounds {
	if t.count == 0 {
		return Bounds{}
	}
	return Bounds{Min: t.min, Max: t.max}
}

// ComputeBounds returns the bounds of a set of homogeneous positions, ignoring w.
//
// Parameters:
//   - positions: the vertex positions
//   - mode: how the minimum corner is updated
//
// Returns:
//   - Bounds: the bounding box
func ComputeBounds(positions []mgl32.Vec4, mode BoundsMode) Bounds {
	t := NewBoundsTracker(mode)
	for _, p := range positions {
		t.Add(p.Vec3())
	}
	return t.Bounds()
}

// ParseBoundsMode maps a configuration name to a BoundsMode.
//
// Parameters:
//   - name: "corrected" or "legacy"
//
// Returns:
//   - BoundsMode: the parsed mode
//   - error: error if the name is unknown
func ParseBoundsMode(name string) (BoundsMode, error) {
	switch strings.ToLower(name) {
	case "", "corrected":
		return BoundsModeCorrected, nil
	case "legacy":
		return BoundsModeLegacy, nil
	default:
		return BoundsModeCorrected, fmt.Errorf("unknown bounds mode %q", name)
	}
}

package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func cubeCorners() []mgl32.Vec4 {
	var corners []mgl32.Vec4
	for _, x := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, z := range []float32{-1, 1} {
				corners = append(corners, mgl32.Vec4{x, y, z, 1})
			}
		}
	}
	return corners
}

func TestComputeBoundsCube(t *testing.T) {
	b := ComputeBounds(cubeCorners(), BoundsModeCorrected)

	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, b.Max)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, b.Center())
	assert.InDelta(t, 2/(2*math.Sqrt(3)), float64(b.Scale()), 1e-6)
}

func TestBoundsTrackerModes(t *testing.T) {
	points := []mgl32.Vec3{
		{1, 2, 3},
		{-1, -2, -3},
		{0, 0, 0},
	}

	tests := []struct {
		name    string
		mode    BoundsMode
		wantMin mgl32.Vec3
		wantMax mgl32.Vec3
	}{
		{"corrected", BoundsModeCorrected, mgl32.Vec3{-1, -2, -3}, mgl32.Vec3{1, 2, 3}},
		// the legacy minimum only ever looks at the running max and the latest point
		{"legacy", BoundsModeLegacy, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewBoundsTracker(tt.mode)
			for _, p := range points {
				tr.Add(p)
			}
			b := tr.Bounds()
			assert.Equal(t, tt.wantMin, b.Min)
			assert.Equal(t, tt.wantMax, b.Max)
			assert.Equal(t, 3, tr.Count())
		})
	}
}

func TestBoundsDegenerate(t *testing.T) {
	b := ComputeBounds([]mgl32.Vec4{{2, 2, 2, 1}, {2, 2, 2, 1}}, BoundsModeCorrected)

	assert.Zero(t, b.Diagonal())
	assert.Equal(t, float32(1), b.Scale())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, b.Center())
}

func TestBoundsEmpty(t *testing.T) {
	b := NewBoundsTracker(BoundsModeCorrected).Bounds()
	assert.Equal(t, Bounds{}, b)
}

func TestBoundsModelMatrix(t *testing.T) {
	b := Bounds{Min: mgl32.Vec3{1, 1, 1}, Max: mgl32.Vec3{3, 3, 3}}
	m := b.ModelMatrix()

	// the max corner lands on the unit-diagonal sphere, centered at the origin
	got := m.Mul4x1(mgl32.Vec4{3, 3, 3, 1})
	s := float32(2 / (2 * math.Sqrt(3)))
	assert.True(t, mgl32.Vec4{s, s, s, 1}.ApproxEqualThreshold(got, 1e-5), "got %v", got)

	center := m.Mul4x1(mgl32.Vec4{2, 2, 2, 1})
	assert.True(t, mgl32.Vec4{0, 0, 0, 1}.ApproxEqualThreshold(center, 1e-6), "got %v", center)
}

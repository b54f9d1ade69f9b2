package pipeline

import (
	"fmt"
	"strings"
)

// ShadingVariant identifies one of the fixed shading programs. The numeric values are the
// indices exposed to callers and the order in which programs are built.
type ShadingVariant int

const (
	// VariantConstant shades every fragment with the unlit material color.
	VariantConstant ShadingVariant = iota

	// VariantFlat lights each face once using its geometric normal.
	VariantFlat

	// VariantGouraud lights each vertex and interpolates the color.
	VariantGouraud

	// VariantPhong interpolates the normal and lights each fragment.
	VariantPhong

	// VariantNormals maps the interpolated normal to a color.
	VariantNormals
)

// VariantCount is the number of shading variants.
const VariantCount = 5

// Variants lists every shading variant in build order.
var Variants = []ShadingVariant{VariantConstant, VariantFlat, VariantGouraud, VariantPhong, VariantNormals}

var variantNames = [VariantCount]string{"constant", "flat", "gouraud", "phong", "normals"}

// String returns the variant's name, which is also the base name of its shader sources.
func (v ShadingVariant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("ShadingVariant(%d)", int(v))
	}
	return variantNames[v]
}

// Valid reports whether v is one of the defined variants.
func (v ShadingVariant) Valid() bool {
	return v >= 0 && int(v) < VariantCount
}

// ParseShadingVariant maps a variant name (case-insensitive) or its index to a ShadingVariant.
//
// Parameters:
//   - s: a name such as "phong", or an index such as "3"
//
// Returns:
//   - ShadingVariant: the parsed variant
//   - error: error if s names no variant
func ParseShadingVariant(s string) (ShadingVariant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range variantNames {
		if n == name || fmt.Sprint(i) == name {
			return ShadingVariant(i), nil
		}
	}
	return VariantConstant, fmt.Errorf("unknown shading variant %q", s)
}

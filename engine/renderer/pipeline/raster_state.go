package pipeline

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ParseCullMode maps "none", "front" or "back" to a cull mode.
func ParseCullMode(name string) (wgpu.CullMode, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return wgpu.CullModeNone, nil
	case "front":
		return wgpu.CullModeFront, nil
	case "back":
		return wgpu.CullModeBack, nil
	default:
		return wgpu.CullModeNone, fmt.Errorf("unknown cull mode %q", name)
	}
}

// ParseFrontFace maps "ccw" or "cw" to a winding order.
func ParseFrontFace(name string) (wgpu.FrontFace, error) {
	switch strings.ToLower(name) {
	case "", "ccw":
		return wgpu.FrontFaceCCW, nil
	case "cw":
		return wgpu.FrontFaceCW, nil
	default:
		return wgpu.FrontFaceCCW, fmt.Errorf("unknown front face %q", name)
	}
}

// ParseWriteMask maps a set of channel letters such as "rgba" or "rgb" to a color write mask.
// An empty string disables color writes.
func ParseWriteMask(channels string) (wgpu.ColorWriteMask, error) {
	var mask wgpu.ColorWriteMask
	for _, c := range strings.ToLower(channels) {
		switch c {
		case 'r':
			mask |= wgpu.ColorWriteMaskRed
		case 'g':
			mask |= wgpu.ColorWriteMaskGreen
		case 'b':
			mask |= wgpu.ColorWriteMaskBlue
		case 'a':
			mask |= wgpu.ColorWriteMaskAlpha
		default:
			return wgpu.ColorWriteMaskNone, fmt.Errorf("unknown color channel %q in write mask %q", c, channels)
		}
	}
	return mask, nil
}

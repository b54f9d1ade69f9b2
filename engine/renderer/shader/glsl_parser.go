package shader

import (
	"regexp"
	"strconv"
)

var (
	// glslVersionRegex captures the number of a #version directive
	glslVersionRegex = regexp.MustCompile(`(?m)^\s*#version\s+(\d+)`)

	// glslAttributeRegex captures location, type and name of layout(location = N) in declarations
	glslAttributeRegex = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+(\w+)\s+(\w+)\s*;`)

	// glslUniformRegex captures type and name of default-block uniform declarations
	glslUniformRegex = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*;`)

	// glslMainRegex matches the main entry point
	glslMainRegex = regexp.MustCompile(`\bvoid\s+main\s*\(`)
)

// glslAttribute is a vertex input declared with an explicit location.
type glslAttribute struct {
	Location int
	Type     string
}

// parseGLSLVersion returns the #version number, or 0 if the source has none.
func parseGLSLVersion(source string) int {
	match := glslVersionRegex.FindStringSubmatch(source)
	if match == nil {
		return 0
	}
	v, _ := strconv.Atoi(match[1])
	return v
}

// parseGLSLAttributes extracts the explicitly located vertex inputs of a GLSL vertex shader.
//
// Parameters:
//   - source: the pre-processed GLSL source
//
// Returns:
//   - map[string]glslAttribute: attributes keyed by name
func parseGLSLAttributes(source string) map[string]glslAttribute {
	result := make(map[string]glslAttribute)
	for _, match := range glslAttributeRegex.FindAllStringSubmatch(stripComments(source), -1) {
		loc, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		result[match[3]] = glslAttribute{Location: loc, Type: match[2]}
	}
	return result
}

// parseGLSLUniforms lists the default-block uniforms in declaration order.
//
// Parameters:
//   - source: the pre-processed GLSL source
//
// Returns:
//   - []string: the uniform names
//   - map[string]string: the uniform types keyed by name
func parseGLSLUniforms(source string) ([]string, map[string]string) {
	var names []string
	types := make(map[string]string)
	for _, match := range glslUniformRegex.FindAllStringSubmatch(stripComments(source), -1) {
		if _, seen := types[match[2]]; seen {
			continue
		}
		names = append(names, match[2])
		types[match[2]] = match[1]
	}
	return names, types
}

// parseGLSLEntryPoint returns "main" when the source defines it. GLSL has no other entry points.
func parseGLSLEntryPoint(source string) string {
	if glslMainRegex.MatchString(stripComments(source)) {
		return "main"
	}
	return ""
}

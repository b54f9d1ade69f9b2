package shader

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed assets
var embedded embed.FS

// Assets holds the built-in shader sources, laid out as glsl/<name>.vert, glsl/<name>.frag,
// wgsl/<name>_vs.wgsl and wgsl/<name>_fs.wgsl, with shared chunks under <language>/include.
var Assets fs.FS = mustSub(embedded, "assets")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// SourcePath returns the path of a named shader stage inside Assets (or any file system laid
// out the same way).
//
// Parameters:
//   - language: the shading language
//   - name: the program name, e.g. "phong"
//   - shaderType: the stage
//
// Returns:
//   - string: the slash-separated path
func SourcePath(language Language, name string, shaderType ShaderType) string {
	switch language {
	case LanguageWGSL:
		if shaderType == ShaderTypeVertex {
			return path.Join("wgsl", name+"_vs.wgsl")
		}
		return path.Join("wgsl", name+"_fs.wgsl")
	default:
		if shaderType == ShaderTypeVertex {
			return path.Join("glsl", name+".vert")
		}
		return path.Join("glsl", name+".frag")
	}
}

// includeSource reads a shared chunk for the pre-processor.
func includeSource(language Language, arg AnnotationArg) (string, bool) {
	var p string
	switch language {
	case LanguageWGSL:
		p = path.Join("wgsl", "include", string(arg)+".wgsl")
	default:
		p = path.Join("glsl", "include", string(arg)+".glsl")
	}
	data, err := fs.ReadFile(Assets, p)
	if err != nil {
		return "", false
	}
	return string(data), true
}

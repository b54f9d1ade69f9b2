package loader

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

// Report summarizes one parsed mesh file.
type Report struct {
	Path        string
	VertexCount int
	FaceCount   int
	Bounds      mesh.Bounds
	Center      mgl32.Vec3
	Scale       float32

	// Err is set when the file could not be parsed; the other fields are then zero.
	Err error
}

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Path, r.Err)
	}
	return fmt.Sprintf("%s: Vertices: %d, Faces: %d, min %v, max %v, center %v, scale %g",
		r.Path, r.VertexCount, r.FaceCount, r.Bounds.Min, r.Bounds.Max, r.Center, r.Scale)
}

// InspectFiles parses every path on a worker pool and reports counts and framing for each.
// Normals are not computed and nothing is uploaded. Reports are returned in input order.
//
// Parameters:
//   - paths: the mesh files to inspect
//   - workers: the maximum number of concurrent parses; values below 1 mean 1
//   - options: LoaderBuilderOption functions applied to the loader used by every worker
//
// Returns:
//   - []Report: one report per path
func InspectFiles(paths []string, workers int, options ...LoaderBuilderOption) []Report {
	reports := make([]Report, len(paths))
	if len(paths) == 0 {
		return reports
	}
	if workers < 1 {
		workers = 1
	}

	l := NewLoader(BackendTypeOFF, options...)
	pool := worker.NewDynamicWorkerPool(min(workers, len(paths)), len(paths), 1*time.Second)

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				reports[i] = inspect(l, path)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return reports
}

func inspect(l Loader, path string) Report {
	imported, err := l.Parse(path)
	if err != nil {
		return Report{Path: path, Err: err}
	}
	return Report{
		Path:        path,
		VertexCount: imported.VertexCount,
		FaceCount:   imported.FaceCount,
		Bounds:      imported.Bounds,
		Center:      imported.Bounds.Center(),
		Scale:       imported.Bounds.Scale(),
	}
}

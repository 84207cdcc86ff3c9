package render

import (
	"math/rand"
	"runtime"
	"sync"

	rmath "github.com/mertwole/pathtracer/math"
	"github.com/mertwole/pathtracer/scenegraph"
)

// tileSize is the side length of one dispatch unit, hardcoded to
// match the source's CPURenderer workgroup_size.
const tileSize = 32

// Config carries the per-task trace depth and iteration count
// (spec.md §5.1), the Go form of the source's api::render_task::Config.
type Config struct {
	TraceDepth int `json:"trace_depth"`
	Iterations int `json:"iterations"`
}

// Render accumulates Config.Iterations samples per pixel over the
// scene as seen by camera, splitting the frame into tiles and
// distributing them across a fixed pool of worker goroutines sized to
// the host's CPU count (grounded on CPURenderer's
// ThreadPool::new(num_cpus::get())). Each iteration round is a
// barrier: every tile finishes before the next round starts, mirroring
// the channel send/recv round-trip in CPURenderer::iterations.
func Render(scene *scenegraph.Scene, camera *Camera, config Config) []rmath.Color {
	cols, _, tiles := divideIntoTiles(camera.Resolution, tileSize)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	rngs := make([]*rand.Rand, workers)
	for w := range rngs {
		rngs[w] = rand.New(rand.NewSource(int64(w) + 1))
	}

	for iter := 0; iter < config.Iterations; iter++ {
		jobs := make(chan *tile)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(rng *rand.Rand) {
				defer wg.Done()
				for t := range jobs {
					renderTileIteration(scene, camera, config.TraceDepth, t, rng)
				}
			}(rngs[w])
		}
		for _, t := range tiles {
			jobs <- t
		}
		close(jobs)
		wg.Wait()
	}

	return assembleImage(camera.Resolution, tileSize, cols, tiles)
}

func renderTileIteration(scene *scenegraph.Scene, camera *Camera, traceDepth int, t *tile, rng *rand.Rand) {
	for x := 0; x < t.width; x++ {
		for y := 0; y < t.height; y++ {
			ray := camera.GetRay(t.xOffset+x, t.yOffset+y, rng)
			color := trace(scene, ray, traceDepth, rng)
			t.addPixel(x, y, color)
		}
	}
	t.iterations++
}

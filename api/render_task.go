// Package api holds the wire types shared between the control plane
// and the worker: the render task a client submits and the worker
// consumes off the queue. Grounded on the source's
// worker/src/api/render_task.rs.
package api

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mertwole/pathtracer/render"
)

// RenderTaskRequest is what a client submits: a scene path plus
// render configuration, before the scene's content hash is known.
type RenderTaskRequest struct {
	Scene  string        `json:"scene"`
	Config render.Config `json:"config"`
	Camera render.Camera `json:"camera"`
}

// Resolve attaches the scene's content hash, producing the RenderTask
// that actually goes on the queue — the Go form of
// RenderTaskUninit::init.
func (r RenderTaskRequest) Resolve(sceneHash string) RenderTask {
	return RenderTask{
		Scene:     r.Scene,
		SceneHash: sceneHash,
		Config:    r.Config,
		Camera:    r.Camera,
	}
}

// RenderTask is one fully-specified unit of render work. ID is the
// message's sequential position within its parent task's breakup
// (0..N-1 for an N-iteration task) and doubles as the iteration's
// blob name in the render store.
type RenderTask struct {
	ID        int           `json:"id"`
	Scene     string        `json:"scene"`
	SceneHash string        `json:"scene_md5"`
	Config    render.Config `json:"config"`
	Camera    render.Camera `json:"camera"`
}

// Hash identifies this exact task (scene + scene hash + config +
// camera) so every worker that renders it, and the render store
// bucket it deposits into, agree on the same name. Grounded on
// RenderTask::md5, substituting MD5 of the JSON-serialized fields
// for the source's direct string concatenation.
func (t RenderTask) Hash() (string, error) {
	configJSON, err := json.Marshal(t.Config)
	if err != nil {
		return "", fmt.Errorf("api: marshaling config for task hash: %w", err)
	}
	cameraJSON, err := json.Marshal(t.Camera)
	if err != nil {
		return "", fmt.Errorf("api: marshaling camera for task hash: %w", err)
	}

	sum := md5.Sum([]byte(t.Scene + t.SceneHash + string(configJSON) + string(cameraJSON)))
	return hex.EncodeToString(sum[:]), nil
}

// Breakup splits an N-iteration task into N single-iteration tasks,
// the unit of work a single queue message carries — the Go form of
// the rest_api BreakupRenderTask trait. Each piece gets a distinct
// sequential ID (0..N-1), which the worker uses as the iteration's
// blob name when it deposits its render; the client-facing average
// then combines every blob in the task's bucket.
func (t RenderTask) Breakup() []RenderTask {
	tasks := make([]RenderTask, t.Config.Iterations)
	for i := range tasks {
		single := t
		single.Config.Iterations = 1
		single.ID = i
		tasks[i] = single
	}
	return tasks
}

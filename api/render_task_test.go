package api

import (
	"testing"

	"github.com/mertwole/pathtracer/render"
)

func sampleTask() RenderTask {
	return RenderTask{
		Scene:     "scenes/cornell_box.json",
		SceneHash: "abc123",
		Config:    render.Config{TraceDepth: 8, Iterations: 100},
		Camera: render.Camera{
			Resolution: render.Resolution{Width: 640, Height: 480},
			FOV:        1.2,
			FocalLen:   1.0,
			NearPlane:  0.1,
			BokehShape: render.BokehPoint,
		},
	}
}

func TestHashIsStableAndConfigSensitive(t *testing.T) {
	a := sampleTask()
	b := sampleTask()

	hashA, err := a.Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hashB, err := b.Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashA != hashB {
		t.Errorf("expected identical tasks to hash identically, got %q and %q", hashA, hashB)
	}

	c := sampleTask()
	c.Config.Iterations = 200
	hashC, err := c.Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashA == hashC {
		t.Errorf("expected a different iteration count to change the task hash")
	}
}

func TestBreakupProducesSingleIterationTasks(t *testing.T) {
	task := sampleTask()
	pieces := task.Breakup()

	if len(pieces) != task.Config.Iterations {
		t.Fatalf("expected %d pieces, got %d", task.Config.Iterations, len(pieces))
	}
	for _, piece := range pieces {
		if piece.Config.Iterations != 1 {
			t.Errorf("expected each piece to render exactly 1 iteration, got %d", piece.Config.Iterations)
		}
		if piece.Scene != task.Scene || piece.SceneHash != task.SceneHash {
			t.Errorf("expected scene identity to be preserved across breakup")
		}
	}
}

// TestBreakupAssignsSequentialIDs covers scenario 5: an
// iterations=7 task must break up into ids 0..6, one per message.
func TestBreakupAssignsSequentialIDs(t *testing.T) {
	task := sampleTask()
	task.Config.Iterations = 7

	pieces := task.Breakup()
	if len(pieces) != 7 {
		t.Fatalf("expected 7 pieces, got %d", len(pieces))
	}
	for i, piece := range pieces {
		if piece.ID != i {
			t.Errorf("piece %d: expected id %d, got %d", i, i, piece.ID)
		}
	}
}

// TestHashIsIndependentOfID ensures a task's identity (and thus its
// renderstore bucket) doesn't change across its own broken-up pieces
// — every piece must deposit into the same bucket under its own id.
func TestHashIsIndependentOfID(t *testing.T) {
	task := sampleTask()
	task.Config.Iterations = 2
	pieces := task.Breakup()

	hashA, err := pieces[0].Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hashB, err := pieces[1].Hash()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashA != hashB {
		t.Errorf("expected sibling pieces to share a task hash, got %q and %q", hashA, hashB)
	}
}

func TestResolveAttachesSceneHash(t *testing.T) {
	req := RenderTaskRequest{
		Scene:  "scenes/cornell_box.json",
		Config: render.Config{TraceDepth: 4, Iterations: 1},
		Camera: render.Camera{Resolution: render.Resolution{Width: 10, Height: 10}},
	}
	task := req.Resolve("deadbeef")
	if task.SceneHash != "deadbeef" {
		t.Errorf("expected resolved scene hash deadbeef, got %q", task.SceneHash)
	}
}

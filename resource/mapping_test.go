package resource

import "testing"

func TestGetReplacementDedupesByPath(t *testing.T) {
	m := NewMapping()

	first := m.GetReplacement(UninitRef{Type: Mesh, Path: "cube.obj"})
	second := m.GetReplacement(UninitRef{Type: Mesh, Path: "cube.obj"})

	if first.ID != second.ID {
		t.Fatalf("same path got different ids: %d vs %d", first.ID, second.ID)
	}
	if m.Count(Mesh) != 1 {
		t.Fatalf("expected 1 distinct mesh, got %d", m.Count(Mesh))
	}
}

func TestGetReplacementAssignsDenseIDsPerType(t *testing.T) {
	m := NewMapping()

	a := m.GetReplacement(UninitRef{Type: Image, Path: "a.png"})
	b := m.GetReplacement(UninitRef{Type: Image, Path: "b.png"})
	c := m.GetReplacement(UninitRef{Type: Image, Path: "a.png"})

	if a.ID != 0 || b.ID != 1 {
		t.Fatalf("expected dense ids 0,1; got %d,%d", a.ID, b.ID)
	}
	if c.ID != a.ID {
		t.Fatalf("repeat path should reuse id %d, got %d", a.ID, c.ID)
	}

	// A different type's ids are independent of Image's.
	meshRef := m.GetReplacement(UninitRef{Type: Mesh, Path: "a.png"})
	if meshRef.ID != 0 {
		t.Fatalf("first mesh reference should get id 0, got %d", meshRef.ID)
	}
}

// PendingProcessing must return only what's new since the previous
// call, and nothing once every assigned id has been drained — the
// round-termination condition scenegraph.Load relies on.
func TestPendingProcessingReturnsOnlyNewSinceLastCall(t *testing.T) {
	m := NewMapping()

	m.GetReplacement(UninitRef{Type: Mesh, Path: "a.obj"})
	m.GetReplacement(UninitRef{Type: Mesh, Path: "b.obj"})

	first := m.PendingProcessing()
	if len(first) != 2 {
		t.Fatalf("expected 2 pending entries, got %d", len(first))
	}

	if again := m.PendingProcessing(); len(again) != 0 {
		t.Fatalf("expected no pending entries on immediate re-call, got %d", len(again))
	}

	m.GetReplacement(UninitRef{Type: Mesh, Path: "c.obj"})
	third := m.PendingProcessing()
	if len(third) != 1 || third[0].Path != "c.obj" {
		t.Fatalf("expected exactly the newly discovered c.obj, got %+v", third)
	}

	if dry := m.PendingProcessing(); len(dry) != 0 {
		t.Fatalf("expected dry round once every id has been drained, got %d", len(dry))
	}
}

func TestGetReplacementPanicsOnUnknownType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an unregistered resource type")
		}
	}()

	m := &Mapping{collections: make(map[Type]*referenceCollection)}
	m.GetReplacement(UninitRef{Type: Mesh, Path: "x"})
}

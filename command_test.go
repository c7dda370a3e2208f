package engine

import "testing"

func TestCommandBufferSpawnUsableBeforeFlush(t *testing.T) {
	w := NewWorld()
	cmd := w.Commands()

	e := cmd.Spawn(Value(Position{X: 1}))
	if e.IsNil() {
		t.Fatalf("deferred Spawn returned a nil entity")
	}
	if w.IsLive(e) {
		t.Errorf("deferred spawn should not be live in storage before Flush")
	}

	w.Flush()
	if !w.IsLive(e) {
		t.Errorf("expected entity live in storage after Flush")
	}
	if got := (ComponentType[Position]{}).Get(w, e); got == nil || got.X != 1 {
		t.Errorf("Get(Position) after flush = %v, want {1 0}", got)
	}
}

func TestCommandBufferCrossReferenceBeforeFlush(t *testing.T) {
	w := NewWorld()
	cmd := w.Commands()

	parent := cmd.Spawn(Value(Position{}))
	child := cmd.Spawn(Value(Position{}))

	if err := w.SetParent(child, parent); err != nil {
		t.Fatalf("SetParent on pre-flush entities should succeed: %v", err)
	}

	w.Flush()
	if !w.IsLive(parent) || !w.IsLive(child) {
		t.Fatalf("expected both deferred entities live after flush")
	}

	if err := w.Despawn(parent); err != nil {
		t.Fatalf("Despawn() error = %v", err)
	}
	if w.IsLive(child) {
		t.Errorf("expected cascade to despawn the deferred-spawned child")
	}
}

func TestCommandBufferDespawnThenAddLeavesEntityDespawned(t *testing.T) {
	w := NewWorld()
	e, _ := w.Spawn(Value(Position{}))

	cmd := w.Commands()
	cmd.Despawn(e)
	cmd.AddComponents(e, Value(Velocity{}))

	w.Flush()

	if w.IsLive(e) {
		t.Errorf("entity should be despawned after flush")
	}
}

func TestCommandBufferRemoveComponents(t *testing.T) {
	w := NewWorld()
	velID := registerType[Velocity]()
	e, _ := w.Spawn(Value(Position{}), Value(Velocity{}))

	cmd := w.Commands()
	cmd.RemoveComponents(e, velID)
	w.Flush()

	if (ComponentType[Velocity]{}).Has(w, e) {
		t.Errorf("expected Velocity removed after flush")
	}
}

package engine

import "testing"

func TestWorldSpawnAndGet(t *testing.T) {
	w := NewWorld()
	position := Register[Position](w)

	e, err := w.Spawn(Value(Position{X: 1, Y: 2}))
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if !w.IsLive(e) {
		t.Fatalf("spawned entity reported not live")
	}

	got := position.Get(w, e)
	if got == nil || got.X != 1 || got.Y != 2 {
		t.Errorf("Get() = %v, want {1 2}", got)
	}
}

func TestWorldAddComponentsMigratesArchetype(t *testing.T) {
	w := NewWorld()
	position := Register[Position](w)
	velocity := Register[Velocity](w)

	e, _ := w.Spawn(Value(Position{X: 1}))
	if err := w.AddComponents(e, Value(Velocity{X: 9})); err != nil {
		t.Fatalf("AddComponents() error = %v", err)
	}

	if !position.Has(w, e) {
		t.Errorf("expected Position to survive migration")
	}
	if v := velocity.Get(w, e); v == nil || v.X != 9 {
		t.Errorf("Get(Velocity) = %v, want {9 0}", v)
	}
}

func TestWorldAddComponentsExistingTypeErrors(t *testing.T) {
	w := NewWorld()
	e, _ := w.Spawn(Value(Position{}))
	if err := w.AddComponents(e, Value(Position{})); err == nil {
		t.Errorf("expected ComponentExistsError, got nil")
	}
}

func TestWorldRemoveComponentsNoopOnAbsent(t *testing.T) {
	w := NewWorld()
	velID := registerType[Velocity]()
	e, _ := w.Spawn(Value(Position{}))

	if err := w.RemoveComponents(e, velID); err != nil {
		t.Errorf("RemoveComponents on an absent type should be a no-op, got error: %v", err)
	}
}

func TestWorldRemoveComponentsMigrates(t *testing.T) {
	w := NewWorld()
	position := Register[Position](w)
	velID := registerType[Velocity]()

	e, _ := w.Spawn(Value(Position{X: 1}), Value(Velocity{X: 2}))
	if err := w.RemoveComponents(e, velID); err != nil {
		t.Fatalf("RemoveComponents() error = %v", err)
	}
	if !position.Has(w, e) {
		t.Errorf("expected Position to survive removal of Velocity")
	}
	if _, ok := (ComponentType[Velocity]{}).GetSafe(w, e); ok {
		t.Errorf("expected Velocity to be gone after removal")
	}
}

func TestWorldDespawnFreesID(t *testing.T) {
	w := NewWorld()
	e, _ := w.Spawn(Value(Position{}))

	if err := w.Despawn(e); err != nil {
		t.Fatalf("Despawn() error = %v", err)
	}
	if w.IsLive(e) {
		t.Errorf("despawned entity reported live")
	}

	if err := w.Despawn(e); err == nil {
		t.Errorf("expected UnknownEntityError despawning an already-despawned entity")
	}
}

func TestWorldDespawnCascadesToChildren(t *testing.T) {
	w := NewWorld()
	parent, _ := w.Spawn(Value(Position{}))
	child, _ := w.Spawn(Value(Position{}))

	if err := w.SetParent(child, parent); err != nil {
		t.Fatalf("SetParent() error = %v", err)
	}
	if err := w.Despawn(parent); err != nil {
		t.Fatalf("Despawn(parent) error = %v", err)
	}
	if w.IsLive(child) {
		t.Errorf("expected child to be despawned by the cascade")
	}
}

func TestWorldDestroyCallbackFiresBeforeDespawn(t *testing.T) {
	w := NewWorld()
	e, _ := w.Spawn(Value(Position{}))

	var fired bool
	var sawLive bool
	w.SetDestroyCallback(e, func(target Entity) {
		fired = true
		sawLive = w.IsLive(target)
	})

	if err := w.Despawn(e); err != nil {
		t.Fatalf("Despawn() error = %v", err)
	}
	if !fired {
		t.Errorf("destroy callback did not fire")
	}
	if !sawLive {
		t.Errorf("destroy callback should observe the entity as still live")
	}
}

func TestWorldSpawnWhileLockedFails(t *testing.T) {
	w := NewWorld()
	w.Lock()
	defer w.Unlock()

	if _, err := w.Spawn(Value(Position{})); err == nil {
		t.Errorf("expected LockedStorageError while World is locked")
	}
}

package engine

import "testing"

func TestStorageEnsureTableReusesSpec(t *testing.T) {
	s := newStorage()
	posID := registerType[Position]()
	spec := NewSpec(posID)

	id1 := s.EnsureTable(spec)
	id2 := s.EnsureTable(spec)
	if id1 != id2 {
		t.Errorf("EnsureTable for identical spec returned distinct ids: %v, %v", id1, id2)
	}
	if len(s.Tables()) != 1 {
		t.Errorf("expected exactly one table, got %d", len(s.Tables()))
	}
}

func TestStorageMatchingTablesSuperset(t *testing.T) {
	s := newStorage()
	posID := registerType[Position]()
	velID := registerType[Velocity]()

	onlyPos := s.EnsureTable(NewSpec(posID))
	both := s.EnsureTable(NewSpec(posID, velID))

	matches := s.MatchingTables(NewSpec(posID))
	if len(matches) != 2 {
		t.Fatalf("MatchingTables(Position) returned %d tables, want 2", len(matches))
	}

	velOnly := s.MatchingTables(NewSpec(posID, velID))
	if len(velOnly) != 1 {
		t.Fatalf("MatchingTables(Position,Velocity) returned %d tables, want 1", len(velOnly))
	}
	if velOnly[0] != s.Table(both) {
		t.Errorf("expected the combined-spec table to match, not %v", onlyPos)
	}
}

func TestStorageLockReentrant(t *testing.T) {
	s := newStorage()
	s.Lock()
	s.Lock()
	if !s.Locked() {
		t.Fatalf("expected Locked() after two Lock calls")
	}
	s.Unlock()
	if !s.Locked() {
		t.Errorf("inner Unlock should not release an outer Lock")
	}
	s.Unlock()
	if s.Locked() {
		t.Errorf("expected Locked() false after matching Unlock calls")
	}
}

func TestStorageExecuteSpawn(t *testing.T) {
	s := newStorage()
	posID := registerType[Position]()
	tableID := s.EnsureTable(NewSpec(posID))
	e := Entity{id: 1, generation: 1}

	results := s.Execute([]Change{{
		Kind:    ChangeSpawn,
		Entity:  e,
		Table:   tableID,
		Applier: buildApplier([]Component{Value(Position{X: 42})}),
	}})
	if len(results) != 1 || results[0].Row != 0 {
		t.Fatalf("unexpected spawn result: %+v", results)
	}
	if s.Table(tableID).Length() != 1 {
		t.Errorf("table length after spawn = %d, want 1", s.Table(tableID).Length())
	}
}

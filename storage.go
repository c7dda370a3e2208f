package engine

import (
	"encoding/binary"
	"sync/atomic"
)

// TableID is a stable index into Storage's table vector. Once assigned it
// never changes, even if the table it names is later emptied.
type TableID int

// storage holds the archetype-indexed columnar store: an append-only vector
// of Tables plus a Spec -> TableID index. No two tables ever share a spec,
// and a TableID is stable for the life of the Storage.
//
// lockDepth is touched from every parallel bundle's own query construction
// and teardown (runGroup drives bundles concurrently within a color group),
// so it is an atomic counter rather than a plain int: Lock/Unlock must be
// safe to call from many goroutines at once with no lost or double-counted
// increments.
type storage struct {
	lockDepth atomic.Int32
	tables    []*Table
	index     map[string]TableID
}

func newStorage() *storage {
	return &storage{index: make(map[string]TableID)}
}

func specKey(s Spec) string {
	b := make([]byte, len(s)*4)
	for i, id := range s {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(id))
	}
	return string(b)
}

// EnsureTable looks up or creates the table for spec.
func (s *storage) EnsureTable(spec Spec) TableID {
	key := specKey(spec)
	if id, ok := s.index[key]; ok {
		return id
	}
	id := TableID(len(s.tables))
	s.tables = append(s.tables, newTable(spec))
	s.index[key] = id
	return id
}

// Table returns the table named by id.
func (s *storage) Table(id TableID) *Table {
	return s.tables[id]
}

// Tables returns every table in creation order. Callers must not mutate the
// returned slice.
func (s *storage) Tables() []*Table {
	return s.tables
}

// MatchingTables returns, in stable creation order, every table whose spec
// is a superset of required. Iteration order across tables is otherwise
// unspecified but deterministic for a fixed Storage state, since it simply
// walks the append-only table vector.
func (s *storage) MatchingTables(required Spec) []*Table {
	reqBits := newBitset(required)
	matched := make([]*Table, 0, len(s.tables))
	for _, t := range s.tables {
		if t.bits.containsAll(reqBits) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Locked reports whether structural mutation is currently disallowed, e.g.
// because one or more query iterations hold the storage.
func (s *storage) Locked() bool { return s.lockDepth.Load() > 0 }

// Lock disallows synchronous structural mutation; callers must use a
// CommandBuffer instead until the matching Unlock. Reentrant: nested queries
// (one Rows iteration started from inside another's yield) each take their
// own Lock/Unlock pair, and the storage stays locked until the outermost one
// unwinds. Concurrent queries across parallel bundles in the same color
// group also each take their own pair; the counter is atomic so those
// increments/decrements never race or get lost.
func (s *storage) Lock() { s.lockDepth.Add(1) }

// Unlock releases one Lock. Does not flush anything; flushing the deferred
// command buffer is World's responsibility, not Storage's.
func (s *storage) Unlock() {
	for {
		v := s.lockDepth.Load()
		if v <= 0 {
			return
		}
		if s.lockDepth.CompareAndSwap(v, v-1) {
			return
		}
	}
}

// ChangeKind tags which structural mutation a Change describes.
type ChangeKind int

const (
	ChangeSpawn ChangeKind = iota
	ChangeDespawn
	ChangeMigrate
)

// Change is a tagged union of the three structural mutations Storage can
// execute: Spawn, Despawn, and Migrate. Which fields are meaningful depends
// on Kind.
type Change struct {
	Kind    ChangeKind
	Entity  Entity
	Table   TableID        // Spawn: destination table. Despawn/Migrate: source table.
	Row     int            // Despawn/Migrate: current row in Table.
	Target  TableID        // Migrate: destination table.
	Applier func(*Table)   // Spawn: pushes the spawned components. Migrate: pushes components new to the destination.
}

// ChangeResult reports the structural effect of one Change.
type ChangeResult struct {
	Row       int
	Relocated Entity
	Moved     bool
}

// Execute applies a batch of Changes in order. All three kinds require
// exclusive access to Storage; callers (the World, or a command-buffer
// flush) are responsible for not calling Execute while anything else holds
// a reference into the tables it touches.
func (s *storage) Execute(changes []Change) []ChangeResult {
	results := make([]ChangeResult, len(changes))
	for i, c := range changes {
		switch c.Kind {
		case ChangeSpawn:
			row := s.tables[c.Table].AddRow(c.Entity, c.Applier)
			results[i] = ChangeResult{Row: row}
		case ChangeDespawn:
			relocated, moved := s.tables[c.Table].SwapRemove(c.Row)
			results[i] = ChangeResult{Relocated: relocated, Moved: moved}
		case ChangeMigrate:
			src, dst := s.tables[c.Table], s.tables[c.Target]
			row, relocated, moved := migrateRow(src, dst, c.Row, c.Entity, c.Applier)
			results[i] = ChangeResult{Row: row, Relocated: relocated, Moved: moved}
		}
	}
	return results
}

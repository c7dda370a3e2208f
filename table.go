package engine

import "fmt"

// Table is an archetype's storage: one Column per type in its Spec, columns
// ordered identically to the spec, plus a parallel entity vector. Every
// column always has the same length as the entity vector.
type Table struct {
	spec     Spec
	bits     bitset
	columns  []*Column
	colIndex map[TypeID]int
	entities []Entity
}

func newTable(spec Spec) *Table {
	columns := make([]*Column, len(spec))
	colIndex := make(map[TypeID]int, len(spec))
	for i, id := range spec {
		columns[i] = newColumn(infoFor(id))
		colIndex[id] = i
	}
	return &Table{spec: spec, bits: newBitset(spec), columns: columns, colIndex: colIndex}
}

// Spec returns the table's archetype key.
func (t *Table) Spec() Spec { return t.spec }

// Length returns the number of rows (and thus every column's length).
func (t *Table) Length() int { return len(t.entities) }

// Column returns the column holding id's component data, if the table's
// spec includes it.
func (t *Table) Column(id TypeID) (*Column, bool) {
	idx, ok := t.colIndex[id]
	if !ok {
		return nil, false
	}
	return t.columns[idx], true
}

// Entity returns the occupant of row.
func (t *Table) Entity(row int) Entity { return t.entities[row] }

// AddRow appends entity, invokes apply to push one component into each
// column, and returns the allocated row. Panics if apply does not bring
// every column to the entity vector's new length.
func (t *Table) AddRow(entity Entity, apply func(*Table)) int {
	t.entities = append(t.entities, entity)
	if apply != nil {
		apply(t)
	}
	want := len(t.entities)
	for _, col := range t.columns {
		if col.Len() != want {
			panic(fmt.Sprintf("engine: add_row applier left column %s at length %d, want %d", col.Info().Name, col.Len(), want))
		}
	}
	return want - 1
}

// SwapRemove removes row, dropping every component value, and returns the
// entity that was relocated into the vacated slot (moved is false if row was
// already the tail).
func (t *Table) SwapRemove(row int) (relocated Entity, moved bool) {
	last := len(t.entities) - 1
	for _, col := range t.columns {
		col.SwapRemoveDrop(row)
	}
	if row != last {
		relocated = t.entities[last]
		moved = true
	}
	t.entities[row] = t.entities[last]
	t.entities = t.entities[:last]
	return
}

// swapRemoveNoDrop removes row without invoking drop on any column: used
// only by migration, after a row's data has already been byte-copied
// elsewhere (or intentionally discarded, for components the destination
// archetype no longer carries).
func (t *Table) swapRemoveNoDrop(row int) (relocated Entity, moved bool) {
	last := len(t.entities) - 1
	for _, col := range t.columns {
		col.SwapRemoveNoDrop(row)
	}
	if row != last {
		relocated = t.entities[last]
		moved = true
	}
	t.entities[row] = t.entities[last]
	t.entities = t.entities[:last]
	return
}

// migrateRow moves the row at srcRow in src into dst: shared columns are
// byte-copied, applyNew (if given) pushes components present only in dst,
// and the source row is swap-removed without dropping any column (matching
// components not carried into dst are discarded bytewise, not destructed).
func migrateRow(src, dst *Table, srcRow int, entity Entity, applyNew func(*Table)) (newRow int, relocated Entity, moved bool) {
	for id, idx := range src.colIndex {
		dstIdx, ok := dst.colIndex[id]
		if !ok {
			continue
		}
		dst.columns[dstIdx].PushBytes(src.columns[idx].ReadBytes(srcRow))
	}
	if applyNew != nil {
		applyNew(dst)
	}
	dst.entities = append(dst.entities, entity)
	newRow = len(dst.entities) - 1
	for _, col := range dst.columns {
		if col.Len() != len(dst.entities) {
			panic(fmt.Sprintf("engine: migration left column %s at length %d, want %d", col.Info().Name, col.Len(), len(dst.entities)))
		}
	}
	relocated, moved = src.swapRemoveNoDrop(srcRow)
	return
}

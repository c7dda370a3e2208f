package engine

// AccessMode tags whether a field reads, writes, or merely names the row's
// entity (which touches no component memory at all).
type AccessMode int

const (
	AccessRead AccessMode = iota
	AccessWrite
	AccessEntity
)

// Access is one (type, mode) pair contributed by a field to a View's access
// set, used by the scheduler's conflict detector.
type Access struct {
	TypeID TypeID
	Mode   AccessMode
}

// field is implemented by every allowed View slot shape: Ref, Mut, Opt,
// OptMut, and WithEntity. It is unexported because the shapes below are the
// only legal instantiations; a View is built from a fixed vocabulary of
// slots, not an open interface.
//
// prepare resolves a field's TypeID and column once per table, building a
// validated column.IterTyped-style iterator (see column.go) and returning a
// binder closure that does nothing but advance it and read the current
// pointer. This keeps the type registry's registration mutex (typeid.go's
// globalTypes.mu) and the column's type check off the per-row hot path
// entirely: Rows calls prepare once per matching table, not once per row, so
// a query over a table of N entities takes one registry lookup and one type
// check per field per table, not N.
type field interface {
	typeID() TypeID
	optional() bool
	mode() AccessMode
	prepare(table *Table) func(row int) any
}

// Ref is a shared reference to component T. The table matched by a View
// containing Ref[T] is guaranteed to carry T.
type Ref[T any] struct{ V *T }

func (Ref[T]) typeID() TypeID   { return registerType[T]() }
func (Ref[T]) optional() bool   { return false }
func (Ref[T]) mode() AccessMode { return AccessRead }
func (Ref[T]) prepare(t *Table) func(row int) any {
	col, ok := t.Column(registerType[T]())
	if !ok {
		panic("engine: required component missing from a table the query plan matched")
	}
	it := IterTyped[T](col)
	return func(row int) any {
		it.Next()
		return Ref[T]{V: it.Value()}
	}
}

// Mut is an exclusive reference to component T.
type Mut[T any] struct{ V *T }

func (Mut[T]) typeID() TypeID   { return registerType[T]() }
func (Mut[T]) optional() bool   { return false }
func (Mut[T]) mode() AccessMode { return AccessWrite }
func (Mut[T]) prepare(t *Table) func(row int) any {
	col, ok := t.Column(registerType[T]())
	if !ok {
		panic("engine: required component missing from a table the query plan matched")
	}
	it := IterTyped[T](col)
	return func(row int) any {
		it.Next()
		return Mut[T]{V: it.Value()}
	}
}

// Opt is a shared reference to T that may be absent from the matched table;
// Ok reports whether V is valid.
type Opt[T any] struct {
	V  *T
	Ok bool
}

func (Opt[T]) typeID() TypeID   { return registerType[T]() }
func (Opt[T]) optional() bool   { return true }
func (Opt[T]) mode() AccessMode { return AccessRead }
func (Opt[T]) prepare(t *Table) func(row int) any {
	col, ok := t.Column(registerType[T]())
	if !ok {
		return func(row int) any { return Opt[T]{} }
	}
	it := IterTyped[T](col)
	return func(row int) any {
		it.Next()
		return Opt[T]{V: it.Value(), Ok: true}
	}
}

// OptMut is an exclusive reference to T that may be absent from the matched
// table; Ok reports whether V is valid.
type OptMut[T any] struct {
	V  *T
	Ok bool
}

func (OptMut[T]) typeID() TypeID   { return registerType[T]() }
func (OptMut[T]) optional() bool   { return true }
func (OptMut[T]) mode() AccessMode { return AccessWrite }
func (OptMut[T]) prepare(t *Table) func(row int) any {
	col, ok := t.Column(registerType[T]())
	if !ok {
		return func(row int) any { return OptMut[T]{} }
	}
	it := IterTyped[T](col)
	return func(row int) any {
		it.Next()
		return OptMut[T]{V: it.Value(), Ok: true}
	}
}

// WithEntity names the row's own entity. It contributes nothing to the
// required spec or access set.
type WithEntity struct{ E Entity }

func (WithEntity) typeID() TypeID   { return 0 }
func (WithEntity) optional() bool   { return false }
func (WithEntity) mode() AccessMode { return AccessEntity }
func (WithEntity) prepare(t *Table) func(row int) any {
	return func(row int) any { return WithEntity{E: t.Entity(row)} }
}

// compileFields derives a View's required spec, full access set, and
// write-access type ids from its field values (each the zero value of one
// slot type).
func compileFields(fs ...field) (required Spec, access []Access, mutable []TypeID) {
	ids := make([]TypeID, 0, len(fs))
	for _, f := range fs {
		if f.mode() == AccessEntity {
			continue
		}
		access = append(access, Access{TypeID: f.typeID(), Mode: f.mode()})
		if f.mode() == AccessWrite {
			mutable = append(mutable, f.typeID())
		}
		if !f.optional() {
			ids = append(ids, f.typeID())
		}
	}
	return NewSpec(ids...), access, mutable
}

func hasDuplicates(ids []TypeID) bool {
	seen := make(map[TypeID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

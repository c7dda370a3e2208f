package engine

// Component is a type-erased component instance: a TypeID paired with a
// closure that knows how to push its concrete value into a matching Column.
// World.Spawn, World.AddComponents, and CommandBuffer operations all take
// Components as their payload.
type Component struct {
	id     TypeID
	pushFn func(col *Column)
}

// Value wraps a concrete component instance for use with Spawn or
// AddComponents.
func Value[T any](v T) Component {
	id := registerType[T]()
	return Component{
		id:     id,
		pushFn: func(col *Column) { PushTyped[T](col, v) },
	}
}

// ComponentType is a reusable handle for one registered component type.
// It mirrors the teacher library's accessible component handle: compute it
// once per type via Register, then use it everywhere instead of
// re-resolving the type each call. The zero value of ComponentType[T] is
// also valid (every method resolves T's TypeID on demand if the handle
// wasn't built through Register), since Go code routinely reaches for a
// zero-value literal like ComponentType[Velocity]{} rather than threading a
// handle through.
type ComponentType[T any] struct {
	id     TypeID
	cached bool
}

// Register records T in the type registry (idempotent) and returns a
// reusable handle for it with its TypeID pre-resolved.
func Register[T any](w *World) ComponentType[T] {
	return ComponentType[T]{id: registerType[T](), cached: true}
}

func (c ComponentType[T]) resolvedID() TypeID {
	if c.cached {
		return c.id
	}
	return registerType[T]()
}

// TypeID returns the handle's underlying TypeID.
func (c ComponentType[T]) TypeID() TypeID { return c.resolvedID() }

// Get returns a shared reference to T on e, or nil if e does not carry it
// (including if e is stale or unknown).
func (c ComponentType[T]) Get(w *World, e Entity) *T {
	v, _ := c.GetSafe(w, e)
	return v
}

// GetSafe is Get plus a found flag, so callers can distinguish "absent" from
// a zero value.
func (c ComponentType[T]) GetSafe(w *World, e Entity) (*T, bool) {
	loc, ok := w.locations.Get(e.id)
	if !ok || !w.alloc.IsLive(e) {
		return nil, false
	}
	col, ok := w.storage.Table(loc.Table).Column(c.resolvedID())
	if !ok {
		return nil, false
	}
	return GetTyped[T](col, loc.Row), true
}

// Has reports whether e currently carries T.
func (c ComponentType[T]) Has(w *World, e Entity) bool {
	_, ok := c.GetSafe(w, e)
	return ok
}

// Add attaches v to e, following the same rules as World.AddComponents.
func (c ComponentType[T]) Add(w *World, e Entity, v T) error {
	return w.AddComponents(e, Value(v))
}

// Remove detaches T from e, following the same rules as
// World.RemoveComponents (a no-op if e does not carry T).
func (c ComponentType[T]) Remove(w *World, e Entity) error {
	return w.RemoveComponents(e, c.resolvedID())
}

func componentIDs(components []Component) []TypeID {
	ids := make([]TypeID, len(components))
	for i, c := range components {
		ids[i] = c.id
	}
	return ids
}

func buildApplier(components []Component) func(*Table) {
	return func(t *Table) {
		for _, c := range components {
			col, ok := t.Column(c.id)
			if !ok {
				continue
			}
			c.pushFn(col)
		}
	}
}

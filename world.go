package engine

// World is the runtime's single entry point: entity allocation, archetype
// storage, and the deferred command buffer all hang off it. A World is safe
// for concurrent read access (queries) once locked, but structural mutation
// (Spawn, AddComponents, RemoveComponents, Despawn) must go through a
// CommandBuffer while it is locked.
type World struct {
	storage       *storage
	alloc         *allocator
	locations     *locationRegistry
	relationships *relationships
	resources     *resourceRegistry
	events        *eventRegistry
	buffer        *CommandBuffer
	logger        Logger
}

// NewWorld constructs an empty World with default configuration.
func NewWorld() *World {
	w := &World{
		storage:       newStorage(),
		alloc:         newAllocator(),
		locations:     newLocationRegistry(),
		relationships: newRelationships(),
		resources:     newResourceRegistry(),
		events:        newEventRegistry(),
		logger:        defaultLogger,
	}
	w.buffer = newCommandBuffer(w)
	return w
}

// SetLogger overrides the World's Logger. Not safe to call concurrently with
// any other World method.
func (w *World) SetLogger(l Logger) {
	if l == nil {
		l = defaultLogger
	}
	w.logger = l
}

// Lock disallows synchronous structural mutation; a query's Rows iterator
// holds one Lock for its duration. Reentrant: nested queries compose.
func (w *World) Lock() { w.storage.Lock() }

// Unlock releases one Lock taken by Lock. It does not flush the command
// buffer; call Flush explicitly (the scheduler does this between color
// groups).
func (w *World) Unlock() { w.storage.Unlock() }

// Locked reports whether the World currently disallows synchronous
// structural mutation.
func (w *World) Locked() bool { return w.storage.Locked() }

// Flush drains the deferred command buffer. Queued ops are replayed grouped
// by kind: every Spawn, then every AddComponents, then every
// RemoveComponents, then every Despawn, each kind in the order it was
// queued. Ops of different kinds are not replayed in the order they were
// queued, so an AddComponents queued after a Despawn of the same entity is
// applied before that Despawn. Failures (e.g. a deferred op against an
// entity despawned earlier in the same flush) are logged and skipped, never
// propagated: see the command buffer's own failure policy.
func (w *World) Flush() { w.buffer.flush() }

// Spawn creates a new entity carrying components, synchronously. Returns
// LockedStorageError if the World is currently locked for iteration; use
// w.Commands().Spawn for deferred spawning instead.
func (w *World) Spawn(components ...Component) (Entity, error) {
	if w.storage.Locked() {
		return Entity{}, LockedStorageError{}
	}
	return w.spawnInto(components)
}

// spawnInto performs the actual spawn, allocating a fresh entity, once Spawn
// has made the locked check.
func (w *World) spawnInto(components []Component) (Entity, error) {
	spec := NewSpec(componentIDs(components)...)
	tableID := w.storage.EnsureTable(spec)
	e := w.alloc.Allocate()
	results := w.storage.Execute([]Change{{
		Kind:    ChangeSpawn,
		Entity:  e,
		Table:   tableID,
		Applier: buildApplier(components),
	}})
	w.locations.Set(e.id, Location{Table: tableID, Row: results[0].Row})
	return e, nil
}

// AddComponents attaches each of components to e, migrating it to the
// archetype that is its current spec plus the new types. Returns
// ComponentExistsError if e already carries one of the given types, and
// UnknownEntityError if e is stale or unknown.
func (w *World) AddComponents(e Entity, components ...Component) error {
	if w.storage.Locked() {
		return LockedStorageError{}
	}
	loc, ok := w.locations.Get(e.id)
	if !ok || !w.alloc.IsLive(e) {
		return UnknownEntityError{Entity: e}
	}
	src := w.storage.Table(loc.Table)
	for _, c := range components {
		if _, ok := src.Column(c.id); ok {
			return ComponentExistsError{TypeID: c.id}
		}
	}
	dstSpec := src.Spec()
	for _, id := range componentIDs(components) {
		dstSpec = dstSpec.With(id)
	}
	dstID := w.storage.EnsureTable(dstSpec)
	results := w.storage.Execute([]Change{{
		Kind:    ChangeMigrate,
		Entity:  e,
		Table:   loc.Table,
		Row:     loc.Row,
		Target:  dstID,
		Applier: buildApplier(components),
	}})
	r := results[0]
	w.locations.Set(e.id, Location{Table: dstID, Row: r.Row})
	if r.Moved {
		w.locations.Set(r.Relocated.id, Location{Table: loc.Table, Row: loc.Row})
	}
	return nil
}

// RemoveComponents detaches each named type from e, migrating it to the
// archetype that is its current spec minus those types. Removing a type e
// does not carry is a no-op for that type, not an error. Returns
// UnknownEntityError if e is stale or unknown.
func (w *World) RemoveComponents(e Entity, ids ...TypeID) error {
	if w.storage.Locked() {
		return LockedStorageError{}
	}
	loc, ok := w.locations.Get(e.id)
	if !ok || !w.alloc.IsLive(e) {
		return UnknownEntityError{Entity: e}
	}
	src := w.storage.Table(loc.Table)
	dstSpec := src.Spec()
	for _, id := range ids {
		if _, ok := src.Column(id); !ok {
			continue
		}
		dstSpec = dstSpec.Without(id)
	}
	if dstSpec.Equal(src.Spec()) {
		return nil
	}
	dstID := w.storage.EnsureTable(dstSpec)
	results := w.storage.Execute([]Change{{
		Kind:   ChangeMigrate,
		Entity: e,
		Table:  loc.Table,
		Row:    loc.Row,
		Target: dstID,
	}})
	r := results[0]
	w.locations.Set(e.id, Location{Table: dstID, Row: r.Row})
	if r.Moved {
		w.locations.Set(r.Relocated.id, Location{Table: loc.Table, Row: loc.Row})
	}
	return nil
}

// Despawn removes e from storage, frees its id for recycling, and cascades:
// every child registered to e via SetParent is despawned in turn, and e's
// destroy callback (if any) fires first. Returns UnknownEntityError if e is
// stale or unknown.
func (w *World) Despawn(e Entity) error {
	if w.storage.Locked() {
		return LockedStorageError{}
	}
	return w.despawnOne(e)
}

func (w *World) despawnOne(e Entity) error {
	loc, ok := w.locations.Get(e.id)
	if !ok || !w.alloc.IsLive(e) {
		return UnknownEntityError{Entity: e}
	}
	children, cb := w.relationships.take(e)
	if cb != nil {
		cb(e)
	}
	results := w.storage.Execute([]Change{{
		Kind:   ChangeDespawn,
		Entity: e,
		Table:  loc.Table,
		Row:    loc.Row,
	}})
	r := results[0]
	w.locations.Delete(e.id)
	if r.Moved {
		w.locations.Set(r.Relocated.id, Location{Table: loc.Table, Row: loc.Row})
	}
	w.alloc.Free(e)
	for _, child := range children {
		if err := w.despawnOne(child); err != nil {
			w.logger.Warn("despawn cascade failed", "parent", e.String(), "child", child.String(), "err", err)
		}
	}
	return nil
}

// SetParent registers child as a dependent of parent: despawning parent
// cascades to despawn child. Returns EntityRelationError if child already
// has a parent.
func (w *World) SetParent(child, parent Entity) error {
	return w.relationships.setParent(child, parent, nil)
}

// SetDestroyCallback registers cb to run immediately before e is despawned
// (and before any cascade to its children).
func (w *World) SetDestroyCallback(e Entity, cb EntityDestroyCallback) {
	w.relationships.setDestroyCallback(e, cb)
}

// IsLive reports whether e is a current (non-recycled) entity that has a row
// in storage: an entity from a deferred Spawn is not live until the next
// Flush, and a despawned entity is not live even before its id is recycled.
func (w *World) IsLive(e Entity) bool {
	if _, ok := w.locations.Get(e.id); !ok {
		return false
	}
	return w.alloc.IsLive(e)
}

// Commands returns the World's deferred CommandBuffer, for use by systems
// that hold shared (non-exclusive) world access and so cannot call Spawn,
// AddComponents, RemoveComponents, or Despawn directly.
func (w *World) Commands() *CommandBuffer { return w.buffer }

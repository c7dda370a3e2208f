package engine

// CommandBuffer is the deferred mutation queue systems use while the World
// is locked for query iteration. Unlike the synchronous World methods, a
// deferred Spawn allocates its Entity id immediately (so the caller can use
// it as a cross-reference within the same system, e.g. SetParent) but does
// not place it into storage until the next Flush.
//
// Adapted from the teacher's operation queue: ops are recorded in per-kind
// slices and replayed in Spawn, then AddComponents/RemoveComponents, then
// Despawn order on flush, the same create-then-modify-then-destroy ordering
// the teacher's opQueue enforces.
//
// A CommandBuffer's slice appends are themselves unsynchronized, so a single
// instance must never be handed to more than one goroutine at a time: the
// scheduler satisfies the multi-producer contract not by locking this type,
// but by giving each parallel bundle in a color group its own private
// CommandBuffer (see runGroup) and merging them into the World's buffer,
// in bundle order, only after every bundle in the group has finished and
// the parallel section has closed. Within one bundle, systems still share
// one buffer, but a bundle's systems always run sequentially.
type CommandBuffer struct {
	world *World

	spawns  []spawnOp
	adds    []componentOp
	removes []removeOp
	despawn []Entity
}

type spawnOp struct {
	entity     Entity
	components []Component
}

type componentOp struct {
	entity     Entity
	components []Component
}

type removeOp struct {
	entity Entity
	ids    []TypeID
}

func newCommandBuffer(w *World) *CommandBuffer {
	return &CommandBuffer{world: w}
}

// Spawn allocates an Entity id now and queues its placement into storage for
// the next Flush. The returned Entity is valid to reference (e.g. as a
// SetParent argument) before the flush happens, but World.IsLive and queries
// will not see it until then.
func (b *CommandBuffer) Spawn(components ...Component) Entity {
	e := b.world.alloc.Allocate()
	b.spawns = append(b.spawns, spawnOp{entity: e, components: components})
	return e
}

// AddComponents queues components to be attached to e on the next Flush.
func (b *CommandBuffer) AddComponents(e Entity, components ...Component) {
	b.adds = append(b.adds, componentOp{entity: e, components: components})
}

// RemoveComponents queues the named types to be detached from e on the next
// Flush.
func (b *CommandBuffer) RemoveComponents(e Entity, ids ...TypeID) {
	b.removes = append(b.removes, removeOp{entity: e, ids: ids})
}

// Despawn queues e for removal on the next Flush.
func (b *CommandBuffer) Despawn(e Entity) {
	b.despawn = append(b.despawn, e)
}

// merge appends other's queued ops after b's own, preserving per-kind FIFO
// order: spawns-before-spawns, adds-before-adds, and so on. Used once per
// color group, after every bundle's private CommandBuffer has stopped being
// written to, to fold them all into the World's buffer ahead of Flush.
func (b *CommandBuffer) merge(other *CommandBuffer) {
	b.spawns = append(b.spawns, other.spawns...)
	b.adds = append(b.adds, other.adds...)
	b.removes = append(b.removes, other.removes...)
	b.despawn = append(b.despawn, other.despawn...)
}

// flush replays every queued op against the World, in spawn, add, remove,
// despawn order. Per-kind order is otherwise FIFO. A queued op against an
// entity that a prior op in the same flush already despawned is logged and
// skipped rather than returned as an error, per the propagation policy: a
// deferred command's producer has no way to receive a synchronous error
// return.
func (b *CommandBuffer) flush() {
	w := b.world

	for _, op := range b.spawns {
		spec := NewSpec(componentIDs(op.components)...)
		tableID := w.storage.EnsureTable(spec)
		results := w.storage.Execute([]Change{{
			Kind:    ChangeSpawn,
			Entity:  op.entity,
			Table:   tableID,
			Applier: buildApplier(op.components),
		}})
		w.locations.Set(op.entity.id, Location{Table: tableID, Row: results[0].Row})
	}
	b.spawns = b.spawns[:0]

	for _, op := range b.adds {
		if err := w.AddComponents(op.entity, op.components...); err != nil {
			w.logger.Warn("deferred add_components skipped", "entity", op.entity.String(), "err", err)
		}
	}
	b.adds = b.adds[:0]

	for _, op := range b.removes {
		if err := w.RemoveComponents(op.entity, op.ids...); err != nil {
			w.logger.Warn("deferred remove_components skipped", "entity", op.entity.String(), "err", err)
		}
	}
	b.removes = b.removes[:0]

	for _, e := range b.despawn {
		if err := w.despawnOne(e); err != nil {
			w.logger.Warn("deferred despawn skipped", "entity", e.String(), "err", err)
		}
	}
	b.despawn = b.despawn[:0]
}

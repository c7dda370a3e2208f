/*
Package engine provides an archetype-based Entity-Component-System (ECS) runtime:
the storage and scheduling substrate for a multi-threaded simulation engine.

It is built from seven cooperating layers, leaves first:

  - Type Registry: process-scoped TypeID <-> Info mapping.
  - Column: a type-erased contiguous buffer of one component type.
  - Table: an archetype's columns plus its entity vector.
  - Storage: the set of tables plus the spec -> table index.
  - Entity allocator + location registry: identifier minting with generational
    reuse, and entity -> (table, row) tracking.
  - Query + View: type-directed selection and borrowed-tuple iteration.
  - Scheduler: conflict-free parallel grouping of systems, driven by Shards.

Basic usage:

	world := engine.NewWorld()

	e, _ := world.Spawn(engine.Value(Position{0, 0}), engine.Value(Velocity{1, 0}))

	q := engine.NewQuery2[engine.Mut[Position], engine.Ref[Velocity]]()
	for row := range q.Rows(world) {
		row.A.V.X += row.B.V.X
		row.A.V.Y += row.B.V.Y
	}

rusty-engine is the storage core of a larger simulation engine, but it also
works standalone.
*/
package engine

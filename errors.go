package engine

import "fmt"

// LockedStorageError is returned when a structural mutation is attempted
// synchronously while storage is locked for iteration; callers should use
// the command buffer instead.
type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked; use a CommandBuffer to defer the mutation"
}

// ComponentExistsError is returned by AddComponents when the entity already
// carries one of the given component types.
type ComponentExistsError struct {
	TypeID TypeID
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component %s already present on entity", infoFor(e.TypeID).Name)
}

// ComponentNotFoundError names a component type an entity does not carry.
// RemoveComponents does not return it: removing an absent type is a no-op.
type ComponentNotFoundError struct {
	TypeID TypeID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %s not present on entity", infoFor(e.TypeID).Name)
}

// UnknownEntityError is a lookup miss: the entity was never allocated, or its
// generation has already been recycled.
type UnknownEntityError struct {
	Entity Entity
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown or stale entity %v", e.Entity)
}

// EntityRelationError is returned by SetParent when the child already has a
// parent assigned.
type EntityRelationError struct {
	Child, Parent Entity
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("entity %v already has parent %v", e.Child, e.Parent)
}

// DuplicateEventError is a contract violation: a host registered the same
// event type twice.
type DuplicateEventError struct {
	TypeName string
}

func (e DuplicateEventError) Error() string {
	return fmt.Sprintf("event type %s already registered", e.TypeName)
}

// EventBufferOverflowError is raised (as a panic, per the resource-exhaustion
// policy) when a Producer push exceeds the configured buffer capacity.
type EventBufferOverflowError struct {
	TypeName string
	Capacity int
}

func (e EventBufferOverflowError) Error() string {
	return fmt.Sprintf("event buffer for %s exceeded capacity %d", e.TypeName, e.Capacity)
}

package engine

import (
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// TypeID is a process-stable opaque token identifying a registered component
// type. TypeIDs are assigned densely starting at zero and are totally
// ordered, which is what lets a Spec canonicalize by sorting them.
type TypeID uint32

// Info is the immutable-after-registration descriptor for a component type.
type Info struct {
	ID    TypeID
	Size  uintptr
	Align uintptr
	Name  string
	// Drop is invoked on a slot's backing bytes when a value is evicted
	// without being moved elsewhere (e.g. swap-remove, not migration). It is
	// nil for types with no pointer-shaped data, since there is nothing to
	// do beyond reusing the bytes.
	Drop func(ptr unsafe.Pointer)
}

// typeRegistry is the process-scoped TypeID <-> Info mapping described in
// §4.1. Its internal lock guards registration only: once an Info exists in
// the snapshot slice it is never mutated, so reads after the fact need no
// lock, following the copy-on-write-snapshot idiom used for the rest of the
// engine's append-only tables.
type typeRegistry struct {
	mu     sync.Mutex
	byType map[reflect.Type]TypeID
	infos  atomic.Pointer[[]Info]
}

func newTypeRegistry() *typeRegistry {
	r := &typeRegistry{byType: make(map[reflect.Type]TypeID)}
	empty := make([]Info, 0, 64)
	r.infos.Store(&empty)
	return r
}

var globalTypes = newTypeRegistry()

// registerType is idempotent per T within a process: repeated calls return
// the same TypeID.
func registerType[T any]() TypeID {
	rt := reflect.TypeFor[T]()

	globalTypes.mu.Lock()
	defer globalTypes.mu.Unlock()

	if id, ok := globalTypes.byType[rt]; ok {
		return id
	}

	cur := *globalTypes.infos.Load()
	id := TypeID(len(cur))
	info := Info{
		ID:    id,
		Size:  rt.Size(),
		Align: uintptr(rt.Align()),
		Name:  rt.String(),
		Drop:  dropFuncFor(rt),
	}
	next := make([]Info, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, info)

	globalTypes.byType[rt] = id
	globalTypes.infos.Store(&next)
	return id
}

// infoFor looks up an already-registered type's Info. Panics if id is out of
// range, which can only happen on a contract violation (a TypeID minted by a
// different process/registry).
func infoFor(id TypeID) Info {
	infos := *globalTypes.infos.Load()
	if int(id) >= len(infos) {
		panic("engine: unknown TypeID; component was never registered")
	}
	return infos[id]
}

// dropFuncFor builds the drop function for a type, or nil if the type holds
// no pointer-shaped data and therefore needs no cleanup beyond byte reuse.
func dropFuncFor(rt reflect.Type) func(unsafe.Pointer) {
	if !containsPointerData(rt) {
		return nil
	}
	zero := reflect.Zero(rt)
	return func(ptr unsafe.Pointer) {
		reflect.NewAt(rt, ptr).Elem().Set(zero)
	}
}

func containsPointerData(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.String, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return containsPointerData(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsPointerData(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

package engine

import (
	"iter"
	"reflect"
)

// Param is a System Parameter descriptor: a type that knows how to build its
// own runtime State once, at system registration, per §4.6 of the parameter
// protocol. V is the value type the parameter ultimately hands the system
// function each run (e.g. an iter.Seq of rows, a *T resource pointer, or the
// deferred command buffer).
type Param[V any] interface {
	buildState(w *World) ParamState[V]
}

// ParamState is a parameter's scheduler-owned, build-once state: its access
// declaration (computed once, reused by every bundling/coloring decision)
// and its per-run extraction.
type ParamState[V any] interface {
	requiredAccess() AccessRequest
	get(sh *Shard, cmd *CommandBuffer) V
}

func typeKey[T any]() string { return reflect.TypeFor[T]().String() }

// QueryParam1 is the one-field shared/exclusive query parameter; which of
// the two it is follows entirely from A's own mode (Ref/Opt vs Mut/OptMut),
// exactly as a View's access set already encodes that distinction.
type QueryParam1[A field] struct{}

type queryState1[A field] struct{ q *Query1[A] }

func (QueryParam1[A]) buildState(w *World) ParamState[iter.Seq[Row1[A]]] {
	return &queryState1[A]{q: NewQuery1[A]()}
}
func (s *queryState1[A]) requiredAccess() AccessRequest { return AccessRequest{Components: s.q.Access()} }
func (s *queryState1[A]) get(sh *Shard, cmd *CommandBuffer) iter.Seq[Row1[A]] {
	return s.q.Rows(sh.world)
}

// QueryParam2 is the two-field analogue of QueryParam1.
type QueryParam2[A field, B field] struct{}

type queryState2[A field, B field] struct{ q *Query2[A, B] }

func (QueryParam2[A, B]) buildState(w *World) ParamState[iter.Seq[Row2[A, B]]] {
	return &queryState2[A, B]{q: NewQuery2[A, B]()}
}
func (s *queryState2[A, B]) requiredAccess() AccessRequest {
	return AccessRequest{Components: s.q.Access()}
}
func (s *queryState2[A, B]) get(sh *Shard, cmd *CommandBuffer) iter.Seq[Row2[A, B]] {
	return s.q.Rows(sh.world)
}

// QueryParam3 is the three-field analogue of QueryParam1.
type QueryParam3[A field, B field, C field] struct{}

type queryState3[A field, B field, C field] struct{ q *Query3[A, B, C] }

func (QueryParam3[A, B, C]) buildState(w *World) ParamState[iter.Seq[Row3[A, B, C]]] {
	return &queryState3[A, B, C]{q: NewQuery3[A, B, C]()}
}
func (s *queryState3[A, B, C]) requiredAccess() AccessRequest {
	return AccessRequest{Components: s.q.Access()}
}
func (s *queryState3[A, B, C]) get(sh *Shard, cmd *CommandBuffer) iter.Seq[Row3[A, B, C]] {
	return s.q.Rows(sh.world)
}

// QueryParam4 is the four-field analogue of QueryParam1. As with Query4,
// higher arities stop here by design; see DESIGN.md.
type QueryParam4[A field, B field, C field, D field] struct{}

type queryState4[A field, B field, C field, D field] struct{ q *Query4[A, B, C, D] }

func (QueryParam4[A, B, C, D]) buildState(w *World) ParamState[iter.Seq[Row4[A, B, C, D]]] {
	return &queryState4[A, B, C, D]{q: NewQuery4[A, B, C, D]()}
}
func (s *queryState4[A, B, C, D]) requiredAccess() AccessRequest {
	return AccessRequest{Components: s.q.Access()}
}
func (s *queryState4[A, B, C, D]) get(sh *Shard, cmd *CommandBuffer) iter.Seq[Row4[A, B, C, D]] {
	return s.q.Rows(sh.world)
}

// ResourceRead requests shared access to resource type T.
type ResourceRead[T any] struct{}

// ResourceWrite requests exclusive access to resource type T.
type ResourceWrite[T any] struct{}

type resourceState[T any] struct{ mode AccessMode }

func (ResourceRead[T]) buildState(w *World) ParamState[*T] {
	return &resourceState[T]{mode: AccessRead}
}
func (ResourceWrite[T]) buildState(w *World) ParamState[*T] {
	return &resourceState[T]{mode: AccessWrite}
}
func (s *resourceState[T]) requiredAccess() AccessRequest {
	return AccessRequest{Resources: []ResourceAccess{{Key: typeKey[T](), Mode: s.mode}}}
}
func (s *resourceState[T]) get(sh *Shard, cmd *CommandBuffer) *T {
	return Resource[T]{}.Get(sh.world)
}

// WorldExclusive is the exclusive-world marker parameter: a system
// requesting it is partitioned out of bundling entirely and runs alone,
// sequentially, at phase entry.
type WorldExclusive struct{}

type worldExclusiveState struct{}

func (WorldExclusive) buildState(w *World) ParamState[*World] { return worldExclusiveState{} }
func (worldExclusiveState) requiredAccess() AccessRequest     { return AccessRequest{ExclusiveWorld: true} }
func (worldExclusiveState) get(sh *Shard, cmd *CommandBuffer) *World { return sh.world }

// CommandsParam is the deferred-command-handle parameter. It declares no
// access of its own: queuing a command does not touch storage until flush,
// which always runs with exclusive world access between groups.
type CommandsParam struct{}

type commandsState struct{}

func (CommandsParam) buildState(w *World) ParamState[*CommandBuffer] { return commandsState{} }
func (commandsState) requiredAccess() AccessRequest                 { return AccessRequest{} }
func (commandsState) get(sh *Shard, cmd *CommandBuffer) *CommandBuffer { return cmd }

// EventProducerParam is the producer-handle parameter for event type T.
// Multiple producers of the same event type conflict with each other
// (write-write on the same key); a producer never conflicts with a
// consumer of the same type.
type EventProducerParam[T any] struct{}

type producerState[T any] struct{}

func (EventProducerParam[T]) buildState(w *World) ParamState[Producer[T]] {
	return producerState[T]{}
}
func (producerState[T]) requiredAccess() AccessRequest {
	return AccessRequest{Resources: []ResourceAccess{{Key: "producer:" + typeKey[T](), Mode: AccessWrite}}}
}
func (producerState[T]) get(sh *Shard, cmd *CommandBuffer) Producer[T] { return Producer[T]{} }

// EventConsumerParam is the consumer-handle parameter for event type T. Its
// read cursor is allocated once, at build_state time, and reused every run;
// multiple consumers of the same type never conflict with each other.
type EventConsumerParam[T any] struct{}

type consumerState[T any] struct{ c Consumer[T] }

func (EventConsumerParam[T]) buildState(w *World) ParamState[Consumer[T]] {
	return &consumerState[T]{c: NewConsumer[T](w)}
}
func (s *consumerState[T]) requiredAccess() AccessRequest {
	return AccessRequest{Resources: []ResourceAccess{{Key: "consumer:" + typeKey[T](), Mode: AccessRead}}}
}
func (s *consumerState[T]) get(sh *Shard, cmd *CommandBuffer) Consumer[T] { return s.c }

// Local is per-system private state, built once as the zero value of T and
// persisted across every run of the system that declared it. It declares no
// world access and so never participates in conflict detection.
type Local[T any] struct{}

type localState[T any] struct{ value T }

func (Local[T]) buildState(w *World) ParamState[*T]    { return &localState[T]{} }
func (s *localState[T]) requiredAccess() AccessRequest { return AccessRequest{} }
func (s *localState[T]) get(sh *Shard, cmd *CommandBuffer) *T { return &s.value }

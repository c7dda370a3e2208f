package engine

import "iter"

// Row1 is the per-row value yielded by a Query1: a single bound field.
type Row1[A field] struct{ A A }

// Row2 is the per-row value yielded by a Query2.
type Row2[A field, B field] struct {
	A A
	B B
}

// Row3 is the per-row value yielded by a Query3.
type Row3[A field, B field, C field] struct {
	A A
	B B
	C C
}

// Row4 is the per-row value yielded by a Query4.
type Row4[A field, B field, C field, D field] struct {
	A A
	B B
	C C
	D D
}

// Query1 is a compiled plan built once against the type registry: it knows
// its required spec and access set up front, and re-evaluates which tables
// currently satisfy that spec each time Rows is invoked.
type Query1[A field] struct {
	required Spec
	access   []Access
	mutable  []TypeID
}

// NewQuery1 compiles a one-field View into a Query.
func NewQuery1[A field]() *Query1[A] {
	var a A
	q := &Query1[A]{}
	q.required, q.access, q.mutable = compileFields(a)
	return q
}

// RequiredSpec returns the union of the query's non-optional component
// types.
func (q *Query1[A]) RequiredSpec() Spec { return q.required }

// Access returns the query's full (type, mode) access set.
func (q *Query1[A]) Access() []Access { return q.access }

// Rows iterates every row, across every table whose spec is a superset of
// the query's required spec, at most once per matching entity. Structural
// mutation of w during iteration is forbidden; w is locked for the
// iteration's duration. Ending the iteration does not flush the command
// buffer; that is World.Flush's job.
func (q *Query1[A]) Rows(w *World) iter.Seq[Row1[A]] {
	if hasDuplicates(q.mutable) {
		panic("engine: view aliasing violation: the same component is accessed mutably twice")
	}
	tables := w.storage.MatchingTables(q.required)
	return func(yield func(Row1[A]) bool) {
		w.Lock()
		defer w.Unlock()
		var a A
		for _, t := range tables {
			bindA := a.prepare(t)
			n := t.Length()
			for row := 0; row < n; row++ {
				ra := bindA(row).(A)
				if !yield(Row1[A]{A: ra}) {
					return
				}
			}
		}
	}
}

// Query2 is the two-field analogue of Query1.
type Query2[A field, B field] struct {
	required Spec
	access   []Access
	mutable  []TypeID
}

func NewQuery2[A field, B field]() *Query2[A, B] {
	var a A
	var b B
	q := &Query2[A, B]{}
	q.required, q.access, q.mutable = compileFields(a, b)
	return q
}

func (q *Query2[A, B]) RequiredSpec() Spec { return q.required }
func (q *Query2[A, B]) Access() []Access   { return q.access }

func (q *Query2[A, B]) Rows(w *World) iter.Seq[Row2[A, B]] {
	if hasDuplicates(q.mutable) {
		panic("engine: view aliasing violation: the same component is accessed mutably twice")
	}
	tables := w.storage.MatchingTables(q.required)
	return func(yield func(Row2[A, B]) bool) {
		w.Lock()
		defer w.Unlock()
		var a A
		var b B
		for _, t := range tables {
			bindA, bindB := a.prepare(t), b.prepare(t)
			n := t.Length()
			for row := 0; row < n; row++ {
				ra := bindA(row).(A)
				rb := bindB(row).(B)
				if !yield(Row2[A, B]{A: ra, B: rb}) {
					return
				}
			}
		}
	}
}

// Query3 is the three-field analogue of Query1.
type Query3[A field, B field, C field] struct {
	required Spec
	access   []Access
	mutable  []TypeID
}

func NewQuery3[A field, B field, C field]() *Query3[A, B, C] {
	var a A
	var b B
	var c C
	q := &Query3[A, B, C]{}
	q.required, q.access, q.mutable = compileFields(a, b, c)
	return q
}

func (q *Query3[A, B, C]) RequiredSpec() Spec { return q.required }
func (q *Query3[A, B, C]) Access() []Access   { return q.access }

func (q *Query3[A, B, C]) Rows(w *World) iter.Seq[Row3[A, B, C]] {
	if hasDuplicates(q.mutable) {
		panic("engine: view aliasing violation: the same component is accessed mutably twice")
	}
	tables := w.storage.MatchingTables(q.required)
	return func(yield func(Row3[A, B, C]) bool) {
		w.Lock()
		defer w.Unlock()
		var a A
		var b B
		var c C
		for _, t := range tables {
			bindA, bindB, bindC := a.prepare(t), b.prepare(t), c.prepare(t)
			n := t.Length()
			for row := 0; row < n; row++ {
				ra := bindA(row).(A)
				rb := bindB(row).(B)
				rc := bindC(row).(C)
				if !yield(Row3[A, B, C]{A: ra, B: rb, C: rc}) {
					return
				}
			}
		}
	}
}

// Query4 is the four-field analogue of Query1. Higher arities (up to the
// spec's nominal 1-26) follow this exact mechanical pattern; see DESIGN.md
// for why the hand-authored set stops here.
type Query4[A field, B field, C field, D field] struct {
	required Spec
	access   []Access
	mutable  []TypeID
}

func NewQuery4[A field, B field, C field, D field]() *Query4[A, B, C, D] {
	var a A
	var b B
	var c C
	var d D
	q := &Query4[A, B, C, D]{}
	q.required, q.access, q.mutable = compileFields(a, b, c, d)
	return q
}

func (q *Query4[A, B, C, D]) RequiredSpec() Spec { return q.required }
func (q *Query4[A, B, C, D]) Access() []Access   { return q.access }

func (q *Query4[A, B, C, D]) Rows(w *World) iter.Seq[Row4[A, B, C, D]] {
	if hasDuplicates(q.mutable) {
		panic("engine: view aliasing violation: the same component is accessed mutably twice")
	}
	tables := w.storage.MatchingTables(q.required)
	return func(yield func(Row4[A, B, C, D]) bool) {
		w.Lock()
		defer w.Unlock()
		var a A
		var b B
		var c C
		var d D
		for _, t := range tables {
			bindA, bindB, bindC, bindD := a.prepare(t), b.prepare(t), c.prepare(t), d.prepare(t)
			n := t.Length()
			for row := 0; row < n; row++ {
				ra := bindA(row).(A)
				rb := bindB(row).(B)
				rc := bindC(row).(C)
				rd := bindD(row).(D)
				if !yield(Row4[A, B, C, D]{A: ra, B: rb, C: rc, D: rd}) {
					return
				}
			}
		}
	}
}

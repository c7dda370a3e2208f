package engine

import (
	"fmt"
	"unsafe"
)

// Column is a type-erased, contiguous buffer of instances of one component
// type. It owns the backing memory and the drop discipline for whatever it
// holds: every occupied slot contains a validly-constructed value of its
// Info's type, and any removal that is not a move calls Info.Drop.
//
// Zero-sized component types allocate no backing buffer; their length is
// tracked as a bare integer and byte operations are no-ops.
type Column struct {
	info   Info
	data   []byte
	length int
}

func newColumn(info Info) *Column {
	return &Column{info: info}
}

// Info returns the column's immutable type descriptor.
func (c *Column) Info() Info { return c.info }

// Len returns the column's current element count.
func (c *Column) Len() int { return c.length }

func (c *Column) growTo(n int) {
	size := int(c.info.Size)
	if size == 0 {
		return
	}
	need := n * size
	if len(c.data) >= need {
		return
	}
	growth := Config.TableGrowthFactor
	if growth < 2 {
		growth = 2
	}
	newCap := len(c.data) * growth
	if newCap < need {
		newCap = need
	}
	grown := alignedBytes(newCap, c.info.Align)
	copy(grown, c.data)
	c.data = grown
}

// alignedBytes allocates an n-byte buffer whose first byte sits on an
// align-byte boundary, per §4.2's "Column's backing buffer is aligned to
// Info.align" invariant. A plain make([]byte, n) only happens to land on a
// suitable boundary for types up to the runtime allocator's own alignment
// guarantee; over-aligned types need the explicit padding-and-trim below.
// Since a type's Size is always a multiple of its Align, aligning the first
// slot aligns every subsequent one too.
func alignedBytes(n int, align uintptr) []byte {
	if align <= 1 {
		return make([]byte, n)
	}
	buf := make([]byte, n+int(align)-1)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	offset := (align - addr%align) % align
	end := int(offset) + n
	return buf[offset:end:end]
}

func (c *Column) slot(row int) unsafe.Pointer {
	if c.info.Size == 0 {
		return nil
	}
	return unsafe.Pointer(&c.data[row*int(c.info.Size)])
}

func checkColumnType[T any](c *Column) {
	want := registerType[T]()
	if want != c.info.ID {
		panic(fmt.Sprintf("engine: type mismatch on column operation: column holds %s, got %s", c.info.Name, infoFor(want).Name))
	}
}

func elemPtr[T any](c *Column, row int) *T {
	if c.info.Size == 0 {
		return new(T)
	}
	return (*T)(c.slot(row))
}

// PushTyped moves value into the tail of c. Panics naming both types if T
// does not match the column's registered element type.
func PushTyped[T any](c *Column, value T) {
	checkColumnType[T](c)
	row := c.length
	c.growTo(row + 1)
	c.length++
	if c.info.Size != 0 {
		*(*T)(c.slot(row)) = value
	}
}

// PushBytes moves an already-constructed instance's raw bytes into the tail
// of c. len(src) must equal the column's element size; the caller guarantees
// src actually holds a valid instance of the column's type.
func (c *Column) PushBytes(src []byte) {
	if len(src) != int(c.info.Size) {
		panic(fmt.Sprintf("engine: PushBytes length %d does not match column element size %d for %s", len(src), c.info.Size, c.info.Name))
	}
	row := c.length
	c.growTo(row + 1)
	c.length++
	if c.info.Size != 0 {
		copy(c.bytesAt(row), src)
	}
}

func (c *Column) bytesAt(row int) []byte {
	if c.info.Size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(c.slot(row)), c.info.Size)
}

// ReadBytes returns a raw view of row's bytes. Used only by migration, which
// byte-copies between columns without invoking drop on either side.
func (c *Column) ReadBytes(row int) []byte {
	return c.bytesAt(row)
}

// GetTyped returns a shared reference into row, after verifying T matches
// the column's element type.
func GetTyped[T any](c *Column, row int) *T {
	checkColumnType[T](c)
	return elemPtr[T](c, row)
}

// GetTypedMut returns an exclusive reference into row, after verifying T
// matches the column's element type. Identical to GetTyped at the storage
// level; the distinction is enforced by the View/aliasing layer above it.
func GetTypedMut[T any](c *Column, row int) *T {
	return GetTyped[T](c, row)
}

// SwapRemoveDrop evicts row, dropping its value, and swaps the former tail
// element (if any) into the vacated slot.
func (c *Column) SwapRemoveDrop(row int) {
	last := c.length - 1
	if c.info.Size != 0 {
		if c.info.Drop != nil {
			c.info.Drop(c.slot(row))
		}
		if row != last {
			copy(c.bytesAt(row), c.bytesAt(last))
		}
	}
	c.length = last
}

// SwapRemoveNoDrop evicts row without invoking drop, because its value was
// already moved out by an earlier byte-copy (migration's source-row
// cleanup).
func (c *Column) SwapRemoveNoDrop(row int) {
	last := c.length - 1
	if c.info.Size != 0 && row != last {
		copy(c.bytesAt(row), c.bytesAt(last))
	}
	c.length = last
}

// ColumnIter is a validated, pointer-stepping iterator over a Column's
// elements. The type check happens once at construction; Next/Value never
// re-check.
type ColumnIter[T any] struct {
	col *Column
	idx int
}

// IterTyped constructs a validated iterator over c. Panics if T does not
// match c's element type.
func IterTyped[T any](c *Column) *ColumnIter[T] {
	checkColumnType[T](c)
	return &ColumnIter[T]{col: c, idx: -1}
}

// Next advances the iterator. Returns false once exhausted.
func (it *ColumnIter[T]) Next() bool {
	it.idx++
	return it.idx < it.col.length
}

// Value returns a pointer to the current element. Only valid after a Next
// call that returned true.
func (it *ColumnIter[T]) Value() *T {
	return elemPtr[T](it.col, it.idx)
}

// Len reports the exact number of elements remaining, not counting the
// current one if Next has already been called: (remaining, true).
func (it *ColumnIter[T]) Len() (int, bool) {
	remaining := it.col.length - (it.idx + 1)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

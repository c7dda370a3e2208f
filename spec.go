package engine

import "sort"

// Spec is a sorted, duplicate-free sequence of TypeIDs naming an archetype.
// It is the key Storage uses to find or create a Table.
type Spec []TypeID

// NewSpec canonicalizes ids into a Spec: sorted ascending, duplicates
// removed.
func NewSpec(ids ...TypeID) Spec {
	s := make(Spec, len(ids))
	copy(s, ids)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return dedupSorted(s)
}

func dedupSorted(s Spec) Spec {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, id := range s[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// With returns a new Spec with id inserted, or s unchanged (as a copy) if id
// is already present.
func (s Spec) With(id TypeID) Spec {
	out := make(Spec, len(s)+1)
	copy(out, s)
	out[len(s)] = id
	return NewSpec(out...)
}

// Without returns a new Spec with id removed, if present.
func (s Spec) Without(id TypeID) Spec {
	out := make(Spec, 0, len(s))
	for _, existing := range s {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Has reports whether id is present in s.
func (s Spec) Has(id TypeID) bool {
	_, ok := sort.Find(len(s), func(i int) int {
		switch {
		case s[i] < id:
			return 1
		case s[i] > id:
			return -1
		default:
			return 0
		}
	})
	return ok
}

// Difference returns the elements of s not present in other.
func (s Spec) Difference(other Spec) Spec {
	out := make(Spec, 0, len(s))
	for _, id := range s {
		if !other.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Intersection returns the elements present in both s and other.
func (s Spec) Intersection(other Spec) Spec {
	out := make(Spec, 0, min(len(s), len(other)))
	for _, id := range s {
		if other.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// IsSubsetOf reports whether every element of s is present in other.
func (s Spec) IsSubsetOf(other Spec) bool {
	for _, id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Equal reports element-wise equality. Both specs must already be
// canonicalized (sorted, deduplicated) for this to be meaningful, which
// every constructor in this package guarantees.
func (s Spec) Equal(other Spec) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

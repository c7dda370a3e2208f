package engine

import "testing"

func TestNewSpecSortsAndDedups(t *testing.T) {
	s := NewSpec(TypeID(3), TypeID(1), TypeID(2), TypeID(1))
	want := Spec{1, 2, 3}
	if !s.Equal(want) {
		t.Errorf("NewSpec = %v, want %v", s, want)
	}
}

func TestSpecWithWithout(t *testing.T) {
	s := NewSpec(1, 2)
	if got := s.With(3); !got.Equal(Spec{1, 2, 3}) {
		t.Errorf("With(3) = %v, want [1 2 3]", got)
	}
	if got := s.With(2); !got.Equal(Spec{1, 2}) {
		t.Errorf("With(already-present) = %v, want [1 2]", got)
	}
	if got := s.Without(1); !got.Equal(Spec{2}) {
		t.Errorf("Without(1) = %v, want [2]", got)
	}
}

func TestSpecSetAlgebra(t *testing.T) {
	a := NewSpec(1, 2, 3)
	b := NewSpec(2, 3, 4)

	if !a.Difference(b).Equal(Spec{1}) {
		t.Errorf("Difference = %v, want [1]", a.Difference(b))
	}
	if !a.Intersection(b).Equal(Spec{2, 3}) {
		t.Errorf("Intersection = %v, want [2 3]", a.Intersection(b))
	}
	if !NewSpec(2, 3).IsSubsetOf(a) {
		t.Errorf("IsSubsetOf should be true for a subset")
	}
	if a.IsSubsetOf(b) {
		t.Errorf("IsSubsetOf should be false: a has element 1 that b lacks")
	}
}

func TestSpecHas(t *testing.T) {
	s := NewSpec(5, 10, 15)
	for _, id := range []TypeID{5, 10, 15} {
		if !s.Has(id) {
			t.Errorf("Has(%d) = false, want true", id)
		}
	}
	if s.Has(7) {
		t.Errorf("Has(7) = true, want false")
	}
}

package engine

import "testing"

func TestColorBundlesNoConflictsOneGroup(t *testing.T) {
	conflicts := func(i, j int) bool { return false }
	groups := colorBundles(3, conflicts)
	if len(groups) != 1 || len(groups[0]) != 3 {
		t.Fatalf("groups = %v, want one group of 3", groups)
	}
}

func TestColorBundlesAllConflictSeparateGroups(t *testing.T) {
	conflicts := func(i, j int) bool { return true }
	groups := colorBundles(3, conflicts)
	if len(groups) != 3 {
		t.Fatalf("groups = %v, want 3 singleton groups", groups)
	}
	for _, g := range groups {
		if len(g) != 1 {
			t.Errorf("group %v has %d members, want 1", g, len(g))
		}
	}
}

func TestColorBundlesPartialConflict(t *testing.T) {
	// 0 conflicts with 1 and 2, but 1 and 2 do not conflict with each other.
	conflicts := func(i, j int) bool {
		return (i == 0 && j != 0) || (j == 0 && i != 0)
	}
	groups := colorBundles(3, conflicts)
	if len(groups) != 2 {
		t.Fatalf("groups = %v, want 2 groups", groups)
	}
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != 3 {
		t.Errorf("groups cover %d bundles, want 3", total)
	}
}

func TestColorBundlesEmpty(t *testing.T) {
	if got := colorBundles(0, func(i, j int) bool { return false }); got != nil {
		t.Errorf("colorBundles(0, ...) = %v, want nil", got)
	}
}

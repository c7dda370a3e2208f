package engine

import (
	"iter"
	"testing"
)

func TestSchedulerExclusiveSystemRunsSequentiallyFirst(t *testing.T) {
	w := NewWorld()
	sc := NewScheduler(w)

	var order []string
	exclusive := NewSystem1[*World, WorldExclusive](w, "exclusive", WorldExclusive{}, func(ww *World) {
		order = append(order, "exclusive")
	})
	plain := NewSystem1[iter.Seq[Row1[Ref[Position]]], QueryParam1[Ref[Position]]](w, "plain", QueryParam1[Ref[Position]]{}, func(rows iter.Seq[Row1[Ref[Position]]]) {
		order = append(order, "plain")
		for range rows {
		}
	})

	sc.AddSystem(PhaseUpdate, plain)
	sc.AddSystem(PhaseUpdate, exclusive)
	sc.Run(PhaseUpdate)

	if len(order) != 2 || order[0] != "exclusive" {
		t.Fatalf("order = %v, want exclusive to run first", order)
	}
}

func TestSchedulerFlushesBetweenGroups(t *testing.T) {
	w := NewWorld()
	sc := NewScheduler(w)

	spawner := NewSystem1[*CommandBuffer, CommandsParam](w, "spawner", CommandsParam{}, func(cmd *CommandBuffer) {
		cmd.Spawn(Value(Position{X: 1}))
	})
	sc.AddSystem(PhaseUpdate, spawner)
	sc.Run(PhaseUpdate)

	q := NewQuery1[Ref[Position]]()
	count := 0
	for range q.Rows(w) {
		count++
	}
	if count != 1 {
		t.Fatalf("expected the deferred spawn to be visible after Run, got %d rows", count)
	}
}

func TestSchedulerPanicAbortsPhase(t *testing.T) {
	w := NewWorld()
	sc := NewScheduler(w)

	ran := false
	boom := NewSystem0(w, "boom", func() { panic("boom") })
	after := NewSystem0(w, "after", func() { ran = true })

	sc.AddSystem(PhaseUpdate, boom)
	sc.AddSystem(PhaseUpdate, after)

	defer func() {
		if recover() == nil {
			t.Errorf("expected the panic to propagate out of Run")
		}
		if ran {
			t.Errorf("the system registered after the panicking one ran; phase should have aborted")
		}
	}()
	sc.Run(PhaseUpdate)
}

func TestSchedulerPlanCacheInvalidatedByAddSystem(t *testing.T) {
	w := NewWorld()
	sc := NewScheduler(w)

	s1 := NewSystem1[iter.Seq[Row1[Mut[Position]]], QueryParam1[Mut[Position]]](w, "s1", QueryParam1[Mut[Position]]{}, func(rows iter.Seq[Row1[Mut[Position]]]) {
		for range rows {
		}
	})
	sc.AddSystem(PhaseUpdate, s1)
	sc.Run(PhaseUpdate)

	s2 := NewSystem1[iter.Seq[Row1[Mut[Velocity]]], QueryParam1[Mut[Velocity]]](w, "s2", QueryParam1[Mut[Velocity]]{}, func(rows iter.Seq[Row1[Mut[Velocity]]]) {
		for range rows {
		}
	})
	sc.AddSystem(PhaseUpdate, s2)
	// Must not panic or stale-plan: the cache was reset by AddSystem, so the
	// new bundle set is colored fresh rather than reusing s1's lone-bundle
	// plan for a now-two-bundle phase.
	sc.Run(PhaseUpdate)
}

package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Phase names a point in the frame where a group of systems runs. The core
// carries First and Last in addition to the three named in the protocol, as
// bracketing phases for host setup/teardown systems that should run outside
// the gameplay phases' conflict-free grouping concerns.
type Phase int

const (
	PhaseFirst Phase = iota
	PhasePreUpdate
	PhaseUpdate
	PhasePostUpdate
	PhaseLast
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseFirst:
		return "First"
	case PhasePreUpdate:
		return "PreUpdate"
	case PhaseUpdate:
		return "Update"
	case PhasePostUpdate:
		return "PostUpdate"
	case PhaseLast:
		return "Last"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// System is a callable plus its compiled access declaration, built once by
// NewSystemN against a concrete parameter list.
type System struct {
	name   string
	access AccessRequest
	run    func(sh *Shard, cmd *CommandBuffer)
}

// NewSystem0 registers a parameterless system: it declares no access, so it
// conflicts only with exclusive-world systems, and it shares a bundle with
// every other system that declares no access.
func NewSystem0(w *World, name string, fn func()) *System {
	return &System{name: name, run: func(sh *Shard, cmd *CommandBuffer) { fn() }}
}

// NewSystem1 registers a system taking one System Parameter.
func NewSystem1[V1 any, P1 Param[V1]](w *World, name string, p1 P1, fn func(V1)) *System {
	s1 := p1.buildState(w)
	return &System{
		name:   name,
		access: s1.requiredAccess(),
		run: func(sh *Shard, cmd *CommandBuffer) {
			fn(s1.get(sh, cmd))
		},
	}
}

// NewSystem2 registers a system taking two System Parameters.
func NewSystem2[V1, V2 any, P1 Param[V1], P2 Param[V2]](w *World, name string, p1 P1, p2 P2, fn func(V1, V2)) *System {
	s1, s2 := p1.buildState(w), p2.buildState(w)
	return &System{
		name:   name,
		access: s1.requiredAccess().Merge(s2.requiredAccess()),
		run: func(sh *Shard, cmd *CommandBuffer) {
			fn(s1.get(sh, cmd), s2.get(sh, cmd))
		},
	}
}

// NewSystem3 registers a system taking three System Parameters.
func NewSystem3[V1, V2, V3 any, P1 Param[V1], P2 Param[V2], P3 Param[V3]](w *World, name string, p1 P1, p2 P2, p3 P3, fn func(V1, V2, V3)) *System {
	s1, s2, s3 := p1.buildState(w), p2.buildState(w), p3.buildState(w)
	return &System{
		name:   name,
		access: s1.requiredAccess().Merge(s2.requiredAccess()).Merge(s3.requiredAccess()),
		run: func(sh *Shard, cmd *CommandBuffer) {
			fn(s1.get(sh, cmd), s2.get(sh, cmd), s3.get(sh, cmd))
		},
	}
}

// NewSystem4 registers a system taking four System Parameters. Systems
// accept 0-26 parameters per the protocol; the hand-authored set stops here
// for the same reason Query/Param arities do. See DESIGN.md.
func NewSystem4[V1, V2, V3, V4 any, P1 Param[V1], P2 Param[V2], P3 Param[V3], P4 Param[V4]](w *World, name string, p1 P1, p2 P2, p3 P3, p4 P4, fn func(V1, V2, V3, V4)) *System {
	s1, s2, s3, s4 := p1.buildState(w), p2.buildState(w), p3.buildState(w), p4.buildState(w)
	return &System{
		name:   name,
		access: s1.requiredAccess().Merge(s2.requiredAccess()).Merge(s3.requiredAccess()).Merge(s4.requiredAccess()),
		run: func(sh *Shard, cmd *CommandBuffer) {
			fn(s1.get(sh, cmd), s2.get(sh, cmd), s3.get(sh, cmd), s4.get(sh, cmd))
		},
	}
}

// bundle is a group of systems whose access sets are identical, sharing one
// shard and running sequentially (in registration order) within it.
type bundle struct {
	systems []*System
	access  AccessRequest
}

func (b *bundle) name() string {
	if len(b.systems) == 1 {
		return b.systems[0].name
	}
	return fmt.Sprintf("%s+%d", b.systems[0].name, len(b.systems)-1)
}

// Scheduler holds the ordered system list per phase and drives the
// partition/bundle/color/flush pipeline described in the parameter
// protocol's scheduling section.
type Scheduler struct {
	systems [phaseCount][]*System
	ledger  *accessLedger
	plans   *planCache
	world   *World
}

// NewScheduler builds a Scheduler bound to w.
func NewScheduler(w *World) *Scheduler {
	return &Scheduler{world: w, ledger: newAccessLedger(), plans: newPlanCache()}
}

// AddSystem appends sys to phase's system list, in registration order. Since
// this changes the phase's bundle signature space, any memoized color-group
// plan is dropped.
func (sc *Scheduler) AddSystem(phase Phase, sys *System) {
	sc.systems[phase] = append(sc.systems[phase], sys)
	sc.plans.reset()
}

// Run executes every system registered to phase: exclusive-world systems
// run sequentially first, then the remainder is bundled by identical
// access, colored into conflict-free groups, and each group runs its
// bundles in parallel before the command buffer is flushed. A panic from a
// bundled system aborts the rest of the phase after its group's bundles
// have all returned and the buffer has been flushed once; a panic from an
// exclusive-world system propagates straight out of Run, without that
// flush.
func (sc *Scheduler) Run(phase Phase) {
	w := sc.world
	systems := sc.systems[phase]

	var exclusive []*System
	var rest []*System
	for _, s := range systems {
		if s.access.ExclusiveWorld {
			exclusive = append(exclusive, s)
		} else {
			rest = append(rest, s)
		}
	}

	for _, s := range exclusive {
		sh := &Shard{world: w}
		s.run(sh, w.Commands())
		w.Flush()
	}

	bundles := bundleByAccess(rest)
	key := phase.String() + "|" + planSignature(bundles)
	groups := sc.plans.lookupOrCompute(key, func() [][]int {
		return colorBundles(len(bundles), func(i, j int) bool {
			return bundles[i].access.ConflictsWith(bundles[j].access)
		})
	})

	for _, group := range groups {
		sc.runGroup(bundles, group)
	}
}

// planSignature fingerprints a bundle set's conflict structure: for each
// bundle, in bundle order, its system count and its AccessRequest as
// formatted by %v (entries in declaration order, not sorted). Two calls
// with the same signature always color to the same groups, since the input
// to colorBundles is solely each bundle's AccessRequest.
func planSignature(bundles []*bundle) string {
	var b []byte
	for i, bd := range bundles {
		if i > 0 {
			b = append(b, ';')
		}
		b = fmt.Appendf(b, "%d:%v", len(bd.systems), bd.access)
	}
	return string(b)
}

func bundleByAccess(systems []*System) []*bundle {
	var bundles []*bundle
	for _, s := range systems {
		placed := false
		for _, b := range bundles {
			if b.access.Equal(s.access) {
				b.systems = append(b.systems, s)
				placed = true
				break
			}
		}
		if !placed {
			bundles = append(bundles, &bundle{systems: []*System{s}, access: s.access})
		}
	}
	return bundles
}

func (sc *Scheduler) runGroup(bundles []*bundle, indices []int) {
	w := sc.world
	workers := Config.WorkerCount
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := semaphore.NewWeighted(int64(workers))
	ctx := context.Background()

	// Each bundle gets its own private CommandBuffer: CommandBuffer's slice
	// appends are not synchronized, and bundles in this group run
	// concurrently, so sharing w.Commands() across them would race. The
	// locals are merged into w.buffer, in bundle order, only after every
	// goroutine below has returned.
	locals := make([]*CommandBuffer, len(indices))

	var eg errgroup.Group
	for i, idx := range indices {
		b := bundles[idx]
		local := newCommandBuffer(w)
		locals[i] = local
		eg.Go(func() (err error) {
			if aerr := sem.Acquire(ctx, 1); aerr != nil {
				return aerr
			}
			defer sem.Release(1)

			grant := sc.ledger.issue(b.name(), b.access)
			defer sc.ledger.release(grant)

			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("engine: system bundle %q panicked: %v", b.name(), r)
				}
			}()

			sh := &Shard{world: w, grant: grant}
			for _, s := range b.systems {
				s.run(sh, local)
			}
			return nil
		})
	}

	// Every bundle in the group has returned (successfully or by unwinding
	// into the recover above) before Wait returns, so the group's writes are
	// all visible here; merging the per-bundle buffers and flushing before
	// surfacing the panic matches the protocol's "flush sits between groups"
	// ordering even on the aborting group.
	err := eg.Wait()
	for _, local := range locals {
		w.buffer.merge(local)
	}
	w.Flush()
	if err != nil {
		panic(err)
	}
}

package engine

import (
	"fmt"
	"sync"
)

// Shard is the handle a parallel bundle receives for the duration of its
// run: a pointer-equivalent to the World plus the AccessGrant that
// prevalidated its access set against every other bundle in the same color
// group. Shards are transferable to exactly one worker at a time; the World
// itself never is.
type Shard struct {
	world *World
	grant *AccessGrant
}

// World exposes the underlying World. Systems should only read/write the
// component and resource types named in the Shard's grant; nothing in the
// core enforces that beyond the access-set validator that built the grant.
func (s *Shard) World() *World { return s.world }

// AccessGrant is the ledger entry recording one bundle's validated access
// set for the duration of a color group. accessLedger tracks every grant
// currently outstanding and panics if two overlap, as defense-in-depth
// behind the color planner's own disjointness proof.
type AccessGrant struct {
	bundle string
	access AccessRequest
}

type accessLedger struct {
	mu     sync.Mutex
	active []*AccessGrant
}

func newAccessLedger() *accessLedger {
	return &accessLedger{}
}

// issue records a new grant for bundle, panicking if it overlaps any grant
// currently outstanding.
func (l *accessLedger) issue(bundle string, access AccessRequest) *AccessGrant {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, g := range l.active {
		if g.access.ConflictsWith(access) {
			panic(fmt.Sprintf("engine: access grant overlap between bundle %q and %q; the color planner should have proven these disjoint", g.bundle, bundle))
		}
	}
	g := &AccessGrant{bundle: bundle, access: access}
	l.active = append(l.active, g)
	return g
}

// release returns g to the ledger, making its access available for the next
// grant to claim.
func (l *accessLedger) release(g *AccessGrant) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, active := range l.active {
		if active == g {
			l.active = append(l.active[:i], l.active[i+1:]...)
			return
		}
	}
}

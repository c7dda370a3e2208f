package engine

// Config holds process-wide tuning knobs for the engine. It follows the same
// package-level-var-plus-setters shape the rest of the runtime's ambient
// configuration uses, so host code has one place to look.
var Config config = config{
	EventBufferCapacity: 1024,
	WorkerCount:         0,
	TableGrowthFactor:   2,
}

type config struct {
	// EventBufferCapacity is the default per-event-type buffer size before a
	// Producer push panics with a capacity-exceeded error.
	EventBufferCapacity int

	// WorkerCount bounds how many bundles the scheduler runs concurrently
	// within a single color group. Zero means runtime.GOMAXPROCS(0).
	WorkerCount int

	// TableGrowthFactor is the multiplier applied to a column's capacity when
	// it must grow to hold a new row.
	TableGrowthFactor int
}

// SetEventBufferCapacity overrides the default event buffer capacity used by
// newly registered event types.
func (c *config) SetEventBufferCapacity(n int) {
	c.EventBufferCapacity = n
}

// SetWorkerCount overrides how many parallel bundles the scheduler may run at
// once within a color group.
func (c *config) SetWorkerCount(n int) {
	c.WorkerCount = n
}

// SetTableGrowthFactor overrides the capacity growth multiplier used by
// columns when they need to extend their backing buffer.
func (c *config) SetTableGrowthFactor(n int) {
	if n < 2 {
		n = 2
	}
	c.TableGrowthFactor = n
}

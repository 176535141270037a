// Package resources holds the daemon's advisory accounting of committed CPU
// cores and memory. It is bookkeeping only, not enforcement: nothing stops an
// external process from consuming capacity behind the scheduler's back.
package resources

// Tracker counts resources committed to running jobs. All mutation happens on
// the single scheduler goroutine, so there is no internal locking; callers
// outside that goroutine must not touch it.
type Tracker struct {
	usedCores    int
	usedMemoryGB int
}

func (t *Tracker) UsedCores() int {
	return t.usedCores
}

func (t *Tracker) UsedMemoryGB() int {
	return t.usedMemoryGB
}

// Reserve commits the given demand. Every Running job has exactly one
// reservation outstanding.
func (t *Tracker) Reserve(cores, memoryGB int) {
	t.usedCores += cores
	t.usedMemoryGB += memoryGB
}

// Release returns a reservation. Both counters clamp at zero: a double
// release or drift from externally consumed capacity must never drive the
// pool negative.
func (t *Tracker) Release(cores, memoryGB int) {
	t.usedCores -= cores
	if t.usedCores < 0 {
		t.usedCores = 0
	}
	t.usedMemoryGB -= memoryGB
	if t.usedMemoryGB < 0 {
		t.usedMemoryGB = 0
	}
}

// Available computes free capacity against the given totals, clamped at zero
// so an externally shrunken host only declines admission instead of going
// negative.
func (t *Tracker) Available(totalCores, totalMemoryGB int) (cores, memoryGB int) {
	cores = totalCores - t.usedCores
	if cores < 0 {
		cores = 0
	}
	memoryGB = totalMemoryGB - t.usedMemoryGB
	if memoryGB < 0 {
		memoryGB = 0
	}
	return cores, memoryGB
}

package robot

import (
	"sync"

	"github.com/drawbotic/navigation/pkg/nav"
)

// Encoders turns absolute wheel counts into destructive per-motor deltas.
// The first count seen for a motor only sets its baseline.
type Encoders struct {
	mu          sync.Mutex
	seen        [2]bool
	last        [2]int32
	accumulator [2]int64
}

// NewEncoders creates an empty accumulator.
func NewEncoders() *Encoders {
	return &Encoders{}
}

// Update records a new absolute count for m.
func (e *Encoders) Update(m nav.Motor, count int32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := motorSlot(m)
	if e.seen[i] {
		// int32 subtraction wraps correctly across counter overflow
		e.accumulator[i] += int64(count - e.last[i])
	}
	e.last[i] = count
	e.seen[i] = true
}

// Delta returns the ticks accumulated for m since the last read or reset.
func (e *Encoders) Delta(m nav.Motor) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := motorSlot(m)
	d := e.accumulator[i]
	e.accumulator[i] = 0
	return int(d)
}

// Reset zeroes both accumulators. Baselines are kept.
func (e *Encoders) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.accumulator = [2]int64{}
}

package fulfillment

import "sync/atomic"

// Tracker counts in-flight fulfillment operations using atomics.
// The health endpoint reports the current count.
type Tracker struct {
	inFlight atomic.Int64
}

// Inc increments the in-flight counter.
func (t *Tracker) Inc() { t.inFlight.Add(1) }

// Dec decrements the in-flight counter.
func (t *Tracker) Dec() { t.inFlight.Add(-1) }

// InFlight returns the current in-flight count.
func (t *Tracker) InFlight() int64 { return t.inFlight.Load() }

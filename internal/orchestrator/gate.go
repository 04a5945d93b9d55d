package orchestrator

import "context"

// Gate serializes orchestration runs: at most one holder at a time.
// A second caller queues behind the active run rather than cancelling
// it. A queued caller whose context ends before the slot frees is
// dropped; once a run holds the gate it runs to completion.
type Gate struct {
	slot chan struct{}
}

// NewGate creates an unheld gate
func NewGate() *Gate {
	return &Gate{slot: make(chan struct{}, 1)}
}

// Acquire blocks until the gate is free or ctx ends.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes the gate without blocking.
// Returns false if another run is active.
func (g *Gate) TryAcquire() bool {
	select {
	case g.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees the gate for the next queued run
func (g *Gate) Release() {
	<-g.slot
}

// Package ledger provides the chain-time surrogate: a monotonic height that
// stands in for block numbers. Each state transition executes at exactly one
// height; created_at/updated_at markers store that height, not wall time.
package ledger

import "sync/atomic"

// Sequencer hands out the height for the next state transition.
type Sequencer interface {
	// Next advances the chain by one transition and returns its height.
	Next() uint64
	// Current returns the height of the last transition without advancing.
	Current() uint64
}

// Counter is the in-process Sequencer: one height tick per transition,
// mirroring the host ledger's one-operation-per-block execution model.
type Counter struct {
	height atomic.Uint64
}

// NewCounter starts a sequencer at the given genesis height.
func NewCounter(genesis uint64) *Counter {
	c := &Counter{}
	c.height.Store(genesis)
	return c
}

func (c *Counter) Next() uint64 {
	return c.height.Add(1)
}

func (c *Counter) Current() uint64 {
	return c.height.Load()
}

package service

import (
	"context"
	"sync"
)

// fallbackStoreTx serializes state transitions behind one mutex. It is used
// only when the configured store ships no transaction runner of its own, as
// the store fakes in tests do; the bundled stores (memory snapshot/restore,
// postgres SQL transaction) all provide real rollback.
type fallbackStoreTx struct {
	mu sync.Mutex
}

func newFallbackStoreTx() *fallbackStoreTx {
	return &fallbackStoreTx{}
}

func (t *fallbackStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

package replay

import (
	"context"
	"sync"
	"time"

	"cardwallet/pkg/platform/sentinel"
)

// MemoryGuard is an in-process nonce guard for tests and single-instance
// demo deployments.
type MemoryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{ttl: ttl, seen: make(map[string]time.Time)}
}

// MarkUsed records the nonce, returning sentinel.ErrAlreadyUsed when it is
// still inside its replay window.
func (g *MemoryGuard) MarkUsed(_ context.Context, nonce string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if usedAt, ok := g.seen[nonce]; ok && now.Sub(usedAt) < g.ttl {
		return sentinel.ErrAlreadyUsed
	}
	g.seen[nonce] = now

	// Opportunistic sweep keeps the map bounded without a background task.
	for value, usedAt := range g.seen {
		if now.Sub(usedAt) >= g.ttl {
			delete(g.seen, value)
		}
	}
	return nil
}

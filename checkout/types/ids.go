package types

import (
	"fmt"
	"sync"
	"time"
)

// TransactionIDs hands out time-derived transaction ids that strictly
// increase within the process, even when two are requested in the same
// millisecond.
type TransactionIDs struct {
	mu   sync.Mutex
	last int64
}

// Next returns "TXN" followed by a millisecond stamp no lower than now.
func (g *TransactionIDs) Next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("TXN%d", ms)
}

package ledger

import "sync"

// accountLatch serializes mutations per account. Accounts never share a
// lock, so traffic on one account cannot block another.
//
// Latches are kept for the life of the process; the table is bounded by
// the number of distinct accounts seen.
type accountLatch struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLatch() *accountLatch {
	return &accountLatch{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the latch for the account and returns the release func.
func (l *accountLatch) acquire(accountID string) func() {
	l.mu.Lock()
	m, ok := l.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[accountID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Package memory provides an in-memory ledger.Store for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/points-engine/ledger"
)

// Store keeps all state in maps behind a single RWMutex. Mutations are
// cheap enough that the coarse lock is fine here; the sqlite store is the
// one that carries production concurrency semantics.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]*ledger.Account
	records      map[string][]ledger.TransactionRecord
	completions  map[string]map[string]ledger.TaskCompletion
	purchases    map[string][]ledger.Purchase
	nextRecordID int64
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:    make(map[string]*ledger.Account),
		records:     make(map[string][]ledger.TransactionRecord),
		completions: make(map[string]map[string]ledger.TaskCompletion),
		purchases:   make(map[string][]ledger.Purchase),
	}
}

func (s *Store) CreateAccount(_ context.Context, id string) (*ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; ok {
		return nil, ledger.ErrAccountExists
	}
	acct := &ledger.Account{ID: id, CreatedAt: time.Now().UTC()}
	s.accounts[id] = acct
	out := *acct
	return &out, nil
}

func (s *Store) GetAccount(_ context.Context, id string) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}
	out := *acct
	return &out, nil
}

// Apply executes the mutation under the write lock: precondition checks,
// balance write, record append, and side records all land together or not
// at all.
func (s *Store) Apply(_ context.Context, m ledger.Mutation) (*ledger.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[m.AccountID]
	if !ok {
		return nil, ledger.ErrAccountNotFound
	}

	if m.MarkWelcomeClaimed && acct.HasClaimedWelcome {
		return nil, ledger.ErrWelcomeAlreadyClaimed
	}
	if m.TaskCompletion != nil {
		if _, done := s.completions[m.AccountID][m.TaskCompletion.TaskID]; done {
			return nil, ledger.ErrTaskAlreadyCompleted
		}
	}
	if m.Delta < 0 && acct.Balance+m.Delta < 0 {
		return nil, &ledger.InsufficientFundsError{
			AccountID: m.AccountID,
			Balance:   acct.Balance,
			Required:  -m.Delta,
		}
	}

	at := m.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	acct.Balance += m.Delta
	if m.MarkWelcomeClaimed {
		acct.HasClaimedWelcome = true
	}
	if m.DailyClaim != nil {
		acct.DailyStreak = m.DailyClaim.Streak
		t := m.DailyClaim.At
		acct.LastDailyClaimAt = &t
	}
	if m.TaskCompletion != nil {
		if s.completions[m.AccountID] == nil {
			s.completions[m.AccountID] = make(map[string]ledger.TaskCompletion)
		}
		s.completions[m.AccountID][m.TaskCompletion.TaskID] = *m.TaskCompletion
	}
	if m.Purchase != nil {
		s.purchases[m.AccountID] = append(s.purchases[m.AccountID], *m.Purchase)
	}

	s.nextRecordID++
	rec := ledger.TransactionRecord{
		ID:           s.nextRecordID,
		AccountID:    m.AccountID,
		Amount:       m.Delta,
		Kind:         m.Kind,
		Description:  m.Description,
		BalanceAfter: acct.Balance,
		CreatedAt:    at,
	}
	s.records[m.AccountID] = append(s.records[m.AccountID], rec)

	out := rec
	return &out, nil
}

func (s *Store) Transactions(_ context.Context, accountID string, limit int) ([]ledger.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, ledger.ErrAccountNotFound
	}

	recs := s.records[accountID]
	out := make([]ledger.TransactionRecord, 0, limit)
	for i := len(recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}

func (s *Store) TopBalances(_ context.Context, limit int) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].ID < out[j].ID // stable order for equal balances
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SumAmounts(_ context.Context, accountID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[accountID]; !ok {
		return 0, ledger.ErrAccountNotFound
	}
	var sum int64
	for _, r := range s.records[accountID] {
		sum += r.Amount
	}
	return sum, nil
}

// Purchases returns the account's purchases, oldest first. Test helper.
func (s *Store) Purchases(accountID string) []ledger.Purchase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Purchase, len(s.purchases[accountID]))
	copy(out, s.purchases[accountID])
	return out
}

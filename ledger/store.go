/*
store.go - Persistence interface for accounts and the transaction log

PURPOSE:
  Defines the contract between the ledger and the database. A Store holds
  accounts and their append-only transaction log; every balance change goes
  through Apply as one indivisible Mutation.

APPEND-ONLY CONTRACT:
  TransactionRecords are never updated or deleted. Every successful
  mutation produces exactly one record, and no record exists without its
  mutation having been applied.

ATOMICITY:
  Apply performs read-check-write-append as a single unit: concurrent
  readers observe the account either fully before or fully after. The
  no-overdraft check, the (account, task) uniqueness check, and the
  welcome-claim precondition are all re-verified inside that unit, so a
  mutation built from a stale read cannot corrupt state.

IMPLEMENTATIONS:
  - store/sqlite: production store, one SQL transaction per Apply
  - store/memory: in-memory store for tests/dev
*/
package ledger

import (
	"context"
	"time"
)

// =============================================================================
// MUTATION - One atomic balance change plus its state rides
// =============================================================================

// DailyClaim carries the streak transition recorded with a daily bonus.
type DailyClaim struct {
	Streak int
	At     time.Time
}

// Mutation describes a single balance change. Delta is signed; negative
// deltas are rejected by the store if they would drive the balance below
// zero. Optional fields ride in the same atomic unit as the balance write
// and the record append.
type Mutation struct {
	AccountID   string
	Delta       int64
	Kind        Kind
	Description string
	At          time.Time // mutation instant; stores stamp records with it

	// Preconditions and state transitions, re-checked inside the store's
	// critical section.
	MarkWelcomeClaimed bool        // fails with ErrWelcomeAlreadyClaimed if set twice
	DailyClaim         *DailyClaim // updates streak and last claim time
	TaskCompletion     *TaskCompletion
	Purchase           *Purchase
}

// =============================================================================
// STORE - Durable account + transaction log storage
// =============================================================================

type Store interface {
	// CreateAccount creates a zero-value account.
	// Returns ErrAccountExists if the ID is taken.
	CreateAccount(ctx context.Context, id string) (*Account, error)

	// GetAccount returns the account or ErrAccountNotFound.
	GetAccount(ctx context.Context, id string) (*Account, error)

	// Apply executes the mutation atomically and returns the appended
	// record, whose BalanceAfter equals the new balance.
	Apply(ctx context.Context, m Mutation) (*TransactionRecord, error)

	// Transactions returns up to limit records, newest first.
	Transactions(ctx context.Context, accountID string, limit int) ([]TransactionRecord, error)

	// TopBalances returns up to limit accounts ordered by balance
	// descending. Read-only, used by the leaderboard.
	TopBalances(ctx context.Context, limit int) ([]Account, error)

	// SumAmounts returns the sum of all record amounts for the account.
	// Audit helper: must always equal the account balance.
	SumAmounts(ctx context.Context, accountID string) (int64, error)
}

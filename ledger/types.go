/*
Package ledger provides the core GC points ledger engine.

PURPOSE:
  This package contains the domain types and algorithms for managing user
  point balances: accounts, the append-only transaction log, bonus
  eligibility (welcome, daily streak), and the service that orchestrates
  atomic balance mutations.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: A user's ledger state (balance, streak, claim flags)
  - TransactionRecord: An immutable log entry for one balance mutation
  - TaskCompletion / Purchase: Side records created with their mutation
  - Kind: Classification of a mutation (earn, spend, bonus, ...)

DESIGN PRINCIPLES:
  1. Immutability: Transaction records are never modified or deleted
  2. Auditability: Replaying all records reproduces the current balance
  3. No overdraft: Balance never goes below zero, enforced atomically
  4. Determinism: Time comes from an injected Clock, never the environment

SEE ALSO:
  - bonus.go: Welcome and daily bonus eligibility rules
  - store.go: Persistence interface and the Mutation unit
  - service.go: Public operations callers go through
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ECONOMY CONSTANTS
// =============================================================================

// All amounts are in GC, the platform's virtual currency.
const (
	ExchangeRate  = 250 // 250 GC = $1.00 USD (display conversion only)
	WelcomeBonus  = 50  // one-time signup bonus
	ReferralBonus = 250 // credited when a referred user activates
	DailyBonus    = 1   // regular daily login bonus
	WeeklyBonus   = 10  // replaces DailyBonus every 7th streak day
)

// USDValue converts a GC amount to its USD display value.
// Uses decimal math so wallet displays never show float drift.
func USDValue(gc int64) decimal.Decimal {
	return decimal.NewFromInt(gc).Div(decimal.NewFromInt(ExchangeRate)).Round(2)
}

// =============================================================================
// KIND - Classification of a balance mutation
// =============================================================================

type Kind string

const (
	KindEarn     Kind = "earn"     // task reward
	KindSpend    Kind = "spend"    // catalog purchase
	KindBonus    Kind = "bonus"    // welcome or daily bonus
	KindReferral Kind = "referral" // referral credit
	KindAdmin    Kind = "admin"    // privileged mint/clawback
)

// =============================================================================
// ACCOUNT - A user's ledger state
// =============================================================================

// Account is created at signup with zero values and mutated only through
// the Service. The ID is owned by the identity provider.
type Account struct {
	ID                string
	Balance           int64 // invariant: >= 0 at all times
	DailyStreak       int   // consecutive qualifying daily claims
	LastDailyClaimAt  *time.Time
	HasClaimedWelcome bool
	CreatedAt         time.Time
}

// =============================================================================
// TRANSACTION RECORD - Immutable log entry, one per mutation
// =============================================================================

// TransactionRecord is append-only. IDs are monotonic per store.
//
// INVARIANT: summing Amount over all records of an account, in ID order,
// reproduces the account's current Balance exactly.
type TransactionRecord struct {
	ID           int64
	AccountID    string
	Amount       int64 // signed: positive = credit, negative = debit
	Kind         Kind
	Description  string
	BalanceAfter int64 // snapshot taken inside the mutation's atomic unit
	CreatedAt    time.Time
}

// =============================================================================
// SIDE RECORDS - Created atomically with their mutation
// =============================================================================

// TaskCompletion marks a (account, task) pair as completed.
// At most one completion per pair, ever.
type TaskCompletion struct {
	AccountID   string
	TaskID      string
	CompletedAt time.Time
}

// PurchaseCompleted is the only status purchases carry today; the field
// exists so fulfillment states can be added without a schema change.
const PurchaseCompleted = "completed"

// Purchase records a catalog redemption. Created in the same atomic unit
// as its debit TransactionRecord.
type Purchase struct {
	ID         string // uuid
	AccountID  string
	ItemID     string
	Quantity   int
	TotalPrice int64
	Status     string
	CreatedAt  time.Time
}

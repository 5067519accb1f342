/*
service.go - Public ledger operations

PURPOSE:
  The Service is the only writer to the Store. It validates a requested
  mutation, computes the amount (bonus engine or catalog), and applies the
  balance update, record append, and any side record as one atomic unit.

CONCURRENCY:
  Mutating operations on the same account are serialized by a per-account
  latch spanning the read-evaluate-apply sequence, so two concurrent daily
  claims cannot both credit and two concurrent completions of the same
  task cannot both succeed. Different accounts never contend. The Store
  additionally re-checks preconditions inside its own atomic unit, so even
  a misbehaving second writer cannot violate the invariants.

AUTHORIZATION:
  The Service never inspects roles. AdminMint expects an already-authorized
  caller; the boundary layer performs the capability check.
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/warp/points-engine/catalog"
)

// maxTransactionPage caps the transaction history page size.
const maxTransactionPage = 50

// defaultLeaderboardSize caps the leaderboard length.
const defaultLeaderboardSize = 100

// Service orchestrates all balance mutations.
type Service struct {
	store   Store
	catalog catalog.Gateway
	clock   Clock
	latch   *accountLatch
}

func NewService(store Store, gateway catalog.Gateway, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		store:   store,
		catalog: gateway,
		clock:   clock,
		latch:   newAccountLatch(),
	}
}

// =============================================================================
// ACCOUNT LIFECYCLE
// =============================================================================

// CreateAccount provisions a zero-value account for an identity-provider
// user ID. Called by the signup boundary.
func (s *Service) CreateAccount(ctx context.Context, accountID string) (*Account, error) {
	return s.store.CreateAccount(ctx, accountID)
}

// GetAccount returns the current account state.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

// =============================================================================
// BONUS CLAIMS
// =============================================================================

// ClaimWelcomeBonus credits the one-time welcome bonus.
// Returns the new balance, or ErrWelcomeAlreadyClaimed.
func (s *Service) ClaimWelcomeBonus(ctx context.Context, accountID string) (int64, error) {
	release := s.latch.acquire(accountID)
	defer release()

	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	amount, err := EvaluateWelcome(acct)
	if err != nil {
		return 0, err
	}

	rec, err := s.store.Apply(ctx, Mutation{
		AccountID:          accountID,
		Delta:              amount,
		Kind:               KindBonus,
		Description:        "Welcome Bonus",
		At:                 s.clock.Now(),
		MarkWelcomeClaimed: true,
	})
	if err != nil {
		return 0, err
	}
	return rec.BalanceAfter, nil
}

// DailyClaimResult is the outcome of a successful daily-bonus claim.
type DailyClaimResult struct {
	Amount     int64
	Streak     int
	NewBalance int64
}

// ClaimDailyBonus credits the daily login bonus and advances the streak.
// Returns ErrDailyNotReady inside the 24h cooldown; no mutation occurs.
func (s *Service) ClaimDailyBonus(ctx context.Context, accountID string) (DailyClaimResult, error) {
	release := s.latch.acquire(accountID)
	defer release()

	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return DailyClaimResult{}, err
	}

	now := s.clock.Now()
	eval, err := EvaluateDaily(acct, now)
	if err != nil {
		return DailyClaimResult{}, err
	}

	rec, err := s.store.Apply(ctx, Mutation{
		AccountID:   accountID,
		Delta:       eval.Amount,
		Kind:        KindBonus,
		Description: fmt.Sprintf("Daily Login Bonus (Day %d)", eval.Streak),
		At:          now,
		DailyClaim:  &DailyClaim{Streak: eval.Streak, At: now},
	})
	if err != nil {
		return DailyClaimResult{}, err
	}
	return DailyClaimResult{Amount: eval.Amount, Streak: eval.Streak, NewBalance: rec.BalanceAfter}, nil
}

// =============================================================================
// TASKS
// =============================================================================

// TaskResult is the outcome of a successful task completion.
type TaskResult struct {
	Amount     int64
	NewBalance int64
}

// CompleteTask records the completion and credits the task reward,
// all-or-nothing. A task pays out at most once per account.
func (s *Service) CompleteTask(ctx context.Context, accountID, taskID string) (TaskResult, error) {
	task, err := s.catalog.Task(ctx, taskID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return TaskResult{}, ErrTaskNotFound
		}
		return TaskResult{}, err
	}

	release := s.latch.acquire(accountID)
	defer release()

	now := s.clock.Now()
	rec, err := s.store.Apply(ctx, Mutation{
		AccountID:   accountID,
		Delta:       task.Reward,
		Kind:        KindEarn,
		Description: "Task: " + task.Title,
		At:          now,
		TaskCompletion: &TaskCompletion{
			AccountID:   accountID,
			TaskID:      taskID,
			CompletedAt: now,
		},
	})
	if err != nil {
		return TaskResult{}, err
	}
	return TaskResult{Amount: task.Reward, NewBalance: rec.BalanceAfter}, nil
}

// =============================================================================
// PURCHASES
// =============================================================================

// PurchaseResult is the outcome of a successful purchase.
type PurchaseResult struct {
	Purchase   Purchase
	NewBalance int64
}

// PurchaseItem debits price*quantity and records the purchase,
// all-or-nothing. Fails with InsufficientFundsError before any debit if
// the balance cannot cover the total.
func (s *Service) PurchaseItem(ctx context.Context, accountID, itemID string, quantity int) (PurchaseResult, error) {
	if quantity < 1 {
		return PurchaseResult{}, ErrInvalidQuantity
	}

	item, err := s.catalog.Item(ctx, itemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return PurchaseResult{}, ErrItemNotFound
		}
		return PurchaseResult{}, err
	}

	// The multiply must not wrap: an overflowed total goes negative, which
	// would turn the debit into a credit.
	if item.Price > 0 && int64(quantity) > math.MaxInt64/item.Price {
		return PurchaseResult{}, ErrInvalidQuantity
	}

	release := s.latch.acquire(accountID)
	defer release()

	now := s.clock.Now()
	total := item.Price * int64(quantity)
	purchase := Purchase{
		ID:         uuid.NewString(),
		AccountID:  accountID,
		ItemID:     itemID,
		Quantity:   quantity,
		TotalPrice: total,
		Status:     PurchaseCompleted,
		CreatedAt:  now,
	}

	rec, err := s.store.Apply(ctx, Mutation{
		AccountID:   accountID,
		Delta:       -total,
		Kind:        KindSpend,
		Description: "Purchased: " + item.Title,
		At:          now,
		Purchase:    &purchase,
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	return PurchaseResult{Purchase: purchase, NewBalance: rec.BalanceAfter}, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// AdminMint credits (or claws back, for negative amounts) GC outside the
// normal earn paths. The caller must already be authorized; the ledger
// performs no role check here. Zero amounts are rejected, and a negative
// amount is still subject to the no-overdraft floor.
func (s *Service) AdminMint(ctx context.Context, accountID string, amount int64) (int64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}

	release := s.latch.acquire(accountID)
	defer release()

	rec, err := s.store.Apply(ctx, Mutation{
		AccountID:   accountID,
		Delta:       amount,
		Kind:        KindAdmin,
		Description: "Admin Mint",
		At:          s.clock.Now(),
	})
	if err != nil {
		return 0, err
	}
	return rec.BalanceAfter, nil
}

// =============================================================================
// READS
// =============================================================================

// Transactions returns the account's history, newest first. The page size
// is clamped to maxTransactionPage.
func (s *Service) Transactions(ctx context.Context, accountID string, limit int) ([]TransactionRecord, error) {
	if limit <= 0 || limit > maxTransactionPage {
		limit = maxTransactionPage
	}
	return s.store.Transactions(ctx, accountID, limit)
}

// Leaderboard returns the top accounts by balance.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]Account, error) {
	if limit <= 0 || limit > defaultLeaderboardSize {
		limit = defaultLeaderboardSize
	}
	return s.store.TopBalances(ctx, limit)
}

/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All business-rule rejections in one place. These are recoverable and
  reported to the caller with a stable kind; none are fatal to the process.
  Store I/O faults are wrapped with ErrStoreUnavailable so the boundary can
  distinguish transient failures from rule rejections.

USAGE:
  Callers match with errors.Is/errors.As:

    if errors.Is(err, ledger.ErrDailyNotReady) { ... }

    var ife *ledger.InsufficientFundsError
    if errors.As(err, &ife) { ... ife.Required ... }

RETRY POLICY:
  Business-rule rejections must not be retried. ErrStoreUnavailable may be
  retried for reads only; a mutation must not be blindly retried because the
  prior attempt may have committed before the response was lost.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when the referenced account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating an account with a taken ID.
	ErrAccountExists = errors.New("account already exists")

	// ErrTaskNotFound is returned when the catalog has no such task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrItemNotFound is returned when the catalog has no such item.
	ErrItemNotFound = errors.New("item not found")

	// ErrWelcomeAlreadyClaimed is returned on a second welcome-bonus claim.
	ErrWelcomeAlreadyClaimed = errors.New("welcome bonus already claimed")

	// ErrDailyNotReady is returned when less than 24h elapsed since the
	// last daily claim. No mutation takes place.
	ErrDailyNotReady = errors.New("daily bonus not ready yet")

	// ErrTaskAlreadyCompleted is returned when the (account, task) pair
	// already has a completion.
	ErrTaskAlreadyCompleted = errors.New("task already completed")

	// ErrInsufficientFunds is returned when a debit would drive the
	// balance below zero. Prefer matching InsufficientFundsError for detail.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidQuantity is returned for purchase quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInvalidAmount is returned for a zero-amount admin mint.
	ErrInvalidAmount = errors.New("amount must be non-zero")

	// ErrStoreUnavailable wraps transient storage faults (connection loss,
	// lock timeout). Distinct from business-rule rejections.
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError reports how far short the balance fell.
type InsufficientFundsError struct {
	AccountID string
	Balance   int64
	Required  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d GC, need %d more GC",
		e.Balance, e.Required-e.Balance)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrItemNotFound)
}

// IsClientError reports whether the error is a business-rule rejection
// caused by the caller's request. These map to HTTP 400.
func IsClientError(err error) bool {
	return errors.Is(err, ErrWelcomeAlreadyClaimed) ||
		errors.Is(err, ErrDailyNotReady) ||
		errors.Is(err, ErrTaskAlreadyCompleted) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrAccountExists)
}

// IsUnavailable reports whether the error is a transient storage fault.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

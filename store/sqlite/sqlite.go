/*
Package sqlite provides the SQLite-backed ledger.Store.

PURPOSE:
  Durable storage for accounts, the append-only transaction log, task
  completions, and purchases. The same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements touch the transactions table. The only
  deletes in the schema are the ON DELETE CASCADE rules that remove an
  account's children when the owning account row is removed.

ATOMICITY:
  Apply runs one SQL transaction covering the balance read, the overdraft
  check, the account update, the record append, and any side-record
  insert. A failure at any point rolls the whole unit back.

CONCURRENCY:
  A per-account latch serializes writers on the same account; different
  accounts proceed independently. SQLite itself admits one writer at a
  time, so the DSN sets a busy timeout instead of a process-wide mutex.

WAL MODE:
  Opened with WAL so readers are not blocked by the writer and crash
  recovery is cheap.

KEY TABLES:
  accounts:          Balance, streak, and claim flags per user
  transactions:      Immutable ledger of all balance changes
  task_completions:  One row per (account, task), unique forever
  purchases:         Catalog redemptions, written with their debit
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/points-engine/ledger"
)

// Store implements ledger.Store on SQLite.
type Store struct {
	db *sql.DB

	// latchMu guards latches; each account gets its own mutex so writers
	// on different accounts never contend.
	latchMu sync.Mutex
	latches map[string]*sync.Mutex
}

var _ ledger.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ledger.ErrStoreUnavailable, err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection to a plain :memory: DSN would get its
		// own empty database, so pin the pool to one connection.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, latches: make(map[string]*sync.Mutex)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", ledger.ErrStoreUnavailable, err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
		daily_streak INTEGER NOT NULL DEFAULT 0,
		last_daily_claim_at TEXT,
		has_claimed_welcome INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Append-only ledger. No UPDATE, no DELETE in normal operation.
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		amount INTEGER NOT NULL,
		kind TEXT NOT NULL,
		description TEXT NOT NULL,
		balance_after INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- History reads are newest-first per account (hot path)
	CREATE INDEX IF NOT EXISTS idx_transactions_account_id
		ON transactions(account_id, id DESC);

	-- CRITICAL: a task pays out at most once per account, ever
	CREATE TABLE IF NOT EXISTS task_completions (
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		task_id TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		PRIMARY KEY (account_id, task_id)
	);

	CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		item_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		total_price INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_purchases_account
		ON purchases(account_id);

	-- Leaderboard reads
	CREATE INDEX IF NOT EXISTS idx_accounts_balance
		ON accounts(balance DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// latch returns the account's mutex, creating it on first use.
func (s *Store) latch(accountID string) *sync.Mutex {
	s.latchMu.Lock()
	defer s.latchMu.Unlock()
	m, ok := s.latches[accountID]
	if !ok {
		m = &sync.Mutex{}
		s.latches[accountID] = m
	}
	return m
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) CreateAccount(ctx context.Context, id string) (*ledger.Account, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, balance, daily_streak, has_claimed_welcome, created_at)
		 VALUES (?, 0, 0, 0, ?)`,
		id, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ledger.ErrAccountExists
		}
		return nil, fmt.Errorf("%w: create account: %v", ledger.ErrStoreUnavailable, err)
	}
	return &ledger.Account{ID: id, CreatedAt: now}, nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	return s.getAccount(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getAccount(ctx context.Context, q querier, id string) (*ledger.Account, error) {
	var (
		acct      ledger.Account
		lastClaim sql.NullString
		welcome   int
		createdAt string
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, balance, daily_streak, last_daily_claim_at, has_claimed_welcome, created_at
		 FROM accounts WHERE id = ?`, id,
	).Scan(&acct.ID, &acct.Balance, &acct.DailyStreak, &lastClaim, &welcome, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get account: %v", ledger.ErrStoreUnavailable, err)
	}

	acct.HasClaimedWelcome = welcome != 0
	acct.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if lastClaim.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastClaim.String)
		if err != nil {
			return nil, fmt.Errorf("%w: parse last claim: %v", ledger.ErrStoreUnavailable, err)
		}
		acct.LastDailyClaimAt = &t
	}
	return &acct, nil
}

// =============================================================================
// APPLY - the single mutation path
// =============================================================================

func (s *Store) Apply(ctx context.Context, m ledger.Mutation) (*ledger.TransactionRecord, error) {
	l := s.latch(m.AccountID)
	l.Lock()
	defer l.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ledger.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	acct, err := s.getAccount(ctx, tx, m.AccountID)
	if err != nil {
		return nil, err
	}

	// Preconditions, re-checked inside the transaction.
	if m.MarkWelcomeClaimed && acct.HasClaimedWelcome {
		return nil, ledger.ErrWelcomeAlreadyClaimed
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

	newBalance := acct.Balance + m.Delta

	// Account update
	welcome := acct.HasClaimedWelcome || m.MarkWelcomeClaimed
	streak := acct.DailyStreak
	lastClaim := acct.LastDailyClaimAt
	if m.DailyClaim != nil {
		streak = m.DailyClaim.Streak
		t := m.DailyClaim.At
		lastClaim = &t
	}
	var lastClaimArg any
	if lastClaim != nil {
		lastClaimArg = lastClaim.UTC().Format(time.RFC3339Nano)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts
		 SET balance = ?, daily_streak = ?, last_daily_claim_at = ?, has_claimed_welcome = ?
		 WHERE id = ?`,
		newBalance, streak, lastClaimArg, boolToInt(welcome), m.AccountID,
	); err != nil {
		return nil, fmt.Errorf("%w: update account: %v", ledger.ErrStoreUnavailable, err)
	}

	// Side records
	if m.TaskCompletion != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO task_completions (account_id, task_id, completed_at) VALUES (?, ?, ?)`,
			m.TaskCompletion.AccountID, m.TaskCompletion.TaskID,
			m.TaskCompletion.CompletedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return nil, ledger.ErrTaskAlreadyCompleted
			}
			return nil, fmt.Errorf("%w: task completion: %v", ledger.ErrStoreUnavailable, err)
		}
	}
	if m.Purchase != nil {
		p := m.Purchase
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO purchases (id, account_id, item_id, quantity, total_price, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.AccountID, p.ItemID, p.Quantity, p.TotalPrice, p.Status,
			p.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return nil, fmt.Errorf("%w: purchase: %v", ledger.ErrStoreUnavailable, err)
		}
	}

	// Record append
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (account_id, amount, kind, description, balance_after, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.AccountID, m.Delta, string(m.Kind), m.Description, newBalance,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: append record: %v", ledger.ErrStoreUnavailable, err)
	}
	recordID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: record id: %v", ledger.ErrStoreUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ledger.ErrStoreUnavailable, err)
	}

	return &ledger.TransactionRecord{
		ID:           recordID,
		AccountID:    m.AccountID,
		Amount:       m.Delta,
		Kind:         m.Kind,
		Description:  m.Description,
		BalanceAfter: newBalance,
		CreatedAt:    at,
	}, nil
}

// =============================================================================
// READS
// =============================================================================

func (s *Store) Transactions(ctx context.Context, accountID string, limit int) ([]ledger.TransactionRecord, error) {
	if _, err := s.getAccount(ctx, s.db, accountID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, amount, kind, description, balance_after, created_at
		 FROM transactions
		 WHERE account_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		accountID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query transactions: %v", ledger.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []ledger.TransactionRecord
	for rows.Next() {
		var (
			rec       ledger.TransactionRecord
			kind      string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Amount, &kind,
			&rec.Description, &rec.BalanceAfter, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", ledger.ErrStoreUnavailable, err)
		}
		rec.Kind = ledger.Kind(kind)
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) TopBalances(ctx context.Context, limit int) ([]ledger.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, balance, daily_streak, has_claimed_welcome, created_at
		 FROM accounts
		 ORDER BY balance DESC, id ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query leaderboard: %v", ledger.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []ledger.Account
	for rows.Next() {
		var (
			acct      ledger.Account
			welcome   int
			createdAt string
		)
		if err := rows.Scan(&acct.ID, &acct.Balance, &acct.DailyStreak, &welcome, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", ledger.ErrStoreUnavailable, err)
		}
		acct.HasClaimedWelcome = welcome != 0
		acct.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, acct)
	}
	return out, rows.Err()
}

func (s *Store) SumAmounts(ctx context.Context, accountID string) (int64, error) {
	if _, err := s.getAccount(ctx, s.db, accountID); err != nil {
		return 0, err
	}
	var sum int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE account_id = ?`,
		accountID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("%w: sum amounts: %v", ledger.ErrStoreUnavailable, err)
	}
	return sum, nil
}

// DeleteAccount removes the account and, via cascade, its transaction log,
// completions, and purchases. Only used when the owning user is destroyed.
func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	l := s.latch(accountID)
	l.Lock()
	defer l.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("%w: delete account: %v", ledger.ErrStoreUnavailable, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ledger.ErrAccountNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

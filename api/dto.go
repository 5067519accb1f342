/*
dto.go - Request/response shapes for the HTTP API

Every response carries the {success, message} envelope; operation-specific
fields ride alongside. Business-rule failures answer 400, missing entities
404, transient storage faults 503.
*/
package api

import (
	"time"

	"github.com/warp/points-engine/catalog"
	"github.com/warp/points-engine/ledger"
)

// =============================================================================
// REQUESTS
// =============================================================================

type CreateAccountRequest struct {
	AccountID string `json:"account_id"`
}

type PurchaseRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type MintRequest struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
}

// =============================================================================
// RESPONSES
// =============================================================================

type AccountDTO struct {
	ID                string `json:"id"`
	Balance           int64  `json:"balance"`
	BalanceUSD        string `json:"balance_usd"`
	DailyStreak       int    `json:"daily_streak"`
	HasClaimedWelcome bool   `json:"has_claimed_welcome"`
	LastDailyClaim    int64  `json:"last_daily_claim"` // ms since epoch, 0 = never
	CreatedAt         string `json:"created_at"`
}

func toAccountDTO(a *ledger.Account) AccountDTO {
	dto := AccountDTO{
		ID:                a.ID,
		Balance:           a.Balance,
		BalanceUSD:        ledger.USDValue(a.Balance).StringFixed(2),
		DailyStreak:       a.DailyStreak,
		HasClaimedWelcome: a.HasClaimedWelcome,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
	if a.LastDailyClaimAt != nil {
		dto.LastDailyClaim = a.LastDailyClaimAt.UnixMilli()
	}
	return dto
}

type TransactionDTO struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"` // EARN or SPEND, by sign
	Kind        string `json:"kind"`
	Amount      int64  `json:"amount"` // absolute value
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
}

func toTransactionDTO(r ledger.TransactionRecord) TransactionDTO {
	typ := "EARN"
	amount := r.Amount
	if amount < 0 {
		typ = "SPEND"
		amount = -amount
	}
	return TransactionDTO{
		ID:          r.ID,
		Type:        typ,
		Kind:        string(r.Kind),
		Amount:      amount,
		Description: r.Description,
		Timestamp:   r.CreatedAt.Format("2006-01-02 15:04"),
		Status:      "COMPLETED",
	}
}

type TaskDTO struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	Type                 string `json:"type"`
	Reward               int64  `json:"reward"`
	RequiresVerification bool   `json:"requiresVerification"`
}

func toTaskDTO(t catalog.Task) TaskDTO {
	return TaskDTO{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		Type:                 string(t.Type),
		Reward:               t.Reward,
		RequiresVerification: t.RequiresVerification,
	}
}

type ItemDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	PriceUSD    string `json:"price_usd"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
}

func toItemDTO(it catalog.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Price:       it.Price,
		PriceUSD:    ledger.USDValue(it.Price).StringFixed(2),
		Category:    it.Category,
		ImageURL:    it.ImageURL,
	}
}

type LeaderboardEntryDTO struct {
	Rank    int    `json:"rank"`
	Account string `json:"account"`
	Coins   int64  `json:"coins"`
	Streak  int    `json:"streak"`
}

type PurchaseDTO struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	Quantity   int    `json:"quantity"`
	TotalPrice int64  `json:"total_price"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func toPurchaseDTO(p ledger.Purchase) PurchaseDTO {
	return PurchaseDTO{
		ID:         p.ID,
		ItemID:     p.ItemID,
		Quantity:   p.Quantity,
		TotalPrice: p.TotalPrice,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

/*
handlers.go - HTTP handlers for the points ledger

PURPOSE:
  Exposes the ledger service via REST. Handlers parse the request, call
  one service operation, and serialize the {success, message, ...}
  envelope. No business logic lives here.

ERROR MAPPING:
  - 400: business-rule rejections (already claimed, not ready,
         insufficient funds, bad quantity, duplicate account)
  - 404: account/task/item not found
  - 503: transient storage faults
  - 500: everything else

IDENTITY:
  The account id always arrives explicitly (URL or body); there is no
  ambient current-user state. Authentication is the deployment's concern:
  a fronting proxy or middleware must ensure callers only reach their own
  account routes, and the admin guard covers /api/admin.
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/points-engine/catalog"
	"github.com/warp/points-engine/ledger"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *ledger.Service
	Catalog catalog.Gateway
}

func NewHandler(svc *ledger.Service, gw catalog.Gateway) *Handler {
	return &Handler{Service: svc, Catalog: gw}
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		writeFailure(w, http.StatusBadRequest, "account_id is required")
		return
	}

	acct, err := h.Service.CreateAccount(r.Context(), req.AccountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Account created", map[string]any{
		"account": toAccountDTO(acct),
	})
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.Service.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"account": toAccountDTO(acct),
	})
}

// =============================================================================
// BONUS CLAIMS
// =============================================================================

func (h *Handler) ClaimWelcome(w http.ResponseWriter, r *http.Request) {
	newBalance, err := h.Service.ClaimWelcomeBonus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK,
		"Welcome bonus claimed! +"+strconv.FormatInt(ledger.WelcomeBonus, 10)+" GC",
		map[string]any{"new_balance": newBalance})
}

func (h *Handler) ClaimDaily(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.ClaimDailyBonus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK,
		"Claimed "+strconv.FormatInt(res.Amount, 10)+" GC! Streak: "+strconv.Itoa(res.Streak)+" days",
		map[string]any{
			"amount":      res.Amount,
			"streak":      res.Streak,
			"new_balance": res.NewBalance,
		})
}

// =============================================================================
// TASKS
// =============================================================================

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Catalog.Tasks(r.Context())
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"tasks": dtos})
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.CompleteTask(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taskID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK,
		"Earned +"+strconv.FormatInt(res.Amount, 10)+" GC",
		map[string]any{
			"amount":      res.Amount,
			"new_balance": res.NewBalance,
		})
}

// =============================================================================
// SHOP
// =============================================================================

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.Items(r.Context())
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Failed to list items")
		return
	}
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"items": dtos})
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	res, err := h.Service.PurchaseItem(r.Context(), chi.URLParam(r, "id"), req.ItemID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Purchase successful!", map[string]any{
		"purchase":    toPurchaseDTO(res.Purchase),
		"new_balance": res.NewBalance,
	})
}

// =============================================================================
// HISTORY & LEADERBOARD
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := h.Service.Transactions(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]TransactionDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toTransactionDTO(rec)
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"transactions": dtos})
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	accounts, err := h.Service.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	entries := make([]LeaderboardEntryDTO, len(accounts))
	for i, a := range accounts {
		entries[i] = LeaderboardEntryDTO{
			Rank:    i + 1,
			Account: a.ID,
			Coins:   a.Balance,
			Streak:  a.DailyStreak,
		}
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{"leaderboard": entries})
}

// =============================================================================
// ADMIN
// =============================================================================

// Mint credits GC outside normal earn paths. The admin guard middleware
// has already authorized the caller by the time this runs.
func (h *Handler) Mint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		writeFailure(w, http.StatusBadRequest, "account_id and amount are required")
		return
	}

	newBalance, err := h.Service.AdminMint(r.Context(), req.AccountID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK,
		"Minted "+strconv.FormatInt(req.Amount, 10)+" GC",
		map[string]any{"new_balance": newBalance})
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeSuccess(w http.ResponseWriter, code int, message string, fields map[string]any) {
	payload := map[string]any{"success": true}
	if message != "" {
		payload["message"] = message
	}
	for k, v := range fields {
		payload[k] = v
	}
	writeJSON(w, code, payload)
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"success": false, "message": message})
}

// writeServiceError maps ledger errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeFailure(w, http.StatusNotFound, err.Error())
	case ledger.IsClientError(err):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case ledger.IsUnavailable(err):
		writeFailure(w, http.StatusServiceUnavailable, "ledger temporarily unavailable")
	default:
		writeFailure(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

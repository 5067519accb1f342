package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/points-engine/catalog"
	"github.com/warp/points-engine/ledger"
	"github.com/warp/points-engine/store/memory"
)

const testAdminToken = "test-admin-token"

func testGateway() catalog.Gateway {
	return catalog.NewStatic(
		[]catalog.Task{
			{ID: "survey", Title: "Complete Survey", Type: catalog.TaskSurvey, Reward: 10, Active: true},
			{ID: "retired", Title: "Retired Offer", Type: catalog.TaskCPA, Reward: 500, Active: false},
		},
		[]catalog.Item{
			{ID: "gift-card", Title: "Gift Card", Price: 30, Category: "Gift Cards", Stock: -1, Active: true},
		},
	)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := ledger.NewService(memory.New(), testGateway(), ledger.SystemClock{})
	h := NewHandler(svc, testGateway())
	return NewRouter(h, AdminTokenGuard(testAdminToken), []string{"http://localhost:5173"})
}

// do issues a request and decodes the JSON envelope.
func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	return rec.Code, payload
}

func createAccount(t *testing.T, router http.Handler, id string) {
	t.Helper()
	code, _ := do(t, router, http.MethodPost, "/api/accounts", `{"account_id":"`+id+`"}`)
	require.Equal(t, http.StatusCreated, code)
}

func mint(t *testing.T, router http.Handler, id string, amount string) {
	t.Helper()
	code, _ := do(t, router, http.MethodPost, "/api/admin/mint",
		`{"account_id":"`+id+`","amount":`+amount+`}`,
		"Authorization", "Bearer "+testAdminToken)
	require.Equal(t, http.StatusOK, code)
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func TestCreateAccount(t *testing.T) {
	router := newTestRouter(t)

	code, payload := do(t, router, http.MethodPost, "/api/accounts", `{"account_id":"alice"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, payload["success"])

	acct := payload["account"].(map[string]any)
	assert.Equal(t, "alice", acct["id"])
	assert.Equal(t, float64(0), acct["balance"])
	assert.Equal(t, "0.00", acct["balance_usd"])
	assert.Equal(t, false, acct["has_claimed_welcome"])
}

func TestCreateAccount_Validation(t *testing.T) {
	router := newTestRouter(t)

	code, payload := do(t, router, http.MethodPost, "/api/accounts", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, payload["success"])

	code, _ = do(t, router, http.MethodPost, "/api/accounts", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCreateAccount_Duplicate(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	code, _ := do(t, router, http.MethodPost, "/api/accounts", `{"account_id":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetAccount_NotFound(t *testing.T) {
	router := newTestRouter(t)

	code, payload := do(t, router, http.MethodGet, "/api/accounts/nobody", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, payload["success"])
}

// =============================================================================
// BONUS CLAIMS
// =============================================================================

func TestClaimWelcome(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	code, payload := do(t, router, http.MethodPost, "/api/accounts/alice/claims/welcome", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(50), payload["new_balance"])

	// Second claim is a business-rule rejection, not a missing route.
	code, payload = do(t, router, http.MethodPost, "/api/accounts/alice/claims/welcome", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, payload["success"])
}

func TestClaimDaily(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	code, payload := do(t, router, http.MethodPost, "/api/accounts/alice/claims/daily", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), payload["amount"])
	assert.Equal(t, float64(1), payload["streak"])
	assert.Equal(t, float64(1), payload["new_balance"])

	// Immediately again: still cooling down.
	code, _ = do(t, router, http.MethodPost, "/api/accounts/alice/claims/daily", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

// =============================================================================
// TASKS
// =============================================================================

func TestListTasks_HidesInactive(t *testing.T) {
	router := newTestRouter(t)

	code, payload := do(t, router, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, code)

	tasks := payload["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "survey", tasks[0].(map[string]any)["id"])
}

func TestCompleteTask(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	code, payload := do(t, router, http.MethodPost, "/api/accounts/alice/tasks/survey/complete", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(10), payload["amount"])
	assert.Equal(t, float64(10), payload["new_balance"])

	code, _ = do(t, router, http.MethodPost, "/api/accounts/alice/tasks/survey/complete", "")
	assert.Equal(t, http.StatusBadRequest, code, "repeat completion rejected")

	code, _ = do(t, router, http.MethodPost, "/api/accounts/alice/tasks/retired/complete", "")
	assert.Equal(t, http.StatusNotFound, code, "inactive task behaves as missing")
}

// =============================================================================
// SHOP
// =============================================================================

func TestListItems(t *testing.T) {
	router := newTestRouter(t)

	code, payload := do(t, router, http.MethodGet, "/api/shop/items", "")
	require.Equal(t, http.StatusOK, code)

	items := payload["items"].([]any)
	require.Len(t, items, 1)

	item := items[0].(map[string]any)
	assert.Equal(t, "gift-card", item["id"])
	assert.Equal(t, float64(30), item["price"])
	assert.Equal(t, "0.12", item["price_usd"])
}

func TestPurchase(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")
	mint(t, router, "alice", "100")

	code, payload := do(t, router, http.MethodPost, "/api/accounts/alice/purchases",
		`{"item_id":"gift-card","quantity":2}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(40), payload["new_balance"])

	purchase := payload["purchase"].(map[string]any)
	assert.Equal(t, "gift-card", purchase["item_id"])
	assert.Equal(t, float64(2), purchase["quantity"])
	assert.Equal(t, float64(60), purchase["total_price"])
	assert.Equal(t, "completed", purchase["status"])
	assert.NotEmpty(t, purchase["id"])
}

func TestPurchase_DefaultQuantity(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")
	mint(t, router, "alice", "100")

	code, payload := do(t, router, http.MethodPost, "/api/accounts/alice/purchases",
		`{"item_id":"gift-card"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(70), payload["new_balance"])
}

func TestPurchase_InsufficientFunds(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	code, payload := do(t, router, http.MethodPost, "/api/accounts/alice/purchases",
		`{"item_id":"gift-card","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, payload["success"])
}

func TestPurchase_UnknownItem(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	code, _ := do(t, router, http.MethodPost, "/api/accounts/alice/purchases",
		`{"item_id":"no-such-item"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

// =============================================================================
// HISTORY & LEADERBOARD
// =============================================================================

func TestListTransactions(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")
	mint(t, router, "alice", "100")

	_, _ = do(t, router, http.MethodPost, "/api/accounts/alice/purchases",
		`{"item_id":"gift-card","quantity":1}`)

	code, payload := do(t, router, http.MethodGet, "/api/accounts/alice/transactions", "")
	require.Equal(t, http.StatusOK, code)

	txs := payload["transactions"].([]any)
	require.Len(t, txs, 2)

	// Newest first: the spend, then the mint. Amounts are absolute with
	// the direction carried by type.
	first := txs[0].(map[string]any)
	assert.Equal(t, "SPEND", first["type"])
	assert.Equal(t, float64(30), first["amount"])
	assert.Equal(t, "Purchased: Gift Card", first["description"])
	assert.Equal(t, "COMPLETED", first["status"])

	second := txs[1].(map[string]any)
	assert.Equal(t, "EARN", second["type"])
	assert.Equal(t, float64(100), second["amount"])
	assert.Equal(t, "Admin Mint", second["description"])
}

func TestLeaderboard(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")
	createAccount(t, router, "bob")
	createAccount(t, router, "carol")
	mint(t, router, "alice", "10")
	mint(t, router, "bob", "300")
	mint(t, router, "carol", "90")

	code, payload := do(t, router, http.MethodGet, "/api/leaderboard?limit=2", "")
	require.Equal(t, http.StatusOK, code)

	entries := payload["leaderboard"].([]any)
	require.Len(t, entries, 2)

	top := entries[0].(map[string]any)
	assert.Equal(t, float64(1), top["rank"])
	assert.Equal(t, "bob", top["account"])
	assert.Equal(t, float64(300), top["coins"])

	runner := entries[1].(map[string]any)
	assert.Equal(t, float64(2), runner["rank"])
	assert.Equal(t, "carol", runner["account"])
}

// =============================================================================
// ADMIN GUARD
// =============================================================================

func TestMint_RequiresToken(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	body := `{"account_id":"alice","amount":100}`

	code, _ := do(t, router, http.MethodPost, "/api/admin/mint", body)
	assert.Equal(t, http.StatusForbidden, code, "no token")

	code, _ = do(t, router, http.MethodPost, "/api/admin/mint", body,
		"Authorization", "Bearer wrong-token")
	assert.Equal(t, http.StatusForbidden, code, "wrong token")

	code, payload := do(t, router, http.MethodPost, "/api/admin/mint", body,
		"Authorization", "Bearer "+testAdminToken)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(100), payload["new_balance"])
}

func TestMint_DisabledWithEmptyToken(t *testing.T) {
	svc := ledger.NewService(memory.New(), testGateway(), ledger.SystemClock{})
	h := NewHandler(svc, testGateway())
	router := NewRouter(h, AdminTokenGuard(""), nil)

	code, _ := do(t, router, http.MethodPost, "/api/admin/mint",
		`{"account_id":"alice","amount":100}`,
		"Authorization", "Bearer ")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestMint_ZeroAmountRejected(t *testing.T) {
	router := newTestRouter(t)
	createAccount(t, router, "alice")

	code, _ := do(t, router, http.MethodPost, "/api/admin/mint",
		`{"account_id":"alice","amount":0}`,
		"Authorization", "Bearer "+testAdminToken)
	assert.Equal(t, http.StatusBadRequest, code)
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	code, payload := do(t, router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", payload["status"])
}

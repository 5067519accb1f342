/*
server.go - HTTP router and middleware configuration

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. Metrics:    Prometheus counters and latency histograms
  5. CORS:       Cross-origin requests for the frontend

ADMIN ROUTES:
  /api/admin/* sits behind the guard passed to NewRouter. The core never
  inspects roles; whatever capability check the deployment needs happens
  in that middleware. AdminTokenGuard is the shipped bearer-token guard
  and denies everything when configured with an empty token.
*/
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates the router with all routes configured. adminGuard
// wraps the /api/admin subtree; pass AdminTokenGuard or your own.
func NewRouter(h *Handler, adminGuard func(http.Handler) http.Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.CreateAccount)
			r.Get("/{id}", h.GetAccount)
			r.Post("/{id}/claims/welcome", h.ClaimWelcome)
			r.Post("/{id}/claims/daily", h.ClaimDaily)
			r.Post("/{id}/tasks/{taskID}/complete", h.CompleteTask)
			r.Post("/{id}/purchases", h.Purchase)
			r.Get("/{id}/transactions", h.ListTransactions)
		})

		r.Get("/tasks", h.ListTasks)
		r.Get("/shop/items", h.ListItems)
		r.Get("/leaderboard", h.Leaderboard)

		r.Route("/admin", func(r chi.Router) {
			if adminGuard != nil {
				r.Use(adminGuard)
			} else {
				r.Use(denyAll)
			}
			r.Post("/mint", h.Mint)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// AdminTokenGuard authorizes admin requests carrying the configured
// bearer token. An empty token means no admin access at all, which is
// the safe default for deployments that never set one.
func AdminTokenGuard(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeFailure(w, http.StatusForbidden, "Admin access disabled")
				return
			}
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeFailure(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusForbidden, "Admin access disabled")
	})
}

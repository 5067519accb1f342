/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load .env (optional) and environment configuration
  2. Open the SQLite ledger store
  3. Build the catalog, service, handler, and router
  4. Start the server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  in-flight requests, close the store, exit.

EXAMPLES:
  # File database on the default port
  DB_PATH=./data/points.db ./server

  # Enable admin minting
  ADMIN_TOKEN=s3cret ./server
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/points-engine/api"
	"github.com/warp/points-engine/catalog"
	"github.com/warp/points-engine/config"
	"github.com/warp/points-engine/ledger"
	"github.com/warp/points-engine/store/sqlite"
)

func main() {
	// A missing .env is fine; env vars win either way.
	_ = godotenv.Load()
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	gateway := catalog.Seed()
	service := ledger.NewService(store, gateway, ledger.SystemClock{})
	handler := api.NewHandler(service, gateway)
	router := api.NewRouter(handler, api.AdminTokenGuard(cfg.AdminToken), cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

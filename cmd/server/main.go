/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Ghost Mode 90 server. Handles
  configuration, dependency injection, seeding, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Seed the account from SEED_EMAIL/SEED_PASSWORD if missing
  4. Create API handler and session layer
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: ninety.db)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  JWT_SECRET     Session signing secret (required outside dev)
  COOKIE_SECURE  "true" to mark the session cookie Secure
  SEED_EMAIL     Account to create on first start
  SEED_PASSWORD  Its password
  Loaded from .env when the file exists; real env wins.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/ninety.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/ghostmode/ninety/api"
	"github.com/ghostmode/ninety/store/sqlite"
	"github.com/ghostmode/ninety/tracker"
)

func main() {
	// .env is optional; real environment takes precedence
	_ = godotenv.Load()

	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "ninety.db", "SQLite database path")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-insecure-secret"
		log.Println("Warning: JWT_SECRET not set, using insecure dev secret")
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Seed the account if configured and missing
	if err := seedUser(context.Background(), store); err != nil {
		log.Printf("Warning: Failed to seed user: %v", err)
	}

	// Initialize session layer and handler
	sessions := api.NewSessions(secret)
	sessions.Secure = os.Getenv("COOKIE_SECURE") == "true"
	handler := api.NewHandler(store, sessions)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
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

// seedUser creates the SEED_EMAIL account when it does not exist yet.
// There is no registration endpoint; this is how accounts come to be.
func seedUser(ctx context.Context, store *sqlite.Store) error {
	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	existing, err := store.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := api.HashPassword(password)
	if err != nil {
		return err
	}

	if err := store.SaveUser(ctx, tracker.User{Email: email, PasswordHash: hash}); err != nil {
		return err
	}
	log.Printf("Seeded account %s", email)
	return nil
}

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"focus-tracker/internal/auth"
	"focus-tracker/internal/config"
	"focus-tracker/internal/handlers"
	"focus-tracker/internal/storage"
	"focus-tracker/internal/tracker"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := seedAdmin(db, cfg.AdminUser, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	if err := db.CleanExpiredLoginSessions(); err != nil {
		log.Printf("Failed to clean expired sessions: %v", err)
	}

	svc := tracker.NewService(db, loc)
	h := handlers.NewHandlers(db, svc, cfg.SecureCookie, cfg.SessionTTL)

	log.Printf("Server starting on %s (db %s, timezone %s)", cfg.Addr(), cfg.DBPath, loc)
	if err := http.ListenAndServe(cfg.Addr(), setupRouter(h)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAdmin creates the first user from the environment when the database
// has none yet.
func seedAdmin(db *storage.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := db.CreateUser(username, hash); err != nil {
		return err
	}
	log.Printf("Created admin user %s", username)
	return nil
}

func setupRouter(h *handlers.Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Marketing)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)

	protected := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}
	mux.Handle("GET /dashboard", protected(h.Dashboard))
	mux.Handle("GET /stats", protected(h.Statistics))
	mux.Handle("POST /sessions", protected(h.CreateSession))
	mux.Handle("GET /sessions", protected(h.ListSessions))
	mux.Handle("GET /settings/preferences", protected(h.GetPreferences))
	mux.Handle("PUT /settings/preferences", protected(h.UpdatePreferences))

	return mux
}

// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	mux_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/henrylimaSaas/ArchFlow-master/internal/auth"
	"github.com/henrylimaSaas/ArchFlow-master/internal/config"
	"github.com/henrylimaSaas/ArchFlow-master/internal/handlers"
	"github.com/henrylimaSaas/ArchFlow-master/internal/middleware"
	"github.com/henrylimaSaas/ArchFlow-master/internal/repo"
)

func main() {
	// --- Load config (config.yaml + env overrides) ---
	cfg := config.Load()

	// --- Connect to Postgres ---
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}
	if err := repo.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema error: %v", err)
	}

	store := repo.NewPG(pool)
	tokens := auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	// --- Router ---
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(mux_middleware.Logger)
	mux.Use(mux_middleware.Recoverer)

	// --- CORS middleware ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handlers.RegisterRoutes(mux, store, tokens)

	// Health root
	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// --- Start server ---
	addr := cfg.Listen
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}
	log.Printf("listening on %s (BASE_URL=%s)", addr, cfg.BaseURL)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardroom/blackjack-be/internal/api"
	"github.com/cardroom/blackjack-be/internal/db"
	"github.com/cardroom/blackjack-be/internal/game"
	"github.com/cardroom/blackjack-be/internal/store"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// stdRNG adapts a seeded math/rand source to the engine's RNG port.
type stdRNG struct {
	r *rand.Rand
}

func (s stdRNG) Intn(n int) int { return s.r.Intn(n) }

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	var (
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		frontendURL = flag.String("frontend", "http://localhost:5173", "Frontend URL for CORS")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var (
		gameStore store.Store
		ledger    game.Ledger
		database  *db.Database
	)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		var err error
		database, err = db.NewDatabase(dsn)
		if err != nil {
			logger.Error("database init failed", "error", err)
			os.Exit(1)
		}
		defer database.Close()
		gameStore = store.NewDatabaseStore(database)
		ledger = database
		logger.Info("using postgres store")
	} else {
		gameStore = store.NewMemoryStore()
		ledger = store.NewMemoryLedger()
		logger.Info("using in-memory store")
	}

	hub := api.NewHub(logger)
	go hub.Run()

	rng := stdRNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
	handlers := api.NewHandlers(gameStore, ledger, database, hub, rng, logger)

	r := mux.NewRouter()
	handlers.RegisterRoutes(r)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Info("request", "method", req.Method, "uri", req.RequestURI, "duration", time.Since(start))
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{*frontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

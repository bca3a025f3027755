package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-inventory-api.git/internal/auth"
	"github.com/ariefcatur/go-inventory-api.git/internal/config"
	"github.com/ariefcatur/go-inventory-api.git/internal/httpx"
	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-api.git/internal/kafka"
	"github.com/ariefcatur/go-inventory-api.git/internal/postgres"
	"github.com/ariefcatur/go-inventory-api.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (topic per message)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	// Domain wiring
	repo := &inventory.Repo{DB: db}
	ledger := &inventory.Ledger{Store: repo}
	tokens := &auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	revocations := &auth.RedisRevocations{Client: rdb}

	ah := &httpx.AuthHandler{Store: repo, Tokens: tokens, Revocations: revocations}
	ph := &httpx.ProductsHandler{Store: repo, Ledger: ledger, Redis: rdb}
	sh := &httpx.SuppliersHandler{Store: repo}
	oh := &httpx.OrdersHandler{
		Store:    repo,
		Ledger:   ledger,
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}

	router := httpx.NewRouter()
	ah.Register(router)
	router.Group(func(r chi.Router) {
		r.Use(httpx.RequireAuth(tokens, revocations))
		ah.RegisterProtected(r)
		ph.Register(r)
		sh.Register(r)
		oh.Register(r)
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // stop intake, flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}

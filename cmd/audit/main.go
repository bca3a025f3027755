package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-inventory-api.git/internal/audit"
	"github.com/ariefcatur/go-inventory-api.git/internal/config"
	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-api.git/internal/kafka"
	"github.com/ariefcatur/go-inventory-api.git/internal/postgres"
	"github.com/ariefcatur/go-inventory-api.git/internal/redisx"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &audit.Service{
		Store:       &inventory.Repo{DB: db},
		Dedup:       &redisx.Dedup{Client: rdb, Service: "audit"},
		ServiceName: cfg.ServiceName + "-audit",
	}

	// Consumer over every stock topic
	group := getenv("AUDIT_GROUP", "audit-svc")
	workers := mustAtoi(os.Getenv("AUDIT_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, inventory.AuditTopics, workers)

	go func() {
		log.Printf("audit consumer started: group=%s topics=%v workers=%d", group, inventory.AuditTopics, workers)
		if err := cons.Start(ctx, svc.HandleEvent); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"auctionhouse/internal/config"
	"auctionhouse/internal/db"
	"auctionhouse/internal/store"
	"auctionhouse/internal/worker"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if cfg.DB.DSN == "" {
		log.Fatalf("db.dsn is required for the archival worker")
	}
	if cfg.NATS.URL == "" {
		log.Fatalf("nats.url is required for the archival worker")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		cancel()
	}()

	a := &worker.Archiver{
		Store:   store.New(pool),
		NATSURL: cfg.NATS.URL,
	}
	log.Printf("archival worker started (nats=%s)", cfg.NATS.URL)
	a.Run(ctx)
}

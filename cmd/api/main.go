package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auctionhouse/internal/auction"
	"auctionhouse/internal/config"
	"auctionhouse/internal/db"
	"auctionhouse/internal/epoch"
	"auctionhouse/internal/events"
	internalhttp "auctionhouse/internal/http"
	"auctionhouse/internal/models"
	"auctionhouse/internal/store"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx := context.Background()

	var journal *store.Store
	if cfg.DB.DSN != "" {
		pool, err := db.Connect(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("db connect failed: %v", err)
		}
		defer pool.Close()
		journal = store.New(pool)
	}

	var publisher *events.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = events.NewPublisher(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("nats connect failed: %v", err)
		}
		defer publisher.Close()
	}

	bus := events.NewBus()
	engine := auction.New(cfg.Auction.Denom)
	engine.SetEmitter(func(ev models.Event) {
		bus.Publish(ev)
		if publisher != nil {
			publisher.Publish(ev)
		}
		if journal != nil {
			go func(ev models.Event) {
				insertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				defer cancel()
				if err := journal.InsertEvent(insertCtx, ev); err != nil {
					log.Printf("journal insert failed id=%s: %v", ev.EventID, err)
				}
			}(ev)
		}
	})

	clock := epoch.Clock{Genesis: cfg.EpochGenesis(), Interval: cfg.EpochInterval()}
	feed := internalhttp.NewFeed(bus)
	go feed.Run()

	h := internalhttp.NewHandler(engine, clock, journal)
	srv := internalhttp.NewServer(h, feed, cfg.Owner.Token)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router,
	}

	go func() {
		log.Printf("api listening on %s denom=%s epoch_interval=%s", cfg.Server.Addr, cfg.Auction.Denom, cfg.EpochInterval())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}

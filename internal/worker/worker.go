// Package worker archives engine events published on NATS into the Postgres
// journal, so the API process and the archive can run on separate hosts.
package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"auctionhouse/internal/events"
	"auctionhouse/internal/models"
	"auctionhouse/internal/store"

	"github.com/nats-io/nats.go"
)

type Archiver struct {
	Store   *store.Store
	NATSURL string
}

// Run subscribes to the event stream and persists every message until ctx is
// cancelled. Connection loss is retried with a flat backoff.
func (a *Archiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := a.consume(ctx); err != nil {
			log.Printf("nats consume failed: %v", err)
		}
		time.Sleep(3 * time.Second)
	}
}

func (a *Archiver) consume(ctx context.Context) error {
	conn, err := nats.Connect(a.NATSURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("nats connected %s", a.NATSURL)

	sub, err := conn.Subscribe(events.SubjectPrefix+">", func(msg *nats.Msg) {
		a.handle(ctx, msg)
	})
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	<-ctx.Done()
	return nil
}

func (a *Archiver) handle(ctx context.Context, msg *nats.Msg) {
	var ev models.Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		log.Printf("event unmarshal failed subject=%s: %v", msg.Subject, err)
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.Store.InsertEvent(dbCtx, ev); err != nil {
		log.Printf("event insert failed id=%s: %v", ev.EventID, err)
		return
	}
	switch ev.Type {
	case models.EventItemPurchased:
		if ev.ItemID != "" {
			if err := a.Store.MarkItemUnavailable(dbCtx, ev.ItemID); err != nil {
				log.Printf("item update failed id=%s: %v", ev.ItemID, err)
			}
		}
	case models.EventAuctionClosed:
		for _, id := range ev.ItemIDs {
			if err := a.Store.MarkItemUnavailable(dbCtx, id); err != nil {
				log.Printf("item update failed id=%s: %v", id, err)
			}
		}
	}
	log.Printf("archived event id=%s type=%s item=%s amount=%d", ev.EventID, ev.Type, ev.ItemID, ev.Amount)
}

// Package store persists the audit journal: every committed engine event,
// plus a queryable item record. The engine itself never reads from here;
// state of record lives in memory and the journal is append-mostly.
package store

import (
	"context"

	"auctionhouse/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) InsertEvent(ctx context.Context, ev models.Event) error {
	itemIDs := ev.ItemIDs
	if itemIDs == nil {
		itemIDs = []string{}
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO auction_events (
			event_id, event_type, item_id, item_ids, amount, denom, epoch, occurred_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (event_id) DO NOTHING
	`,
		ev.EventID,
		ev.Type,
		ev.ItemID,
		itemIDs,
		ev.Amount,
		ev.Denom,
		int64(ev.Epoch),
		ev.Timestamp,
	)
	return err
}

func (s *Store) UpsertItem(ctx context.Context, itemID string, info models.ItemInfo) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO auction_items (item_id, name, image_url, metadata, available)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (item_id) DO UPDATE SET available=EXCLUDED.available
	`, itemID, info.Name, info.ImageURL, info.Metadata, info.Available)
	return err
}

func (s *Store) MarkItemUnavailable(ctx context.Context, itemID string) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE auction_items SET available=false WHERE item_id=$1
	`, itemID)
	return err
}

func (s *Store) ListEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT event_id, event_type, item_id, item_ids, amount, denom, epoch, occurred_at
		FROM auction_events
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var ev models.Event
		var epoch int64
		if err := rows.Scan(
			&ev.EventID,
			&ev.Type,
			&ev.ItemID,
			&ev.ItemIDs,
			&ev.Amount,
			&ev.Denom,
			&epoch,
			&ev.Timestamp,
		); err != nil {
			return nil, err
		}
		ev.Epoch = uint64(epoch)
		out = append(out, ev)
	}
	return out, rows.Err()
}

package auction

import (
	"sort"

	"auctionhouse/internal/credential"
	"auctionhouse/internal/vault"
)

// bidEntry is the single live bid on an item: the winning credential so far,
// the vault escrowing the bid, and the escrowed amount.
type bidEntry struct {
	bidder credential.Token
	escrow *vault.Currency
	amount int64
}

// bidLedger holds at most one live bid per item.
type bidLedger struct {
	entries map[string]bidEntry
}

func newBidLedger() *bidLedger {
	return &bidLedger{entries: make(map[string]bidEntry)}
}

func (b *bidLedger) current(itemID string) (bidEntry, bool) {
	e, ok := b.entries[itemID]
	return e, ok
}

// replace installs a new winning bid and returns the evicted entry, if any.
// The caller must already have verified strict improvement.
func (b *bidLedger) replace(itemID string, e bidEntry) (bidEntry, bool) {
	prev, ok := b.entries[itemID]
	b.entries[itemID] = e
	return prev, ok
}

func (b *bidLedger) remove(itemID string) {
	delete(b.entries, itemID)
}

// itemIDs returns the bid item identifiers in sorted order so that close
// processing is deterministic.
func (b *bidLedger) itemIDs() []string {
	ids := make([]string, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (b *bidLedger) len() int { return len(b.entries) }

package auction

import (
	"auctionhouse/internal/credential"
	"auctionhouse/internal/vault"
)

// withdrawalEntry is value owed to a credential holder: an item vault (won
// items) and a currency vault (refunded escrow). One of the two is usually
// empty.
type withdrawalEntry struct {
	items *vault.Items
	funds *vault.Currency
}

// settlementLedger tracks pending withdrawals keyed by credential token. An
// entry is created when a bidder is outbid or wins at close, and destroyed
// atomically with the credential burn on claim.
type settlementLedger struct {
	entries map[credential.Token]withdrawalEntry
}

func newSettlementLedger() *settlementLedger {
	return &settlementLedger{entries: make(map[credential.Token]withdrawalEntry)}
}

func (s *settlementLedger) put(tok credential.Token, e withdrawalEntry) {
	s.entries[tok] = e
}

func (s *settlementLedger) has(tok credential.Token) bool {
	_, ok := s.entries[tok]
	return ok
}

// claim removes and returns the entry for tok. The caller burns the
// credential in the same operation.
func (s *settlementLedger) claim(tok credential.Token) (withdrawalEntry, bool) {
	e, ok := s.entries[tok]
	if !ok {
		return withdrawalEntry{}, false
	}
	delete(s.entries, tok)
	return e, true
}

func (s *settlementLedger) len() int { return len(s.entries) }

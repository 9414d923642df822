package models

import "time"

type AuctionStatus string

const (
	AuctionNotStarted AuctionStatus = "not_started"
	AuctionOngoing    AuctionStatus = "ongoing"
	AuctionClosed     AuctionStatus = "closed"
)

// ItemInfo is the inventory record for a minted item. The metadata fields are
// opaque display payload; the engine never parses them.
type ItemInfo struct {
	Available bool   `json:"available"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	Metadata  string `json:"metadata"`
}

type EventType string

const (
	EventItemMinted        EventType = "item_minted"
	EventItemPurchased     EventType = "item_purchased"
	EventBidPlaced         EventType = "bid_placed"
	EventBidderOutbid      EventType = "bidder_outbid"
	EventAuctionStarted    EventType = "auction_started"
	EventAuctionClosed     EventType = "auction_closed"
	EventWithdrawn         EventType = "withdrawn"
	EventPaymentsCollected EventType = "payments_collected"
)

// Event is emitted after every committed engine operation. Events fan out to
// untrusted observers, so they never carry credential tokens; a token reaches
// only its holder, in the direct response that issued it. ItemIDs lists every
// item a close moved.
type Event struct {
	EventID   string    `json:"event_id"`
	Type      EventType `json:"type"`
	ItemID    string    `json:"item_id,omitempty"`
	ItemIDs   []string  `json:"item_ids,omitempty"`
	Amount    int64     `json:"amount"`
	Denom     string    `json:"denom"`
	Epoch     uint64    `json:"epoch"`
	Timestamp time.Time `json:"timestamp"`
}

package events

import (
	"encoding/json"
	"log"

	"auctionhouse/internal/models"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is the NATS subject root for engine events; the event type
// is appended, e.g. auction.events.bid_placed.
const SubjectPrefix = "auction.events."

// Publisher forwards engine events to NATS. Publishing is best effort: the
// engine never fails an operation because the broker is down.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(ev models.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("event marshal failed: %v", err)
		return
	}
	if err := p.conn.Publish(SubjectPrefix+string(ev.Type), data); err != nil {
		log.Printf("event publish failed type=%s: %v", ev.Type, err)
	}
}

func (p *Publisher) Close() {
	p.conn.Close()
}

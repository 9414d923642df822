package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"auctionhouse/internal/events"
	"auctionhouse/internal/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Feed pushes engine events to websocket clients. Slow clients are dropped
// rather than buffered without bound.
type Feed struct {
	bus *events.Bus

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewFeed(bus *events.Bus) *Feed {
	return &Feed{
		bus:     bus,
		clients: make(map[*feedClient]struct{}),
	}
}

// Run pumps bus events to all connected clients until the bus subscription
// is cancelled. Run it in a goroutine.
func (f *Feed) Run() {
	ch, cancel := f.bus.Subscribe()
	defer cancel()
	for ev := range ch {
		f.broadcast(ev)
	}
}

func (f *Feed) broadcast(ev models.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws marshal failed: %v", err)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			delete(f.clients, c)
			close(c.send)
		}
	}
}

func (f *Feed) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	c := &feedClient{conn: conn, send: make(chan []byte, 64)}

	f.mu.Lock()
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	go c.writePump()
	c.readPump(f)
}

func (c *feedClient) writePump() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	_ = c.conn.Close()
}

// readPump discards inbound messages; its job is to notice the close.
func (c *feedClient) readPump(f *Feed) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	f.mu.Lock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
	f.mu.Unlock()
	_ = c.conn.Close()
}

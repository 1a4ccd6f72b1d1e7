package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Conn wraps one websocket connection for a (room, user) pair. Outbound
// frames go through a buffered channel drained by WriteLoop; a full buffer
// counts as a failed delivery and gets the connection evicted.
type Conn struct {
	ws   *websocket.Conn
	out  chan []byte
	id   string // for log correlation only
	room string
	user string

	once sync.Once
	done chan struct{}
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a WS connection for a specific room + user
func NewConn(ws *websocket.Conn, room, user string) *Conn {
	return &Conn{
		ws:   ws,
		out:  make(chan []byte, 64),
		id:   uuid.NewString(),
		room: room,
		user: user,
		done: make(chan struct{}),
	}
}

// Read blocks until the next text frame. Non-text frames are skipped.
// Returns false once the connection is closed.
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText {
			return data, true
		}
	}
}

// WriteLoop sends outbound frames + periodic pings
// Exits when ctx is cancelled or the connection is closed
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// TrySend queues a frame without blocking. False means the connection is
// closed or its buffer is full, i.e. the peer is gone or not draining.
func (c *Conn) TrySend(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

// Close closes the WS connection normally. Safe to call more than once.
func (c *Conn) Close() error {
	c.once.Do(func() { close(c.done) })
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}

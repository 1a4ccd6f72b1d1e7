package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"log/slog"

	"github.com/piotrnowy/planning-poker/pkg/metrics"
)

// Hub is the room registry and the per-connection session loop. Rooms are
// created lazily on first join and removed the moment they empty; join and
// leave run under the registry lock so a room can never be joined after it
// was deleted. Lock order is always hub then room.
type Hub struct {
	log *slog.Logger

	mu    sync.Mutex
	rooms map[string]*Room // active rooms by id
}

// NewHub sets up an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{log: logger, rooms: map[string]*Room{}}
}

// ServeWS handles a new /ws connection. roomId and user are required query
// params; missing either rejects the request before the upgrade.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := r.URL.Query().Get("roomId")
	user := r.URL.Query().Get("user")
	if roomID == "" || user == "" {
		http.Error(w, "roomId and user required", http.StatusBadRequest)
		return
	}

	conn, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(conn, roomID, user)
	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	// Join queues the current state for the newcomer alone, inside the
	// room's critical section. Joining is not broadcast.
	rm := h.join(roomID, c)
	h.log.Debug("ws.join", "room", roomID, "user", user, "conn", c.id)

	// Outbound writer
	go c.WriteLoop(ctx)

	// Inbound dispatch until the peer closes or the read errors
	for {
		data, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.dispatch(rm, c, data)
	}

	h.leave(c)
	_ = c.Close()
	h.log.Debug("ws.close", "room", roomID, "user", user, "conn", c.id)
}

// dispatch applies one inbound frame to the connection's room. Unparseable
// payloads and unknown types are dropped with no reply and no state change.
func (h *Hub) dispatch(rm *Room, c *Conn, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.log.Debug("ws.frame.drop", "conn", c.id, "err", err)
		return
	}

	var snap Snapshot
	switch msg.Type {
	case msgVote:
		snap = rm.SubmitVote(c.user, msg.Value)
	case msgReveal:
		snap = rm.Reveal()
	case msgReset:
		snap = rm.Reset()
	default:
		h.log.Debug("ws.frame.drop", "conn", c.id, "type", msg.Type)
		return
	}
	metrics.MessagesIn.WithLabelValues(msg.Type).Inc()
	h.broadcast(snap)
}

// join resolves or creates the room and adds the connection, atomically with
// respect to registry insert/delete.
func (h *Hub) join(roomID string, c *Conn) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm := h.rooms[roomID]
	if rm == nil {
		rm = NewRoom(roomID)
		h.rooms[roomID] = rm
		metrics.RoomsActive.Inc()
	}
	rm.Join(c)
	return rm
}

// leave removes the connection from its room, deletes the room if it is now
// empty, and otherwise broadcasts the post-leave state to the remaining
// members. Safe to call twice for the same connection.
func (h *Hub) leave(c *Conn) {
	h.mu.Lock()
	rm := h.rooms[c.room]
	if rm == nil {
		h.mu.Unlock()
		return
	}
	snap, ok := rm.Leave(c)
	if !ok {
		h.mu.Unlock()
		return
	}
	if rm.Empty() {
		delete(h.rooms, c.room)
		metrics.RoomsActive.Dec()
		h.mu.Unlock()
		h.log.Debug("ws.room.closed", "room", rm.id)
		return
	}
	h.mu.Unlock()
	h.broadcast(snap)
}

// broadcast fans a state snapshot out to its member list. A member that
// cannot take the frame is closed and evicted in the same pass; its room
// cleanup runs through the normal leave path. Evictions are processed after
// every reachable member has the frame queued, so the leave broadcast they
// trigger is ordered behind this one on every channel.
func (h *Hub) broadcast(snap Snapshot) {
	b, err := json.Marshal(newStateMessage(snap.state))
	if err != nil {
		h.log.Error("ws.state.marshal", "err", err)
		return
	}
	var failed []*Conn
	for _, c := range snap.conns {
		if c.TrySend(b) {
			metrics.StateFrames.Inc()
			continue
		}
		failed = append(failed, c)
	}
	for _, c := range failed {
		h.log.Warn("ws.send.evict", "room", c.room, "user", c.user, "conn", c.id)
		_ = c.Close()
		h.leave(c)
	}
}

package ws

import (
	"encoding/json"
	"sync"
)

// Room holds the voting state for one room id: who is connected, which user
// voted what, and whether the votes are currently revealed. It does no I/O;
// every mutating operation returns a snapshot taken inside the same critical
// section so callers can fan it out without holding the lock.
type Room struct {
	id string

	mu       sync.Mutex
	members  map[*Conn]struct{} // active connections in this room
	votes    map[string]string  // user name -> opaque vote value
	revealed bool
}

// State is the full room state as sent on the wire.
type State struct {
	Votes    map[string]string
	Revealed bool
}

// Snapshot pairs a state copy with the member list it should be delivered to,
// both captured under the room lock.
type Snapshot struct {
	state State
	conns []*Conn
}

// NewRoom creates an empty hidden room
func NewRoom(id string) *Room {
	return &Room{
		id:      id,
		members: map[*Conn]struct{}{},
		votes:   map[string]string{},
	}
}

// Join adds a connection and queues the current state for it before the
// lock is released. Queueing inside the critical section means any broadcast
// whose member list includes the newcomer was snapshotted after this state
// frame was already in the newcomer's channel, so the newcomer can never end
// on a frame older than its peers'. Votes and the revealed flag are
// untouched.
func (r *Room) Join(c *Conn) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[c] = struct{}{}
	st := r.stateLocked()
	if b, err := json.Marshal(newStateMessage(st)); err == nil {
		c.TrySend(b)
	}
	return st
}

// Leave removes a connection. The user's vote is dropped only when no other
// live connection in the room still claims the same user name, so a second
// tab closing does not erase a vote the first one still owns. Returns false
// if c was not a member (already evicted).
func (r *Room) Leave(c *Conn) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[c]; !ok {
		return Snapshot{}, false
	}
	delete(r.members, c)

	still := false
	for m := range r.members {
		if m.user == c.user {
			still = true
			break
		}
	}
	if !still {
		delete(r.votes, c.user)
	}
	return r.snapshotLocked(), true
}

// SubmitVote records or overwrites a user's vote. A vote landing while the
// room is revealed hides the votes again before the write is applied. The
// value is opaque to the server and never validated.
func (r *Room) SubmitVote(user, value string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revealed {
		r.revealed = false
	}
	r.votes[user] = value
	return r.snapshotLocked()
}

// Reveal makes all current votes visible. Idempotent, votes untouched.
func (r *Room) Reveal() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revealed = true
	return r.snapshotLocked()
}

// Reset clears all votes and hides them again. Idempotent.
func (r *Room) Reset() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.votes = map[string]string{}
	r.revealed = false
	return r.snapshotLocked()
}

// Empty reports whether no connections remain.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members) == 0
}

// stateLocked copies the vote map so the caller can hand it out freely.
func (r *Room) stateLocked() State {
	votes := make(map[string]string, len(r.votes))
	for u, v := range r.votes {
		votes[u] = v
	}
	return State{Votes: votes, Revealed: r.revealed}
}

func (r *Room) snapshotLocked() Snapshot {
	conns := make([]*Conn, 0, len(r.members))
	for c := range r.members {
		conns = append(conns, c)
	}
	return Snapshot{state: r.stateLocked(), conns: conns}
}

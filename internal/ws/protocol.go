package ws

// Inbound frames are a closed set: vote carries a value, reveal and reset
// carry nothing. Anything that fails to parse or has an unknown type is
// dropped without a reply so one bad frame never disturbs the room.
type clientMessage struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

const (
	msgVote   = "vote"
	msgReveal = "reveal"
	msgReset  = "reset"
)

// stateMessage is the only outbound shape: the full room state, sent to a
// newcomer on join and to every member after each mutation.
type stateMessage struct {
	Type     string            `json:"type"`
	Votes    map[string]string `json:"votes"`
	Revealed bool              `json:"revealed"`
}

func newStateMessage(st State) stateMessage {
	return stateMessage{Type: "state", Votes: st.Votes, Revealed: st.Revealed}
}

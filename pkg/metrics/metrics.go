package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RoomsActive tracks rooms currently present in the registry.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "poker",
		Name:      "rooms_active",
		Help:      "Number of active rooms.",
	})

	// ConnectionsActive tracks open websocket connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "poker",
		Name:      "connections_active",
		Help:      "Number of open websocket connections.",
	})

	// MessagesIn counts accepted inbound frames by type (vote/reveal/reset).
	MessagesIn = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "poker",
		Name:      "messages_in_total",
		Help:      "Inbound protocol messages applied, by type.",
	}, []string{"type"})

	// StateFrames counts state frames queued to members.
	StateFrames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "poker",
		Name:      "state_frames_total",
		Help:      "State frames delivered to members.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

package httpx

import (
	"net/http"

	"log/slog"

	"github.com/piotrnowy/planning-poker/internal/app"
	"github.com/piotrnowy/planning-poker/internal/ws"
	"github.com/piotrnowy/planning-poker/pkg/metrics"
)

// NewRouter wires up health, metrics, the websocket entry point, and the
// static client when a directory is configured
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub) http.Handler {
	mw := NewMiddleware(cfg)

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Client assets (index + css/js)
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return mw.Wrap(mux)
}

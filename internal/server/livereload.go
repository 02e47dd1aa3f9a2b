package server

import (
	"bufio"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/docpress/internal/logfields"
	"git.home.luguber.info/inful/docpress/internal/metrics"
)

const heartbeatInterval = 30 * time.Second

// LiveReloadHub manages SSE clients for reload broadcasts.
type LiveReloadHub struct {
	mu       sync.RWMutex
	nextID   int
	clients  map[int]*lrClient
	closed   bool
	lastHash string
	logger   *slog.Logger
	recorder metrics.Recorder
}

type lrClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

// NewLiveReloadHub creates a hub with no clients. A nil recorder disables metrics.
func NewLiveReloadHub(logger *slog.Logger, recorder metrics.Recorder) *LiveReloadHub {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &LiveReloadHub{clients: map[int]*lrClient{}, logger: logger, recorder: recorder}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := &lrClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	current := h.lastHash
	n := len(h.clients)
	h.mu.Unlock()
	h.recorder.IncLiveReloadEvent(metrics.LiveReloadConnected)
	h.recorder.SetLiveReloadClients(n)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		h.removeClient(client.id)
		return
	}
	if current != "" {
		if _, err := bw.WriteString(event(current)); err != nil {
			h.removeClient(client.id)
			return
		}
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.removeClient(client.id)
			return
		case <-client.done:
			return
		case <-hb.C:
			h.write(bw, flusher, ": ping\n\n")
		case hash := <-client.ch:
			h.write(bw, flusher, event(hash))
		}
	}
}

func event(hash string) string {
	return "data: {\"hash\":\"" + hash + "\"}\n\n"
}

func (h *LiveReloadHub) write(bw *bufio.Writer, flusher http.Flusher, msg string) {
	if _, err := bw.WriteString(msg); err != nil {
		h.logger.Debug("Live reload write failed", logfields.Error(err))
		return
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}
}

func (h *LiveReloadHub) removeClient(id int) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.recorder.IncLiveReloadEvent(metrics.LiveReloadDisconnected)
		h.recorder.SetLiveReloadClients(n)
	}
}

// Clients returns the number of connected clients.
func (h *LiveReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends hash to all clients, dropping clients whose buffers are full.
// Empty or repeated hashes are ignored.
func (h *LiveReloadHub) Broadcast(hash string) {
	h.mu.Lock()
	if h.closed || hash == "" || hash == h.lastHash {
		h.mu.Unlock()
		return
	}
	h.lastHash = hash
	snapshot := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- hash:
		default:
			dropped++
			h.recorder.IncLiveReloadEvent(metrics.LiveReloadDropped)
			h.removeClient(c.id)
		}
	}
	h.recorder.IncLiveReloadEvent(metrics.LiveReloadBroadcast)
	h.logger.Debug("Live reload broadcast",
		slog.String("hash", hash),
		slog.Int("clients", len(snapshot)),
		slog.Int("dropped", dropped))
}

// Shutdown closes all clients and prevents future broadcasts.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*lrClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
	h.recorder.SetLiveReloadClients(0)
}

// LiveReloadScript is served at /livereload.js. The first event sets the
// baseline hash; any later different hash reloads the page.
const LiveReloadScript = `(() => {
  if (window.__DOCPRESS_LR__) return;
  window.__DOCPRESS_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let first = true;
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (first) { current = p.hash; first = false; return; }
        if (p.hash && p.hash !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`

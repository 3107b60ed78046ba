package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State is the bot's connection lifecycle state as reported through the
// status document.
type State string

const (
	StateWaiting   State = "waiting" // QR generated, waiting for a scan
	StateConnected State = "connected"
	StateTimeout   State = "timeout"
	StateOffline   State = "offline"
	StateError     State = "error"
)

// Status is the document the bot writes next to its session data. Code is
// only populated in the waiting state and carries the scannable QR payload.
type Status struct {
	Code    string `json:"code"`
	State   State  `json:"status"`
	Updated string `json:"updated"`
	Message string `json:"message,omitempty"`
}

const statusFile = "qrcode.json"

// Bridge reads the bot's status document from an ordered list of candidate
// directories. It never fails: when no candidate yields a parsable document
// the bot is reported offline, and an unexpected read failure is reported as
// the error state.
type Bridge struct {
	candidates []string
}

// NewBridge creates a bridge over the candidate bot data directories, tried
// in order.
func NewBridge(candidates ...string) *Bridge {
	return &Bridge{candidates: candidates}
}

// Read acquires the current status. The first candidate whose document
// parses wins. A candidate failing for a reason other than "file absent"
// does not mask a healthy later candidate; only when every candidate has
// been tried does an unexpected failure surface as the error state.
func (b *Bridge) Read() Status {
	failed := false
	for _, dir := range b.candidates {
		raw, err := os.ReadFile(filepath.Join(dir, statusFile))
		if err != nil {
			if !os.IsNotExist(err) {
				failed = true
			}
			continue
		}
		var st Status
		if err := json.Unmarshal(raw, &st); err != nil {
			continue
		}
		return st
	}
	if failed {
		return Status{
			State:   StateError,
			Updated: time.Now().Format(time.RFC3339),
			Message: "Erro ao ler status do QR code.",
		}
	}
	return Status{
		State:   StateOffline,
		Updated: time.Now().Format(time.RFC3339),
		Message: "Bot nao esta rodando ou QR ainda nao foi gerado.",
	}
}

// Handler serves GET /api/qrcode for the panel UI.
func (b *Bridge) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
			return
		}
		respondJSON(w, http.StatusOK, b.Read())
	})
}

// DefaultStatusInterval is how often the watcher re-reads the status
// document while running.
const DefaultStatusInterval = 3 * time.Second

// Watcher polls the bridge on a fixed interval. Start and Stop are
// first-class: stopping halts further reads but keeps the last known status
// available.
type Watcher struct {
	bridge   *Bridge
	interval time.Duration
	onChange func(Status)

	mu      sync.Mutex
	last    Status
	stop    chan struct{}
	running bool
}

// NewWatcher creates a watcher over the bridge. A non-positive interval
// falls back to DefaultStatusInterval.
func NewWatcher(bridge *Bridge, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	return &Watcher{
		bridge:   bridge,
		interval: interval,
		last: Status{
			State:   StateOffline,
			Updated: time.Now().Format(time.RFC3339),
			Message: "Aguardando primeira leitura.",
		},
	}
}

// SetOnChange registers a callback fired when the observed state changes.
// Must be called before Start.
func (w *Watcher) SetOnChange(fn func(Status)) {
	w.onChange = fn
}

// Start begins polling. An immediate read happens before the first tick.
// Starting a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stop = make(chan struct{})
	stop := w.stop
	w.mu.Unlock()

	go w.loop(ctx, stop)
}

// Stop halts polling without discarding the last known status. A read
// already in flight is allowed to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stop)
}

// Last returns the most recently observed status.
func (w *Watcher) Last() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Running reports whether the watcher is polling.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-stop:
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	st := w.bridge.Read()

	w.mu.Lock()
	changed := st.State != w.last.State
	w.last = st
	fn := w.onChange
	w.mu.Unlock()

	if changed {
		slog.Info("bot status changed", "status", st.State, "updated", st.Updated)
		if fn != nil {
			fn(st)
		}
	}
}

package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/purple-lines/hypricons/internal/utils"
)

// HealthServer provides an HTTP health and metrics endpoint.
type HealthServer struct {
	addr   string
	server *http.Server
	logger *Logger

	set            *metrics.Set
	overlaysShown  *metrics.Counter
	lookupMisses   *metrics.Counter
	decodeFailures *metrics.Counter
	errorsTotal    *metrics.Counter

	mu             sync.RWMutex
	startTime      time.Time
	lastOverlay    time.Time
	activeOverlays int
	indexSize      int
	theme          string
}

// HealthStatus represents the health endpoint response.
type HealthStatus struct {
	Status         string    `json:"status"`
	Uptime         string    `json:"uptime"`
	UptimeSeconds  float64   `json:"uptime_seconds"`
	LastOverlay    time.Time `json:"last_overlay,omitempty"`
	ActiveOverlays int       `json:"active_overlays"`
	OverlaysShown  uint64    `json:"overlays_shown"`
	LookupMisses   uint64    `json:"lookup_misses"`
	DecodeFailures uint64    `json:"decode_failures"`
	ErrorsTotal    uint64    `json:"errors_total"`
	IndexSize      int       `json:"index_size"`
	Theme          string    `json:"theme"`
}

// DefaultHealthAddr is the default address for the health server.
const DefaultHealthAddr = "localhost:9470"

// NormalizeHealthAddr applies the default address. An address without a
// host binds to localhost, never to all interfaces.
func NormalizeHealthAddr(addr string) string {
	if addr == "" {
		return DefaultHealthAddr
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// bare port
		return net.JoinHostPort("localhost", addr)
	}
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

// NewHealthServer creates a new health server listening on NormalizeHealthAddr(addr).
func NewHealthServer(addr string) *HealthServer {
	addr = NormalizeHealthAddr(addr)

	h := &HealthServer{
		addr:      addr,
		startTime: time.Now(),
		set:       metrics.NewSet(),
	}

	h.overlaysShown = h.set.NewCounter("hypricons_overlays_shown_total")
	h.lookupMisses = h.set.NewCounter("hypricons_lookup_misses_total")
	h.decodeFailures = h.set.NewCounter("hypricons_decode_failures_total")
	h.errorsTotal = h.set.NewCounter("hypricons_errors_total")
	h.set.NewGauge("hypricons_uptime_seconds", func() float64 {
		return time.Since(h.startTime).Seconds()
	})
	h.set.NewGauge("hypricons_active_overlays", func() float64 {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return float64(h.activeOverlays)
	})
	h.set.NewGauge("hypricons_index_size", func() float64 {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return float64(h.indexSize)
	})
	h.set.NewGauge("hypricons_last_overlay_timestamp", func() float64 {
		h.mu.RLock()
		defer h.mu.RUnlock()
		if h.lastOverlay.IsZero() {
			return 0
		}
		return float64(h.lastOverlay.Unix())
	})

	return h
}

// Addr returns the listen address.
func (h *HealthServer) Addr() string {
	return h.addr
}

// SetLogger sets the logger used for server errors.
func (h *HealthServer) SetLogger(l *Logger) {
	h.logger = l
}

// Handler serves GET /health and GET /metrics. Responses are never cached.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /metrics", h.handleMetrics)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "no-store")
		mux.ServeHTTP(w, r)
	})
}

// Start binds the listen address and serves in the background. After Start,
// Addr reports the bound address, so "localhost:0" resolves to a real port.
func (h *HealthServer) Start() error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("health server: %w", err)
	}
	h.addr = ln.Addr().String()

	h.server = &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      5 * time.Second,
	}
	go func() {
		if err := h.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) && h.logger != nil {
			h.logger.Error("health server failed", "addr", h.addr, "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down, waiting up to two seconds for open requests.
func (h *HealthServer) Stop() error {
	if h.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return h.server.Shutdown(ctx)
}

// RecordOverlay records an overlay that was shown.
func (h *HealthServer) RecordOverlay() {
	h.overlaysShown.Inc()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastOverlay = time.Now()
}

// RecordMiss records a window without a resolvable icon.
func (h *HealthServer) RecordMiss() {
	h.lookupMisses.Inc()
}

// RecordDecodeFailure records an icon that could not be decoded.
func (h *HealthServer) RecordDecodeFailure() {
	h.decodeFailures.Inc()
}

// RecordError records an error.
func (h *HealthServer) RecordError() {
	h.errorsTotal.Inc()
}

// RecordActive records the number of active overlays after a tick.
func (h *HealthServer) RecordActive(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activeOverlays = n
}

// RecordIndex records the resolver state after a (re)scan.
func (h *HealthServer) RecordIndex(size int, theme string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.indexSize = size
	h.theme = theme
}

// Status returns the current health snapshot.
func (h *HealthServer) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	uptime := time.Since(h.startTime)
	return HealthStatus{
		Status:         "ok",
		Uptime:         utils.FormatUptime(uptime),
		UptimeSeconds:  uptime.Seconds(),
		LastOverlay:    h.lastOverlay,
		ActiveOverlays: h.activeOverlays,
		OverlaysShown:  h.overlaysShown.Get(),
		LookupMisses:   h.lookupMisses.Get(),
		DecodeFailures: h.decodeFailures.Get(),
		ErrorsTotal:    h.errorsTotal.Get(),
		IndexSize:      h.indexSize,
		Theme:          h.theme,
	}
}

func (h *HealthServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Status())
}

func (h *HealthServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	h.set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

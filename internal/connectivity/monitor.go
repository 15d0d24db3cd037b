// Package connectivity tracks whether the backend is reachable. A probe
// loop pings the server periodically and publishes transition events; the
// façade and sync engine read the current flag on every operation.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/lfmelo/macrod/internal/bus"
	"go.uber.org/zap"
)

// Prober checks reachability. Any HTTP response counts as reachable.
type Prober interface {
	Ping(ctx context.Context) bool
}

// Monitor holds the current connectivity flag and probes in the background.
type Monitor struct {
	prober   Prober
	bus      *bus.Bus
	logger   *zap.Logger
	interval time.Duration

	mu     sync.RWMutex
	online bool

	cancel context.CancelFunc
}

// NewMonitor creates a monitor. It starts offline; the first probe or an
// explicit SetOnline flips it.
func NewMonitor(prober Prober, b *bus.Bus, logger *zap.Logger, interval time.Duration) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		prober:   prober,
		bus:      b,
		logger:   logger,
		interval: interval,
	}
}

// Online reports the current connectivity flag.
func (m *Monitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline updates the flag, publishing a transition event when it changes.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	m.mu.Unlock()
	if !changed {
		return
	}

	kind := bus.KindNetworkOffline
	if online {
		kind = bus.KindNetworkOnline
	}
	m.logger.Info("connectivity changed", zap.Bool("online", online))
	if m.bus != nil {
		m.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now()})
	}
}

// Start probes once immediately, then on every tick.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	go m.loop(ctx)
}

// Stop stops the probe loop.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Monitor) loop(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	m.SetOnline(m.prober.Ping(probeCtx))
}

// Static is a fixed connectivity answer, for one-shot commands that probe
// once up front instead of running a monitor.
type Static bool

// Online implements the checker interface.
func (s Static) Online() bool { return bool(s) }

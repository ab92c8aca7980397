package connectivity

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Probe reports whether the authoritative backend is currently reachable.
// It must respect ctx cancellation.
type Probe func(ctx context.Context) bool

// HTTPProbe builds a probe that considers the backend reachable when the
// given URL answers with any status below 500
func HTTPProbe(url string, timeout time.Duration) Probe {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode < http.StatusInternalServerError
	}
}

// Handler receives reachability transitions. It runs on its own goroutine
// and may block without stalling the monitor.
type Handler func(online bool)

// Config holds monitor settings
type Config struct {
	// Interval between probe evaluations
	Interval time.Duration
	// Debounce is the minimum gap between two online notifications, so
	// a flapping link cannot fire a burst of reconnect triggers. A
	// transition inside the window is delivered when the window closes
	// if the link is still up, never dropped.
	Debounce time.Duration
}

// Monitor watches backend reachability. IsOnline answers the point-in-time
// question; subscribers get notified once per state transition, with
// online notifications debounced. The signal is best-effort: IsOnline
// returning true does not guarantee the next write will succeed.
type Monitor struct {
	probe    Probe
	interval time.Duration
	debounce time.Duration
	log      *zap.Logger

	online atomic.Bool

	mu               sync.Mutex
	subscribers      map[int]Handler
	nextSubscriberID int
	lastOnlineNotify time.Time
	pendingNotify    *time.Timer
	override         *bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor creates a monitor. The initial state is offline until the
// first probe (or SetOnline) says otherwise.
func NewMonitor(probe Probe, cfg Config, log *zap.Logger) *Monitor {
	if cfg.Interval == 0 {
		cfg.Interval = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		probe:       probe,
		interval:    cfg.Interval,
		debounce:    cfg.Debounce,
		log:         log.Named("connectivity"),
		subscribers: make(map[int]Handler),
	}
}

// IsOnline reports the last observed reachability state
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Subscribe registers a transition handler and returns a cancel function
// that deregisters it. Handlers registered after a transition only see
// later transitions.
func (m *Monitor) Subscribe(handler func(online bool)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubscriberID
	m.nextSubscriberID++
	m.subscribers[id] = handler

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Start launches the probe loop. Stop (or ctx cancellation) ends it.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// Probe immediately so the first capture does not wait a full tick
		m.evaluate(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.evaluate(ctx)
			}
		}
	}()
}

// Stop ends the probe loop and waits for it to finish
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancelPendingNotify()
	m.wg.Wait()
}

// SetOnline forces the reachability state, running the same transition
// logic as a probe result. Used by tests and by the operator override
// endpoint for field testing.
func (m *Monitor) SetOnline(online bool) {
	m.setState(online)
}

// Override pins the state regardless of probe results until ClearOverride
func (m *Monitor) Override(online bool) {
	m.mu.Lock()
	m.override = &online
	m.mu.Unlock()
	m.setState(online)
}

// ClearOverride resumes probe-driven state
func (m *Monitor) ClearOverride() {
	m.mu.Lock()
	m.override = nil
	m.mu.Unlock()
}

func (m *Monitor) evaluate(ctx context.Context) {
	m.mu.Lock()
	overridden := m.override != nil
	m.mu.Unlock()
	if overridden {
		return
	}
	m.setState(m.probe(ctx))
}

func (m *Monitor) setState(online bool) {
	previous := m.online.Swap(online)
	if previous == online {
		return
	}

	m.log.Info("Reachability changed", zap.Bool("online", online))

	if !online {
		m.cancelPendingNotify()
		m.notify(false)
		return
	}

	m.mu.Lock()
	if m.debounce > 0 {
		if remaining := m.debounce - time.Since(m.lastOnlineNotify); remaining > 0 {
			// Defer to the end of the window rather than drop: queued
			// records must not wait for the next transition to drain
			if m.pendingNotify == nil {
				m.pendingNotify = time.AfterFunc(remaining, m.deferredOnlineNotify)
			}
			m.mu.Unlock()
			m.log.Debug("Online notification deferred by debounce")
			return
		}
	}
	m.lastOnlineNotify = time.Now()
	m.mu.Unlock()

	m.notify(true)
}

// deferredOnlineNotify fires when a debounce window closes. The state may
// have flipped back offline in the meantime; notify only if still online.
func (m *Monitor) deferredOnlineNotify() {
	m.mu.Lock()
	m.pendingNotify = nil
	if !m.online.Load() {
		m.mu.Unlock()
		return
	}
	m.lastOnlineNotify = time.Now()
	m.mu.Unlock()

	m.notify(true)
}

func (m *Monitor) cancelPendingNotify() {
	m.mu.Lock()
	if m.pendingNotify != nil {
		m.pendingNotify.Stop()
		m.pendingNotify = nil
	}
	m.mu.Unlock()
}

func (m *Monitor) notify(online bool) {
	m.mu.Lock()
	handlers := make([]Handler, 0, len(m.subscribers))
	for _, h := range m.subscribers {
		handlers = append(handlers, h)
	}
	m.mu.Unlock()

	for _, handler := range handlers {
		go handler(online)
	}
}

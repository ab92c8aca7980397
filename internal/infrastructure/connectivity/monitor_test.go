package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestMonitor_IsOnline(t *testing.T) {
	m := NewMonitor(nil, Config{}, nil)

	assert.False(t, m.IsOnline(), "initial state is offline")

	m.SetOnline(true)
	assert.True(t, m.IsOnline())

	m.SetOnline(false)
	assert.False(t, m.IsOnline())
}

func TestMonitor_Subscribe(t *testing.T) {
	t.Run("notified once per transition", func(t *testing.T) {
		m := NewMonitor(nil, Config{}, nil)

		var onlineEvents atomic.Int64
		cancel := m.Subscribe(func(online bool) {
			if online {
				onlineEvents.Add(1)
			}
		})
		defer cancel()

		m.SetOnline(true)
		waitFor(t, func() bool { return onlineEvents.Load() == 1 }, "expected one online event")

		// Same state again is not a transition
		m.SetOnline(true)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int64(1), onlineEvents.Load())
	})

	t.Run("cancel deregisters the handler", func(t *testing.T) {
		m := NewMonitor(nil, Config{}, nil)

		var events atomic.Int64
		cancel := m.Subscribe(func(bool) { events.Add(1) })
		cancel()

		m.SetOnline(true)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int64(0), events.Load())
	})

	t.Run("flapping is debounced", func(t *testing.T) {
		m := NewMonitor(nil, Config{Debounce: time.Hour}, nil)

		var onlineEvents atomic.Int64
		var offlineEvents atomic.Int64
		cancel := m.Subscribe(func(online bool) {
			if online {
				onlineEvents.Add(1)
			} else {
				offlineEvents.Add(1)
			}
		})
		defer cancel()

		m.SetOnline(true)
		m.SetOnline(false)
		m.SetOnline(true)
		m.SetOnline(false)
		m.SetOnline(true)

		waitFor(t, func() bool { return onlineEvents.Load() == 1 }, "expected a single online event")
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, int64(1), onlineEvents.Load(), "flapping must not repeat online notifications")
	})

	t.Run("transition inside the window is deferred, not dropped", func(t *testing.T) {
		m := NewMonitor(nil, Config{Debounce: 50 * time.Millisecond}, nil)

		var onlineEvents atomic.Int64
		cancel := m.Subscribe(func(online bool) {
			if online {
				onlineEvents.Add(1)
			}
		})
		defer cancel()

		m.SetOnline(true)
		waitFor(t, func() bool { return onlineEvents.Load() == 1 }, "expected the first online event")

		// Flapping back online inside the window must still drain the
		// queue once the window closes
		m.SetOnline(false)
		m.SetOnline(true)
		waitFor(t, func() bool { return onlineEvents.Load() == 2 }, "expected the deferred online event")
	})

	t.Run("deferred notification is cancelled by going offline", func(t *testing.T) {
		m := NewMonitor(nil, Config{Debounce: 50 * time.Millisecond}, nil)

		var onlineEvents atomic.Int64
		cancel := m.Subscribe(func(online bool) {
			if online {
				onlineEvents.Add(1)
			}
		})
		defer cancel()

		m.SetOnline(true)
		waitFor(t, func() bool { return onlineEvents.Load() == 1 }, "expected the first online event")

		m.SetOnline(false)
		m.SetOnline(true)
		m.SetOnline(false)

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int64(1), onlineEvents.Load(), "offline before the window closed must cancel the deferred event")
	})
}

func TestMonitor_ProbeLoop(t *testing.T) {
	var reachable atomic.Bool
	probe := func(ctx context.Context) bool { return reachable.Load() }

	m := NewMonitor(probe, Config{Interval: 10 * time.Millisecond}, nil)
	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, func() bool { return !m.IsOnline() }, "starts offline")

	reachable.Store(true)
	waitFor(t, func() bool { return m.IsOnline() }, "probe flips state online")

	reachable.Store(false)
	waitFor(t, func() bool { return !m.IsOnline() }, "probe flips state offline")
}

func TestMonitor_Override(t *testing.T) {
	var probeCalls atomic.Int64
	probe := func(ctx context.Context) bool {
		probeCalls.Add(1)
		return true
	}

	m := NewMonitor(probe, Config{Interval: 10 * time.Millisecond}, nil)
	m.Start(context.Background())
	defer m.Stop()

	waitFor(t, func() bool { return m.IsOnline() }, "probe brings monitor online")

	m.Override(false)
	assert.False(t, m.IsOnline())

	// Probe results are ignored while overridden
	time.Sleep(50 * time.Millisecond)
	assert.False(t, m.IsOnline())

	m.ClearOverride()
	waitFor(t, func() bool { return m.IsOnline() }, "probe resumes after override cleared")
}

func TestHTTPProbe(t *testing.T) {
	t.Run("healthy endpoint is reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		probe := HTTPProbe(srv.URL, time.Second)
		assert.True(t, probe(context.Background()))
	})

	t.Run("server errors count as unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		probe := HTTPProbe(srv.URL, time.Second)
		assert.False(t, probe(context.Background()))
	})

	t.Run("closed endpoint is unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		probe := HTTPProbe(srv.URL, 100*time.Millisecond)
		assert.False(t, probe(context.Background()))
	})
}

func TestMonitor_ConcurrentSubscribers(t *testing.T) {
	m := NewMonitor(nil, Config{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cancel := m.Subscribe(func(bool) {})
			cancel()
		}()
	}
	wg.Wait()

	require.NotPanics(t, func() { m.SetOnline(true) })
}

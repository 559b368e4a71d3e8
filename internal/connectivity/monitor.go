// Package connectivity is the single source of truth for online/offline
// state. A prober is polled on an interval; state flips are de-duplicated
// and broadcast to subscribers.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mfreitas/studypilot/internal/logger"
)

// Prober answers whether the backend is currently reachable.
type Prober interface {
	Probe(ctx context.Context) bool
}

// HTTPProber probes reachability with a HEAD request against a URL,
// typically the backend base URL. Any HTTP response counts as online; only
// transport failures count as offline.
type HTTPProber struct {
	url    string
	client *http.Client
}

// NewHTTPProber creates a prober against url.
func NewHTTPProber(url string) *HTTPProber {
	return &HTTPProber{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *HTTPProber) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Monitor tracks the last known connectivity state and notifies subscribers
// on transitions.
type Monitor struct {
	mu      sync.Mutex
	online  bool
	nextSub int
	subs    map[int]func(online bool)

	prober   Prober
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	log      *logger.Logger
}

// NewMonitor creates a monitor polling prober every interval. The monitor
// assumes online until the first probe says otherwise, matching the
// optimistic default of the mobile shell.
func NewMonitor(prober Prober, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{
		online:   true,
		subs:     map[int]func(bool){},
		prober:   prober,
		interval: interval,
		log:      logger.Default().WithPrefix("connectivity"),
	}
}

// Start performs an initial probe and begins the polling loop.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.SetOnline(m.prober.Probe(ctx))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				m.log.Debug("poll loop stopped")
				return
			case <-ticker.C:
				m.SetOnline(m.prober.Probe(ctx))
			}
		}
	}()
	m.log.Info("monitor started, interval=%v", m.interval)
}

// Stop ends the polling loop and waits for it to exit.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Online returns the last known connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnChange registers a subscriber called on every state flip and returns an
// unsubscribe function. Subscribers only fire on actual transitions.
func (m *Monitor) OnChange(cb func(online bool)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = cb
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SetOnline records a new connectivity observation. No-op unless the state
// actually flips; on a flip every subscriber is notified exactly once.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	cbs := make([]func(bool), 0, len(m.subs))
	for _, cb := range m.subs {
		cbs = append(cbs, cb)
	}
	m.mu.Unlock()

	if online {
		m.log.Info("connectivity restored")
	} else {
		m.log.Warn("connectivity lost")
	}
	for _, cb := range cbs {
		cb(online)
	}
}

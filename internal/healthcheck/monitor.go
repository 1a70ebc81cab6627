package healthcheck

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Probe checks one dependency. A nil return means healthy.
type Probe func(ctx context.Context) error

// Monitor runs registered probes on an interval and caches the results, so
// the health endpoint answers from memory instead of hitting every dependency
// on each load-balancer poll.
type Monitor struct {
	mu          sync.RWMutex
	probes      map[string]Probe
	order       []string
	status      map[string]*Status
	interval    time.Duration
	timeout     time.Duration
	maxFailures int
	logger      zerolog.Logger
	stopChan    chan struct{}
	running     bool
}

type Config struct {
	Interval    time.Duration // How often to probe (default: 10s)
	Timeout     time.Duration // Per-probe timeout (default: 5s)
	MaxFailures int           // Consecutive failures before unhealthy (default: 3)
}

func NewMonitor(cfg Config, logger zerolog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}

	return &Monitor{
		probes:      make(map[string]Probe),
		status:      make(map[string]*Status),
		interval:    cfg.Interval,
		timeout:     cfg.Timeout,
		maxFailures: cfg.MaxFailures,
		logger:      logger.With().Str("component", "healthcheck").Logger(),
		stopChan:    make(chan struct{}),
	}
}

// Register adds a named probe. Components start out healthy until the first
// probe says otherwise.
func (m *Monitor) Register(name string, probe Probe) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.probes[name] = probe
	m.order = append(m.order, name)
	m.status[name] = &Status{
		Component: name,
		IsHealthy: true,
		LastCheck: time.Now(),
	}
}

// Start begins periodic probing. The first pass runs immediately.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	m.logger.Info().
		Int("probes", len(m.probes)).
		Dur("interval", m.interval).
		Msg("starting health monitor")

	m.checkAll()

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.checkAll()
			case <-m.stopChan:
				return
			}
		}
	}()
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		close(m.stopChan)
		m.running = false
	}
}

func (m *Monitor) checkAll() {
	m.mu.RLock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			m.check(n)
		}(name)
	}
	wg.Wait()
}

func (m *Monitor) check(name string) {
	m.mu.RLock()
	probe := m.probes[name]
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := probe(ctx); err != nil {
		m.recordFailure(name, err)
		return
	}
	m.recordSuccess(name)
}

func (m *Monitor) recordSuccess(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.status[name]
	status.LastCheck = time.Now()
	status.LastSuccess = time.Now()
	status.FailureCount = 0

	if !status.IsHealthy {
		m.logger.Info().Str("probe", name).Msg("component recovered")
		status.IsHealthy = true
	}
}

func (m *Monitor) recordFailure(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.status[name]
	status.LastCheck = time.Now()
	status.LastFailure = time.Now()
	status.FailureCount++

	if status.IsHealthy && status.FailureCount >= m.maxFailures {
		m.logger.Warn().Err(err).Str("probe", name).Int("failures", status.FailureCount).Msg("component unhealthy")
		status.IsHealthy = false
	}
}

// Snapshot returns a copy of every component's status.
func (m *Monitor) Snapshot() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Status, len(m.status))
	for name, status := range m.status {
		out[name] = *status
	}
	return out
}

// Overall reduces component health to one aggregate value.
func (m *Monitor) Overall() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := len(m.status)
	healthy := 0
	for _, status := range m.status {
		if status.IsHealthy {
			healthy++
		}
	}

	if total == 0 || healthy == total {
		return Healthy
	}
	if healthy == 0 {
		return Unhealthy
	}
	return Degraded
}

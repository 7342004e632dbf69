package stats

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aescanero/musica/pkg/adapters/metrics"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// Monitor periodically publishes entity count gauges
type Monitor struct {
	store    storage.Store
	metrics  metrics.Recorder
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewMonitor creates a new stats monitor
func NewMonitor(store storage.Store, rec metrics.Recorder, interval time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		store:    store,
		metrics:  rec,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the monitor
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.run()
}

// Stop stops the monitor
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
}

// run is the main monitoring loop
func (m *Monitor) run() {
	// Publish once at startup so gauges are set before the first tick
	m.collect()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.collect()
		}
	}
}

// collect reads entity counts and updates the gauges
func (m *Monitor) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users, err := m.store.CountUsers(ctx)
	if err != nil {
		m.logger.Warn("failed to count users", zap.Error(err))
		return
	}
	songs, err := m.store.CountSongs(ctx)
	if err != nil {
		m.logger.Warn("failed to count songs", zap.Error(err))
		return
	}
	favorites, err := m.store.CountFavorites(ctx)
	if err != nil {
		m.logger.Warn("failed to count favorites", zap.Error(err))
		return
	}

	m.metrics.SetEntityCounts(users, songs, favorites)
	m.logger.Debug("entity counts published",
		zap.Int64("users", users),
		zap.Int64("songs", songs),
		zap.Int64("favorites", favorites))
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/objecta-labs/knowsync/internal/core/domain"
	"github.com/objecta-labs/knowsync/internal/core/ports/driven"
	"github.com/objecta-labs/knowsync/internal/core/ports/driving"
	"github.com/objecta-labs/knowsync/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs periodic sync ticks. An hourly tick syncs due hourly
// sources; a daily tick, aligned to midnight, syncs due daily and
// weekly sources. Manual sources are never selected.
type Scheduler struct {
	sourceStore driven.SourceStore
	syncOrch    driving.SyncOrchestrator

	// now is swappable for tests.
	now func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler over the given store and orchestrator.
func NewScheduler(sourceStore driven.SourceStore, syncOrch driving.SyncOrchestrator) *Scheduler {
	return &Scheduler{
		sourceStore: sourceStore,
		syncOrch:    syncOrch,
		now:         time.Now,
	}
}

// Start begins the tick loops. Blocks until the context is cancelled
// or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	hourly := time.NewTicker(time.Hour)
	defer hourly.Stop()

	// The daily tick is aligned to local midnight; weekly sources ride
	// on it with their own cutoff since there is no weekly tick.
	daily := time.NewTimer(s.untilNextMidnight())
	defer daily.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-stopCh:
			s.wg.Wait()
			return nil
		case <-hourly.C:
			s.syncByFrequency(ctx, domain.FrequencyHourly)
		case <-daily.C:
			daily.Reset(24 * time.Hour)
			s.syncByFrequency(ctx, domain.FrequencyDaily)
			s.syncByFrequency(ctx, domain.FrequencyWeekly)
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for in-flight
// syncs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// syncByFrequency syncs every due source of one frequency tier.
// Failures are logged per source and never stop the iteration.
func (s *Scheduler) syncByFrequency(ctx context.Context, frequency domain.SyncFrequency) {
	s.wg.Add(1)
	defer s.wg.Done()

	cutoff := frequency.Cutoff(s.now())
	sources, err := s.sourceStore.ListDue(ctx, frequency, cutoff)
	if err != nil {
		logger.Warn("Scheduler: failed to list due %s sources: %v", frequency, err)
		return
	}
	if len(sources) == 0 {
		return
	}

	logger.Info("Scheduler: %d %s source(s) due", len(sources), frequency)
	for i := range sources {
		source := &sources[i]
		if _, err := s.syncOrch.SyncSource(ctx, source.TenantID, source.ID); err != nil {
			logger.Warn("Scheduler: sync failed for source %s: %v", source.ID, err)
		}
	}
}

// untilNextMidnight returns the duration to the next local midnight.
func (s *Scheduler) untilNextMidnight() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	return next.Sub(now)
}

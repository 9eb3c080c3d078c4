package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/metrics"
)

// Job is what the scheduler triggers once per interval.
type Job interface {
	Execute(ctx context.Context)
}

// HourlyScheduler fires a job aligned to wall-clock hour boundaries: a
// one-shot timer covers the partial hour at startup, then a repeating
// ticker takes over. A running guard ensures a slow execution never
// overlaps the next tick; the overlapping tick is logged and skipped,
// not queued.
type HourlyScheduler struct {
	job      Job
	interval time.Duration
	logger   *logger.Logger
	now      func() time.Time

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// running is the sole cross-goroutine synchronization point; it is
	// cleared with defer so a panicking job can never leave it stuck.
	running int32
}

// NewHourlyScheduler creates a new hourly aligned scheduler
func NewHourlyScheduler(job Job, log *logger.Logger) *HourlyScheduler {
	return &HourlyScheduler{
		job:      job,
		interval: time.Hour,
		logger:   log,
		now:      time.Now,
	}
}

// Start arms the alignment timer and the repeating ticker. Calling Start
// on a started scheduler is a logged no-op.
func (s *HourlyScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.logger.Warn("Scheduler already started, ignoring")
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})

	delay := s.untilNextBoundary()
	s.logger.WithFields(map[string]interface{}{
		"first_tick_in": delay.String(),
		"interval":      s.interval.String(),
	}).Info("Scheduler started")

	s.wg.Add(1)
	go s.run(s.stopCh, delay)
}

// Stop cancels the pending one-shot and the repeating ticker, then waits
// for the scheduling loop and any in-flight job run to finish.
func (s *HourlyScheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *HourlyScheduler) run(stopCh chan struct{}, delay time.Duration) {
	defer s.wg.Done()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		s.tick()
	case <-stopCh:
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-stopCh:
			return
		}
	}
}

// tick launches one job run unless the previous one is still in flight.
func (s *HourlyScheduler) tick() {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		metrics.RecordTickSkipped()
		s.logger.Warn("Previous snapshot job still running, skipping tick")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer atomic.StoreInt32(&s.running, 0)
		s.job.Execute(context.Background())
	}()
}

// untilNextBoundary returns the delay to the next interval boundary in UTC.
func (s *HourlyScheduler) untilNextBoundary() time.Duration {
	now := s.now().UTC()
	next := now.Truncate(s.interval).Add(s.interval)
	return next.Sub(now)
}

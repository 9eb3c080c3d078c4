package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/socpulse/maturity/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

// countingJob records Execute calls and optionally blocks until released.
type countingJob struct {
	mu      sync.Mutex
	calls   int
	blockCh chan struct{}
}

func (j *countingJob) Execute(ctx context.Context) {
	j.mu.Lock()
	j.calls++
	j.mu.Unlock()
	if j.blockCh != nil {
		<-j.blockCh
	}
}

func (j *countingJob) callCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.calls
}

func TestHourlyScheduler_AlignsToBoundary(t *testing.T) {
	s := NewHourlyScheduler(&countingJob{}, testLogger())
	s.now = func() time.Time {
		return time.Date(2025, 6, 8, 10, 45, 30, 0, time.UTC)
	}

	if got, want := s.untilNextBoundary(), 14*time.Minute+30*time.Second; got != want {
		t.Errorf("untilNextBoundary() = %v, want %v", got, want)
	}
}

func TestHourlyScheduler_TickSkipsWhileRunning(t *testing.T) {
	job := &countingJob{blockCh: make(chan struct{})}
	s := NewHourlyScheduler(job, testLogger())

	s.tick()

	// Wait until the first run is actually in flight.
	deadline := time.After(2 * time.Second)
	for job.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first job run never started")
		case <-time.After(time.Millisecond):
		}
	}

	// These ticks overlap the blocked run and must be dropped.
	s.tick()
	s.tick()

	close(job.blockCh)
	s.wg.Wait()

	if got := job.callCount(); got != 1 {
		t.Errorf("job ran %d times, want 1 (overlapping ticks skipped)", got)
	}
}

func TestHourlyScheduler_TickRunsAgainAfterCompletion(t *testing.T) {
	job := &countingJob{}
	s := NewHourlyScheduler(job, testLogger())

	s.tick()
	s.wg.Wait()
	s.tick()
	s.wg.Wait()

	if got := job.callCount(); got != 2 {
		t.Errorf("job ran %d times, want 2", got)
	}
}

func TestHourlyScheduler_StartStop(t *testing.T) {
	job := &countingJob{}
	s := NewHourlyScheduler(job, testLogger())

	s.Start()
	// Second Start must be a no-op, not a second loop.
	s.Start()
	s.Stop()

	// Stop after Stop is also a no-op.
	s.Stop()
}

func TestHourlyScheduler_LoopFiresOnShortInterval(t *testing.T) {
	job := &countingJob{}
	s := NewHourlyScheduler(job, testLogger())
	s.interval = 10 * time.Millisecond

	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for job.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("job ran %d times before deadline, want at least 2", job.callCount())
		case <-time.After(time.Millisecond):
		}
	}
}

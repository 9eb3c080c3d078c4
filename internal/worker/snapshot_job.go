package worker

import (
	"context"
	"sync"
	"time"

	"github.com/socpulse/maturity/internal/client"
	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/metrics"
	"github.com/socpulse/maturity/internal/services"
)

// JobState is the snapshot job's current phase.
type JobState string

const (
	StateIdle       JobState = "idle"
	StateFetching   JobState = "fetching"
	StateComputing  JobState = "computing"
	StatePersisting JobState = "persisting"
)

// SnapshotJob materializes one hourly KPI snapshot: fetch the window's
// alerts, compute KPIs, persist the snapshot and its category counts.
// Execution is fire-and-forget: every failure is caught and logged, the
// job always returns normally.
type SnapshotJob struct {
	source     client.AlertSource
	calculator *services.KpiCalculator
	repo       kpi.Repository
	logger     *logger.Logger
	now        func() time.Time

	mu    sync.RWMutex
	state JobState
}

// NewSnapshotJob creates a new snapshot job
func NewSnapshotJob(source client.AlertSource, calc *services.KpiCalculator, repo kpi.Repository, log *logger.Logger) *SnapshotJob {
	return &SnapshotJob{
		source:     source,
		calculator: calc,
		repo:       repo,
		logger:     log,
		now:        time.Now,
		state:      StateIdle,
	}
}

// State returns the job's current phase.
func (j *SnapshotJob) State() JobState {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

func (j *SnapshotJob) setState(s JobState) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
}

// Execute runs the job for the last completed UTC hour.
func (j *SnapshotJob) Execute(ctx context.Context) {
	windowTo := j.now().UTC().Truncate(time.Hour)
	windowFrom := windowTo.Add(-time.Hour)
	j.ExecuteWindow(ctx, windowFrom, windowTo)
}

// ExecuteWindow runs the job for one explicit [from, to) window. Re-running
// the same window replaces its snapshot, never duplicates it.
func (j *SnapshotJob) ExecuteWindow(ctx context.Context, windowFrom, windowTo time.Time) {
	start := j.now()
	outcome := "success"
	defer func() {
		j.setState(StateIdle)
		metrics.RecordSnapshotJob(outcome, j.now().Sub(start))
	}()

	if !windowFrom.Before(windowTo) {
		outcome = "rejected"
		j.logger.WithFields(map[string]interface{}{
			"window_from": windowFrom,
			"window_to":   windowTo,
		}).Error("Rejecting snapshot job for invalid window")
		return
	}

	log := j.logger.WithFields(map[string]interface{}{
		"window_from": windowFrom.UTC(),
		"window_to":   windowTo.UTC(),
	})
	log.Info("Snapshot job started")

	j.setState(StateFetching)
	alerts, err := j.source.FetchAlertsForWindow(ctx, windowFrom, windowTo)
	if err != nil {
		// A zero-alert snapshot is a valid data point; a failed fetch
		// degrades to one instead of aborting the window.
		outcome = "degraded"
		log.ErrorWithErr(err, "Alert fetch failed, proceeding with empty batch")
		alerts = nil
	}

	j.setState(StateComputing)
	computed := j.calculator.Compute(alerts)

	snapshot := &kpi.Snapshot{
		WindowFrom:      windowFrom.UTC(),
		WindowTo:        windowTo.UTC(),
		MttdMinutes:     computed.MttdMinutes,
		MttrMinutes:     computed.MttrMinutes,
		MttdSampleCount: computed.MttdSampleCount,
		MttrSampleCount: computed.MttrSampleCount,
		TotalAlerts:     computed.TotalAlerts,
		ResolvedAlerts:  computed.ResolvedAlerts,
		FalseAlarms:     computed.FalseAlarms,
		FalseAlarmRate:  computed.FalseAlarmRate,
		ScoreValue:      computed.ScoreValue,
		MaturityLevel:   computed.MaturityLevel,
	}

	j.setState(StatePersisting)
	snapshotID, err := j.repo.UpsertSnapshot(ctx, snapshot)
	if err != nil {
		outcome = "failed"
		log.ErrorWithErr(err, "Snapshot upsert failed")
		return
	}

	// A category-write failure after a successful upsert is logged but does
	// not roll the snapshot back.
	if err := j.repo.ReplaceCategoryCounts(ctx, snapshotID, computed.Categories); err != nil {
		outcome = "degraded"
		log.WithFields(map[string]interface{}{
			"snapshot_id": snapshotID,
		}).ErrorWithErr(err, "Category count replace failed, snapshot kept")
	}

	log.WithFields(map[string]interface{}{
		"snapshot_id":  snapshotID,
		"total_alerts": computed.TotalAlerts,
		"score":        computed.ScoreValue.ToStored(),
		"level":        computed.MaturityLevel,
	}).Info("Snapshot job finished")
}

// Backfill runs the job for each whole UTC hour window in [from, to).
// Windows are processed sequentially, oldest first.
func (j *SnapshotJob) Backfill(ctx context.Context, from, to time.Time) int {
	from = from.UTC().Truncate(time.Hour)
	to = to.UTC().Truncate(time.Hour)

	windows := 0
	for cursor := from; cursor.Before(to); cursor = cursor.Add(time.Hour) {
		j.ExecuteWindow(ctx, cursor, cursor.Add(time.Hour))
		windows++
	}
	return windows
}

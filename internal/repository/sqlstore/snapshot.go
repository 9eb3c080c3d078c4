package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/socpulse/maturity/internal/domain/kpi"
	"github.com/socpulse/maturity/internal/pkg/errors"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) kpi.Repository {
	return &SnapshotRepository{db: db}
}

const snapshotColumns = `
	id, window_from, window_to, mttd_minutes, mttr_minutes,
	mttd_sample_count, mttr_sample_count, total_alerts, resolved_alerts,
	false_alarms, false_alarm_rate, score_value, maturity_level, created_at
`

func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, s *kpi.Snapshot) (int64, error) {
	query := `
		INSERT INTO kpi_snapshots (
			window_from, window_to, mttd_minutes, mttr_minutes,
			mttd_sample_count, mttr_sample_count, total_alerts, resolved_alerts,
			false_alarms, false_alarm_rate, score_value, maturity_level, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (window_from, window_to) DO UPDATE SET
			mttd_minutes = excluded.mttd_minutes,
			mttr_minutes = excluded.mttr_minutes,
			mttd_sample_count = excluded.mttd_sample_count,
			mttr_sample_count = excluded.mttr_sample_count,
			total_alerts = excluded.total_alerts,
			resolved_alerts = excluded.resolved_alerts,
			false_alarms = excluded.false_alarms,
			false_alarm_rate = excluded.false_alarm_rate,
			score_value = excluded.score_value,
			maturity_level = excluded.maturity_level,
			created_at = excluded.created_at
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		s.WindowFrom.UTC().Format(time.RFC3339),
		s.WindowTo.UTC().Format(time.RFC3339),
		s.MttdMinutes.ToStored(),
		s.MttrMinutes.ToStored(),
		s.MttdSampleCount,
		s.MttrSampleCount,
		s.TotalAlerts,
		s.ResolvedAlerts,
		s.FalseAlarms,
		s.FalseAlarmRate.ToStored(),
		s.ScoreValue.ToStored(),
		string(s.MaturityLevel),
		time.Now().UTC().Format(time.RFC3339),
	).Scan(&id)
	if err != nil {
		return 0, errors.DatabaseError("Failed to upsert snapshot", err)
	}

	s.ID = id
	return id, nil
}

// ReplaceCategoryCounts clears and rewrites the snapshot's category rows
// in one transaction, so readers never observe a partial set.
func (r *SnapshotRepository) ReplaceCategoryCounts(ctx context.Context, snapshotID int64, counts map[string]int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to begin category replace", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM kpi_snapshot_categories WHERE snapshot_id = ?", snapshotID); err != nil {
		return errors.DatabaseError("Failed to clear category counts", err)
	}

	for category, count := range counts {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO kpi_snapshot_categories (snapshot_id, category, count) VALUES (?, ?, ?)",
			snapshotID, category, count,
		)
		if err != nil {
			return errors.DatabaseError("Failed to insert category count", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit category replace", err)
	}
	return nil
}

func (r *SnapshotRepository) GetSnapshots(ctx context.Context, from, to time.Time) ([]*kpi.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM kpi_snapshots
		WHERE window_from >= ? AND window_from < ?
		ORDER BY window_from ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, errors.DatabaseError("Failed to list snapshots", err)
	}
	defer rows.Close()

	snapshots := make([]*kpi.Snapshot, 0, 24)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan snapshot", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

func (r *SnapshotRepository) GetLatestSnapshot(ctx context.Context) (*kpi.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM kpi_snapshots
		ORDER BY window_from DESC
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query)
	s, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get latest snapshot", err)
	}
	return s, nil
}

func (r *SnapshotRepository) GetCategoryCounts(ctx context.Context, from, to time.Time) ([]*kpi.CategoryCount, error) {
	query := `
		SELECT c.snapshot_id, c.category, c.count
		FROM kpi_snapshot_categories c
		JOIN kpi_snapshots s ON s.id = c.snapshot_id
		WHERE s.window_from >= ? AND s.window_from < ?
		ORDER BY s.window_from ASC, c.category ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, errors.DatabaseError("Failed to list category counts", err)
	}
	defer rows.Close()

	counts := make([]*kpi.CategoryCount, 0, 32)
	for rows.Next() {
		var c kpi.CategoryCount
		if err := rows.Scan(&c.SnapshotID, &c.Category, &c.Count); err != nil {
			return nil, errors.DatabaseError("Failed to scan category count", err)
		}
		counts = append(counts, &c)
	}

	return counts, rows.Err()
}

// scanner lets scanSnapshot work from both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(sc scanner) (*kpi.Snapshot, error) {
	var (
		s                             kpi.Snapshot
		windowFrom, windowTo, created string
		mttd, mttr, far, score        float64
		level                         string
	)

	err := sc.Scan(
		&s.ID, &windowFrom, &windowTo, &mttd, &mttr,
		&s.MttdSampleCount, &s.MttrSampleCount, &s.TotalAlerts, &s.ResolvedAlerts,
		&s.FalseAlarms, &far, &score, &level, &created,
	)
	if err != nil {
		return nil, err
	}

	s.WindowFrom, _ = time.Parse(time.RFC3339, windowFrom)
	s.WindowTo, _ = time.Parse(time.RFC3339, windowTo)
	s.CreatedAt, _ = time.Parse(time.RFC3339, created)
	s.MttdMinutes = kpi.FromStored(mttd)
	s.MttrMinutes = kpi.FromStored(mttr)
	s.FalseAlarmRate = kpi.FromStored(far)
	s.ScoreValue = kpi.FromStored(score)
	s.MaturityLevel = kpi.MaturityLevel(level)

	return &s, nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/socpulse/maturity/internal/domain/recommendation"
	"github.com/socpulse/maturity/internal/pkg/errors"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) recommendation.Repository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) CreateRecommendations(ctx context.Context, recs []*recommendation.Recommendation) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin recommendation insert", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO recommendations (
			title, rationale, priority, effort, category,
			related_metrics, suggested_actions, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		relatedJSON, err := json.Marshal(rec.RelatedMetrics)
		if err != nil {
			return nil, errors.Internal("Failed to encode related metrics", err)
		}
		actionsJSON, err := json.Marshal(rec.SuggestedActions)
		if err != nil {
			return nil, errors.Internal("Failed to encode suggested actions", err)
		}

		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		var id int64
		err = tx.QueryRowContext(ctx, query,
			rec.Title, rec.Rationale, rec.Priority, rec.Effort, rec.Category,
			string(relatedJSON), string(actionsJSON), createdAt.Format(time.RFC3339),
		).Scan(&id)
		if err != nil {
			return nil, errors.DatabaseError("Failed to insert recommendation", err)
		}

		rec.ID = id
		rec.CreatedAt = createdAt
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit recommendation insert", err)
	}
	return ids, nil
}

func (r *RecommendationRepository) CreateSnapshot(ctx context.Context, snap *recommendation.Snapshot) error {
	idsJSON, err := json.Marshal(snap.RecommendationIDs)
	if err != nil {
		return errors.Internal("Failed to encode recommendation ids", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO recommendation_snapshots (id, generated_at, recommendation_ids) VALUES (?, ?, ?)",
		snap.ID, snap.GeneratedAtUTC.UTC().Format(time.RFC3339), string(idsJSON),
	)
	if err != nil {
		return errors.DatabaseError("Failed to insert recommendation snapshot", err)
	}
	return nil
}

func (r *RecommendationRepository) GetLatestSnapshot(ctx context.Context) (*recommendation.Snapshot, error) {
	query := `
		SELECT id, generated_at, recommendation_ids
		FROM recommendation_snapshots
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var (
		snap        recommendation.Snapshot
		generatedAt string
		idsJSON     string
	)
	err := r.db.QueryRowContext(ctx, query).Scan(&snap.ID, &generatedAt, &idsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get latest recommendation snapshot", err)
	}

	snap.GeneratedAtUTC, _ = time.Parse(time.RFC3339, generatedAt)
	if err := json.Unmarshal([]byte(idsJSON), &snap.RecommendationIDs); err != nil {
		return nil, errors.Internal("Failed to decode recommendation ids", err)
	}
	return &snap, nil
}

func (r *RecommendationRepository) GetRecommendationsByIDs(ctx context.Context, ids []int64) ([]*recommendation.Recommendation, error) {
	if len(ids) == 0 {
		return []*recommendation.Recommendation{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `
		SELECT id, title, rationale, priority, effort, category,
		       related_metrics, suggested_actions, created_at
		FROM recommendations
		WHERE id IN (` + strings.Join(placeholders, ", ") + `)
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load recommendations", err)
	}
	defer rows.Close()

	byID := make(map[int64]*recommendation.Recommendation, len(ids))
	for rows.Next() {
		var (
			rec         recommendation.Recommendation
			relatedJSON string
			actionsJSON string
			createdAt   string
		)
		err := rows.Scan(&rec.ID, &rec.Title, &rec.Rationale, &rec.Priority,
			&rec.Effort, &rec.Category, &relatedJSON, &actionsJSON, &createdAt)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan recommendation", err)
		}

		if err := json.Unmarshal([]byte(relatedJSON), &rec.RelatedMetrics); err != nil {
			return nil, errors.Internal("Failed to decode related metrics", err)
		}
		if err := json.Unmarshal([]byte(actionsJSON), &rec.SuggestedActions); err != nil {
			return nil, errors.Internal("Failed to decode suggested actions", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		byID[rec.ID] = &rec
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to read recommendations", err)
	}

	// Preserve the requested order; ids that no longer exist are skipped.
	recs := make([]*recommendation.Recommendation, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/genius/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ReviewRepository stores the append-only review history of each fact
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new repository instance
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewRow struct {
	ID         int64     `db:"id"`
	FactID     string    `db:"fact_id"`
	ReviewedAt time.Time `db:"reviewed_at"`
	Quality    float64   `db:"quality"`
}

// Append stores a review of factID and returns its row id.
// Timestamps are stored in UTC so that they sort correctly as text in SQLite.
func (r *ReviewRepository) Append(ctx context.Context, factID string, rec models.ReviewRecord) (int64, error) {
	if factID == "" {
		return 0, fmt.Errorf("failed to append review: empty fact id")
	}
	at, quality := rec.Tuple()
	query := r.db.Rebind(`
		INSERT INTO review_records (fact_id, reviewed_at, quality)
		VALUES (?, ?, ?)
		RETURNING id
	`)
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, factID, at.UTC(), quality).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to append review for %s: %w", factID, err)
	}
	return id, nil
}

// History returns the reviews of factID oldest first. Reviews sharing a
// timestamp keep insertion order. A stored quality outside [0, 1] fails with
// models.ErrInvalidQuality.
func (r *ReviewRepository) History(ctx context.Context, factID string) ([]models.ReviewRecord, error) {
	query := r.db.Rebind(`
		SELECT id, fact_id, reviewed_at, quality
		FROM review_records
		WHERE fact_id = ?
		ORDER BY reviewed_at ASC, id ASC
	`)
	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, factID); err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", factID, err)
	}

	history := make([]models.ReviewRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := models.ReviewRecordFromTuple(row.ReviewedAt, row.Quality)
		if err != nil {
			return nil, fmt.Errorf("review %d of %s: %w", row.ID, factID, err)
		}
		history = append(history, rec)
	}
	return history, nil
}

// FactIDs returns every fact that has at least one review
func (r *ReviewRepository) FactIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT fact_id FROM review_records ORDER BY fact_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list facts: %w", err)
	}
	return ids, nil
}

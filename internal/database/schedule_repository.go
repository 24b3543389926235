package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/genius/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ScheduleRepository stores the computed due date of each fact
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Upsert inserts or replaces the schedule of s.FactID
func (r *ScheduleRepository) Upsert(ctx context.Context, s *models.FactSchedule) error {
	query := r.db.Rebind(`
		INSERT INTO fact_schedules (
			fact_id, repetition_count, predicted_quality, next_review_at, updated_at
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (fact_id) DO UPDATE SET
			repetition_count = excluded.repetition_count,
			predicted_quality = excluded.predicted_quality,
			next_review_at = excluded.next_review_at,
			updated_at = excluded.updated_at
	`)
	_, err := r.db.ExecContext(ctx, query,
		s.FactID,
		s.RepetitionCount,
		s.PredictedQuality,
		s.NextReviewAt.UTC(),
		s.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save schedule for %s: %w", s.FactID, err)
	}
	return nil
}

// Get returns the schedule of factID or ErrNotFound
func (r *ScheduleRepository) Get(ctx context.Context, factID string) (*models.FactSchedule, error) {
	query := r.db.Rebind(`
		SELECT fact_id, repetition_count, predicted_quality, next_review_at, updated_at
		FROM fact_schedules
		WHERE fact_id = ?
	`)
	var s models.FactSchedule
	err := r.db.GetContext(ctx, &s, query, factID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule for %s: %w", factID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule for %s: %w", factID, err)
	}
	return &s, nil
}

// Due returns the schedules whose next review is at or before at, earliest first
func (r *ScheduleRepository) Due(ctx context.Context, at time.Time) ([]models.FactSchedule, error) {
	query := r.db.Rebind(`
		SELECT fact_id, repetition_count, predicted_quality, next_review_at, updated_at
		FROM fact_schedules
		WHERE next_review_at <= ?
		ORDER BY next_review_at ASC, fact_id ASC
	`)
	var schedules []models.FactSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, at.UTC()); err != nil {
		return nil, fmt.Errorf("failed to get due schedules: %w", err)
	}
	return schedules, nil
}

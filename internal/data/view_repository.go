package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ViewRepository stores per-topic view totals and the last time each viewer
// was counted.
type ViewRepository struct {
	db *sqlx.DB
}

// NewViewRepository creates a new ViewRepository.
func NewViewRepository(db *sqlx.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

// Record counts a view of topicID by viewer unless that viewer was already
// counted within window. It reports whether the total was incremented.
func (r *ViewRepository) Record(ctx context.Context, topicID int64, viewer string, now time.Time, window time.Duration) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var last time.Time
	err = tx.GetContext(ctx, &last, "SELECT viewed_at FROM topic_viewers WHERE topic_id = ? AND viewer = ?", topicID, viewer)
	switch {
	case err == nil:
		if now.Sub(last) < window {
			return false, nil
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return false, fmt.Errorf("failed to read last view: %w", err)
	}

	now = now.UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO topic_viewers (topic_id, viewer, viewed_at) VALUES (?, ?, ?)
		ON CONFLICT (topic_id, viewer) DO UPDATE SET viewed_at = excluded.viewed_at`,
		topicID, viewer, now); err != nil {
		return false, fmt.Errorf("failed to record viewer: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO topic_view_totals (topic_id, total) VALUES (?, 1)
		ON CONFLICT (topic_id) DO UPDATE SET total = total + 1`,
		topicID); err != nil {
		return false, fmt.Errorf("failed to increment view total: %w", err)
	}
	return true, tx.Commit()
}

// SetTotal overwrites the view total of a topic.
func (r *ViewRepository) SetTotal(ctx context.Context, topicID, total int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO topic_view_totals (topic_id, total) VALUES (?, ?)
		ON CONFLICT (topic_id) DO UPDATE SET total = excluded.total`,
		topicID, total)
	if err != nil {
		return fmt.Errorf("failed to set view total: %w", err)
	}
	return nil
}

// Totals returns the view totals for the given topics. Topics never viewed
// are absent from the map.
func (r *ViewRepository) Totals(ctx context.Context, topicIDs []int64) (map[int64]int64, error) {
	totals := make(map[int64]int64, len(topicIDs))
	if len(topicIDs) == 0 {
		return totals, nil
	}
	query, args, err := sqlx.In("SELECT topic_id, total FROM topic_view_totals WHERE topic_id IN (?)", topicIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build totals query: %w", err)
	}
	var rows []struct {
		TopicID int64 `db:"topic_id"`
		Total   int64 `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get view totals: %w", err)
	}
	for _, row := range rows {
		totals[row.TopicID] = row.Total
	}
	return totals, nil
}

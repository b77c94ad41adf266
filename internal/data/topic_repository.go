package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const topicColumns = `id, title, author_id, category_id, created_at`

// TopicRepository handles database operations for topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// GetByID retrieves a single topic. A miss returns nil without an error.
func (r *TopicRepository) GetByID(ctx context.Context, id int64) (*Topic, error) {
	var topic Topic
	if err := r.db.GetContext(ctx, &topic, "SELECT "+topicColumns+" FROM topics WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic by id: %w", err)
	}
	return &topic, nil
}

// GetAll retrieves every topic, newest first.
func (r *TopicRepository) GetAll(ctx context.Context) ([]Topic, error) {
	return r.selectTopics(ctx, "SELECT "+topicColumns+" FROM topics ORDER BY created_at DESC, id DESC")
}

// GetByCategoryID retrieves the topics filed under a category.
func (r *TopicRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]Topic, error) {
	return r.selectTopics(ctx, "SELECT "+topicColumns+" FROM topics WHERE category_id = ? ORDER BY created_at DESC, id DESC", categoryID)
}

// GetByAuthorID retrieves the topics started by a user.
func (r *TopicRepository) GetByAuthorID(ctx context.Context, authorID string) ([]Topic, error) {
	return r.selectTopics(ctx, "SELECT "+topicColumns+" FROM topics WHERE author_id = ? ORDER BY created_at DESC, id DESC", authorID)
}

func (r *TopicRepository) selectTopics(ctx context.Context, query string, args ...any) ([]Topic, error) {
	topics := []Topic{}
	if err := r.db.SelectContext(ctx, &topics, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// CreateWithFirstPost inserts a topic and its opening post in one
// transaction. On success both records carry their new ids.
func (r *TopicRepository) CreateWithFirstPost(ctx context.Context, topic *Topic, first *Post) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	topic.CreatedAt = topic.CreatedAt.UTC()
	res, err := tx.NamedExecContext(ctx,
		`INSERT INTO topics (title, author_id, category_id, created_at) VALUES (:title, :author_id, :category_id, :created_at)`,
		topic)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	if topic.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	first.TopicID = topic.ID
	first.ReplyTo = nil
	if err := insertPost(ctx, tx, first); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO topic_view_totals (topic_id, total) VALUES (?, 0)", topic.ID); err != nil {
		return fmt.Errorf("failed to initialise view total: %w", err)
	}

	return tx.Commit()
}

// Delete removes a topic together with its posts and view records.
func (r *TopicRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM posts WHERE topic_id = ?",
		"DELETE FROM topic_viewers WHERE topic_id = ?",
		"DELETE FROM topic_view_totals WHERE topic_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete topic dependents: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM topics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if err := expectOneRow(res, "topic", id); err != nil {
		return err
	}
	return tx.Commit()
}

package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postColumns = `id, topic_id, author_id, content, created_at, likes, post_number, reply_to`

// PostRepository handles database operations for posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// GetByTopicID returns the posts of a topic in the order they were written.
func (r *PostRepository) GetByTopicID(ctx context.Context, topicID int64) ([]Post, error) {
	posts := []Post{}
	query := "SELECT " + postColumns + " FROM posts WHERE topic_id = ? ORDER BY created_at, post_number"
	if err := r.db.SelectContext(ctx, &posts, query, topicID); err != nil {
		return nil, fmt.Errorf("failed to get posts for topic: %w", err)
	}
	return posts, nil
}

// GetAll returns every post, newest first.
func (r *PostRepository) GetAll(ctx context.Context) ([]Post, error) {
	posts := []Post{}
	if err := r.db.SelectContext(ctx, &posts, "SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id DESC"); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetRepliesByAuthor returns the posts a user wrote in topics started by
// someone else, newest first.
func (r *PostRepository) GetRepliesByAuthor(ctx context.Context, authorID string) ([]UserReply, error) {
	replies := []UserReply{}
	query := `SELECT p.id, p.topic_id, p.author_id, p.content, p.created_at, p.likes, p.post_number, p.reply_to,
			t.title AS topic_title
		FROM posts p
		JOIN topics t ON t.id = p.topic_id
		WHERE p.author_id = ? AND t.author_id <> p.author_id
		ORDER BY p.created_at DESC, p.id DESC`
	if err := r.db.SelectContext(ctx, &replies, query, authorID); err != nil {
		return nil, fmt.Errorf("failed to get replies by author: %w", err)
	}
	return replies, nil
}

// GetActivity returns the topic id and timestamp of every post belonging to
// one of topicIDs.
func (r *PostRepository) GetActivity(ctx context.Context, topicIDs []int64) ([]PostActivity, error) {
	activity := []PostActivity{}
	if len(topicIDs) == 0 {
		return activity, nil
	}
	query, args, err := sqlx.In("SELECT topic_id, created_at FROM posts WHERE topic_id IN (?)", topicIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build activity query: %w", err)
	}
	if err := r.db.SelectContext(ctx, &activity, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get topic activity: %w", err)
	}
	return activity, nil
}

// Create appends a post to its topic, assigning the next post number.
func (r *PostRepository) Create(ctx context.Context, post *Post) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertPost(ctx, tx, post); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPost(ctx context.Context, tx sqlx.ExtContext, post *Post) error {
	var count int
	if err := sqlx.GetContext(ctx, tx, &count, "SELECT COUNT(*) FROM posts WHERE topic_id = ?", post.TopicID); err != nil {
		return fmt.Errorf("failed to number post: %w", err)
	}
	post.PostNumber = count + 1
	post.CreatedAt = post.CreatedAt.UTC()

	query := `INSERT INTO posts (topic_id, author_id, content, created_at, likes, post_number, reply_to)
		VALUES (:topic_id, :author_id, :content, :created_at, :likes, :post_number, :reply_to)`
	res, err := sqlx.NamedExecContext(ctx, tx, query, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	if post.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	return nil
}

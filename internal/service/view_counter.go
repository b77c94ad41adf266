package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-forum-app/internal/data"

	"github.com/redis/go-redis/v9"
)

// ViewCounter counts topic views, once per viewer per window.
type ViewCounter interface {
	RecordView(ctx context.Context, topicID int64, viewer string) error
	ViewCounts(ctx context.Context, topicIDs []int64) (map[int64]int64, error)
	Forget(ctx context.Context, topicID int64) error
}

// StoreViewCounter keeps view counts in the forum store.
type StoreViewCounter struct {
	repo   *data.ViewRepository
	window time.Duration
	now    func() time.Time
}

// NewStoreViewCounter creates a new StoreViewCounter.
func NewStoreViewCounter(repo *data.ViewRepository, window time.Duration) *StoreViewCounter {
	return &StoreViewCounter{repo: repo, window: window, now: time.Now}
}

func (c *StoreViewCounter) RecordView(ctx context.Context, topicID int64, viewer string) error {
	_, err := c.repo.Record(ctx, topicID, viewer, c.now(), c.window)
	return err
}

func (c *StoreViewCounter) ViewCounts(ctx context.Context, topicIDs []int64) (map[int64]int64, error) {
	return c.repo.Totals(ctx, topicIDs)
}

// Forget is a no-op: deleting a topic already removes its view records.
func (c *StoreViewCounter) Forget(ctx context.Context, topicID int64) error {
	return nil
}

// RedisViewCounter counts views in Redis on top of the totals held by a
// baseline counter (normally the store, which carries the seeded counts).
// A viewer is remembered with a key that expires after the window.
type RedisViewCounter struct {
	client   *redis.Client
	baseline ViewCounter
	window   time.Duration
}

// NewRedisViewCounter creates a new RedisViewCounter.
func NewRedisViewCounter(client *redis.Client, baseline ViewCounter, window time.Duration) *RedisViewCounter {
	return &RedisViewCounter{client: client, baseline: baseline, window: window}
}

func viewsKey(topicID int64) string {
	return fmt.Sprintf("forum:topic_views:%d", topicID)
}

func viewerKey(topicID int64, viewer string) string {
	return fmt.Sprintf("forum:topic_viewer:%d:%s", topicID, viewer)
}

func (c *RedisViewCounter) RecordView(ctx context.Context, topicID int64, viewer string) error {
	first, err := c.client.SetNX(ctx, viewerKey(topicID, viewer), "viewed", c.window).Result()
	if err != nil {
		return fmt.Errorf("failed to mark viewer: %w", err)
	}
	// Already counted within the window.
	if !first {
		return nil
	}
	if err := c.client.Incr(ctx, viewsKey(topicID)).Err(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}
	return nil
}

func (c *RedisViewCounter) ViewCounts(ctx context.Context, topicIDs []int64) (map[int64]int64, error) {
	counts, err := c.baseline.ViewCounts(ctx, topicIDs)
	if err != nil {
		return nil, err
	}
	if len(topicIDs) == 0 {
		return counts, nil
	}

	keys := make([]string, len(topicIDs))
	for i, id := range topicIDs {
		keys[i] = viewsKey(id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read view counts: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		counts[topicIDs[i]] += n
	}
	return counts, nil
}

// Forget drops the Redis counter of a deleted topic.
func (c *RedisViewCounter) Forget(ctx context.Context, topicID int64) error {
	if err := c.client.Del(ctx, viewsKey(topicID)).Err(); err != nil {
		return fmt.Errorf("failed to reset view counter: %w", err)
	}
	return c.baseline.Forget(ctx, topicID)
}

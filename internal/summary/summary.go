// Package summary generates a short natural-language overview of recent
// forum activity for the admin console.
package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-forum-app/internal/data"
	"go-forum-app/internal/logger"
	"go-forum-app/internal/render"
)

// ErrNotConfigured is returned when no API key has been configured.
var ErrNotConfigured = errors.New("activity summary is not configured: set FORUM_SUMMARY_API_KEY")

const (
	sampleSize    = 5
	snippetLength = 50
)

// Summarizer turns a prompt into free text.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Cache is the subset of the cache used to remember summaries.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Activity is the aggregate handed to the summarizer.
type Activity struct {
	Categories     int
	Topics         int
	Posts          int
	RecentTitles   []string
	RecentSnippets []string
}

// NewActivity builds an Activity from the admin collections. topics and posts
// are expected newest first.
func NewActivity(categories []data.Category, topics []data.TopicListing, posts []data.Post) Activity {
	a := Activity{
		Categories: len(categories),
		Topics:     len(topics),
		Posts:      len(posts),
	}
	for i := 0; i < len(topics) && i < sampleSize; i++ {
		a.RecentTitles = append(a.RecentTitles, topics[i].Title)
	}
	for i := 0; i < len(posts) && i < sampleSize; i++ {
		a.RecentSnippets = append(a.RecentSnippets, render.Snippet(posts[i].Content, snippetLength))
	}
	return a
}

// Prompt renders the instruction sent to the model.
func (a Activity) Prompt() string {
	var b strings.Builder
	b.WriteString("You are an admin assistant for an online forum.\n")
	b.WriteString("Summarize the recent activity of the forum based on the following data.\n")
	b.WriteString("Provide a high-level overview and highlight any interesting trends.\n\n")
	fmt.Fprintf(&b, "- Total Categories: %d\n", a.Categories)
	fmt.Fprintf(&b, "- Total Topics: %d\n", a.Topics)
	fmt.Fprintf(&b, "- Total Posts: %d\n\n", a.Posts)
	b.WriteString("Recent Topics (titles):\n")
	for _, title := range a.RecentTitles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	b.WriteString("\nRecent Posts (content snippets):\n")
	for _, snippet := range a.RecentSnippets {
		fmt.Fprintf(&b, "- %q\n", snippet)
	}
	return b.String()
}

// Service generates summaries and caches them by prompt.
type Service struct {
	summarizer Summarizer
	cache      Cache
	ttl        time.Duration
	logger     logger.Logger
}

// NewService creates a new Service. cache may be nil.
func NewService(summarizer Summarizer, cache Cache, ttl time.Duration, log logger.Logger) *Service {
	return &Service{summarizer: summarizer, cache: cache, ttl: ttl, logger: log}
}

// Summarize returns a summary of a, served from the cache when the same
// activity was summarized within the TTL.
func (s *Service) Summarize(ctx context.Context, a Activity) (string, error) {
	prompt := a.Prompt()
	sum := sha256.Sum256([]byte(prompt))
	key := "summary:" + hex.EncodeToString(sum[:])

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Failed to read summary cache: " + err.Error())
		} else if cached != nil {
			return string(cached), nil
		}
	}

	text, err := s.summarizer.Summarize(ctx, prompt)
	if err != nil {
		return "", err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, []byte(text), s.ttl); err != nil {
			s.logger.Warn("Failed to write summary cache: " + err.Error())
		}
	}
	return text, nil
}

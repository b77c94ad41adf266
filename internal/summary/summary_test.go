package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-forum-app/internal/cache"
	"go-forum-app/internal/config"
	"go-forum-app/internal/data"
	"go-forum-app/internal/logger"
)

// mockSummarizer is a mock implementation of the Summarizer interface.
type mockSummarizer struct {
	textToReturn string
	errToReturn  error

	summarizeCalled int
	lastPrompt      string
}

func (m *mockSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	m.summarizeCalled++
	m.lastPrompt = prompt
	return m.textToReturn, m.errToReturn
}

func testActivity() Activity {
	topics := make([]data.TopicListing, 7)
	for i := range topics {
		topics[i].Title = "Topic " + string(rune('A'+i))
	}
	posts := []data.Post{
		{Content: strings.Repeat("x", 80)},
		{Content: "short"},
	}
	return NewActivity([]data.Category{{ID: 1}, {ID: 2}}, topics, posts)
}

func TestNewActivity(t *testing.T) {
	a := testActivity()
	if a.Categories != 2 || a.Topics != 7 || a.Posts != 2 {
		t.Errorf("unexpected counts: %+v", a)
	}
	if len(a.RecentTitles) != 5 || a.RecentTitles[0] != "Topic A" {
		t.Errorf("expected the first five titles, got %v", a.RecentTitles)
	}
	if a.RecentSnippets[0] != strings.Repeat("x", 50)+"..." {
		t.Errorf("expected a 50 character snippet, got %q", a.RecentSnippets[0])
	}
	if a.RecentSnippets[1] != "short..." {
		t.Errorf("expected short content to be marked as a snippet, got %q", a.RecentSnippets[1])
	}

	prompt := a.Prompt()
	for _, want := range []string{"Total Categories: 2", "Total Topics: 7", "Total Posts: 2", "- Topic E", `- "short..."`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected %q in prompt:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Topic F") {
		t.Error("expected at most five titles in prompt")
	}
}

func TestService_Summarize(t *testing.T) {
	t.Run("caches by prompt", func(t *testing.T) {
		c, err := cache.New(config.CacheConfig{FilePath: "file::memory:"})
		if err != nil {
			t.Fatalf("failed to create cache: %v", err)
		}
		defer c.Close()

		mock := &mockSummarizer{textToReturn: "All quiet."}
		svc := NewService(mock, c, time.Minute, logger.Nop())
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			text, err := svc.Summarize(ctx, testActivity())
			if err != nil {
				t.Fatalf("Summarize failed: %v", err)
			}
			if text != "All quiet." {
				t.Errorf("unexpected summary %q", text)
			}
		}
		if mock.summarizeCalled != 1 {
			t.Errorf("expected one provider call, got %d", mock.summarizeCalled)
		}
		if !strings.Contains(mock.lastPrompt, "Total Topics: 7") {
			t.Errorf("unexpected prompt %q", mock.lastPrompt)
		}
	})

	t.Run("errors are returned and not cached", func(t *testing.T) {
		mock := &mockSummarizer{errToReturn: errors.New("quota exceeded")}
		svc := NewService(mock, nil, time.Minute, logger.Nop())

		if _, err := svc.Summarize(context.Background(), testActivity()); err == nil {
			t.Fatal("expected an error")
		}
		mock.errToReturn = nil
		mock.textToReturn = "ok"
		text, err := svc.Summarize(context.Background(), testActivity())
		if err != nil || text != "ok" {
			t.Errorf("expected a fresh call to succeed, got %q, %v", text, err)
		}
	})
}

func TestOpenAISummarizer_NotConfigured(t *testing.T) {
	s := NewOpenAISummarizer(config.SummaryConfig{Model: "gemini-2.5-flash"})
	_, err := s.Summarize(context.Background(), "prompt")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

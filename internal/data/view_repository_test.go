package data

import (
	"context"
	"testing"
	"time"
)

func TestViewRepository_RecordOncePerWindow(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	steps := []struct {
		name    string
		viewer  string
		at      time.Time
		counted bool
	}{
		{"first view", "alice", now, true},
		{"repeat inside window", "alice", now.Add(30 * time.Minute), false},
		{"other viewer", "bob", now.Add(30 * time.Minute), true},
		{"repeat after window", "alice", now.Add(2 * time.Hour), true},
	}
	for _, step := range steps {
		counted, err := store.Views.Record(ctx, 3, step.viewer, step.at, time.Hour)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", step.name, err)
		}
		if counted != step.counted {
			t.Errorf("%s: expected counted=%v, got %v", step.name, step.counted, counted)
		}
	}

	totals, err := store.Views.Totals(ctx, []int64{3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals[3] != 45+3 {
		t.Errorf("expected 48 views, got %d", totals[3])
	}
}

func TestViewRepository_SetTotal(t *testing.T) {
	store, teardown := setupStoreTest(t, false)
	defer teardown()
	ctx := context.Background()

	if err := store.Views.SetTotal(ctx, 42, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	totals, err := store.Views.Totals(ctx, []int64{42, 43})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals[42] != 7 {
		t.Errorf("expected 7, got %d", totals[42])
	}
	if _, ok := totals[43]; ok {
		t.Error("expected unknown topic to be absent")
	}
}

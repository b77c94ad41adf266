package data

import (
	"context"
	"testing"
	"time"
)

func TestTopicRepository_CreateWithFirstPost(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()
	ctx := context.Background()

	author := SeedUserID("ts_master")
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	topic := &Topic{Title: "Generics", AuthorID: author, CategoryID: 4, CreatedAt: created}
	first := &Post{AuthorID: author, Content: "Who uses them?", CreatedAt: created}

	if err := store.Topics.CreateWithFirstPost(ctx, topic, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topic.ID == 0 || first.ID == 0 {
		t.Fatalf("expected ids to be assigned, got topic %d post %d", topic.ID, first.ID)
	}
	if first.TopicID != topic.ID || first.PostNumber != 1 {
		t.Errorf("unexpected first post: %+v", first)
	}

	found, err := store.Topics.GetByID(ctx, topic.ID)
	if err != nil || found == nil {
		t.Fatalf("expected to find topic, got %v, %v", found, err)
	}
	if !found.CreatedAt.Equal(created) {
		t.Errorf("expected created at %v, got %v", created, found.CreatedAt)
	}

	posts, err := store.Posts.GetByTopicID(ctx, topic.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 || posts[0].Content != "Who uses them?" {
		t.Errorf("expected the opening post, got %+v", posts)
	}
}

func TestTopicRepository_Queries(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()
	ctx := context.Background()

	all, err := store.Topics.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 topics, got %d", len(all))
	}
	if all[0].ID != 5 {
		t.Errorf("expected newest topic first, got %d", all[0].ID)
	}

	react, err := store.Topics.GetByCategoryID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(react) != 2 {
		t.Errorf("expected 2 React topics, got %d", len(react))
	}

	byAlice, err := store.Topics.GetByAuthorID(ctx, SeedUserID("react_guru"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byAlice) != 2 {
		t.Errorf("expected 2 topics by react_guru, got %d", len(byAlice))
	}

	missing, err := store.Topics.GetByID(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for a missing topic, got %v, %v", missing, err)
	}
}

func TestTopicRepository_DeleteCascades(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()
	ctx := context.Background()

	if err := store.Topics.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	posts, err := store.Posts.GetByTopicID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("expected posts to be removed, got %d", len(posts))
	}
	totals, err := store.Views.Totals(ctx, []int64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := totals[1]; ok {
		t.Error("expected view total to be removed")
	}

	if err := store.Topics.Delete(ctx, 1); err == nil {
		t.Error("expected an error deleting a missing topic")
	}
}

func TestTopicRepository_IDsAreNotReused(t *testing.T) {
	store, teardown := setupStoreTest(t, true)
	defer teardown()
	ctx := context.Background()

	author := SeedUserID("ts_master")
	create := func(title string) (*Topic, *Post) {
		t.Helper()
		topic := &Topic{Title: title, AuthorID: author, CategoryID: 4, CreatedAt: time.Now()}
		first := &Post{AuthorID: author, Content: "Opening post", CreatedAt: time.Now()}
		if err := store.Topics.CreateWithFirstPost(ctx, topic, first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return topic, first
	}

	deleted, deletedPost := create("Short lived")
	if err := store.Topics.Delete(ctx, deleted.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next, nextPost := create("Unrelated thread")

	if next.ID <= deleted.ID {
		t.Errorf("expected a fresh topic id after %d, got %d", deleted.ID, next.ID)
	}
	if nextPost.ID <= deletedPost.ID {
		t.Errorf("expected a fresh post id after %d, got %d", deletedPost.ID, nextPost.ID)
	}
	found, err := store.Topics.GetByID(ctx, deleted.ID)
	if err != nil || found != nil {
		t.Errorf("expected the deleted id to stay missing, got %v, %v", found, err)
	}
}

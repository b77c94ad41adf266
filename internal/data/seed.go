package data

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// userNamespace scopes the name-based ids of seeded users so they stay the
// same across restarts.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://go-forum-app/users"))

// SeedUserID returns the stable id assigned to a seeded username.
func SeedUserID(username string) string {
	return uuid.NewSHA1(userNamespace, []byte(username)).String()
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func replyTo(n int) *int { return &n }

var seedUsers = []User{
	{Username: "react_guru", Name: "Alice", AvatarURL: "https://i.pravatar.cc/150?u=1", JoinedAt: ts("2023-01-15T10:00:00Z"), IsAdmin: true},
	{Username: "tailwind_fan", Name: "Bob", AvatarURL: "https://i.pravatar.cc/150?u=2", JoinedAt: ts("2023-02-20T11:30:00Z")},
	{Username: "ts_master", Name: "Charlie", AvatarURL: "https://i.pravatar.cc/150?u=3", JoinedAt: ts("2023-03-05T14:00:00Z")},
	{Username: "ux_designer", Name: "Diana", AvatarURL: "https://i.pravatar.cc/150?u=4", JoinedAt: ts("2023-04-10T18:45:00Z")},
}

var seedCategories = []Category{
	{ID: 1, Name: "React", Slug: "react", Color: "61DAFB", Description: "Discussions about the React library."},
	{ID: 2, Name: "Tailwind CSS", Slug: "tailwind-css", Color: "38B2AC", Description: "Styling with Tailwind CSS."},
	{ID: 3, Name: "General", Slug: "general", Color: "F6E05E", Description: "Off-topic and general chat."},
	{ID: 4, Name: "TypeScript", Slug: "typescript", Color: "3178C6", Description: "All about TypeScript."},
}

type seedTopic struct {
	Topic
	author string
	views  int64
}

var seedTopics = []seedTopic{
	{Topic{ID: 1, Title: "Getting Started with React Hooks", CategoryID: 1, CreatedAt: ts("2023-10-26T10:00:00Z")}, "react_guru", 152},
	{Topic{ID: 2, Title: "Best Practices for Tailwind CSS in Large Projects", CategoryID: 2, CreatedAt: ts("2023-10-25T14:20:00Z")}, "tailwind_fan", 230},
	{Topic{ID: 3, Title: "Favorite TypeScript Utility Types?", CategoryID: 4, CreatedAt: ts("2023-10-27T11:00:00Z")}, "ts_master", 45},
	{Topic{ID: 4, Title: "Weekend Plans Discussion", CategoryID: 3, CreatedAt: ts("2023-10-24T18:00:00Z")}, "ux_designer", 450},
	{Topic{ID: 5, Title: "Custom Hooks for everything!", CategoryID: 1, CreatedAt: ts("2023-10-28T09:00:00Z")}, "react_guru", 25},
}

type seedPost struct {
	Post
	author string
}

var seedPosts = []seedPost{
	{Post{ID: 1, TopicID: 1, PostNumber: 1, Likes: 12, CreatedAt: ts("2023-10-26T10:00:00Z"),
		Content: "Hey everyone, I'm new to React Hooks. What are the best resources to get started? I've read the official docs, but looking for more practical examples.\n\n`useEffect` is a bit confusing!"}, "react_guru"},
	{Post{ID: 2, TopicID: 1, PostNumber: 2, Likes: 8, ReplyTo: replyTo(1), CreatedAt: ts("2023-10-26T10:15:00Z"),
		Content: "I highly recommend Kent C. Dodds' blog. He has some amazing deep dives into hooks."}, "ts_master"},
	{Post{ID: 3, TopicID: 1, PostNumber: 3, Likes: 15, ReplyTo: replyTo(1), CreatedAt: ts("2023-10-26T11:00:00Z"),
		Content: "For `useEffect`, the key is to understand the dependency array. An empty array `[]` means it runs only once on mount. If you pass variables, it re-runs when they change."}, "tailwind_fan"},
	{Post{ID: 4, TopicID: 1, PostNumber: 4, Likes: 2, ReplyTo: replyTo(3), CreatedAt: ts("2023-10-26T11:30:00Z"),
		Content: "@ts_master Thanks for the tip! I'll check it out. @tailwind_fan That makes sense, I think I was missing that part."}, "react_guru"},
	{Post{ID: 5, TopicID: 1, PostNumber: 5, Likes: 7, ReplyTo: replyTo(1), CreatedAt: ts("2023-10-27T12:30:00Z"),
		Content: "Don't forget custom hooks! They are a superpower for reusing logic."}, "ux_designer"},
	{Post{ID: 6, TopicID: 2, PostNumber: 1, Likes: 25, CreatedAt: ts("2023-10-25T14:20:00Z"),
		Content: "How do you organize your Tailwind classes in a large-scale application? Using `@apply` in CSS files? Or utility classes directly in the HTML?"}, "tailwind_fan"},
	{Post{ID: 7, TopicID: 2, PostNumber: 2, Likes: 10, ReplyTo: replyTo(1), CreatedAt: ts("2023-10-25T15:00:00Z"),
		Content: "We stick to utility classes directly in JSX. It feels weird at first but becomes very productive. We use component libraries like Headless UI to encapsulate complex components."}, "react_guru"},
	{Post{ID: 8, TopicID: 2, PostNumber: 3, Likes: 12, ReplyTo: replyTo(1), CreatedAt: ts("2023-10-25T16:00:00Z"),
		Content: "I agree. We found `@apply` can lead to the same issues as custom CSS, where you have to jump between files. Keeping styles co-located with the markup is a big win."}, "ux_designer"},
	{Post{ID: 9, TopicID: 2, PostNumber: 4, Likes: 18, ReplyTo: replyTo(1), CreatedAt: ts("2023-10-26T09:15:00Z"),
		Content: "There is a `prettier-plugin-tailwindcss` that automatically sorts your classes. It's a life-saver for keeping things clean!"}, "ts_master"},
	{Post{ID: 11, TopicID: 3, PostNumber: 1, Likes: 8, CreatedAt: ts("2023-10-27T11:00:00Z"),
		Content: "What are some of your most-used utility types in TypeScript? I'm a big fan of `Pick` and `Omit`."}, "ts_master"},
	{Post{ID: 12, TopicID: 4, PostNumber: 1, Likes: 3, CreatedAt: ts("2023-10-24T18:00:00Z"),
		Content: "It's almost the weekend! Anyone have exciting plans?"}, "ux_designer"},
	{Post{ID: 13, TopicID: 4, PostNumber: 2, Likes: 5, ReplyTo: replyTo(1), CreatedAt: ts("2023-10-25T09:00:00Z"),
		Content: "Going for a hike on Saturday!"}, "react_guru"},
	{Post{ID: 14, TopicID: 5, PostNumber: 1, Likes: 15, CreatedAt: ts("2023-10-28T09:00:00Z"),
		Content: "I've started abstracting almost all my component logic into custom hooks. It's making my components so much cleaner!"}, "react_guru"},
}

// Seed loads the demo community into an empty store in a single transaction.
func Seed(ctx context.Context, s *Store) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, u := range seedUsers {
		u.ID = SeedUserID(u.Username)
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO users (id, username, name, avatar_url, joined_at, is_admin)
			VALUES (:id, :username, :name, :avatar_url, :joined_at, :is_admin)`, u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
	}

	for _, c := range seedCategories {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO categories (id, name, slug, description, color) VALUES (:id, :name, :slug, :description, :color)`, c); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
	}

	for _, t := range seedTopics {
		t.AuthorID = SeedUserID(t.author)
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO topics (id, title, author_id, category_id, created_at)
			VALUES (:id, :title, :author_id, :category_id, :created_at)`, t.Topic); err != nil {
			return fmt.Errorf("failed to seed topic %d: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO topic_view_totals (topic_id, total) VALUES (?, ?)", t.ID, t.views); err != nil {
			return fmt.Errorf("failed to seed views for topic %d: %w", t.ID, err)
		}
	}

	for _, p := range seedPosts {
		p.AuthorID = SeedUserID(p.author)
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO posts (id, topic_id, author_id, content, created_at, likes, post_number, reply_to)
			VALUES (:id, :topic_id, :author_id, :content, :created_at, :likes, :post_number, :reply_to)`, p.Post); err != nil {
			return fmt.Errorf("failed to seed post %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

package data

import "time"

// User is a forum member. Username is unique without regard to case.
type User struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Name      string    `db:"name"`
	AvatarURL string    `db:"avatar_url"`
	JoinedAt  time.Time `db:"joined_at"`
	IsAdmin   bool      `db:"is_admin"`
}

// Category groups topics. Color is six hex digits without the leading '#'.
type Category struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
	Color       string `db:"color"`
}

// Topic is a discussion thread.
type Topic struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	AuthorID   string    `db:"author_id"`
	CategoryID int64     `db:"category_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// Post is a single message within a topic.
type Post struct {
	ID         int64     `db:"id"`
	TopicID    int64     `db:"topic_id"`
	AuthorID   string    `db:"author_id"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
	Likes      int       `db:"likes"`
	PostNumber int       `db:"post_number"`
	ReplyTo    *int      `db:"reply_to"`
}

// TopicListing is a topic joined with its author and category and the
// fields derived from its posts at read time.
type TopicListing struct {
	Topic
	Author       User
	Category     Category
	ReplyCount   int
	ViewCount    int64
	LastPostedAt time.Time
}

// UserReply is a post annotated with the topic it belongs to.
type UserReply struct {
	Post
	TopicTitle string `db:"topic_title"`
}

// PostActivity is the slice of a post needed to derive topic statistics.
type PostActivity struct {
	TopicID   int64     `db:"topic_id"`
	CreatedAt time.Time `db:"created_at"`
}

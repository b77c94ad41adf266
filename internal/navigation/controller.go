// Package navigation holds a visitor's view state: which page they are on,
// who they are logged in as and which category they came from. Events move
// the state between pages and funnel mutations through the forum service;
// every mutation is followed by a full reload of the current page's data.
package navigation

import (
	"context"
	"fmt"
	"strings"

	"go-forum-app/internal/apperror"
	"go-forum-app/internal/data"
	"go-forum-app/internal/summary"
	"go-forum-app/internal/validation"

	"golang.org/x/sync/errgroup"
)

// Forum is the data service the controller reads from and writes through.
type Forum interface {
	ListCategories(ctx context.Context) []data.Category
	ListTopics(ctx context.Context, categoryID *int64) []data.TopicListing
	GetTopic(ctx context.Context, id int64) (data.TopicListing, bool)
	ListPostsForTopic(ctx context.Context, topicID int64) []data.Post
	GetUser(ctx context.Context, id string) (data.User, bool)
	LookupUser(ctx context.Context, id string) (*data.User, error)
	ListTopicsByUser(ctx context.Context, userID string) []data.TopicListing
	ListPostsByUser(ctx context.Context, userID string) []data.UserReply
	ListAllUsers(ctx context.Context) []data.User
	ListAllTopics(ctx context.Context) []data.TopicListing
	ListAllPosts(ctx context.Context) []data.Post

	Login(ctx context.Context, username string) (data.User, error)
	CreatePost(ctx context.Context, topicID int64, content, authorID string) (data.Post, error)
	CreateTopic(ctx context.Context, title, content string, categoryID int64, authorID string) (data.Topic, error)

	CreateCategory(ctx context.Context, name, description, color string) (data.Category, error)
	EditCategory(ctx context.Context, id int64, name, description, color string) (data.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	AdminCreateTopic(ctx context.Context, title, content string, categoryID int64, authorID string) (data.Topic, error)
	DeleteTopic(ctx context.Context, id int64) error
	CreateUser(ctx context.Context, username, name string) (data.User, error)
	DeleteUser(ctx context.Context, id string) error
	ToggleAdminStatus(ctx context.Context, id string) (data.User, error)
}

// ActivitySummarizer produces the admin console's activity summary.
type ActivitySummarizer interface {
	Summarize(ctx context.Context, a summary.Activity) (string, error)
}

// Controller is one visitor's navigation state. It is not safe for
// concurrent use; each request restores its own copy.
type Controller struct {
	forum      Forum
	summarizer ActivitySummarizer

	view     View
	user     *data.User
	category *data.Category // last category visited, one level deep
	snapshot Snapshot
}

// New returns a controller on the home page with nobody logged in.
func New(forum Forum, summarizer ActivitySummarizer) *Controller {
	return &Controller{forum: forum, summarizer: summarizer, view: Home{}}
}

// View returns the current page.
func (c *Controller) View() View { return c.view }

// User returns the logged-in user, or nil.
func (c *Controller) User() *data.User { return c.user }

// LastCategory returns the category Back returns to from a topic, or nil.
func (c *Controller) LastCategory() *data.Category { return c.category }

// Snapshot returns the data installed by the last Apply.
func (c *Controller) Snapshot() Snapshot { return c.snapshot }

// Select opens a topic.
func (c *Controller) Select(topicID int64) {
	c.view = TopicPage{TopicID: topicID}
}

// SelectCategory opens a category and remembers it for Back. A nil category
// goes home.
func (c *Controller) SelectCategory(category *data.Category) {
	if category == nil {
		c.ClickHome()
		return
	}
	remembered := *category
	c.category = &remembered
	c.view = CategoryPage{Category: remembered}
}

// ClickUser opens a member's profile.
func (c *Controller) ClickUser(userID string) {
	c.view = ProfilePage{UserID: userID}
}

// ClickLogin opens the login form.
func (c *Controller) ClickLogin() {
	c.view = LoginPage{}
}

// ClickHome goes home and forgets the last category.
func (c *Controller) ClickHome() {
	c.category = nil
	c.view = Home{}
}

// ClickAdmin opens the admin console. Whether it renders in full is decided
// when its data is fetched.
func (c *Controller) ClickAdmin() {
	c.view = AdminPage{}
}

// Back leaves a topic for the category it was reached from, or home.
// Everywhere else it goes home and forgets the category.
func (c *Controller) Back() {
	if _, ok := c.view.(TopicPage); ok && c.category != nil {
		c.view = CategoryPage{Category: *c.category}
		return
	}
	c.ClickHome()
}

// Login logs a user in by username and goes home. On failure the login page
// stays open.
func (c *Controller) Login(ctx context.Context, username string) error {
	form := LoginForm{Username: strings.TrimSpace(username)}
	if err := validation.Struct(form); err != nil {
		return err
	}
	user, err := c.forum.Login(ctx, form.Username)
	if err != nil {
		return err
	}
	c.user = &user
	c.view = Home{}
	return nil
}

// Logout clears the current user and goes home.
func (c *Controller) Logout() {
	c.user = nil
	c.view = Home{}
}

// CreateTopic starts a topic as the current user, reloads, then opens the
// new topic.
func (c *Controller) CreateTopic(ctx context.Context, form TopicForm) (data.Topic, error) {
	form.trim()
	if err := validation.Struct(form); err != nil {
		return data.Topic{}, err
	}
	if c.user == nil {
		return data.Topic{}, fmt.Errorf("%w: log in to start a topic", apperror.ErrUnauthorized)
	}
	topic, err := c.forum.CreateTopic(ctx, form.Title, form.Content, form.CategoryID, c.user.ID)
	if err != nil {
		return data.Topic{}, err
	}
	c.Reload(ctx)
	c.view = TopicPage{TopicID: topic.ID}
	return topic, nil
}

// Reply adds a post to the open topic as the current user and reloads.
func (c *Controller) Reply(ctx context.Context, form ReplyForm) (data.Post, error) {
	form.Content = strings.TrimSpace(form.Content)
	if err := validation.Struct(form); err != nil {
		return data.Post{}, err
	}
	if c.user == nil {
		return data.Post{}, fmt.Errorf("%w: log in to reply", apperror.ErrUnauthorized)
	}
	page, ok := c.view.(TopicPage)
	if !ok {
		return data.Post{}, fmt.Errorf("%w: no topic is open", apperror.ErrValidation)
	}
	post, err := c.forum.CreatePost(ctx, page.TopicID, form.Content, c.user.ID)
	if err != nil {
		return data.Post{}, err
	}
	c.Reload(ctx)
	return post, nil
}

// Reload fetches and installs the data for the current page.
func (c *Controller) Reload(ctx context.Context) {
	c.Apply(c.Fetch(ctx))
}

// Snapshot is everything a page needs to render, read at one point in time.
type Snapshot struct {
	// View is the page the snapshot was fetched for.
	View View
	// ForUserID is the id of the logged-in user at fetch time.
	ForUserID string
	// User is the refreshed record of that user, nil if it no longer exists.
	// It is the previous record when the lookup failed.
	User *data.User

	// Interrupted is set when the context ended before every read finished.
	// Such a snapshot may be missing records that still exist.
	Interrupted bool

	Categories []data.Category
	Topics     []data.TopicListing

	Topic      data.TopicListing
	TopicFound bool
	Posts      []data.Post
	Authors    map[string]data.User

	Profile        data.User
	ProfileFound   bool
	ProfileTopics  []data.TopicListing
	ProfileReplies []data.UserReply

	// Unauthorized is set when the admin console was requested by someone
	// who is not an admin.
	Unauthorized bool
	AllUsers     []data.User
	AllTopics    []data.TopicListing
	AllPosts     []data.Post
}

// Fetch reads the data for the current page. Independent reads run in
// parallel. Fetch does not modify the controller.
func (c *Controller) Fetch(ctx context.Context) Snapshot {
	snap := Snapshot{View: c.view}

	user := c.user
	if user != nil {
		snap.ForUserID = user.ID
		fresh, err := c.forum.LookupUser(ctx, user.ID)
		switch {
		case err != nil:
			// Keep the current record; only a definite miss logs out.
		case fresh == nil:
			user = nil
		default:
			user = fresh
		}
		snap.User = user
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Categories = c.forum.ListCategories(gctx)
		return nil
	})

	switch v := c.view.(type) {
	case Home:
		g.Go(func() error {
			snap.Topics = c.forum.ListTopics(gctx, nil)
			return nil
		})
	case CategoryPage:
		id := v.Category.ID
		g.Go(func() error {
			snap.Topics = c.forum.ListTopics(gctx, &id)
			return nil
		})
	case TopicPage:
		g.Go(func() error {
			snap.Topic, snap.TopicFound = c.forum.GetTopic(gctx, v.TopicID)
			return nil
		})
		g.Go(func() error {
			snap.Posts = c.forum.ListPostsForTopic(gctx, v.TopicID)
			return nil
		})
		g.Go(func() error {
			snap.Authors = usersByID(c.forum.ListAllUsers(gctx))
			return nil
		})
	case ProfilePage:
		g.Go(func() error {
			snap.Profile, snap.ProfileFound = c.forum.GetUser(gctx, v.UserID)
			return nil
		})
		g.Go(func() error {
			snap.ProfileTopics = c.forum.ListTopicsByUser(gctx, v.UserID)
			return nil
		})
		g.Go(func() error {
			snap.ProfileReplies = c.forum.ListPostsByUser(gctx, v.UserID)
			return nil
		})
	case AdminPage:
		if user == nil || !user.IsAdmin {
			snap.Unauthorized = true
			break
		}
		g.Go(func() error {
			snap.AllUsers = c.forum.ListAllUsers(gctx)
			snap.Authors = usersByID(snap.AllUsers)
			return nil
		})
		g.Go(func() error {
			snap.AllTopics = c.forum.ListAllTopics(gctx)
			return nil
		})
		g.Go(func() error {
			snap.AllPosts = c.forum.ListAllPosts(gctx)
			return nil
		})
	}

	// Reads never fail, so there is no error to report.
	_ = g.Wait()
	snap.Interrupted = ctx.Err() != nil

	// A category deleted since it was opened falls back to home.
	if v, ok := c.view.(CategoryPage); ok && !snap.Interrupted {
		if _, found := findCategory(snap.Categories, v.Category.ID); !found {
			snap.View = Home{}
			snap.Topics = c.forum.ListTopics(ctx, nil)
		}
	}
	return snap
}

// Apply installs a snapshot. Snapshots are not ordered: applying an older
// one after a newer one replaces the newer data. When the snapshot was
// fetched for the current user, their record is refreshed from it, which
// logs them out if they no longer exist.
func (c *Controller) Apply(s Snapshot) {
	if c.user != nil && s.ForUserID == c.user.ID {
		c.user = s.User
	}
	if !s.Interrupted {
		c.refreshCategories(s.Categories)
	}
	c.snapshot = s
}

// refreshCategories replaces the category copies the controller holds with
// their current records, so renames show up. A category that no longer
// exists is forgotten and its page falls back to home.
func (c *Controller) refreshCategories(categories []data.Category) {
	if c.category != nil {
		if fresh, ok := findCategory(categories, c.category.ID); ok {
			c.category = &fresh
		} else {
			c.category = nil
		}
	}
	if page, ok := c.view.(CategoryPage); ok {
		if fresh, ok := findCategory(categories, page.Category.ID); ok {
			c.view = CategoryPage{Category: fresh}
		} else {
			c.ClickHome()
		}
	}
}

func findCategory(categories []data.Category, id int64) (data.Category, bool) {
	for _, category := range categories {
		if category.ID == id {
			return category, true
		}
	}
	return data.Category{}, false
}

func usersByID(users []data.User) map[string]data.User {
	m := make(map[string]data.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

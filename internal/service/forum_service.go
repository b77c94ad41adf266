package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-forum-app/internal/apperror"
	"go-forum-app/internal/config"
	"go-forum-app/internal/data"
	"go-forum-app/internal/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ForumService is the forum's data service. Reads never fail: a miss or a
// storage error yields an empty result, and storage errors are logged.
// Mutations report NotFound, Forbidden and Conflict through apperror.
//
// It does not check whether the caller is an admin; that is the job of the
// transport and the navigation controller.
type ForumService struct {
	store     *data.Store
	views     ViewCounter
	logger    logger.Logger
	latency   time.Duration
	rootAdmin string
	now       func() time.Time
}

// NewForumService creates a new ForumService.
func NewForumService(store *data.Store, views ViewCounter, log logger.Logger, cfg config.StoreConfig) *ForumService {
	return &ForumService{
		store:     store,
		views:     views,
		logger:    log,
		latency:   cfg.Latency,
		rootAdmin: cfg.RootAdmin,
		now:       time.Now,
	}
}

// wait simulates a network round trip. It returns ctx.Err() if the caller
// gives up first.
func (s *ForumService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ForumService) readFailed(err error, op string) {
	s.logger.With(map[string]interface{}{"op": op}).Error(err, "Read failed, returning empty result")
}

// ListCategories returns every category.
func (s *ForumService) ListCategories(ctx context.Context) []data.Category {
	if err := s.wait(ctx); err != nil {
		return []data.Category{}
	}
	categories, err := s.store.Categories.GetAll(ctx)
	if err != nil {
		s.readFailed(err, "ListCategories")
		return []data.Category{}
	}
	return categories
}

// ListTopics returns the topics of one category, or of all categories when
// categoryID is nil, most recently active first.
func (s *ForumService) ListTopics(ctx context.Context, categoryID *int64) []data.TopicListing {
	if err := s.wait(ctx); err != nil {
		return []data.TopicListing{}
	}
	var (
		topics []data.Topic
		err    error
	)
	if categoryID == nil {
		topics, err = s.store.Topics.GetAll(ctx)
	} else {
		topics, err = s.store.Topics.GetByCategoryID(ctx, *categoryID)
	}
	if err != nil {
		s.readFailed(err, "ListTopics")
		return []data.TopicListing{}
	}
	listings, err := s.enrich(ctx, topics)
	if err != nil {
		s.readFailed(err, "ListTopics")
		return []data.TopicListing{}
	}
	return listings
}

// GetTopic returns a single enriched topic.
func (s *ForumService) GetTopic(ctx context.Context, id int64) (data.TopicListing, bool) {
	if err := s.wait(ctx); err != nil {
		return data.TopicListing{}, false
	}
	topic, err := s.store.Topics.GetByID(ctx, id)
	if err != nil {
		s.readFailed(err, "GetTopic")
		return data.TopicListing{}, false
	}
	if topic == nil {
		return data.TopicListing{}, false
	}
	listings, err := s.enrich(ctx, []data.Topic{*topic})
	if err != nil || len(listings) == 0 {
		if err != nil {
			s.readFailed(err, "GetTopic")
		}
		return data.TopicListing{}, false
	}
	return listings[0], true
}

// ListPostsForTopic returns the posts of a topic, oldest first.
func (s *ForumService) ListPostsForTopic(ctx context.Context, topicID int64) []data.Post {
	if err := s.wait(ctx); err != nil {
		return []data.Post{}
	}
	posts, err := s.store.Posts.GetByTopicID(ctx, topicID)
	if err != nil {
		s.readFailed(err, "ListPostsForTopic")
		return []data.Post{}
	}
	return posts
}

// GetUser looks a user up by id.
func (s *ForumService) GetUser(ctx context.Context, id string) (data.User, bool) {
	if err := s.wait(ctx); err != nil {
		return data.User{}, false
	}
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		s.readFailed(err, "GetUser")
		return data.User{}, false
	}
	if user == nil {
		return data.User{}, false
	}
	return *user, true
}

// LookupUser is GetUser for callers that must tell a missing user apart
// from a read that did not complete. It returns (nil, nil) only when no user
// has the id.
func (s *ForumService) LookupUser(ctx context.Context, id string) (*data.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.store.Users.GetByID(ctx, id)
}

// ListTopicsByUser returns the topics a user started, most recently active
// first.
func (s *ForumService) ListTopicsByUser(ctx context.Context, userID string) []data.TopicListing {
	if err := s.wait(ctx); err != nil {
		return []data.TopicListing{}
	}
	topics, err := s.store.Topics.GetByAuthorID(ctx, userID)
	if err != nil {
		s.readFailed(err, "ListTopicsByUser")
		return []data.TopicListing{}
	}
	listings, err := s.enrich(ctx, topics)
	if err != nil {
		s.readFailed(err, "ListTopicsByUser")
		return []data.TopicListing{}
	}
	return listings
}

// ListPostsByUser returns the replies a user made in other people's topics,
// newest first.
func (s *ForumService) ListPostsByUser(ctx context.Context, userID string) []data.UserReply {
	if err := s.wait(ctx); err != nil {
		return []data.UserReply{}
	}
	replies, err := s.store.Posts.GetRepliesByAuthor(ctx, userID)
	if err != nil {
		s.readFailed(err, "ListPostsByUser")
		return []data.UserReply{}
	}
	return replies
}

// ListAllUsers returns every user.
func (s *ForumService) ListAllUsers(ctx context.Context) []data.User {
	if err := s.wait(ctx); err != nil {
		return []data.User{}
	}
	users, err := s.store.Users.GetAll(ctx)
	if err != nil {
		s.readFailed(err, "ListAllUsers")
		return []data.User{}
	}
	return users
}

// ListAllTopics returns every topic, most recently active first.
func (s *ForumService) ListAllTopics(ctx context.Context) []data.TopicListing {
	return s.ListTopics(ctx, nil)
}

// ListAllPosts returns every post, newest first.
func (s *ForumService) ListAllPosts(ctx context.Context) []data.Post {
	if err := s.wait(ctx); err != nil {
		return []data.Post{}
	}
	posts, err := s.store.Posts.GetAll(ctx)
	if err != nil {
		s.readFailed(err, "ListAllPosts")
		return []data.Post{}
	}
	return posts
}

// RecordTopicView counts a view of a topic by viewer. Counter failures are
// logged and otherwise ignored.
func (s *ForumService) RecordTopicView(ctx context.Context, topicID int64, viewer string) {
	if viewer == "" {
		return
	}
	if err := s.views.RecordView(ctx, topicID, viewer); err != nil {
		s.logger.With(map[string]interface{}{"topic_id": topicID}).Warn("Failed to record topic view: " + err.Error())
	}
}

// enrich joins topics with their author and category and derives the reply
// count, view count and last activity. The result is sorted by last activity,
// newest first.
func (s *ForumService) enrich(ctx context.Context, topics []data.Topic) ([]data.TopicListing, error) {
	listings := make([]data.TopicListing, 0, len(topics))
	if len(topics) == 0 {
		return listings, nil
	}

	users, err := s.store.Users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[string]data.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	categories, err := s.store.Categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	categoriesByID := make(map[int64]data.Category, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}

	ids := make([]int64, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}
	activity, err := s.store.Posts.GetActivity(ctx, ids)
	if err != nil {
		return nil, err
	}
	postCount := make(map[int64]int, len(topics))
	lastPost := make(map[int64]time.Time, len(topics))
	for _, a := range activity {
		postCount[a.TopicID]++
		if a.CreatedAt.After(lastPost[a.TopicID]) {
			lastPost[a.TopicID] = a.CreatedAt
		}
	}

	views, err := s.views.ViewCounts(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load view counts: " + err.Error())
		views = map[int64]int64{}
	}

	for _, t := range topics {
		l := data.TopicListing{
			Topic:        t,
			Author:       usersByID[t.AuthorID],
			Category:     categoriesByID[t.CategoryID],
			ReplyCount:   max(0, postCount[t.ID]-1),
			ViewCount:    views[t.ID],
			LastPostedAt: t.CreatedAt,
		}
		if last, ok := lastPost[t.ID]; ok {
			l.LastPostedAt = last
		}
		listings = append(listings, l)
	}

	sort.SliceStable(listings, func(i, j int) bool {
		if !listings[i].LastPostedAt.Equal(listings[j].LastPostedAt) {
			return listings[i].LastPostedAt.After(listings[j].LastPostedAt)
		}
		return listings[i].ID > listings[j].ID
	})
	return listings, nil
}

// Login finds the user whose username matches, ignoring case.
func (s *ForumService) Login(ctx context.Context, username string) (data.User, error) {
	if err := s.wait(ctx); err != nil {
		return data.User{}, err
	}
	user, err := s.store.Users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return data.User{}, err
	}
	if user == nil {
		return data.User{}, fmt.Errorf("%w: user %q", apperror.ErrNotFound, username)
	}
	return *user, nil
}

// CreatePost appends a reply to a topic. The new post becomes the topic's
// latest activity.
func (s *ForumService) CreatePost(ctx context.Context, topicID int64, content, authorID string) (data.Post, error) {
	if err := s.wait(ctx); err != nil {
		return data.Post{}, err
	}
	topic, err := s.store.Topics.GetByID(ctx, topicID)
	if err != nil {
		return data.Post{}, err
	}
	if topic == nil {
		return data.Post{}, fmt.Errorf("%w: topic %d", apperror.ErrNotFound, topicID)
	}
	if err := s.requireUser(ctx, authorID); err != nil {
		return data.Post{}, err
	}

	post := &data.Post{
		TopicID:   topicID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.Posts.Create(ctx, post); err != nil {
		return data.Post{}, err
	}
	s.logger.With(map[string]interface{}{"topic_id": topicID, "post_id": post.ID}).Info("Post created")
	return *post, nil
}

// CreateTopic starts a new topic together with its opening post.
func (s *ForumService) CreateTopic(ctx context.Context, title, content string, categoryID int64, authorID string) (data.Topic, error) {
	if err := s.wait(ctx); err != nil {
		return data.Topic{}, err
	}
	return s.createTopic(ctx, title, content, categoryID, authorID)
}

// AdminCreateTopic starts a topic on behalf of an explicitly chosen author.
func (s *ForumService) AdminCreateTopic(ctx context.Context, title, content string, categoryID int64, authorID string) (data.Topic, error) {
	if err := s.wait(ctx); err != nil {
		return data.Topic{}, err
	}
	return s.createTopic(ctx, title, content, categoryID, authorID)
}

func (s *ForumService) createTopic(ctx context.Context, title, content string, categoryID int64, authorID string) (data.Topic, error) {
	if err := s.requireUser(ctx, authorID); err != nil {
		return data.Topic{}, err
	}
	category, err := s.store.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return data.Topic{}, err
	}
	if category == nil {
		return data.Topic{}, fmt.Errorf("%w: category %d", apperror.ErrNotFound, categoryID)
	}

	now := s.now()
	topic := &data.Topic{Title: title, AuthorID: authorID, CategoryID: categoryID, CreatedAt: now}
	first := &data.Post{AuthorID: authorID, Content: content, CreatedAt: now}
	if err := s.store.Topics.CreateWithFirstPost(ctx, topic, first); err != nil {
		return data.Topic{}, err
	}
	s.logger.With(map[string]interface{}{"topic_id": topic.ID, "category_id": categoryID}).Info("Topic created")
	return *topic, nil
}

func (s *ForumService) requireUser(ctx context.Context, id string) error {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %q", apperror.ErrNotFound, id)
	}
	return nil
}

// CreateCategory adds a category. The slug is derived from the name.
func (s *ForumService) CreateCategory(ctx context.Context, name, description, color string) (data.Category, error) {
	if err := s.wait(ctx); err != nil {
		return data.Category{}, err
	}
	category := data.Category{
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
		Color:       normalizeColor(color),
	}
	id, err := s.store.Categories.Save(ctx, &category)
	if err != nil {
		return data.Category{}, err
	}
	category.ID = id
	return category, nil
}

// EditCategory replaces the name, description and color of a category.
func (s *ForumService) EditCategory(ctx context.Context, id int64, name, description, color string) (data.Category, error) {
	if err := s.wait(ctx); err != nil {
		return data.Category{}, err
	}
	existing, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return data.Category{}, err
	}
	if existing == nil {
		return data.Category{}, fmt.Errorf("%w: category %d", apperror.ErrNotFound, id)
	}
	existing.Name = name
	existing.Slug = Slugify(name)
	existing.Description = description
	existing.Color = normalizeColor(color)
	if err := s.store.Categories.Update(ctx, existing); err != nil {
		return data.Category{}, err
	}
	return *existing, nil
}

// DeleteCategory removes a category that no topic references.
func (s *ForumService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	existing, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: category %d", apperror.ErrNotFound, id)
	}
	n, err := s.store.Categories.CountTopics(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category %q still has %d topics", apperror.ErrConflict, existing.Name, n)
	}
	return s.store.Categories.Delete(ctx, id)
}

// DeleteTopic removes a topic and all of its posts.
func (s *ForumService) DeleteTopic(ctx context.Context, id int64) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	existing, err := s.store.Topics.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: topic %d", apperror.ErrNotFound, id)
	}
	if err := s.store.Topics.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.views.Forget(ctx, id); err != nil {
		s.logger.Warn("Failed to forget topic views: " + err.Error())
	}
	s.logger.With(map[string]interface{}{"topic_id": id}).Info("Topic deleted")
	return nil
}

// CreateUser registers a new member.
func (s *ForumService) CreateUser(ctx context.Context, username, name string) (data.User, error) {
	if err := s.wait(ctx); err != nil {
		return data.User{}, err
	}
	username = strings.TrimSpace(username)
	existing, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil {
		return data.User{}, err
	}
	if existing != nil {
		return data.User{}, fmt.Errorf("%w: username %q is taken", apperror.ErrConflict, username)
	}

	id := uuid.NewString()
	user := data.User{
		ID:        id,
		Username:  username,
		Name:      name,
		AvatarURL: "https://i.pravatar.cc/150?u=" + id,
		JoinedAt:  s.now(),
	}
	if err := s.store.Users.Create(ctx, &user); err != nil {
		return data.User{}, err
	}
	return user, nil
}

// DeleteUser removes a member. Admins cannot be deleted, and neither can
// users who still author topics or posts.
func (s *ForumService) DeleteUser(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %q", apperror.ErrNotFound, id)
	}
	if user.IsAdmin {
		return fmt.Errorf("%w: cannot delete admin %q", apperror.ErrForbidden, user.Username)
	}
	n, err := s.store.Users.CountContent(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: user %q still authors %d topics or posts", apperror.ErrConflict, user.Username, n)
	}
	return s.store.Users.Delete(ctx, id)
}

// ToggleAdminStatus flips a user's admin flag and returns the updated user.
// The root admin is protected.
func (s *ForumService) ToggleAdminStatus(ctx context.Context, id string) (data.User, error) {
	if err := s.wait(ctx); err != nil {
		return data.User{}, err
	}
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return data.User{}, err
	}
	if user == nil {
		return data.User{}, fmt.Errorf("%w: user %q", apperror.ErrNotFound, id)
	}
	if strings.EqualFold(user.Username, s.rootAdmin) {
		return data.User{}, fmt.Errorf("%w: the admin status of %q cannot be changed", apperror.ErrForbidden, user.Username)
	}
	user.IsAdmin = !user.IsAdmin
	if err := s.store.Users.SetAdmin(ctx, id, user.IsAdmin); err != nil {
		return data.User{}, err
	}
	return *user, nil
}

// slugSymbols spells out symbols that carry meaning in category names.
var slugSymbols = map[rune]string{'+': " plus ", '#': " sharp "}

// Slugify turns a category name into a URL-safe slug, transliterating
// non-Latin scripts.
func Slugify(name string) string {
	return slug.Make(slug.SubstituteRune(name, slugSymbols))
}

func normalizeColor(color string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
}

package navigation

import (
	"context"
	"fmt"

	"go-forum-app/internal/apperror"
	"go-forum-app/internal/data"
	"go-forum-app/internal/summary"
	"go-forum-app/internal/validation"

	"golang.org/x/sync/errgroup"
)

func (c *Controller) requireAdmin() error {
	if c.user == nil {
		return fmt.Errorf("%w: log in to use the admin console", apperror.ErrUnauthorized)
	}
	if !c.user.IsAdmin {
		return fmt.Errorf("%w: admin access required", apperror.ErrForbidden)
	}
	return nil
}

// CreateCategory adds a category and reloads.
func (c *Controller) CreateCategory(ctx context.Context, form CategoryForm) (data.Category, error) {
	form.trim()
	if err := c.requireAdmin(); err != nil {
		return data.Category{}, err
	}
	if err := validation.Struct(form); err != nil {
		return data.Category{}, err
	}
	category, err := c.forum.CreateCategory(ctx, form.Name, form.Description, form.Color)
	if err != nil {
		return data.Category{}, err
	}
	c.Reload(ctx)
	return category, nil
}

// EditCategory updates a category and reloads, which also refreshes a
// remembered copy of it so Back shows the new name.
func (c *Controller) EditCategory(ctx context.Context, id int64, form CategoryForm) (data.Category, error) {
	form.trim()
	if err := c.requireAdmin(); err != nil {
		return data.Category{}, err
	}
	if err := validation.Struct(form); err != nil {
		return data.Category{}, err
	}
	category, err := c.forum.EditCategory(ctx, id, form.Name, form.Description, form.Color)
	if err != nil {
		return data.Category{}, err
	}
	c.Reload(ctx)
	return category, nil
}

// DeleteCategory removes an unused category and reloads. The reload
// forgets it if it was remembered.
func (c *Controller) DeleteCategory(ctx context.Context, id int64) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.forum.DeleteCategory(ctx, id); err != nil {
		return err
	}
	c.Reload(ctx)
	return nil
}

// AdminCreateTopic starts a topic on behalf of any member and reloads.
func (c *Controller) AdminCreateTopic(ctx context.Context, form AdminTopicForm) (data.Topic, error) {
	form.trim()
	if err := c.requireAdmin(); err != nil {
		return data.Topic{}, err
	}
	if err := validation.Struct(form); err != nil {
		return data.Topic{}, err
	}
	topic, err := c.forum.AdminCreateTopic(ctx, form.Title, form.Content, form.CategoryID, form.AuthorID)
	if err != nil {
		return data.Topic{}, err
	}
	c.Reload(ctx)
	return topic, nil
}

// DeleteTopic removes a topic with its posts and reloads.
func (c *Controller) DeleteTopic(ctx context.Context, id int64) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.forum.DeleteTopic(ctx, id); err != nil {
		return err
	}
	c.Reload(ctx)
	return nil
}

// CreateUser adds a member and reloads.
func (c *Controller) CreateUser(ctx context.Context, form UserForm) (data.User, error) {
	form.trim()
	if err := c.requireAdmin(); err != nil {
		return data.User{}, err
	}
	if err := validation.Struct(form); err != nil {
		return data.User{}, err
	}
	user, err := c.forum.CreateUser(ctx, form.Username, form.Name)
	if err != nil {
		return data.User{}, err
	}
	c.Reload(ctx)
	return user, nil
}

// DeleteUser removes a non-admin member without content and reloads.
func (c *Controller) DeleteUser(ctx context.Context, id string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.forum.DeleteUser(ctx, id); err != nil {
		return err
	}
	c.Reload(ctx)
	return nil
}

// ToggleAdminStatus flips a member's admin flag and reloads. An admin who
// demotes themselves loses the console on the reload.
func (c *Controller) ToggleAdminStatus(ctx context.Context, id string) (data.User, error) {
	if err := c.requireAdmin(); err != nil {
		return data.User{}, err
	}
	user, err := c.forum.ToggleAdminStatus(ctx, id)
	if err != nil {
		return data.User{}, err
	}
	c.Reload(ctx)
	return user, nil
}

// GenerateSummary asks the summarizer for an overview of recent forum
// activity.
func (c *Controller) GenerateSummary(ctx context.Context) (string, error) {
	if err := c.requireAdmin(); err != nil {
		return "", err
	}
	if c.summarizer == nil {
		return "", summary.ErrNotConfigured
	}

	var (
		categories []data.Category
		topics     []data.TopicListing
		posts      []data.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		categories = c.forum.ListCategories(gctx)
		return nil
	})
	g.Go(func() error {
		topics = c.forum.ListAllTopics(gctx)
		return nil
	})
	g.Go(func() error {
		posts = c.forum.ListAllPosts(gctx)
		return nil
	})
	_ = g.Wait()

	return c.summarizer.Summarize(ctx, summary.NewActivity(categories, topics, posts))
}

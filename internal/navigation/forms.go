package navigation

import "strings"

// LoginForm is the username-only login form.
type LoginForm struct {
	Username string `validate:"notblank,max=32" label:"Username"`
}

// TopicForm starts a new topic as the current user.
type TopicForm struct {
	Title      string `validate:"notblank,max=200" label:"Title"`
	Content    string `validate:"notblank,max=10000" label:"Content"`
	CategoryID int64  `validate:"min=1" label:"Category"`
}

func (f *TopicForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
}

// ReplyForm adds a post to the open topic.
type ReplyForm struct {
	Content string `validate:"notblank,max=10000" label:"Content"`
}

// CategoryForm creates or edits a category.
type CategoryForm struct {
	Name        string `validate:"notblank,max=50" label:"Name"`
	Description string `validate:"max=500" label:"Description"`
	Color       string `validate:"color" label:"Color"`
}

func (f *CategoryForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Color = strings.TrimSpace(f.Color)
}

// AdminTopicForm creates a topic on behalf of any member.
type AdminTopicForm struct {
	Title      string `validate:"notblank,max=200" label:"Title"`
	Content    string `validate:"notblank,max=10000" label:"Content"`
	CategoryID int64  `validate:"min=1" label:"Category"`
	AuthorID   string `validate:"notblank" label:"Author"`
}

func (f *AdminTopicForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Content = strings.TrimSpace(f.Content)
	f.AuthorID = strings.TrimSpace(f.AuthorID)
}

// UserForm creates a member.
type UserForm struct {
	Username string `validate:"notblank,max=32" label:"Username"`
	Name     string `validate:"notblank,max=64" label:"Name"`
}

func (f *UserForm) trim() {
	f.Username = strings.TrimSpace(f.Username)
	f.Name = strings.TrimSpace(f.Name)
}

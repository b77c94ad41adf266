package navigation

import "go-forum-app/internal/data"

// View is the page the visitor is looking at. It is a closed set: Home,
// CategoryPage, TopicPage, ProfilePage, LoginPage and AdminPage.
type View interface {
	// Name identifies the variant, e.g. "home" or "topic".
	Name() string
	isView()
}

// Home lists every topic.
type Home struct{}

// CategoryPage lists the topics of one category.
type CategoryPage struct {
	Category data.Category
}

// TopicPage shows a single thread.
type TopicPage struct {
	TopicID int64
}

// ProfilePage shows a member's public page.
type ProfilePage struct {
	UserID string
}

// LoginPage is the username form.
type LoginPage struct{}

// AdminPage is the management console.
type AdminPage struct{}

func (Home) Name() string         { return "home" }
func (CategoryPage) Name() string { return "category" }
func (TopicPage) Name() string    { return "topic" }
func (ProfilePage) Name() string  { return "profile" }
func (LoginPage) Name() string    { return "login" }
func (AdminPage) Name() string    { return "admin" }

func (Home) isView()         {}
func (CategoryPage) isView() {}
func (TopicPage) isView()    {}
func (ProfilePage) isView()  {}
func (LoginPage) isView()    {}
func (AdminPage) isView()    {}

package navigation

import "go-forum-app/internal/data"

// State is the persistable part of a controller: everything except the
// fetched data, which is rebuilt by Reload. Categories are kept by id and
// resolved again on the next Reload.
type State struct {
	View       string     `json:"view"`
	TopicID    int64      `json:"topic_id,omitempty"`
	ProfileID  string     `json:"profile_id,omitempty"`
	CategoryID int64      `json:"category_id,omitempty"`
	User       *data.User `json:"user,omitempty"`
}

// State captures the controller for storage between requests.
func (c *Controller) State() State {
	st := State{View: c.view.Name(), User: c.user}
	if c.category != nil {
		st.CategoryID = c.category.ID
	}
	switch v := c.view.(type) {
	case TopicPage:
		st.TopicID = v.TopicID
	case ProfilePage:
		st.ProfileID = v.UserID
	case CategoryPage:
		// The page payload and the remembered category are the same while a
		// category is open.
		st.CategoryID = v.Category.ID
	}
	return st
}

// Restore rebuilds a controller from a stored State. States that name a page
// without its payload fall back to home.
func Restore(forum Forum, summarizer ActivitySummarizer, st State) *Controller {
	c := New(forum, summarizer)
	c.user = st.User
	if st.CategoryID > 0 {
		c.category = &data.Category{ID: st.CategoryID}
	}

	switch st.View {
	case "category":
		if c.category != nil {
			c.view = CategoryPage{Category: *c.category}
		}
	case "topic":
		if st.TopicID > 0 {
			c.view = TopicPage{TopicID: st.TopicID}
		}
	case "profile":
		if st.ProfileID != "" {
			c.view = ProfilePage{UserID: st.ProfileID}
		}
	case "login":
		c.view = LoginPage{}
	case "admin":
		c.view = AdminPage{}
	}
	return c
}

package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go-forum-app/internal/render"

	"github.com/dustin/go-humanize"
)

// View represents a collection of parsed HTML templates.
type View struct {
	templates map[string]*template.Template
	now       func() time.Time
}

// New creates a new View by parsing all templates from the given filesystem.
// Post content is rendered with md.
func New(templateFS fs.FS, md *render.Renderer) (*View, error) {
	v := &View{
		templates: make(map[string]*template.Template),
		now:       time.Now,
	}

	// First, get all the layout files
	layouts, err := fs.Glob(templateFS, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}

	// Then, get all the page files
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"markdown": md.Render,
		"ago":      func(t time.Time) string { return Ago(v.now(), t) },
		"date":     func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"color":    Color,
		"initial":  initial,
	}

	// For each page, parse it with the layout files
	for _, page := range pages {
		files := append(append([]string{}, layouts...), page)
		name := filepath.Base(page)
		ts, err := template.New(name).Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v.templates[name] = ts
	}

	return v, nil
}

// Render executes a specific template by name.
func (v *View) Render(w io.Writer, r *http.Request, name string, data map[string]interface{}) error {
	ts, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["IsBasicMode"] = IsBasicMode(r.Context())

	// Execute the template into a buffer first to catch any errors
	// before writing to the response writer.
	buf := new(bytes.Buffer)
	if err := ts.Execute(buf, data); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}

// Ago formats the time elapsed from t to now, e.g. "5 minutes ago".
func Ago(now, t time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Color turns a stored category color into a CSS value.
func Color(hex string) template.CSS {
	hex = strings.TrimPrefix(hex, "#")
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "#888888"
		}
	}
	if len(hex) != 6 {
		return "#888888"
	}
	return template.CSS("#" + hex)
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

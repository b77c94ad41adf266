// Package render turns post bodies into safe HTML.
//
// Post bodies use a line-oriented dialect: a line wrapped in backticks is a
// code line, blank lines are dropped and every other line is a paragraph
// whose inline markup (emphasis, code spans, links) is rendered as markdown.
package render

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Renderer converts post content to sanitized HTML.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// New creates a Renderer. The sanitizer uses the UGC policy, which keeps
// basic formatting and links and strips anything executable.
func New() *Renderer {
	return &Renderer{
		md:        goldmark.New(),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Render converts content to HTML.
func (r *Renderer) Render(content string) template.HTML {
	var out bytes.Buffer
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case isCodeLine(line):
			out.WriteString("<pre><code>")
			out.WriteString(html.EscapeString(codeText(line)))
			out.WriteString("</code></pre>\n")
		case strings.TrimSpace(line) == "":
			continue
		default:
			out.WriteString(r.paragraph(line))
		}
	}
	return template.HTML(r.sanitizer.Sanitize(out.String()))
}

func (r *Renderer) paragraph(line string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(strings.TrimSpace(line)), &buf); err != nil {
		return "<p>" + html.EscapeString(line) + "</p>\n"
	}
	rendered := strings.TrimSpace(buf.String())
	// Lines that goldmark reads as block syntax (headings, lists) stay plain
	// paragraphs so the dialect has a single block type.
	if !strings.HasPrefix(rendered, "<p>") {
		return "<p>" + html.EscapeString(line) + "</p>\n"
	}
	return rendered + "\n"
}

func isCodeLine(line string) bool {
	return strings.HasPrefix(line, "`") && strings.HasSuffix(line, "`")
}

// codeText strips the wrapping backticks. A lone backtick is an empty block.
func codeText(line string) string {
	if len(line) < 2 {
		return ""
	}
	return line[1 : len(line)-1]
}

// Snippet returns the first n runes of content followed by "...".
func Snippet(content string, n int) string {
	runes := []rune(content)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}

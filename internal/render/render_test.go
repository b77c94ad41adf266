package render

import (
	"strings"
	"testing"
)

func TestRenderer_Render(t *testing.T) {
	r := New()

	tests := []struct {
		name    string
		content string
		want    []string
		notWant []string
	}{
		{
			name:    "paragraph per line, blanks dropped",
			content: "first line\n\nsecond line",
			want:    []string{"<p>first line</p>", "<p>second line</p>"},
		},
		{
			name:    "backtick line becomes code block",
			content: "look:\n`useEffect(() => {}, [])`",
			want:    []string{"<pre><code>useEffect(() =&gt; {}, [])</code></pre>"},
		},
		{
			name:    "lone backtick is an empty code block",
			content: "before\n`\nafter",
			want:    []string{"<pre><code></code></pre>", "<p>before</p>", "<p>after</p>"},
		},
		{
			name:    "empty code span line",
			content: "``",
			want:    []string{"<pre><code></code></pre>"},
		},
		{
			name:    "inline code span",
			content: "I like `Pick` and `Omit`.",
			want:    []string{"<code>Pick</code>", "<code>Omit</code>"},
		},
		{
			name:    "emphasis",
			content: "this is **bold**",
			want:    []string{"<strong>bold</strong>"},
		},
		{
			name:    "script stripped",
			content: "hi <script>alert(1)</script>",
			notWant: []string{"<script>"},
		},
		{
			name:    "heading syntax stays a paragraph",
			content: "# not a heading",
			want:    []string{"<p># not a heading</p>"},
			notWant: []string{"<h1>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(r.Render(tt.content))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("expected %q in %q", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("did not expect %q in %q", nw, got)
				}
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("short", 50); got != "short..." {
		t.Errorf("expected the ellipsis on short content, got %q", got)
	}
	if got := Snippet("héllo wörld", 5); got != "héllo..." {
		t.Errorf("expected a cut on rune boundaries, got %q", got)
	}
	long := strings.Repeat("a", 60)
	if got := Snippet(long, 50); got != strings.Repeat("a", 50)+"..." {
		t.Errorf("unexpected snippet %q", got)
	}
}

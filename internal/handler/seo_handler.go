package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
)

// SeoHandler serves robots.txt and a sitemap of every topic.
type SeoHandler struct {
	forum   Forum
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin,
// e.g. "https://forum.example.com".
func NewSeoHandler(forum Forum, baseURL string) *SeoHandler {
	return &SeoHandler{forum: forum, baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists every topic with its last activity.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	topics := h.forum.ListAllTopics(r.Context())

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(topics)),
	}
	for i, topic := range topics {
		sitemap.URLs[i] = sitemapURL{
			Loc:     fmt.Sprintf("%s/topics/%d", h.baseURL, topic.ID),
			LastMod: topic.LastPostedAt.Format(sitemapDateFormat),
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}

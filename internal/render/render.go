// Package render turns negotiated decisions into HTML. The preview page
// exists for crawlers: its Open Graph block is the product, the visible body
// is an afterthought.
package render

import (
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/dmarrero/linkveil/internal/meta"
	"github.com/dmarrero/linkveil/internal/upstream"
)

// FBAppID is embedded in the fb:app_id meta tag on every cloaked page.
const FBAppID = "87741124305"

const maxDescriptionLen = 160

// PreviewData feeds the crawler preview template.
type PreviewData struct {
	Meta     meta.Payload
	ImageAlt string
}

// PostData feeds the cloaked article template. Content is the upstream post
// body, trusted as-is the way the original rendered it.
type PostData struct {
	Post        upstream.Post
	Content     template.HTML
	Description string
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	ImageAlt    string
	AbsoluteURL string
	SiteName    string
}

// Renderer holds the parsed page templates.
type Renderer struct {
	preview  *template.Template
	post     *template.Template
	notFound *template.Template
}

// New parses the built-in templates.
func New() *Renderer {
	return &Renderer{
		preview:  template.Must(template.New("preview").Parse(previewHTML)),
		post:     template.Must(template.New("post").Parse(postHTML)),
		notFound: template.Must(template.New("notfound").Parse(notFoundHTML)),
	}
}

// Preview writes the synthesized crawler page.
func (r *Renderer) Preview(w io.Writer, data PreviewData) error {
	return r.preview.Execute(w, data)
}

// Post writes the cloaked article page.
func (r *Renderer) Post(w io.Writer, data PostData) error {
	return r.post.Execute(w, data)
}

// NotFound writes the miss page.
func (r *Renderer) NotFound(w io.Writer) error {
	return r.notFound.Execute(w, nil)
}

var (
	tagPattern       = regexp.MustCompile(`(<([^>]+)>)`)
	shortcodePattern = regexp.MustCompile(`\[[^\]]*\]`)
)

// CleanExcerpt strips markup and shortcodes from an upstream excerpt and
// truncates it to description length.
func CleanExcerpt(excerpt string) string {
	out := tagPattern.ReplaceAllString(excerpt, "")
	out = shortcodePattern.ReplaceAllString(out, "")
	out = strings.TrimSpace(out)
	if len(out) > maxDescriptionLen {
		return out[:maxDescriptionLen] + "..."
	}
	return out
}

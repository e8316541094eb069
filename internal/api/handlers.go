package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dmarrero/linkveil/internal/classify"
	"github.com/dmarrero/linkveil/internal/link"
	"github.com/dmarrero/linkveil/internal/negotiate"
	"github.com/dmarrero/linkveil/internal/render"
	"github.com/dmarrero/linkveil/internal/telemetry"
	"github.com/dmarrero/linkveil/internal/upstream"
)

type shortenRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type shortenResponse struct {
	Code        string `json:"code"`
	ShortURL    string `json:"shortUrl"`
	OriginalURL string `json:"originalUrl"`
	Title       string `json:"title"`
	CreatedAt   string `json:"createdAt"`
}

func (s *Server) createLink(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	rec, err := s.store.Create(r.Context(), req.URL, req.Title)
	if err != nil {
		var vErr *link.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create link")
		return
	}
	telemetry.ObserveLinkCreated()

	writeJSON(w, http.StatusOK, shortenResponse{
		Code:        rec.Code,
		ShortURL:    s.baseURL(r) + "/" + rec.Code,
		OriginalURL: rec.OriginalURL,
		Title:       rec.Title,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s *Server) listLinks(w http.ResponseWriter, r *http.Request) {
	records := s.store.List(r.Context())
	data := make(map[string]link.Record, len(records))
	for _, rec := range records {
		data[rec.Code] = rec
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

func (s *Server) getLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	rec, err := s.store.Get(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusNotFound, "URL not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) resolveCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	sig := requestSignals(r)

	// Image proxy URLs embed the serving host, which may be request-derived.
	synth := s.synth.WithResolver(s.resolver.ForBase(s.baseURL(r)))
	decision := s.negotiator.WithSynthesizer(synth).Resolve(r.Context(), code, sig)
	telemetry.ObserveResolution(decision.Action.String())

	switch decision.Action {
	case negotiate.ActionPreview:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := render.PreviewData{Meta: decision.Meta, ImageAlt: decision.Record.Title}
		if err := s.renderer.Preview(w, data); err != nil {
			s.logger.Error("render preview failed", zap.Error(err))
		}
	case negotiate.ActionRedirectCanonical, negotiate.ActionRedirectMedia:
		http.Redirect(w, r, decision.Location, http.StatusFound)
	default:
		s.renderNotFound(w)
	}
}

// imageProxy unwraps a deferred image redirect. Only CDN-family targets are
// honored; anything else is a miss.
func (s *Server) imageProxy(w http.ResponseWriter, r *http.Request) {
	encoded := chi.URLParam(r, "*")
	target, err := url.QueryUnescape(encoded)
	if err != nil {
		target = encoded
	}
	if !link.MatchesAllowList(target) {
		s.renderNotFound(w)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// servePost handles cloaked article paths that match no other route.
func (s *Server) servePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		s.renderNotFound(w)
		return
	}

	sig := requestSignals(r)
	switch classify.Classify(sig) {
	case classify.FacebookReferral:
		target := strings.TrimSuffix(s.cfg.Upstream.SiteBase, "/") + escapePath(path)
		http.Redirect(w, r, target, http.StatusFound)
		return
	default:
		// Crawlers and direct visitors both get the rendered article; the
		// crawler needs the meta block and a direct visitor the content.
	}

	post, err := s.posts.PostByPath(r.Context(), path)
	if err != nil {
		telemetry.ObserveUpstream("miss")
		s.renderNotFound(w)
		return
	}
	telemetry.ObserveUpstream("hit")

	s.renderPost(w, r, path, post)
}

func (s *Server) renderPost(w http.ResponseWriter, r *http.Request, path string, post upstream.Post) {
	resolver := s.resolver.ForBase(s.baseURL(r))

	imageURL := ""
	width, height := 1200, 630
	alt := post.Title
	if post.Image.SourceURL != "" {
		imageURL = resolver.Resolve(post.Image.SourceURL, "")
		if post.Image.Width > 0 && post.Image.Height > 0 {
			width, height = post.Image.Width, post.Image.Height
		}
		if post.Image.AltText != "" {
			alt = post.Image.AltText
		}
	}

	data := render.PostData{
		Post:        post,
		Content:     template.HTML(post.Content),
		Description: render.CleanExcerpt(post.Excerpt),
		ImageURL:    imageURL,
		ImageWidth:  width,
		ImageHeight: height,
		ImageAlt:    alt,
		AbsoluteURL: s.baseURL(r) + "/" + path,
		SiteName:    siteName(r.Host),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Post(w, data); err != nil {
		s.logger.Error("render post failed", zap.Error(err))
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := s.renderer.NotFound(w); err != nil {
		s.logger.Error("render not-found failed", zap.Error(err))
	}
}

// requestSignals extracts the classification inputs; absent headers and
// parameters become empty strings.
func requestSignals(r *http.Request) classify.Signals {
	return classify.Signals{
		UserAgent:     r.UserAgent(),
		Referer:       r.Referer(),
		TrackingParam: r.URL.Query().Get("fbclid"),
	}
}

func escapePath(path string) string {
	u := url.URL{Path: "/" + path}
	return u.EscapedPath()
}

func siteName(host string) string {
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}

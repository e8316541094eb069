package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmarrero/linkveil/internal/config"
	"github.com/dmarrero/linkveil/internal/imageurl"
	"github.com/dmarrero/linkveil/internal/link"
	"github.com/dmarrero/linkveil/internal/meta"
	"github.com/dmarrero/linkveil/internal/negotiate"
	memoryStorage "github.com/dmarrero/linkveil/internal/storage/memory"
	"github.com/dmarrero/linkveil/internal/upstream"
)

type fakePosts struct {
	post upstream.Post
	err  error
}

func (f *fakePosts) PostByPath(_ context.Context, _ string) (upstream.Post, error) {
	return f.post, f.err
}

func newTestServer(t *testing.T, posts PostFetcher) (*Server, link.Store) {
	t.Helper()
	return newTestServerWithLogger(t, posts, zap.NewNop())
}

func newTestServerWithLogger(t *testing.T, posts PostFetcher, logger *zap.Logger) (*Server, link.Store) {
	t.Helper()
	gen := link.NewGenerator(rand.New(rand.NewSource(1)), nil)
	store := memoryStorage.NewLinkStore(gen, nil)

	cfg := config.Config{
		Server: config.ServerConfig{Port: 8080, BaseURL: "https://short.example"},
		Upstream: config.UpstreamConfig{
			GraphQLEndpoint: "https://content.example/graphql",
			SiteBase:        "https://content.example",
			TimeoutSeconds:  5,
		},
		Image:   config.ImageConfig{Mode: string(imageurl.ModeDirect)},
		Logging: config.LoggingConfig{Development: true},
	}
	resolver := imageurl.Resolver{Mode: imageurl.Mode(cfg.Image.Mode), ProxyBase: cfg.Server.BaseURL}
	synth := meta.NewSynthesizer(rand.New(rand.NewSource(2)), resolver)
	negotiator := negotiate.New(store, synth, cfg.Upstream.SiteBase)
	if posts == nil {
		posts = &fakePosts{err: upstream.ErrNotFound}
	}
	return NewServer(store, negotiator, synth, resolver, posts, logger, cfg), store
}

func createDemoLink(t *testing.T, server *Server) shortenResponse {
	t.Helper()
	body := []byte(`{"url":"https://scontent.cdninstagram.com/a.jpg","title":"Demo"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp shortenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateLink_Succeeds(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	resp := createDemoLink(t, server)

	require.NotEmpty(t, resp.Code)
	require.Equal(t, "https://short.example/"+resp.Code, resp.ShortURL)
	require.Equal(t, "https://scontent.cdninstagram.com/a.jpg", resp.OriginalURL)
	require.Equal(t, "Demo", resp.Title)
	require.NotEmpty(t, resp.CreatedAt)
}

func TestCreateLink_MissingURL(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewBufferString(`{"title":"x"}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "URL is required")
}

func TestCreateLink_DisallowedHost(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewBufferString(`{"url":"https://example.com/image.png"}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Instagram CDN")
}

func TestShorten_WrongVerb(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodDelete, "/api/shorten", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListLinks(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	created := createDemoLink(t, server)

	req := httptest.NewRequest(http.MethodGet, "/api/shorten", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), created.Code)
	require.Contains(t, rec.Body.String(), `"success":true`)
}

func TestGetLink(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	created := createDemoLink(t, server)

	req := httptest.NewRequest(http.MethodGet, "/api/url/"+created.Code, nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), created.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/url/missing", nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "URL not found")
}

func TestResolve_CrawlerGetsPreviewPage(t *testing.T) {
	t.Parallel()

	server, store := newTestServer(t, nil)
	created := createDemoLink(t, server)

	req := httptest.NewRequest(http.MethodGet, "/"+created.Code, nil)
	req.Header.Set("User-Agent", "facebookexternalhit/1.1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Demo")
	require.Contains(t, rec.Body.String(), "cdninstagram.com")
	require.Contains(t, rec.Body.String(), "og:title")

	got, err := store.Get(context.Background(), created.Code)
	require.NoError(t, err)
	require.Zero(t, got.Views)
}

func TestResolve_RegularUserRedirectsAndCountsView(t *testing.T) {
	t.Parallel()

	server, store := newTestServer(t, nil)
	created := createDemoLink(t, server)

	req := httptest.NewRequest(http.MethodGet, "/"+created.Code, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0)")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://scontent.cdninstagram.com/a.jpg", rec.Header().Get("Location"))

	got, err := store.Get(context.Background(), created.Code)
	require.NoError(t, err)
	require.Equal(t, uint64(1), got.Views)
}

func TestResolve_FacebookReferralRedirectsCanonical(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	created := createDemoLink(t, server)

	req := httptest.NewRequest(http.MethodGet, "/"+created.Code, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://www.facebook.com/")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://content.example/"+created.Code, rec.Header().Get("Location"))
}

func TestResolve_UnknownCode(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/zzzzzz", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "URL not found")
}

func TestImageProxy_RedirectsCDNTargets(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	target := "https://scontent.cdninstagram.com/a.jpg?x=1"
	req := httptest.NewRequest(http.MethodGet, "/img-proxy/"+url.QueryEscape(target), nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, target, rec.Header().Get("Location"))
}

func TestImageProxy_RejectsForeignTargets(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/img-proxy/"+url.QueryEscape("https://example.com/a.jpg"), nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServePost_RendersUpstreamPost(t *testing.T) {
	t.Parallel()

	posts := &fakePosts{post: upstream.Post{
		Title:      "Sample Post",
		Excerpt:    "<p>An excerpt</p>",
		Content:    "<p>Body</p>",
		AuthorName: "Ana",
		Image: upstream.PostImage{
			SourceURL: "https://scontent.cdninstagram.com/img.jpg",
			Width:     800,
			Height:    450,
		},
	}}
	server, _ := newTestServer(t, posts)

	req := httptest.NewRequest(http.MethodGet, "/2024/sample-post", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sample Post")
	require.Contains(t, rec.Body.String(), "An excerpt")
	require.Contains(t, rec.Body.String(), "cdninstagram.com")
}

func TestServePost_FacebookReferralRedirects(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/2024/sample-post?fbclid=IwAR1", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://content.example/2024/sample-post", rec.Header().Get("Location"))
}

func TestServePost_UpstreamMissIs404(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, &fakePosts{err: upstream.ErrNotFound})
	req := httptest.NewRequest(http.MethodGet, "/2024/gone", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

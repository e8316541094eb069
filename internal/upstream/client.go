// Package upstream queries the content site's GraphQL API for post data used
// on cloaked article pages.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound covers every upstream miss. Transport and parse failures
// collapse into it: exposing upstream errors to a crawler is worse than a
// generic miss.
var ErrNotFound = errors.New("post not found")

// Post is the subset of the upstream post structure the renderer consumes.
type Post struct {
	ID          string
	Title       string
	Excerpt     string
	Content     string
	Link        string
	DateGmt     string
	ModifiedGmt string
	AuthorName  string
	Image       PostImage
}

// PostImage describes the post's featured image.
type PostImage struct {
	SourceURL string
	AltText   string
	Width     int
	Height    int
}

// Client issues post queries against a WordPress GraphQL endpoint. It owns no
// retry logic; a failed call is a miss.
type Client struct {
	endpoint string
	httpc    *http.Client
	logger   *zap.Logger
}

// New constructs a Client with the given request timeout.
func New(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

const postQuery = `{
  post(id: "/%s/", idType: URI) {
    id
    excerpt
    title
    link
    dateGmt
    modifiedGmt
    content
    author { node { name } }
    featuredImage {
      node {
        sourceUrl
        altText
        mediaDetails { width height }
      }
    }
  }
}`

// PostByPath fetches the post published under path. Every failure mode maps
// to ErrNotFound.
func (c *Client) PostByPath(ctx context.Context, path string) (Post, error) {
	body, err := json.Marshal(map[string]string{
		"query": fmt.Sprintf(postQuery, path),
	})
	if err != nil {
		return Post{}, ErrNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Post{}, ErrNotFound
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.Error(err))
		return Post{}, ErrNotFound
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("upstream returned non-200", zap.Int("status", resp.StatusCode))
		return Post{}, ErrNotFound
	}

	var payload graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("upstream response unparseable", zap.Error(err))
		return Post{}, ErrNotFound
	}
	if payload.Data.Post == nil {
		return Post{}, ErrNotFound
	}

	p := payload.Data.Post
	post := Post{
		ID:          p.ID,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Link:        p.Link,
		DateGmt:     p.DateGmt,
		ModifiedGmt: p.ModifiedGmt,
		AuthorName:  p.Author.Node.Name,
	}
	if p.FeaturedImage != nil {
		post.Image = PostImage{
			SourceURL: p.FeaturedImage.Node.SourceURL,
			AltText:   p.FeaturedImage.Node.AltText,
			Width:     p.FeaturedImage.Node.MediaDetails.Width,
			Height:    p.FeaturedImage.Node.MediaDetails.Height,
		}
	}
	return post, nil
}

type graphqlResponse struct {
	Data struct {
		Post *graphqlPost `json:"post"`
	} `json:"data"`
}

type graphqlPost struct {
	ID          string `json:"id"`
	Excerpt     string `json:"excerpt"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	DateGmt     string `json:"dateGmt"`
	ModifiedGmt string `json:"modifiedGmt"`
	Content     string `json:"content"`
	Author      struct {
		Node struct {
			Name string `json:"name"`
		} `json:"node"`
	} `json:"author"`
	FeaturedImage *struct {
		Node struct {
			SourceURL    string `json:"sourceUrl"`
			AltText      string `json:"altText"`
			MediaDetails struct {
				Width  int `json:"width"`
				Height int `json:"height"`
			} `json:"mediaDetails"`
		} `json:"node"`
	} `json:"featuredImage"`
}

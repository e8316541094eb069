// Package link defines the short-link domain types shared across the service.
package link

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTitle is used when a creation request omits the title.
const DefaultTitle = "Instagram Image"

// allowedHostFragments is the allow-list for creatable media URLs. A URL is
// accepted when it contains any of these fragments: the Instagram CDN domain,
// the Facebook CDN family domain, or the scontent host prefix.
var allowedHostFragments = []string{
	"cdninstagram.com",
	"fbcdn.net",
	"scontent",
}

// Record is a single short link. Code is immutable once assigned and Views
// only ever grows.
type Record struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"createdAt"`
	Views       uint64    `json:"views"`
}

// ErrNotFound is returned when a code has no record in the store.
var ErrNotFound = errors.New("link not found")

// ValidationError reports a user-correctable problem with a creation request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MatchesAllowList reports whether rawURL belongs to the protected media CDN
// family.
func MatchesAllowList(rawURL string) bool {
	for _, fragment := range allowedHostFragments {
		if strings.Contains(rawURL, fragment) {
			return true
		}
	}
	return false
}

// ValidateOriginalURL enforces the media allow-list. It runs once at creation;
// stored records are never re-validated.
func ValidateOriginalURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Reason: "URL is required"}
	}
	if !MatchesAllowList(rawURL) {
		return &ValidationError{Field: "url", Reason: "only Instagram CDN URLs are supported"}
	}
	return nil
}

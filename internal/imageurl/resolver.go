// Package imageurl normalizes raw media URLs into the absolute,
// crawler-consumable form embedded in preview metadata.
package imageurl

import (
	"net/url"
	"strings"

	"github.com/dmarrero/linkveil/internal/link"
)

// Mode selects which canonical image URL form a deployment emits. The modes
// are mutually exclusive: mixing forms for the same resource invalidates
// crawler caches.
type Mode string

const (
	// ModeDirect returns the normalized CDN URL unchanged.
	ModeDirect Mode = "direct"
	// ModeProxy wraps the URL as a path segment of the local /img-proxy
	// endpoint so the redirect to the CDN happens on a later fetch.
	ModeProxy Mode = "proxy"
	// ModeTranslate wraps the URL in a third-party domain-translation host.
	ModeTranslate Mode = "translate"
)

// ProxyPathPrefix is the local endpoint that unwraps proxied image URLs.
const ProxyPathPrefix = "/img-proxy/"

// translateSuffix carries the fixed translation-session parameters the
// wrapper host expects. Appended with '&' because wrapped CDN URLs always
// carry a query string already.
const translateSuffix = "&_x_tr_sl=auto&_x_tr_tl=en&_x_tr_hl=es-419&_x_tr_pto=wapp"

// Resolver builds absolute image URLs according to the deployment's mode.
type Resolver struct {
	Mode          Mode
	ProxyBase     string // scheme+host serving /img-proxy, e.g. "https://short.example"
	TranslateHost string
}

// ForBase returns a copy of the resolver with the proxy base replaced. Used
// when the serving host is derived per request instead of configured.
func (r Resolver) ForBase(base string) Resolver {
	r.ProxyBase = strings.TrimSuffix(base, "/")
	return r
}

// Resolve normalizes rawURL to an absolute URL, appends the tracking
// parameter for CDN-family hosts, and applies the configured wrapping.
func (r Resolver) Resolve(rawURL, trackingParam string) string {
	if rawURL == "" {
		return ""
	}
	abs := absolutize(rawURL)
	if link.MatchesAllowList(abs) && trackingParam != "" && !strings.Contains(abs, "fbclid=") {
		abs = appendParam(abs, "fbclid", trackingParam)
	}
	if !link.MatchesAllowList(abs) {
		return abs
	}
	switch r.Mode {
	case ModeProxy:
		return r.ProxyBase + ProxyPathPrefix + url.QueryEscape(abs)
	case ModeTranslate:
		return "https://" + r.TranslateHost + "/" + stripSchemeHost(abs) + translateSuffix
	default:
		return abs
	}
}

// absolutize leaves URLs with a scheme alone and prefixes https: onto
// scheme-relative values.
func absolutize(rawURL string) string {
	if strings.HasPrefix(rawURL, "http") {
		return rawURL
	}
	return "https:" + rawURL
}

func appendParam(rawURL, key, value string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + key + "=" + url.QueryEscape(value)
}

// stripSchemeHost drops the scheme and host, leaving path plus query.
func stripSchemeHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	out := strings.TrimPrefix(u.Path, "/")
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}

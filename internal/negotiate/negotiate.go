// Package negotiate combines visitor classification with the link store to
// pick the response for a short-link visit.
package negotiate

import (
	"context"
	"strings"

	"github.com/dmarrero/linkveil/internal/classify"
	"github.com/dmarrero/linkveil/internal/link"
	"github.com/dmarrero/linkveil/internal/meta"
)

// Action is the outcome kind of a resolution.
type Action int

const (
	// ActionNotFound signals an unknown code.
	ActionNotFound Action = iota
	// ActionPreview renders the synthesized metadata page for a crawler.
	ActionPreview
	// ActionRedirectCanonical sends a facebook click-through to the upstream
	// content site.
	ActionRedirectCanonical
	// ActionRedirectMedia sends a direct visitor to the original media URL.
	ActionRedirectMedia
)

func (a Action) String() string {
	switch a {
	case ActionPreview:
		return "preview"
	case ActionRedirectCanonical:
		return "redirect_canonical"
	case ActionRedirectMedia:
		return "redirect_media"
	default:
		return "not_found"
	}
}

// Decision is the negotiated response for one request.
type Decision struct {
	Action   Action
	Location string // redirect target for the redirect actions
	Meta     meta.Payload
	Record   link.Record
}

// Negotiator applies the per-request decision table. It is stateless between
// requests; the only side effect is the view counter on the media-redirect
// path.
type Negotiator struct {
	store    link.Store
	synth    *meta.Synthesizer
	siteBase string
}

// New constructs a Negotiator. siteBase is the upstream content site used for
// canonical redirects.
func New(store link.Store, synth *meta.Synthesizer, siteBase string) *Negotiator {
	return &Negotiator{
		store:    store,
		synth:    synth,
		siteBase: strings.TrimSuffix(siteBase, "/"),
	}
}

// WithSynthesizer returns a copy using the given synthesizer, for
// request-derived image proxy bases.
func (n *Negotiator) WithSynthesizer(synth *meta.Synthesizer) *Negotiator {
	cp := *n
	cp.synth = synth
	return &cp
}

// Resolve looks up code and picks an outcome:
//
//	crawler           -> preview (views untouched: the fetch is not a human view)
//	facebook referral -> 302 to the upstream site, path-qualified
//	regular user      -> 302 to the original media, views incremented
//
// Any classification of an unknown code is not-found. The crawler branch is
// checked first inside Classify; see that package for why it must win.
func (n *Negotiator) Resolve(ctx context.Context, code string, sig classify.Signals) Decision {
	rec, err := n.store.Get(ctx, code)
	if err != nil {
		return Decision{Action: ActionNotFound}
	}

	switch classify.Classify(sig) {
	case classify.Crawler:
		return Decision{
			Action: ActionPreview,
			Meta:   n.synth.Synthesize(rec, sig.TrackingParam),
			Record: rec,
		}
	case classify.FacebookReferral:
		return Decision{
			Action:   ActionRedirectCanonical,
			Location: n.siteBase + "/" + code,
			Record:   rec,
		}
	default:
		n.store.RecordView(ctx, code)
		return Decision{
			Action:   ActionRedirectMedia,
			Location: rec.OriginalURL,
			Record:   rec,
		}
	}
}

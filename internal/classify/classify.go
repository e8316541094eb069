// Package classify categorizes inbound requests as preview crawlers, facebook
// referrals, or regular users.
package classify

import "strings"

// Category is the visitor class a request resolves to.
type Category int

const (
	// RegularUser is a direct visit with no crawler or referral signal.
	RegularUser Category = iota
	// Crawler is an automated preview fetcher.
	Crawler
	// FacebookReferral is a human click-through from facebook or a request
	// carrying a click identifier.
	FacebookReferral
)

func (c Category) String() string {
	switch c {
	case Crawler:
		return "crawler"
	case FacebookReferral:
		return "facebook_referral"
	default:
		return "regular_user"
	}
}

// crawlerSignatures are matched case-sensitively against the User-Agent.
var crawlerSignatures = []string{
	"facebookexternalhit",
	"Facebot",
	"WhatsApp",
	"Twitterbot",
	"LinkedInBot",
	"TelegramBot",
	"bot",
	"crawler",
	"spider",
}

// Signals are the request inputs classification depends on. Absent headers
// and parameters are empty strings.
type Signals struct {
	UserAgent     string
	Referer       string
	TrackingParam string
}

// Classify maps request signals to exactly one category. The crawler check
// runs first and wins even when the referral signals also match: a preview
// fetcher that gets redirected never reads the synthesized metadata.
func Classify(sig Signals) Category {
	for _, signature := range crawlerSignatures {
		if strings.Contains(sig.UserAgent, signature) {
			return Crawler
		}
	}
	if strings.Contains(sig.Referer, "facebook.com") || sig.TrackingParam != "" {
		return FacebookReferral
	}
	return RegularUser
}

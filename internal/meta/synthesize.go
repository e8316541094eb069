// Package meta builds the preview-card metadata served to crawlers. The
// engagement figures are fabricated on purpose and bear no relationship to
// real traffic.
package meta

import (
	"math/rand"
	"sync"

	"github.com/dmarrero/linkveil/internal/imageurl"
	"github.com/dmarrero/linkveil/internal/link"
)

// Fallback dimensions reported when the true media size is unknown.
const (
	FallbackImageWidth  = 650
	FallbackImageHeight = 366
)

var titleDecorations = []string{
	"\U0001F631", // 😱
	"\U0001F632", // 😲
	"\U0001F62E", // 😮
	"\U0001F525", // 🔥
	"⚡",     // ⚡
	"✨",     // ✨
	"\U0001F4A5", // 💥
	"\U0001F440", // 👀
}

var descriptionLabels = []string{
	"Online Members",
	"Active Users",
	"People Online",
	"Viewers Now",
	"Live Viewers",
	"Current Viewers",
}

var descriptionMagnitudes = []string{
	"1,350,350",
	"2,456,789",
	"3,789,123",
	"1,234,567",
	"987,654",
	"2,345,678",
}

// Payload is the metadata handed to the preview renderer.
type Payload struct {
	Title       string
	Description string
	ImageURL    string
	ImageWidth  int
	ImageHeight int
}

// Synthesizer decorates link records into preview metadata. The random source
// is injectable so tests can fix the draws; it never mutates the store.
type Synthesizer struct {
	rng      *lockedRand
	resolver imageurl.Resolver
}

// NewSynthesizer constructs a Synthesizer around the given random source and
// image resolver.
func NewSynthesizer(rng *rand.Rand, resolver imageurl.Resolver) *Synthesizer {
	return &Synthesizer{rng: &lockedRand{r: rng}, resolver: resolver}
}

// Synthesize builds the metadata payload for a record. The title gets one
// decoration symbol prepended and one appended, drawn independently; the
// description pairs a magnitude with a label, both drawn independently.
func (s *Synthesizer) Synthesize(rec link.Record, trackingParam string) Payload {
	lead := titleDecorations[s.rng.Intn(len(titleDecorations))]
	trail := titleDecorations[s.rng.Intn(len(titleDecorations))]
	magnitude := descriptionMagnitudes[s.rng.Intn(len(descriptionMagnitudes))]
	label := descriptionLabels[s.rng.Intn(len(descriptionLabels))]

	return Payload{
		Title:       lead + rec.Title + trail,
		Description: magnitude + " " + label,
		ImageURL:    s.resolver.Resolve(rec.OriginalURL, trackingParam),
		ImageWidth:  FallbackImageWidth,
		ImageHeight: FallbackImageHeight,
	}
}

// WithResolver returns a copy using the given resolver, for request-derived
// proxy bases. The copy shares the underlying random source.
func (s *Synthesizer) WithResolver(resolver imageurl.Resolver) *Synthesizer {
	return &Synthesizer{rng: s.rng, resolver: resolver}
}

// lockedRand serializes draws; handlers run concurrently and math/rand.Rand
// is not safe for concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

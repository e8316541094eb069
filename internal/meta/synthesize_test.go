package meta

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmarrero/linkveil/internal/imageurl"
	"github.com/dmarrero/linkveil/internal/link"
)

func testRecord() link.Record {
	return link.Record{
		Code:        "Ab3xYz",
		OriginalURL: "https://scontent.cdninstagram.com/a.jpg",
		Title:       "Demo",
		CreatedAt:   time.Unix(1000, 0),
	}
}

func TestSynthesizeDecoratesTitle(t *testing.T) {
	t.Parallel()

	s := NewSynthesizer(rand.New(rand.NewSource(7)), imageurl.Resolver{Mode: imageurl.ModeDirect})
	p := s.Synthesize(testRecord(), "")

	require.Contains(t, p.Title, "Demo")
	require.NotEqual(t, "Demo", p.Title, "title must carry decorations")

	parts := strings.SplitN(p.Title, "Demo", 2)
	require.Len(t, parts, 2)
	require.Contains(t, titleDecorations, parts[0])
	require.Contains(t, titleDecorations, parts[1])
}

func TestSynthesizeDescriptionFromPools(t *testing.T) {
	t.Parallel()

	s := NewSynthesizer(rand.New(rand.NewSource(11)), imageurl.Resolver{Mode: imageurl.ModeDirect})
	p := s.Synthesize(testRecord(), "")

	parts := strings.SplitN(p.Description, " ", 2)
	require.Len(t, parts, 2)
	require.Contains(t, descriptionMagnitudes, parts[0])
	require.Contains(t, descriptionLabels, parts[1])
}

func TestSynthesizeImageFields(t *testing.T) {
	t.Parallel()

	s := NewSynthesizer(rand.New(rand.NewSource(13)), imageurl.Resolver{Mode: imageurl.ModeDirect})
	p := s.Synthesize(testRecord(), "IwAR1")

	require.Equal(t, "https://scontent.cdninstagram.com/a.jpg?fbclid=IwAR1", p.ImageURL)
	require.Equal(t, FallbackImageWidth, p.ImageWidth)
	require.Equal(t, FallbackImageHeight, p.ImageHeight)
}

func TestSynthesizeDeterministicUnderFixedSeed(t *testing.T) {
	t.Parallel()

	a := NewSynthesizer(rand.New(rand.NewSource(99)), imageurl.Resolver{Mode: imageurl.ModeDirect})
	b := NewSynthesizer(rand.New(rand.NewSource(99)), imageurl.Resolver{Mode: imageurl.ModeDirect})

	require.Equal(t, a.Synthesize(testRecord(), ""), b.Synthesize(testRecord(), ""))
}

func TestWithResolverSharesRandomSource(t *testing.T) {
	t.Parallel()

	base := NewSynthesizer(rand.New(rand.NewSource(5)), imageurl.Resolver{Mode: imageurl.ModeDirect})
	proxied := base.WithResolver(imageurl.Resolver{Mode: imageurl.ModeProxy, ProxyBase: "https://s.example"})

	p := proxied.Synthesize(testRecord(), "")
	require.True(t, strings.HasPrefix(p.ImageURL, "https://s.example/img-proxy/"), p.ImageURL)
}

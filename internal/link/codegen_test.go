package link

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestGeneratorProducesAlphanumericCodes(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(rand.New(rand.NewSource(1)), nil)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := gen.Next(func(string) bool { return false })
		if len(code) != codeLength {
			t.Fatalf("expected %d-char code, got %q", codeLength, code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(codeAlphabet, ch) {
				t.Fatalf("code %q contains %q outside the alphabet", code, ch)
			}
		}
		seen[code] = true
	}
	if len(seen) < 99 {
		t.Fatalf("expected near-unique draws, got %d distinct of 100", len(seen))
	}
}

func TestGeneratorRetriesOnCollision(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(rand.New(rand.NewSource(2)), nil)
	collisions := 0
	code := gen.Next(func(string) bool {
		collisions++
		return collisions <= 3
	})
	if collisions != 4 {
		t.Fatalf("expected 4 probes (3 collisions + 1 free), got %d", collisions)
	}
	if len(code) != codeLength {
		t.Fatalf("expected a normal-length code after retries, got %q", code)
	}
}

func TestGeneratorExhaustionAppendsTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	gen := NewGenerator(rand.New(rand.NewSource(3)), fixedClock{now: now})
	code := gen.Next(func(string) bool { return true })

	suffix := strconv.FormatInt(now.Unix(), 36)
	if !strings.HasSuffix(code, suffix) {
		t.Fatalf("expected base-36 timestamp suffix %q, got %q", suffix, code)
	}
	if len(code) != codeLength+len(suffix) {
		t.Fatalf("expected fallback code longer than normal, got %q", code)
	}
}

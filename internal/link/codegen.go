package link

import (
	"math/rand"
	"strconv"
	"time"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 6
	maxAttempts  = 10
)

// Clock abstracts time for the generator's collision fallback.
type Clock interface {
	Now() time.Time
}

// Generator produces short codes from a 62-symbol alphabet. The random source
// and clock are injectable so tests can pin the output.
type Generator struct {
	rng   *rand.Rand
	clock Clock
}

// NewGenerator constructs a Generator. A nil clock falls back to wall time.
func NewGenerator(rng *rand.Rand, clock Clock) *Generator {
	if clock == nil {
		clock = systemClock{}
	}
	return &Generator{rng: rng, clock: clock}
}

// Next draws candidate codes until taken reports one free, retrying a bounded
// number of times. When every attempt collides it appends a base-36 timestamp
// to the last candidate; the result is longer than a normal code and is not
// re-checked (the combined space makes a repeat collision astronomically
// unlikely). Callers must hold whatever lock guards taken for the whole
// generate-and-insert sequence.
func (g *Generator) Next(taken func(code string) bool) string {
	var candidate string
	for i := 0; i < maxAttempts; i++ {
		candidate = g.randomCode()
		if !taken(candidate) {
			return candidate
		}
	}
	return candidate + strconv.FormatInt(g.clock.Now().Unix(), 36)
}

func (g *Generator) randomCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeAlphabet[g.rng.Intn(len(codeAlphabet))]
	}
	return string(buf)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Package memory provides the in-process link store. Store lifetime equals
// process lifetime: a restart clears every issued code.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmarrero/linkveil/internal/link"
)

// LinkStore is a mutex-guarded map of code to record. The generator runs
// inside the same critical section as the insert, so check-and-insert has no
// window in which a second creator could observe a code as free.
type LinkStore struct {
	mu    sync.Mutex
	links map[string]link.Record
	gen   *link.Generator
	clock link.Clock
}

// NewLinkStore constructs a LinkStore. A nil clock falls back to wall time.
func NewLinkStore(gen *link.Generator, clock link.Clock) *LinkStore {
	if clock == nil {
		clock = wallClock{}
	}
	return &LinkStore{
		links: make(map[string]link.Record),
		gen:   gen,
		clock: clock,
	}
}

// Create validates originalURL against the media allow-list, allocates a
// collision-free code, and inserts the record.
func (s *LinkStore) Create(_ context.Context, originalURL, title string) (link.Record, error) {
	if err := link.ValidateOriginalURL(originalURL); err != nil {
		return link.Record{}, err
	}
	if title == "" {
		title = link.DefaultTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code := s.gen.Next(func(candidate string) bool {
		_, exists := s.links[candidate]
		return exists
	})
	rec := link.Record{
		Code:        code,
		OriginalURL: originalURL,
		Title:       title,
		CreatedAt:   s.clock.Now().UTC(),
	}
	s.links[code] = rec
	return rec, nil
}

// Get fetches a record by code.
func (s *LinkStore) Get(_ context.Context, code string) (link.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.links[code]
	if !ok {
		return link.Record{}, link.ErrNotFound
	}
	return rec, nil
}

// RecordView increments the view counter for code. Unknown codes are ignored.
func (s *LinkStore) RecordView(_ context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.links[code]
	if !ok {
		return
	}
	rec.Views++
	s.links[code] = rec
}

// List returns a snapshot of every record.
func (s *LinkStore) List(_ context.Context) []link.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]link.Record, 0, len(s.links))
	for _, rec := range s.links {
		out = append(out, rec)
	}
	return out
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

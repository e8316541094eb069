package link

import "context"

// Store is the single source of truth for short-link records.
//
// Create validates the URL, allocates a fresh code, and inserts the record as
// one atomic unit: two concurrent callers can never receive the same code.
// RecordView is an atomic read-modify-write and a no-op for unknown codes.
type Store interface {
	Create(ctx context.Context, originalURL, title string) (Record, error)
	Get(ctx context.Context, code string) (Record, error)
	RecordView(ctx context.Context, code string)
	List(ctx context.Context) []Record
}

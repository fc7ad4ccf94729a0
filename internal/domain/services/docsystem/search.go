package docsystem

import (
	"context"

	"sation/internal/domain/models/docsystem"
)

// SearchService feeds the quick-open palette.
type SearchService interface {
	// ListSearchable returns the owner's non-archived documents as quick-open
	// entries, narrowed by a case-insensitive title match when query is non-empty
	ListSearchable(ctx context.Context, ownerID, query string) ([]docsystem.SearchEntry, error)
}

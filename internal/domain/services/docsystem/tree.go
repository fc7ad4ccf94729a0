package docsystem

import (
	"context"

	"sation/internal/domain/models/docsystem"
)

// TreeService resolves one level of the sidebar tree at a time.
type TreeService interface {
	// ListChildren returns the non-archived direct children of parentID
	// (nil = root level), newest first with ties broken by id
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]docsystem.Document, error)
}

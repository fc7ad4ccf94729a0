package docsystem

import (
	"context"

	"sation/internal/domain/models/docsystem"
)

// TrashService lists archived documents flat, ignoring hierarchy.
type TrashService interface {
	// ListArchived returns the owner's archived documents, newest update first,
	// narrowed by a case-insensitive title match when query is non-empty
	ListArchived(ctx context.Context, ownerID, query string) ([]docsystem.Document, error)
}

package docsystem

import (
	"context"
	"time"

	"sation/internal/domain/models/docsystem"
)

// DocumentRepository defines data access operations for documents.
// Every query is scoped by ownerID.
type DocumentRepository interface {
	// Create inserts a new document. ID and timestamps must already be set.
	Create(ctx context.Context, doc *docsystem.Document) error

	// GetByID retrieves a document by ID within an owner's documents
	GetByID(ctx context.Context, id, ownerID string) (*docsystem.Document, error)

	// GetPublished retrieves a published, non-archived document without owner scoping
	GetPublished(ctx context.Context, id string) (*docsystem.Document, error)

	// Update writes title, parent, content, cover, icon, published flag and updated_at.
	// The archived flag is only changed through SetArchived.
	Update(ctx context.Context, doc *docsystem.Document) error

	// Delete hard-deletes one row. Returns whether a row was removed.
	Delete(ctx context.Context, id, ownerID string) (bool, error)

	// ListByOwner lists documents with the given archived state, newest update first
	ListByOwner(ctx context.Context, ownerID string, archived bool) ([]docsystem.Document, error)

	// ListChildren lists non-archived direct children (nil = root level),
	// newest first with ties broken by id ascending
	ListChildren(ctx context.Context, parentID *string, ownerID string) ([]docsystem.Document, error)

	// ListChildIDs lists the ids of all direct children regardless of archived state
	ListChildIDs(ctx context.Context, parentID, ownerID string) ([]string, error)

	// SetArchived sets is_archived on the given ids, touching only rows whose
	// state differs. Returns the number of rows changed.
	SetArchived(ctx context.Context, ids []string, ownerID string, archived bool, at time.Time) (int64, error)

	// DetachChildren moves the direct children of parentID to root level.
	DetachChildren(ctx context.Context, parentID, ownerID string, at time.Time) (int64, error)
}

package docsystem

import (
	"context"

	"sation/internal/domain/models/docsystem"
)

// ArchiveService implements soft delete and restore.
type ArchiveService interface {
	// Archive archives the document and every descendant
	Archive(ctx context.Context, ownerID, documentID string) (*docsystem.Document, error)

	// Restore un-archives the document only; descendants keep their state
	Restore(ctx context.Context, ownerID, documentID string) (*docsystem.Document, error)

	// PermanentlyDelete hard-deletes one document.
	// A missing id returns false with a not-found error.
	PermanentlyDelete(ctx context.Context, ownerID, documentID string) (bool, error)
}

package docsystem

import (
	"context"

	"sation/internal/domain/models/docsystem"
)

// DocumentService handles document CRUD. Every call is scoped to ownerID.
type DocumentService interface {
	// CreateDocument creates a root or child document
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*docsystem.Document, error)

	// GetDocument retrieves one of the owner's documents
	GetDocument(ctx context.Context, ownerID, documentID string) (*docsystem.Document, error)

	// GetPublishedDocument retrieves a published, non-archived document for public preview
	GetPublishedDocument(ctx context.Context, documentID string) (*docsystem.Document, error)

	// UpdateDocument merge-patches the supplied fields and stamps updated_at
	UpdateDocument(ctx context.Context, ownerID, documentID string, patch *docsystem.DocumentPatch) (*docsystem.Document, error)

	// DeleteDocument hard-deletes one document. Direct children are moved to root.
	// Returns whether a row was removed.
	DeleteDocument(ctx context.Context, ownerID, documentID string) (bool, error)

	// ListDocuments lists the owner's documents with the given archived state,
	// newest update first
	ListDocuments(ctx context.Context, ownerID string, archived bool) ([]docsystem.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	OwnerID    string  `json:"-"` // Set by handler from auth context, not from request body
	Title      string  `json:"title"`
	ParentID   *string `json:"parent_id,omitempty"` // nil = root level
	Content    *string `json:"content,omitempty"`
	Icon       *string `json:"icon,omitempty"`
	CoverImage *string `json:"cover_image,omitempty"`
}

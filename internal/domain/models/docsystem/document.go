package docsystem

import (
	"strings"
	"time"
)

// DefaultTitle replaces an empty title before any write.
const DefaultTitle = "Untitled"

// Document is a node in an owner's page tree.
type Document struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Content     *string   `json:"content" db:"content"`     // Serialized editor payload
	CoverImage  *string   `json:"cover_image" db:"cover_image"`
	Icon        *string   `json:"icon" db:"icon"`
	IsArchived  bool      `json:"is_archived" db:"is_archived"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the document sits at the top level.
func (d *Document) IsRoot() bool {
	return d.ParentID == nil
}

// NormalizeTitle maps blank input to DefaultTitle.
func NormalizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}

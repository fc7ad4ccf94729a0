package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
)

// timeLayout is fixed-width so TEXT ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// maxBatch stays well under SQLite's bound-parameter limit.
const maxBatch = 500

const documentColumns = `id, title, owner_id, parent_id, content, cover_image, icon,
	is_archived, is_published, created_at, updated_at`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// DocumentRepository implements the DocumentRepository interface on SQLite
type DocumentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(store *Store, logger *slog.Logger) docsysRepo.DocumentRepository {
	return &DocumentRepository{
		db:     store.DB(),
		logger: logger,
	}
}

// Create inserts a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, title, owner_id, parent_id, content, cover_image, icon,
			is_archived, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		doc.OwnerID,
		doc.ParentID,
		doc.Content,
		doc.CoverImage,
		doc.Icon,
		doc.IsArchived,
		doc.IsPublished,
		formatTime(doc.CreatedAt),
		formatTime(doc.UpdatedAt),
	)
	return translateError("create document", doc.ID, err)
}

// GetByID retrieves a document by ID within an owner's documents
func (r *DocumentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ? AND owner_id = ?`

	doc, err := scanDocument(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, translateError("get document", id, err)
	}
	return doc, nil
}

// GetPublished retrieves a published, non-archived document by ID
func (r *DocumentRepository) GetPublished(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE id = ? AND is_published = 1 AND is_archived = 0`

	doc, err := scanDocument(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError("get published document", id, err)
	}
	return doc, nil
}

// Update writes the mutable fields except is_archived
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET title = ?, parent_id = ?, content = ?, cover_image = ?, icon = ?,
			is_published = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		doc.Title,
		doc.ParentID,
		doc.Content,
		doc.CoverImage,
		doc.Icon,
		doc.IsPublished,
		formatTime(doc.UpdatedAt),
		doc.ID,
		doc.OwnerID,
	)
	if err != nil {
		return translateError("update document", doc.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return translateError("update document", doc.ID, err)
	}
	if affected == 0 {
		return translateError("update document", doc.ID, sql.ErrNoRows)
	}
	return nil
}

// Delete hard-deletes one row
func (r *DocumentRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := getExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, translateError("delete document", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, translateError("delete document", id, err)
	}
	return affected > 0, nil
}

// ListByOwner lists documents with the given archived state, newest update first
func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string, archived bool) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE owner_id = ? AND is_archived = ?
		ORDER BY updated_at DESC, id ASC`

	return r.queryDocuments(ctx, "list documents", query, ownerID, archived)
}

// ListChildren lists non-archived direct children, newest first
func (r *DocumentRepository) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Document, error) {
	if parentID == nil {
		query := `SELECT ` + documentColumns + ` FROM documents
			WHERE owner_id = ? AND parent_id IS NULL AND is_archived = 0
			ORDER BY created_at DESC, id ASC`
		return r.queryDocuments(ctx, "list children", query, ownerID)
	}

	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE owner_id = ? AND parent_id = ? AND is_archived = 0
		ORDER BY created_at DESC, id ASC`
	return r.queryDocuments(ctx, "list children", query, ownerID, *parentID)
}

// ListChildIDs lists all direct child ids regardless of archived state
func (r *DocumentRepository) ListChildIDs(ctx context.Context, parentID, ownerID string) ([]string, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT id FROM documents WHERE owner_id = ? AND parent_id = ? ORDER BY id ASC`,
		ownerID, parentID)
	if err != nil {
		return nil, translateError("list child ids", parentID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translateError("list child ids", parentID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("list child ids", parentID, err)
	}
	return ids, nil
}

// SetArchived updates is_archived only where it differs
func (r *DocumentRepository) SetArchived(ctx context.Context, ids []string, ownerID string, archived bool, at time.Time) (int64, error) {
	var total int64
	exec := getExecutor(ctx, r.db)

	for start := 0; start < len(ids); start += maxBatch {
		end := min(start+maxBatch, len(ids))
		batch := ids[start:end]

		query := fmt.Sprintf(`
			UPDATE documents
			SET is_archived = ?, updated_at = ?
			WHERE owner_id = ? AND is_archived <> ? AND id IN (%s)
		`, placeholders(len(batch)))

		args := make([]any, 0, len(batch)+4)
		args = append(args, archived, formatTime(at), ownerID, archived)
		for _, id := range batch {
			args = append(args, id)
		}

		result, err := exec.ExecContext(ctx, query, args...)
		if err != nil {
			return total, translateError("set archived", batch[0], err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, translateError("set archived", batch[0], err)
		}
		total += affected
	}

	return total, nil
}

// DetachChildren moves the direct children of parentID to root level
func (r *DocumentRepository) DetachChildren(ctx context.Context, parentID, ownerID string, at time.Time) (int64, error) {
	result, err := getExecutor(ctx, r.db).ExecContext(ctx,
		`UPDATE documents SET parent_id = NULL, updated_at = ? WHERE owner_id = ? AND parent_id = ?`,
		formatTime(at), ownerID, parentID)
	if err != nil {
		return 0, translateError("detach children", parentID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, translateError("detach children", parentID, err)
	}
	return affected, nil
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, op, query string, args ...any) ([]models.Document, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("document query failed", "op", op, "error", err)
		return nil, translateError(op, "", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, translateError(op, "", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(op, "", err)
	}

	return docs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*models.Document, error) {
	var (
		doc                  models.Document
		createdAt, updatedAt string
	)
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.OwnerID,
		&doc.ParentID,
		&doc.Content,
		&doc.CoverImage,
		&doc.Icon,
		&doc.IsArchived,
		&doc.IsPublished,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if doc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if doc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &doc, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

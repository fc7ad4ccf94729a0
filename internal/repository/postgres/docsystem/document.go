package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	"sation/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `id, title, owner_id, parent_id, content, cover_image, icon,
	is_archived, is_published, created_at, updated_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) docsysRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, owner_id, parent_id, content, cover_image, icon,
			is_archived, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.OwnerID,
		doc.ParentID,
		doc.Content,
		doc.CoverImage,
		doc.Icon,
		doc.IsArchived,
		doc.IsPublished,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return postgres.TranslateError("create document", doc.ID, err)
}

// GetByID retrieves a document by ID within an owner's documents
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, postgres.TranslateError("get document", id, err)
	}
	return doc, nil
}

// GetPublished retrieves a published, non-archived document by ID
func (r *PostgresDocumentRepository) GetPublished(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND is_published = true AND is_archived = false
	`, documentColumns, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, postgres.TranslateError("get published document", id, err)
	}
	return doc, nil
}

// Update writes the mutable fields except is_archived
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, parent_id = $2, content = $3, cover_image = $4, icon = $5,
			is_published = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.ParentID,
		doc.Content,
		doc.CoverImage,
		doc.Icon,
		doc.IsPublished,
		doc.UpdatedAt,
		doc.ID,
		doc.OwnerID,
	)
	if err != nil {
		return postgres.TranslateError("update document", doc.ID, err)
	}
	if result.RowsAffected() == 0 {
		return postgres.TranslateError("update document", doc.ID, pgx.ErrNoRows)
	}
	return nil
}

// Delete hard-deletes one row
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, postgres.TranslateError("delete document", id, err)
	}
	return result.RowsAffected() > 0, nil
}

// ListByOwner lists documents with the given archived state, newest update first
func (r *PostgresDocumentRepository) ListByOwner(ctx context.Context, ownerID string, archived bool) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND is_archived = $2
		ORDER BY updated_at DESC, id ASC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, "list documents", query, ownerID, archived)
}

// ListChildren lists non-archived direct children, newest first
func (r *PostgresDocumentRepository) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Document, error) {
	if parentID == nil {
		query := fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL AND is_archived = false
			ORDER BY created_at DESC, id ASC
		`, documentColumns, r.tables.Documents)
		return r.queryDocuments(ctx, "list children", query, ownerID)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND parent_id = $2 AND is_archived = false
		ORDER BY created_at DESC, id ASC
	`, documentColumns, r.tables.Documents)
	return r.queryDocuments(ctx, "list children", query, ownerID, *parentID)
}

// ListChildIDs lists all direct child ids regardless of archived state
func (r *PostgresDocumentRepository) ListChildIDs(ctx context.Context, parentID, ownerID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY id ASC
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, postgres.TranslateError("list child ids", parentID, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.TranslateError("list child ids", parentID, err)
	}
	return ids, nil
}

// SetArchived updates is_archived only where it differs
func (r *PostgresDocumentRepository) SetArchived(ctx context.Context, ids []string, ownerID string, archived bool, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_archived = $1, updated_at = $2
		WHERE owner_id = $3 AND id = ANY($4) AND is_archived <> $1
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, archived, at, ownerID, ids)
	if err != nil {
		return 0, postgres.TranslateError("set archived", ids[0], err)
	}
	return result.RowsAffected(), nil
}

// DetachChildren moves the direct children of parentID to root level
func (r *PostgresDocumentRepository) DetachChildren(ctx context.Context, parentID, ownerID string, at time.Time) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = NULL, updated_at = $1
		WHERE owner_id = $2 AND parent_id = $3
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, at, ownerID, parentID)
	if err != nil {
		return 0, postgres.TranslateError("detach children", parentID, err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresDocumentRepository) queryDocuments(ctx context.Context, op, query string, args ...any) ([]models.Document, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("document query failed", "op", op, "error", err)
		return nil, postgres.TranslateError(op, "", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, postgres.TranslateError(op, "", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, postgres.TranslateError(op, "", err)
	}

	return docs, nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
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
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

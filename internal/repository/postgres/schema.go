package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the documents table and its indexes if missing.
//
// parent_id is ON DELETE SET NULL: a hard delete never leaves a dangling
// reference, and children of a deleted document become root documents.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL CHECK (title <> ''),
			owner_id TEXT NOT NULL,
			parent_id TEXT REFERENCES ` + tables.Documents + `(id) ON DELETE SET NULL,
			content TEXT,
			cover_image TEXT,
			icon TEXT,
			is_archived BOOLEAN NOT NULL DEFAULT false,
			is_published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (parent_id IS NULL OR parent_id <> id)
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return fmt.Errorf("create %s: %w", tables.Documents, err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Prefix + `documents_owner_parent ON ` + tables.Documents + `(owner_id, parent_id, is_archived, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Prefix + `documents_owner_archived ON ` + tables.Documents + `(owner_id, is_archived, updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Prefix + `documents_parent ON ` + tables.Documents + `(parent_id)`,
	}
	for _, idx := range indexes {
		if _, err := pool.Exec(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

// DropSchema drops the documents table for the configured prefix.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS `+tables.Documents+` CASCADE`); err != nil {
		return fmt.Errorf("drop %s: %w", tables.Documents, err)
	}
	return nil
}

// ClearDocuments removes every row but keeps the schema.
func ClearDocuments(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, `DELETE FROM `+tables.Documents); err != nil {
		return fmt.Errorf("clear %s: %w", tables.Documents, err)
	}
	return nil
}

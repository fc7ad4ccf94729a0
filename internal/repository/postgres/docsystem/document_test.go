package docsystem

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"sation/internal/domain"
	models "sation/internal/domain/models/docsystem"
	"sation/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// INTEGRATION TESTS - require TEST_DATABASE_URL
// ============================================================================

func newTestRepo(t *testing.T) *PostgresDocumentRepository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, url, postgres.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)

	tables := postgres.NewTableNames("test_")
	require.NoError(t, postgres.EnsureSchema(ctx, pool, tables))
	require.NoError(t, postgres.ClearDocuments(ctx, pool, tables))
	t.Cleanup(func() {
		_ = postgres.ClearDocuments(context.Background(), pool, tables)
		pool.Close()
	})

	return NewDocumentRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).(*PostgresDocumentRepository)
}

func newDoc(owner, title string, parentID *string, at time.Time) *models.Document {
	return &models.Document{
		ID:        uuid.NewString(),
		Title:     title,
		OwnerID:   owner,
		ParentID:  parentID,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestPostgresDocumentRepository_Lifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	root := newDoc("u1", "Root", nil, at)
	require.NoError(t, repo.Create(ctx, root))
	child := newDoc("u1", "Child", &root.ID, at.Add(time.Second))
	require.NoError(t, repo.Create(ctx, child))

	got, err := repo.GetByID(ctx, child.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, root.ID, *got.ParentID)

	_, err = repo.GetByID(ctx, child.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Create(ctx, root)
	assert.ErrorIs(t, err, domain.ErrConflict)

	missing := uuid.NewString()
	err = repo.Create(ctx, newDoc("u1", "Orphan", &missing, at))
	assert.ErrorIs(t, err, domain.ErrValidation)

	children, err := repo.ListChildren(ctx, &root.ID, "u1")
	require.NoError(t, err)
	require.Len(t, children, 1)

	n, err := repo.SetArchived(ctx, []string{root.ID, child.ID}, "u1", true, at.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.SetArchived(ctx, []string{root.ID, child.ID}, "u1", true, at.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)

	archived, err := repo.ListByOwner(ctx, "u1", true)
	require.NoError(t, err)
	assert.Len(t, archived, 2)

	ids, err := repo.ListChildIDs(ctx, root.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{child.ID}, ids)

	detached, err := repo.DetachChildren(ctx, root.ID, "u1", at.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), detached)

	deleted, err := repo.Delete(ctx, root.ID, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, root.ID, "u1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

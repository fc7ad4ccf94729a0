package docsystem_test

import (
	"context"
	"strings"
	"testing"

	"sation/internal/domain"
	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Create
// ============================================================================

func TestCreateDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Documents.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
		OwnerID:    u1,
		Title:      "Roadmap",
		Icon:       ptr("🗺️"),
		CoverImage: ptr("https://example.com/cover.png"),
	})
	require.NoError(t, err)

	_, err = uuid.Parse(doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, u1, doc.OwnerID)
	assert.False(t, doc.IsArchived)
	assert.False(t, doc.IsPublished)
	assert.True(t, doc.CreatedAt.Equal(doc.UpdatedAt))

	stored := f.get(t, u1, doc.ID)
	assert.Equal(t, "Roadmap", stored.Title)
	assert.Equal(t, "🗺️", *stored.Icon)
	assert.Equal(t, []models.ChangeKind{models.ChangeCreated}, f.published.kinds())
}

func TestCreateDocument_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	archivedParent := f.create(t, u1, "Archived", nil)
	_, err := f.svc.Archive.Archive(ctx, u1, archivedParent.ID)
	require.NoError(t, err)
	foreign := f.create(t, u2, "Foreign", nil)

	tests := []struct {
		name string
		req  *docsysSvc.CreateDocumentRequest
	}{
		{"missing owner", &docsysSvc.CreateDocumentRequest{Title: "x"}},
		{"title too long", &docsysSvc.CreateDocumentRequest{OwnerID: u1, Title: strings.Repeat("a", 256)}},
		{"malformed parent id", &docsysSvc.CreateDocumentRequest{OwnerID: u1, ParentID: ptr("nope")}},
		{"missing parent", &docsysSvc.CreateDocumentRequest{OwnerID: u1, ParentID: ptr(uuid.NewString())}},
		{"archived parent", &docsysSvc.CreateDocumentRequest{OwnerID: u1, ParentID: &archivedParent.ID}},
		{"other owner's parent", &docsysSvc.CreateDocumentRequest{OwnerID: u1, ParentID: &foreign.ID}},
		{"cover is not a url", &docsysSvc.CreateDocumentRequest{OwnerID: u1, CoverImage: ptr("http://foo bar.org")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Documents.CreateDocument(ctx, tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateDocument_EmptyParentIsRoot(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, u1, "Top", ptr(""))
	assert.Nil(t, doc.ParentID)
}

// ============================================================================
// Get / list
// ============================================================================

func TestGetDocument_OwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t, u1, "Private", nil)

	_, err := f.svc.Documents.GetDocument(ctx, u2, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Documents.GetDocument(ctx, u1, "garbage")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Documents.GetDocument(ctx, "", doc.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListDocuments_UpdatedAtDesc(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, u1, "A", nil)
	b := f.create(t, u1, "B", nil)
	c := f.create(t, u1, "C", nil)
	f.create(t, u2, "Foreign", nil)

	_, err := f.svc.Documents.UpdateDocument(ctx, u1, a.ID, &models.DocumentPatch{Title: models.Some("A2")})
	require.NoError(t, err)

	docs, err := f.svc.Documents.ListDocuments(ctx, u1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids(docs))
}

func TestGetPublishedDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t, u1, "Public page", nil)

	_, err := f.svc.Documents.GetPublishedDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Documents.UpdateDocument(ctx, u1, doc.ID, &models.DocumentPatch{IsPublished: models.Some(true)})
	require.NoError(t, err)

	got, err := f.svc.Documents.GetPublishedDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Public page", got.Title)

	_, err = f.svc.Archive.Archive(ctx, u1, doc.ID)
	require.NoError(t, err)
	_, err = f.svc.Documents.GetPublishedDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ============================================================================
// Update
// ============================================================================

func TestUpdateDocument_ScenarioC_EmptyTitle(t *testing.T) {
	f := newFixture(t)
	doc := f.create(t, u1, "Named", nil)

	updated, err := f.svc.Documents.UpdateDocument(context.Background(), u1, doc.ID,
		&models.DocumentPatch{Title: models.Some("")})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTitle, updated.Title)
	assert.Equal(t, models.DefaultTitle, f.get(t, u1, doc.ID).Title)
}

func TestUpdateDocument_MergePatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Documents.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
		OwnerID: u1,
		Title:   "Page",
		Icon:    ptr("📄"),
		Content: ptr(`{"blocks":[]}`),
	})
	require.NoError(t, err)

	updated, err := f.svc.Documents.UpdateDocument(ctx, u1, doc.ID, &models.DocumentPatch{
		Icon:       models.Some[*string](nil),
		CoverImage: models.Some(ptr("https://example.com/c.jpg")),
	})
	require.NoError(t, err)

	assert.Equal(t, "Page", updated.Title)
	assert.Nil(t, updated.Icon)
	require.NotNil(t, updated.CoverImage)
	assert.Equal(t, `{"blocks":[]}`, *updated.Content)
	assert.True(t, updated.UpdatedAt.After(doc.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(doc.CreatedAt))
}

func TestUpdateDocument_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc := f.create(t, u1, "Page", nil)

	t.Run("empty patch", func(t *testing.T) {
		_, err := f.svc.Documents.UpdateDocument(ctx, u1, doc.ID, &models.DocumentPatch{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("nil patch", func(t *testing.T) {
		_, err := f.svc.Documents.UpdateDocument(ctx, u1, doc.ID, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := f.svc.Documents.UpdateDocument(ctx, u1, uuid.NewString(), &models.DocumentPatch{Title: models.Some("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("other owner", func(t *testing.T) {
		_, err := f.svc.Documents.UpdateDocument(ctx, u2, doc.ID, &models.DocumentPatch{Title: models.Some("x")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "Page", f.get(t, u1, doc.ID).Title)
	})

	t.Run("icon too long", func(t *testing.T) {
		_, err := f.svc.Documents.UpdateDocument(ctx, u1, doc.ID, &models.DocumentPatch{Icon: models.Some(ptr(strings.Repeat("x", 65)))})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUpdateDocument_Move(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, u1, "A", nil)
	b := f.create(t, u1, "B", &a.ID)
	c := f.create(t, u1, "C", &b.ID)
	other := f.create(t, u1, "Other", nil)
	foreign := f.create(t, u2, "Foreign", nil)

	f.published.reset()
	moved, err := f.svc.Documents.UpdateDocument(ctx, u1, c.ID, &models.DocumentPatch{ParentID: models.Some(&other.ID)})
	require.NoError(t, err)
	assert.Equal(t, other.ID, *moved.ParentID)
	assert.Equal(t, []models.ChangeKind{models.ChangeMoved}, f.published.kinds())

	toRoot, err := f.svc.Documents.UpdateDocument(ctx, u1, c.ID, &models.DocumentPatch{ParentID: models.Some[*string](nil)})
	require.NoError(t, err)
	assert.Nil(t, toRoot.ParentID)

	rejected := []struct {
		name   string
		id     string
		parent *string
	}{
		{"self", a.ID, &a.ID},
		{"direct child", a.ID, &b.ID},
		{"missing parent", a.ID, ptr(uuid.NewString())},
		{"other owner's parent", a.ID, &foreign.ID},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Documents.UpdateDocument(ctx, u1, tt.id, &models.DocumentPatch{ParentID: models.Some(tt.parent)})
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Nil(t, f.get(t, u1, a.ID).ParentID, "rejected move leaves the row untouched")
		})
	}

	t.Run("grandchild", func(t *testing.T) {
		_, err := f.svc.Documents.UpdateDocument(ctx, u1, a.ID, &models.DocumentPatch{ParentID: models.Some(&b.ID)})
		require.ErrorIs(t, err, domain.ErrValidation)
		// move c back under b and try a -> c
		_, err = f.svc.Documents.UpdateDocument(ctx, u1, c.ID, &models.DocumentPatch{ParentID: models.Some(&b.ID)})
		require.NoError(t, err)
		_, err = f.svc.Documents.UpdateDocument(ctx, u1, a.ID, &models.DocumentPatch{ParentID: models.Some(&c.ID)})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("archived parent", func(t *testing.T) {
		_, err := f.svc.Archive.Archive(ctx, u1, other.ID)
		require.NoError(t, err)
		_, err = f.svc.Documents.UpdateDocument(ctx, u1, a.ID, &models.DocumentPatch{ParentID: models.Some(&other.ID)})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUpdateDocument_MoveUnderDeepLeaf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var parent *string
	for i := 0; i < 1100; i++ {
		doc := f.create(t, u1, "Level", parent)
		parent = &doc.ID
	}
	leaf := *parent

	// Creating under the leaf works, so moving under it must too
	f.create(t, u1, "Created under leaf", &leaf)

	other := f.create(t, u1, "Other root", nil)
	moved, err := f.svc.Documents.UpdateDocument(ctx, u1, other.ID, &models.DocumentPatch{ParentID: models.Some(&leaf)})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, leaf, *moved.ParentID)
}

func TestUpdateDocument_ArchiveFlagCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.create(t, u1, "Root", nil)
	child := f.create(t, u1, "Child", &root.ID)

	archived, err := f.svc.Documents.UpdateDocument(ctx, u1, root.ID, &models.DocumentPatch{IsArchived: models.Some(true)})
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	assert.True(t, f.get(t, u1, child.ID).IsArchived)

	restored, err := f.svc.Documents.UpdateDocument(ctx, u1, root.ID, &models.DocumentPatch{
		IsArchived: models.Some(false),
		Title:      models.Some("Root again"),
	})
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)
	assert.Equal(t, "Root again", restored.Title)
	assert.True(t, f.get(t, u1, child.ID).IsArchived)
}

func TestUpdateDocument_MixedPatchIsAtomic(t *testing.T) {
	f := newWrappedFixture(t, func(repo docsysRepo.DocumentRepository) docsysRepo.DocumentRepository {
		return failingArchiveRepo{repo}
	})
	ctx := context.Background()

	doc := f.create(t, u1, "Draft", nil)
	f.published.reset()

	_, err := f.svc.Documents.UpdateDocument(ctx, u1, doc.ID, &models.DocumentPatch{
		Title:      models.Some("Renamed"),
		IsArchived: models.Some(true),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)

	got := f.get(t, u1, doc.ID)
	assert.Equal(t, "Draft", got.Title)
	assert.False(t, got.IsArchived)
	assert.True(t, doc.UpdatedAt.Equal(got.UpdatedAt))
	assert.Empty(t, f.published.kinds())
}

func TestUpdateDocument_MixedPatchPublishesAfterCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.create(t, u1, "Root", nil)
	child := f.create(t, u1, "Child", &root.ID)
	f.published.reset()

	got, err := f.svc.Documents.UpdateDocument(ctx, u1, root.ID, &models.DocumentPatch{
		Title:      models.Some("Archived root"),
		IsArchived: models.Some(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Archived root", got.Title)
	assert.True(t, got.IsArchived)
	assert.True(t, f.get(t, u1, child.ID).IsArchived)
	assert.Equal(t, []models.ChangeKind{models.ChangeUpdated, models.ChangeArchived}, f.published.kinds())
}

// ============================================================================
// Delete
// ============================================================================

func TestDeleteDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.create(t, u1, "Parent", nil)
	child := f.create(t, u1, "Child", &parent.ID)

	deleted, err := f.svc.Documents.DeleteDocument(ctx, u1, parent.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Nil(t, f.get(t, u1, child.ID).ParentID)

	deleted, err = f.svc.Documents.DeleteDocument(ctx, u1, parent.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.svc.Documents.DeleteDocument(ctx, u2, child.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

package docsystem_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"sation/internal/domain"
	models "sation/internal/domain/models/docsystem"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	docsysSvc "sation/internal/domain/services/docsystem"
	"sation/internal/repository/sqlite"
	"sation/internal/service/docsystem"

	"github.com/stretchr/testify/require"
)

const (
	u1 = "user-1"
	u2 = "user-2"
)

// stepClock advances one second per call so every write gets a distinct timestamp
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// recorder captures published changes
type recorder struct {
	mu      sync.Mutex
	changes []models.Change
}

func (r *recorder) Publish(_ context.Context, change models.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return nil
}

func (r *recorder) kinds() []models.ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]models.ChangeKind, 0, len(r.changes))
	for _, c := range r.changes {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = nil
}

type fixture struct {
	svc       *docsystem.Services
	published *recorder
	clock     *stepClock
}

func newFixture(t *testing.T, opts ...docsystem.Option) *fixture {
	t.Helper()
	return newWrappedFixture(t, nil, opts...)
}

// newWrappedFixture lets a test decorate the repository, e.g. to inject failures
func newWrappedFixture(t *testing.T, wrap func(docsysRepo.DocumentRepository) docsysRepo.DocumentRepository, opts ...docsystem.Option) *fixture {
	t.Helper()

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &recorder{}
	clock := newStepClock()

	opts = append([]docsystem.Option{
		docsystem.WithClock(clock.Now),
		docsystem.WithPublisher(rec),
	}, opts...)

	repo := sqlite.NewDocumentRepository(store, logger)
	if wrap != nil {
		repo = wrap(repo)
	}

	svc := docsystem.SetupServices(
		repo,
		sqlite.NewTransactionManager(store, logger),
		logger,
		opts...,
	)
	return &fixture{svc: svc, published: rec, clock: clock}
}

func (f *fixture) create(t *testing.T, owner, title string, parentID *string) *models.Document {
	t.Helper()
	doc, err := f.svc.Documents.CreateDocument(context.Background(), &docsysSvc.CreateDocumentRequest{
		OwnerID:  owner,
		Title:    title,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return doc
}

func (f *fixture) get(t *testing.T, owner, id string) *models.Document {
	t.Helper()
	doc, err := f.svc.Documents.GetDocument(context.Background(), owner, id)
	require.NoError(t, err)
	return doc
}

func ids(docs []models.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func ptr(s string) *string { return &s }

func createReq(owner, title string, icon *string) *docsysSvc.CreateDocumentRequest {
	return &docsysSvc.CreateDocumentRequest{OwnerID: owner, Title: title, Icon: icon}
}

// failingArchiveRepo fails every SetArchived call
type failingArchiveRepo struct {
	docsysRepo.DocumentRepository
}

func (failingArchiveRepo) SetArchived(context.Context, []string, string, bool, time.Time) (int64, error) {
	return 0, domain.NewStorageError("set archived", errors.New("disk I/O error"))
}

package handler_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sation/internal/auth"
	models "sation/internal/domain/models/docsystem"
	"sation/internal/handler"
	"sation/internal/handler/sse"
	"sation/internal/middleware"
	"sation/internal/notify"
	"sation/internal/repository/sqlite"
	"sation/internal/service/docsystem"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "handler-test-secret"

type api struct {
	t       *testing.T
	handler http.Handler
	tokens  map[string]string
}

func newAPI(t *testing.T) *api {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	broker := notify.NewBroker(notify.DefaultBuffer, logger)
	svc := docsystem.SetupServices(
		sqlite.NewDocumentRepository(store, logger),
		sqlite.NewTransactionManager(store, logger),
		logger,
		docsystem.WithPublisher(broker),
	)

	handlers := &handler.Handlers{
		Documents: handler.NewDocumentHandler(svc.Documents, logger),
		Tree:      handler.NewTreeHandler(svc.Tree, logger),
		Archive:   handler.NewArchiveHandler(svc.Archive, svc.Trash, logger),
		Search:    handler.NewSearchHandler(svc.Search, logger),
		Events:    handler.NewEventsHandler(broker, &sse.Config{KeepAliveInterval: time.Hour}, logger),
	}
	mux := http.NewServeMux()
	handlers.Register(mux)

	verifier, err := auth.NewHMACVerifier(secret, logger)
	require.NoError(t, err)

	a := &api{t: t, tokens: map[string]string{}}
	a.handler = middleware.AuthMiddleware(verifier, middleware.AuthOptions{
		PublicPrefixes: handler.PublicPrefixes,
	}, logger)(mux)
	return a
}

func (a *api) token(owner string) string {
	if tok, ok := a.tokens[owner]; ok {
		return tok
	}
	tok, err := auth.IssueHMACToken(secret, owner, time.Hour)
	require.NoError(a.t, err)
	a.tokens[owner] = tok
	return tok
}

func (a *api) do(owner, method, target string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if owner != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(owner))
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *api) create(owner string, body map[string]any) models.Document {
	a.t.Helper()
	rec := a.do(owner, http.MethodPost, "/api/documents", body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Document](a.t, rec)
}

func docIDs(docs []models.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestHealthIsPublic(t *testing.T) {
	a := newAPI(t)
	rec := a.do("", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequiresAuthentication(t *testing.T) {
	a := newAPI(t)
	rec := a.do("", http.MethodGet, "/api/documents", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDocumentCRUD(t *testing.T) {
	a := newAPI(t)

	doc := a.create("u1", map[string]any{"title": "", "icon": "📓"})
	assert.Equal(t, models.DefaultTitle, doc.Title)
	assert.Equal(t, "u1", doc.OwnerID)

	rec := a.do("u1", http.MethodGet, "/api/documents/"+doc.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do("u2", http.MethodGet, "/api/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do("u1", http.MethodPatch, "/api/documents/"+doc.ID, map[string]any{"title": "Journal", "icon": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Document](t, rec)
	assert.Equal(t, "Journal", updated.Title)
	assert.Nil(t, updated.Icon)

	rec = a.do("u1", http.MethodGet, "/api/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{doc.ID}, docIDs(decode[[]models.Document](t, rec)))

	rec = a.do("u1", http.MethodDelete, "/api/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do("u1", http.MethodDelete, "/api/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentErrors(t *testing.T) {
	a := newAPI(t)
	doc := a.create("u1", map[string]any{"title": "Page"})

	tests := []struct {
		name       string
		method     string
		target     string
		body       any
		wantStatus int
	}{
		{"empty body", http.MethodPost, "/api/documents", nil, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/documents", `{"name":"x"}`, http.StatusBadRequest},
		{"missing parent", http.MethodPost, "/api/documents", map[string]any{"parent_id": uuid.NewString()}, http.StatusBadRequest},
		{"empty patch", http.MethodPatch, "/api/documents/" + doc.ID, `{}`, http.StatusBadRequest},
		{"self parent", http.MethodPatch, "/api/documents/" + doc.ID, map[string]any{"parent_id": doc.ID}, http.StatusBadRequest},
		{"bad archived flag", http.MethodGet, "/api/documents?archived=maybe", nil, http.StatusBadRequest},
		{"malformed id", http.MethodGet, "/api/documents/not-an-id", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do("u1", tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestSidebarArchiveAndTrash(t *testing.T) {
	a := newAPI(t)

	root := a.create("u1", map[string]any{"title": "Root"})
	sub := a.create("u1", map[string]any{"title": "Sub", "parent_id": root.ID})

	rec := a.do("u1", http.MethodGet, "/api/sidebar?parent_id="+root.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{sub.ID}, docIDs(decode[[]models.Document](t, rec)))

	rec = a.do("u1", http.MethodPost, "/api/documents/"+root.ID+"/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Document](t, rec).IsArchived)

	rec = a.do("u1", http.MethodGet, "/api/sidebar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Document](t, rec))

	rec = a.do("u1", http.MethodGet, "/api/trash", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []string{root.ID, sub.ID}, docIDs(decode[[]models.Document](t, rec)))

	rec = a.do("u1", http.MethodGet, "/api/trash?q=SUB", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{sub.ID}, docIDs(decode[[]models.Document](t, rec)))

	rec = a.do("u1", http.MethodPost, "/api/documents/"+root.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do("u1", http.MethodGet, "/api/trash", nil)
	assert.Equal(t, []string{sub.ID}, docIDs(decode[[]models.Document](t, rec)))

	rec = a.do("u1", http.MethodDelete, "/api/trash/"+sub.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do("u1", http.MethodDelete, "/api/trash/"+sub.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	a := newAPI(t)
	a.create("u1", map[string]any{"title": "Launch", "icon": "🚀"})
	a.create("u1", map[string]any{"title": "Budget"})

	rec := a.do("u1", http.MethodGet, "/api/search?q=lau", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decode[[]models.SearchEntry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "🚀 Launch", entries[0].Label)
}

func TestPublicPreview(t *testing.T) {
	a := newAPI(t)
	doc := a.create("u1", map[string]any{"title": "Shared"})

	rec := a.do("", http.MethodGet, "/api/public/documents/"+doc.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do("u1", http.MethodPatch, "/api/documents/"+doc.ID, map[string]any{"is_published": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do("", http.MethodGet, "/api/public/documents/"+doc.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Shared", decode[models.Document](t, rec).Title)
}

func TestEventsStream(t *testing.T) {
	a := newAPI(t)
	server := httptest.NewServer(a.handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/events?access_token=" + a.token("u1"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
				events <- name
			}
		}
		close(events)
	}()

	next := func() string {
		select {
		case e := <-events:
			return e
		case <-time.After(2 * time.Second):
			t.Fatal("no event received")
			return ""
		}
	}

	require.Equal(t, "ready", next())

	a.create("u2", map[string]any{"title": "Not mine"})
	a.create("u1", map[string]any{"title": "Mine"})
	assert.Equal(t, "change", next())

	select {
	case e := <-events:
		t.Fatalf("unexpected extra event %q", e)
	case <-time.After(100 * time.Millisecond):
	}
}

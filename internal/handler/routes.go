package handler

import (
	"net/http"
)

// PublicPrefixes are served without authentication
var PublicPrefixes = []string{"/health", "/api/public/"}

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Documents *DocumentHandler
	Tree      *TreeHandler
	Archive   *ArchiveHandler
	Search    *SearchHandler
	Events    *EventsHandler
}

// Register mounts all routes on mux (Go 1.22+ method patterns)
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Documents.HealthCheck)

	// Document store
	mux.HandleFunc("POST /api/documents", h.Documents.CreateDocument)
	mux.HandleFunc("GET /api/documents", h.Documents.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", h.Documents.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Documents.DeleteDocument)

	// Sidebar tree, one level per request
	mux.HandleFunc("GET /api/sidebar", h.Tree.ListChildren)

	// Archive and trash
	mux.HandleFunc("POST /api/documents/{id}/archive", h.Archive.Archive)
	mux.HandleFunc("POST /api/documents/{id}/restore", h.Archive.Restore)
	mux.HandleFunc("GET /api/trash", h.Archive.ListTrash)
	mux.HandleFunc("DELETE /api/trash/{id}", h.Archive.PermanentlyDelete)

	// Quick-open
	mux.HandleFunc("GET /api/search", h.Search.Search)

	// Public preview of published documents
	mux.HandleFunc("GET /api/public/documents/{id}", h.Documents.GetPublishedDocument)

	// Change notices
	if h.Events != nil {
		mux.HandleFunc("GET /api/events", h.Events.Stream)
	}
}

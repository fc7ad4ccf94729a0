package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "sation/internal/domain/services/docsystem"
	"sation/internal/httputil"
)

// SearchHandler feeds the quick-open palette
type SearchHandler struct {
	searchService docsysSvc.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService docsysSvc.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// Search lists non-archived documents, optionally filtered by title
// GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	entries, err := h.searchService.ListSearchable(r.Context(), ownerID, r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}

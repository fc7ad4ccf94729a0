package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "sation/internal/domain/services/docsystem"
	"sation/internal/httputil"
)

// TreeHandler serves one sidebar level at a time
type TreeHandler struct {
	treeService docsysSvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService docsysSvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// ListChildren returns the direct, non-archived children of parent_id (root when absent)
// GET /api/sidebar?parent_id=
func (h *TreeHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	parentID := httputil.QueryOptionalString(r, "parent_id")
	docs, err := h.treeService.ListChildren(r.Context(), ownerID, parentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

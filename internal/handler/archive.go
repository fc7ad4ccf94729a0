package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "sation/internal/domain/services/docsystem"
	"sation/internal/httputil"
)

// ArchiveHandler handles archive, restore and trash listing requests
type ArchiveHandler struct {
	archiveService docsysSvc.ArchiveService
	trashService   docsysSvc.TrashService
	logger         *slog.Logger
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(archiveService docsysSvc.ArchiveService, trashService docsysSvc.TrashService, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archiveService: archiveService,
		trashService:   trashService,
		logger:         logger,
	}
}

// Archive moves a document and its descendants to the trash
// POST /api/documents/{id}/archive
func (h *ArchiveHandler) Archive(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := requirePathID(w, r)
	if !ok {
		return
	}

	doc, err := h.archiveService.Archive(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Restore takes one document out of the trash
// POST /api/documents/{id}/restore
func (h *ArchiveHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := requirePathID(w, r)
	if !ok {
		return
	}

	doc, err := h.archiveService.Restore(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListTrash lists archived documents, optionally filtered by title
// GET /api/trash?q=
func (h *ArchiveHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	docs, err := h.trashService.ListArchived(r.Context(), ownerID, r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// PermanentlyDelete removes one document for good
// DELETE /api/trash/{id}
func (h *ArchiveHandler) PermanentlyDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := requirePathID(w, r)
	if !ok {
		return
	}

	if _, err := h.archiveService.PermanentlyDelete(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondNoContent(w)
}

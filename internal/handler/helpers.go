package handler

import (
	"net/http"

	"sation/internal/httputil"
)

// requireOwner returns the authenticated owner id, or writes a 401 and returns false
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := httputil.GetUserID(r)
	if ownerID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return ownerID, true
}

// requirePathID returns the {id} path value, or writes a 400 and returns false
func requirePathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return "", false
	}
	return id, true
}

package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/goalmate/amatta/internal/metadata"
)

// OGImageHandler serves page preview metadata for product links.
type OGImageHandler struct {
	extractor *metadata.Extractor
}

// NewOGImageHandler creates a new og-image handler
func NewOGImageHandler(extractor *metadata.Extractor) *OGImageHandler {
	return &OGImageHandler{extractor: extractor}
}

// RegisterRoutes registers the og-image route
func (h *OGImageHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/og-image", h.Get).Methods("GET")
}

// Get extracts preview metadata for the url query parameter. Extraction
// never fails outward: a missing url is the only 400, everything else is
// a 200 with whatever fields could be recovered.
func (h *OGImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	respondJSON(w, http.StatusOK, h.extractor.Extract(r.Context(), rawURL))
}

package handlers

import (
	"encoding/json"
	"net/http"
)

// respondJSON sends a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError sends a JSON error body in the {"error": message} shape the
// frontend expects on every failing endpoint.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// forwardPayload relays a raw remote response body as-is. Remote
// endpoints that acknowledge with no body yield a 204 instead.
func forwardPayload(w http.ResponseWriter, payload json.RawMessage) {
	if len(payload) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// decodeJSON reads a JSON request body into out.
func decodeJSON(r *http.Request, out any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(out)
}

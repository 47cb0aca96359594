package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/maksimkurb/fwgen/src/internal/config"
	"github.com/maksimkurb/fwgen/src/internal/service"
)

// Handler manages all API endpoints and dependencies.
//
// Lifecycle operations and status reads are serialized by mu: the firewall service
// itself does no locking.
type Handler struct {
	mu        sync.Mutex
	cfg       *config.Config
	firewall  *service.FirewallService
	validator *service.ValidationService
	hasher    *config.ConfigHasher
}

// NewHandler creates a new API handler bound to one loaded configuration.
func NewHandler(cfg *config.Config, firewall *service.FirewallService, validator *service.ValidationService) *Handler {
	return &Handler{
		cfg:       cfg,
		firewall:  firewall,
		validator: validator,
	}
}

// WithConfigHasher makes status report whether the config file changed since it was loaded.
func (h *Handler) WithConfigHasher(hasher *config.ConfigHasher) *Handler {
	h.hasher = hasher
	return h
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// writeDocument writes a restore document as plain text.
func writeDocument(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// decodeJSON decodes JSON from the request body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

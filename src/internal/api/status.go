package api

import (
	"net/http"

	"github.com/maksimkurb/fwgen/src/internal/log"
)

var (
	// Version information set via ldflags at build time
	Version = "dev"
	Date    = "n/a"
	Commit  = "n/a"
)

// GetStatus returns the lifecycle state and which snapshots exist.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	response := StatusResponse{
		Version: VersionInfo{
			Version: Version,
			Date:    Date,
			Commit:  Commit,
		},
		State:       string(h.firewall.State()),
		SnapshotDir: h.firewall.SnapshotDir(),
		Snapshots:   make(map[string]bool),
	}

	if err := h.firewall.LastError(); err != nil {
		response.LastError = err.Error()
	}
	for _, family := range h.firewall.Families() {
		response.Families = append(response.Families, family.String())
	}
	for id, exists := range h.firewall.Snapshots() {
		response.Snapshots[string(id)] = exists
	}

	if h.hasher != nil {
		response.LoadedConfigHash = h.hasher.GetLoadedConfigHash()
		currentHash, err := h.hasher.GetCurrentConfigHash()
		if err != nil {
			log.Warnf("Failed to get current config hash: %v", err)
			currentHash = "error"
		}
		response.CurrentConfigHash = currentHash
		response.ConfigurationOutdated = currentHash != "error" &&
			response.LoadedConfigHash != "" &&
			currentHash != response.LoadedConfigHash
	}

	writeJSONData(w, response)
}

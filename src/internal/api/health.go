package api

import (
	"net/http"
)

// CheckHealth reports whether the configuration still compiles and whether the last
// lifecycle operation succeeded.
// GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}

	if err := h.validator.ValidateConfig(h.cfg); err != nil {
		response.Healthy = false
		response.Checks["config_validation"] = CheckResult{
			Passed:  false,
			Message: "Configuration validation failed: " + err.Error(),
		}
	} else {
		response.Checks["config_validation"] = CheckResult{
			Passed:  true,
			Message: "Configuration is valid",
		}
	}

	h.mu.Lock()
	lastErr := h.firewall.LastError()
	state := h.firewall.State()
	h.mu.Unlock()

	if lastErr != nil {
		response.Healthy = false
		response.Checks["firewall"] = CheckResult{
			Passed:  false,
			Message: "Last operation failed: " + lastErr.Error(),
		}
	} else {
		response.Checks["firewall"] = CheckResult{
			Passed:  true,
			Message: "State: " + string(state),
		}
	}

	statusCode := http.StatusOK
	if !response.Healthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

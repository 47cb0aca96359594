package api

import "github.com/maksimkurb/fwgen/src/internal/networking"

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// StatusResponse describes the firewall lifecycle.
type StatusResponse struct {
	Version     VersionInfo     `json:"version"`
	State       string          `json:"state"`
	LastError   string          `json:"last_error,omitempty"`
	Families    []string        `json:"families"`
	SnapshotDir string          `json:"snapshot_dir"`
	Snapshots   map[string]bool `json:"snapshots"`

	LoadedConfigHash      string `json:"loaded_config_hash,omitempty"`
	CurrentConfigHash     string `json:"current_config_hash,omitempty"`
	ConfigurationOutdated bool   `json:"configuration_outdated"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// OperationResponse is returned by every lifecycle endpoint that succeeds.
type OperationResponse struct {
	Operation string `json:"operation"`
	State     string `json:"state"`
}

// ResetRequest optionally limits a reset to one protocol family.
type ResetRequest struct {
	Family string `json:"family,omitempty"`
}

// HealthCheckResponse returns health check results.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// CheckResponse is the outcome of a configuration check.
type CheckResponse struct {
	Valid             bool                          `json:"valid"`
	MissingInterfaces []networking.MissingInterface `json:"missing_interfaces,omitempty"`
}

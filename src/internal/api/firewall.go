package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/fwgen/src/internal/netfilter"
)

type operation func(ctx context.Context) error

// GetRules returns the compiled rule document of a managed family.
// GET /api/v1/rules/{family}?reset=true
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	family, err := netfilter.ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		WriteInvalidRequest(w, err.Error())
		return
	}
	if !h.manages(family) {
		WriteNotFound(w, "Family "+family.String())
		return
	}

	reset, ok := resetParam(w, r)
	if !ok {
		return
	}

	build := h.firewall.Compiler().RuleDocument
	if reset {
		build = h.firewall.Compiler().ResetDocument
	}
	doc, err := build()
	if err != nil {
		WriteFirewallError(w, err)
		return
	}
	writeDocument(w, doc)
}

// GetSets returns the compiled set document.
// GET /api/v1/sets?reset=true
func (h *Handler) GetSets(w http.ResponseWriter, r *http.Request) {
	reset, ok := resetParam(w, r)
	if !ok {
		return
	}

	doc, err := h.firewall.Compiler().SetDocument(reset)
	if err != nil {
		WriteFirewallError(w, err)
		return
	}
	writeDocument(w, doc)
}

// Apply submits the compiled documents.
// POST /api/v1/apply
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "apply", h.firewall.Apply)
}

// Save snapshots the active state.
// POST /api/v1/save
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "save", h.firewall.Save)
}

// Commit applies and then saves.
// POST /api/v1/commit
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "commit", h.firewall.Commit)
}

// Rollback restores the last snapshot, or resets what has none.
// POST /api/v1/rollback
func (h *Handler) Rollback(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "rollback", h.firewall.Rollback)
}

// Reset tears the firewall down, optionally for one family only.
// POST /api/v1/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	var families []netfilter.Family
	if req.Family != "" {
		family, err := netfilter.ParseFamily(req.Family)
		if err != nil {
			WriteInvalidRequest(w, err.Error())
			return
		}
		families = append(families, family)
	}

	h.run(w, r, "reset", func(ctx context.Context) error {
		return h.firewall.Reset(ctx, families...)
	})
}

// Check validates the configuration and looks for missing zone interfaces.
// GET /api/v1/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	report, err := h.validator.CheckConfig(h.cfg)
	if err != nil {
		WriteFirewallError(w, err)
		return
	}
	writeJSONData(w, CheckResponse{Valid: true, MissingInterfaces: report.MissingInterfaces})
}

// run executes a lifecycle operation while holding the handler lock.
// The operation is detached from request cancellation: a client that goes away must not
// abort the engines between two families.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, name string, op operation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := op(context.WithoutCancel(r.Context())); err != nil {
		WriteFirewallError(w, err)
		return
	}
	writeJSONData(w, OperationResponse{Operation: name, State: string(h.firewall.State())})
}

func (h *Handler) manages(family netfilter.Family) bool {
	for _, f := range h.firewall.Families() {
		if f == family {
			return true
		}
	}
	return false
}

func resetParam(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("reset")
	if raw == "" {
		return false, true
	}
	reset, err := strconv.ParseBool(raw)
	if err != nil {
		WriteInvalidRequest(w, "reset must be a boolean")
		return false, false
	}
	return reset, true
}

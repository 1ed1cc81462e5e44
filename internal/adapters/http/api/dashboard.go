// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// DashboardHandler handles dashboard requests.
type DashboardHandler struct {
	provider DashboardProvider
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(provider DashboardProvider) *DashboardHandler {
	return &DashboardHandler{provider: provider}
}

// HandleDashboard handles GET /dashboard requests. It returns the
// aggregate counters an operations dashboard renders: totals per shift,
// template count and the shift in progress.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Dashboard(r.Context()))
}

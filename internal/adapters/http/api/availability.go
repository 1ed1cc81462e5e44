// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/gemba/internal/domain/types"
)

// AvailabilityDependencies defines the interface for availability reads.
type AvailabilityDependencies interface {
	Availability(ctx context.Context) (types.AvailabilityReport, error)
}

// AvailabilityHandler handles availability introspection requests.
type AvailabilityHandler struct {
	deps AvailabilityDependencies
}

// NewAvailabilityHandler creates a new availability handler.
func NewAvailabilityHandler(deps AvailabilityDependencies) *AvailabilityHandler {
	return &AvailabilityHandler{deps: deps}
}

// HandleGetAvailability handles GET /availability requests. The report
// lists every template with whether its window is currently open and why,
// so schedule configuration can be debugged without submitting.
func (h *AvailabilityHandler) HandleGetAvailability(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_availability"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.Availability(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

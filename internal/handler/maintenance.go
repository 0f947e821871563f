package handler

import (
	"net/http"
)

// CleanupOrphanShifts runs the orphan sweep on demand. Admin only; the
// unrestricted scope makes it sweep across every tenant.
func (h *Handler) CleanupOrphanShifts(w http.ResponseWriter, r *http.Request) {
	swept, err := h.scheduling.SweepOrphans(r.Context(), h.requestScope(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]int64{"removed": swept})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

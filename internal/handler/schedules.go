package handler

import (
	"net/http"

	"github.com/fieldops-dev/shift-planner/internal/scheduling"
)

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate        string    `json:"startDate" validate:"required"`
		StartTimes       []string  `json:"startTimes"`
		ShiftLengths     []float64 `json:"shiftLengths"`
		SelectedAgentIDs []string  `json:"selectedAgentIds"`
		Notes            string    `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if len(req.StartTimes) == 0 {
		req.StartTimes = []string{"08:00"}
	}
	if len(req.ShiftLengths) == 0 {
		req.ShiftLengths = []float64{8}
	}

	result, err := h.scheduling.Generate(r.Context(), h.requestScope(r), scheduling.GenerateRequest{
		StartDate:        req.StartDate,
		StartTimes:       req.StartTimes,
		ShiftLengths:     req.ShiftLengths,
		SelectedAgentIDs: req.SelectedAgentIDs,
		Notes:            req.Notes,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}

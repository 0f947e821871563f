package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fieldops-dev/shift-planner/internal/scheduling"
)

func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := scheduling.ShiftFilter{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		AgentID:   query.Get("agentId"),
	}

	shifts, err := h.scheduling.ListShifts(r.Context(), h.requestScope(r), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, shifts)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID string `json:"agentId" validate:"required"`
		Date    string `json:"date" validate:"required"`
		Start   string `json:"start" validate:"required"`
		End     string `json:"end" validate:"required"`
		Notes   string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, existed, err := h.scheduling.CreateShift(r.Context(), h.requestScope(r), scheduling.CreateShiftInput{
		AgentID: req.AgentID,
		Date:    req.Date,
		Start:   req.Start,
		End:     req.End,
		Notes:   req.Notes,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	// a duplicate slot is an idempotent success, not a conflict error
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}

	h.writeJSON(w, r, status, shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid shift id")
		return
	}

	var req struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
		Notes *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.scheduling.EditShift(r.Context(), h.requestScope(r), id, scheduling.EditShiftInput{
		Start: req.Start,
		End:   req.End,
		Notes: req.Notes,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid shift id")
		return
	}

	if err := h.scheduling.DeleteShift(r.Context(), h.requestScope(r), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fieldops-dev/shift-planner/internal/domain"
)

func (h *Handler) GetAgents(w http.ResponseWriter, r *http.Request) {
	status := domain.AgentStatus(r.URL.Query().Get("status"))

	agents, err := h.repository.ListAgents(r.Context(), h.requestScope(r), nil, status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, agents)
}

func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name" validate:"required"`
		Phone      string  `json:"phone"`
		Status     string  `json:"status" validate:"omitempty,oneof=available scheduled unavailable"`
		HourlyRate float64 `json:"hourlyRate" validate:"gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Status == "" {
		req.Status = string(domain.AgentAvailable)
	}

	agent := &domain.Agent{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Phone:      req.Phone,
		Status:     domain.AgentStatus(req.Status),
		HourlyRate: req.HourlyRate,
		TenantID:   h.requestScope(r).TenantID,
	}

	if err := h.repository.CreateAgent(r.Context(), agent); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, agent)
}

func (h *Handler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	agent := r.Context().Value(AgentCtx).(*domain.Agent)

	var req struct {
		Name       *string  `json:"name"`
		Phone      *string  `json:"phone"`
		Status     *string  `json:"status" validate:"omitempty,oneof=available scheduled unavailable"`
		HourlyRate *float64 `json:"hourlyRate" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.Phone != nil {
		agent.Phone = *req.Phone
	}
	if req.Status != nil {
		agent.Status = domain.AgentStatus(*req.Status)
	}
	if req.HourlyRate != nil {
		agent.HourlyRate = *req.HourlyRate
	}

	if err := h.repository.UpdateAgent(r.Context(), h.requestScope(r), agent); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, agent)
}

func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	agent := r.Context().Value(AgentCtx).(*domain.Agent)

	deleted, err := h.scheduling.DeleteAgent(r.Context(), h.requestScope(r), agent.ID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"agentId":           agent.ID,
		"deletedShiftCount": deleted,
	})
}

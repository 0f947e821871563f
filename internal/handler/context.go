package handler

import (
	"net/http"

	"github.com/fieldops-dev/shift-planner/internal/domain"
)

type ContextKey string

var (
	RoleCtxKey  ContextKey = "role"
	ScopeCtxKey ContextKey = "scope"
	AgentCtx    ContextKey = "agent"
)

func (h *Handler) requestScope(r *http.Request) domain.Scope {
	return r.Context().Value(ScopeCtxKey).(domain.Scope)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldops-dev/shift-planner/internal/report"
)

// GetReports aggregates hours and payout amounts per agent for a date
// range. Reports over the same range are served from redis until the
// cache TTL expires; any write in between at worst makes the report a
// minute stale, which is acceptable for a payroll preview.
func (h *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startDate := query.Get("startDate")
	endDate := query.Get("endDate")

	scope := h.requestScope(r)

	cacheKey := fmt.Sprintf("reports_%d_%s_%s", scope.TenantID, startDate, endDate)
	if scope.Unrestricted {
		cacheKey = fmt.Sprintf("reports_all_%s_%s", startDate, endDate)
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if cached, err := h.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		rep := &report.Report{}
		if err := json.Unmarshal([]byte(cached), rep); err == nil {
			h.writeJSON(w, r, http.StatusOK, rep)
			return
		}
	} else if !errors.Is(err, redis.Nil) {
		h.logInternalServerError(r, err)
	}

	rep, err := h.scheduling.Report(r.Context(), scope, startDate, endDate)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	if data, err := json.Marshal(rep); err == nil {
		ttl := time.Duration(h.config.Redis.ReportCacheTTL) * time.Second
		if err := h.redisClient.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
			h.logInternalServerError(r, err)
		}
	}

	h.writeJSON(w, r, http.StatusOK, rep)
}

// Package scheduling orchestrates the shift scheduling core: bulk
// generation, idempotent persistence, edits, cascade cleanup and
// reporting. The cascade used to live in a storage-layer delete hook;
// it is an explicit service method here so nothing happens behind the
// store's back.
package scheduling

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/metrics"
	"github.com/fieldops-dev/shift-planner/internal/notify"
	"github.com/fieldops-dev/shift-planner/internal/report"
	"github.com/fieldops-dev/shift-planner/internal/schedule"
)

type Service struct {
	store    Store
	notifier notify.Notifier
	metrics  metrics.Recorder
	logger   *slog.Logger
}

func NewService(store Store, notifier notify.Notifier, recorder metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		metrics:  recorder,
		logger:   logger,
	}
}

type GenerateRequest struct {
	StartDate        string
	StartTimes       []string
	ShiftLengths     []float64
	SelectedAgentIDs []string
	Notes            string
}

type GenerateResult struct {
	Schedule       []schedule.Candidate `json:"schedule"`
	PersistedCount int64                `json:"persistedCount"`
	Fallback       bool                 `json:"fallback"`
}

// Generate expands the request against the selected agents (or every
// available agent when none are selected) and persists the candidates
// idempotently. Repeating the call with identical input succeeds with
// PersistedCount == 0.
func (s *Service) Generate(ctx context.Context, scope domain.Scope, req GenerateRequest) (*GenerateResult, error) {
	s.metrics.IncGenerateRequests()

	var (
		agents []*domain.Agent
		err    error
	)
	if len(req.SelectedAgentIDs) > 0 {
		agents, err = s.store.ListAgents(ctx, scope, req.SelectedAgentIDs, "")
	} else {
		agents, err = s.store.ListAgents(ctx, scope, nil, domain.AgentAvailable)
	}
	if err != nil {
		return nil, err
	}

	candidates, err := schedule.BuildCandidates(schedule.GenerateRequest{
		StartDate:    req.StartDate,
		StartTimes:   req.StartTimes,
		ShiftLengths: req.ShiftLengths,
		Notes:        req.Notes,
	}, agents)
	if err != nil {
		return nil, err
	}

	shifts := make([]domain.Shift, 0, len(candidates))
	for _, c := range candidates {
		shifts = append(shifts, c.Shift)
	}

	res, err := s.store.BulkUpsertShifts(ctx, shifts)
	if err != nil {
		return nil, err
	}
	if res.Fallback {
		s.logger.Warn("bulk upsert ran without a transaction",
			"requested", res.Requested, "inserted", res.Inserted)
	}

	s.metrics.AddShiftsUpserted(res.Inserted)
	s.publish(ctx, domain.Event{
		Type:   "schedule",
		Action: "generate",
		Data:   map[string]any{"count": res.Inserted},
	})

	return &GenerateResult{
		Schedule:       candidates,
		PersistedCount: res.Inserted,
		Fallback:       res.Fallback,
	}, nil
}

type CreateShiftInput struct {
	AgentID string
	Date    string
	Start   string
	End     string
	Notes   string
}

// CreateShift persists one shift, resolving the owning tenant from the
// agent. If the slot already exists the call is a no-op success and the
// stored row is returned with existed == true.
func (s *Service) CreateShift(ctx context.Context, scope domain.Scope, in CreateShiftInput) (*domain.Shift, bool, error) {
	s.metrics.IncShiftCreateRequests()

	if in.AgentID == "" || in.Date == "" || in.Start == "" || in.End == "" {
		return nil, false, domain.Validationf("agentId, date, start and end are required")
	}

	agent, err := s.store.GetAgent(ctx, scope, in.AgentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && !scope.Unrestricted {
			return nil, false, domain.ErrAgentOutOfScope
		}
		return nil, false, err
	}

	dur, err := schedule.ComputeDuration(in.Date, in.Start, in.End)
	if err != nil {
		return nil, false, err
	}

	shift := &domain.Shift{
		AgentRef:      agent.ID,
		TenantID:      agent.TenantID,
		Date:          in.Date,
		EndDate:       overnightEndDate(in.Date, dur.IsOvernight),
		Start:         in.Start,
		End:           in.End,
		DurationHours: dur.Hours,
		IsOvernight:   dur.IsOvernight,
		Is24h:         dur.Is24h,
		Notes:         in.Notes,
	}

	stored, existed, err := s.store.InsertShift(ctx, shift)
	if err != nil {
		return nil, false, err
	}
	if !existed {
		s.publish(ctx, domain.Event{Type: "shift", Action: "create", Data: stored})
	}

	return stored, existed, nil
}

type EditShiftInput struct {
	Start *string
	End   *string
	Notes *string
}

// EditShift updates start/end/notes of an existing shift, resolving
// unspecified fields from the stored row, and recomputes the derived
// duration, flags and end date. The uniqueness key fields (agent, date)
// never change here.
func (s *Service) EditShift(ctx context.Context, scope domain.Scope, id int64, in EditShiftInput) (*domain.Shift, error) {
	shift, err := s.store.GetShift(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if in.Start != nil {
		shift.Start = *in.Start
	}
	if in.End != nil {
		shift.End = *in.End
	}
	if in.Notes != nil {
		shift.Notes = *in.Notes
	}

	dur, err := schedule.ComputeDuration(shift.Date, shift.Start, shift.End)
	if err != nil {
		return nil, err
	}
	shift.DurationHours = dur.Hours
	shift.IsOvernight = dur.IsOvernight
	shift.Is24h = dur.Is24h
	shift.EndDate = overnightEndDate(shift.Date, dur.IsOvernight)

	if err := s.store.UpdateShift(ctx, shift); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.Event{Type: "shift", Action: "update", Data: shift})

	return shift, nil
}

func (s *Service) DeleteShift(ctx context.Context, scope domain.Scope, id int64) error {
	if _, err := s.store.GetShift(ctx, scope, id); err != nil {
		return err
	}
	if err := s.store.DeleteShift(ctx, scope, id); err != nil {
		return err
	}

	s.publish(ctx, domain.Event{Type: "shift", Action: "delete", Data: map[string]any{"shiftId": id}})

	return nil
}

func (s *Service) ListShifts(ctx context.Context, scope domain.Scope, filter ShiftFilter) ([]*domain.Shift, error) {
	return s.store.ListShifts(ctx, scope, filter)
}

// DeleteAgent removes the agent, cascades to its shifts across every
// known reference encoding, and finishes with an orphan sweep. Cleanup
// failures after the agent row is gone are logged and reported as a
// lower count, never as an error: the agent deletion itself stands.
func (s *Service) DeleteAgent(ctx context.Context, scope domain.Scope, id string) (int64, error) {
	agent, err := s.store.GetAgent(ctx, scope, id)
	if err != nil {
		return 0, err
	}

	if err := s.store.DeleteAgent(ctx, scope, agent.ID); err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteShiftsByAgentRef(ctx, scope, agent.ID)
	if err != nil {
		s.logger.Error("cascade shift deletion incomplete", "agentId", agent.ID, "error", err)
	}
	s.metrics.AddShiftsDeleted(deleted)

	swept, err := s.store.SweepOrphanShifts(ctx, scope)
	if err != nil {
		s.logger.Error("orphan sweep failed", "error", err)
	} else if swept > 0 {
		s.logger.Info("orphan sweep removed shifts", "count", swept)
	}
	s.metrics.AddOrphanShiftsRemoved(swept)

	s.publish(ctx, domain.Event{Type: "agent", Action: "delete", Data: map[string]any{"agentId": agent.ID}})
	s.publish(ctx, domain.Event{
		Type:   "shift",
		Action: "bulk-delete",
		Data:   map[string]any{"agentId": agent.ID, "count": deleted},
	})

	return deleted, nil
}

// SweepOrphans is the standalone maintenance entry point for the orphan
// sweep that also runs after every agent deletion.
func (s *Service) SweepOrphans(ctx context.Context, scope domain.Scope) (int64, error) {
	swept, err := s.store.SweepOrphanShifts(ctx, scope)
	if err != nil {
		return 0, err
	}
	s.metrics.AddOrphanShiftsRemoved(swept)
	return swept, nil
}

// Report aggregates the scope's shifts in the date range into per-agent
// and grand totals.
func (s *Service) Report(ctx context.Context, scope domain.Scope, startDate, endDate string) (*report.Report, error) {
	shifts, err := s.store.ListShifts(ctx, scope, ShiftFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	agents, err := s.store.ListAgents(ctx, scope, nil, "")
	if err != nil {
		return nil, err
	}

	return report.Aggregate(shifts, agents, startDate, endDate), nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "type", event.Type, "action", event.Action, "error", err)
	}
}

func overnightEndDate(date string, overnight bool) *string {
	if !overnight {
		return nil
	}
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil
	}
	next := day.AddDate(0, 0, 1).Format("2006-01-02")
	return &next
}

package schedule

import (
	"time"

	"github.com/fieldops-dev/shift-planner/internal/domain"
)

// GenerateRequest describes one bulk-generation run: every start time is
// expanded against every agent for a single calendar day.
type GenerateRequest struct {
	StartDate    string
	StartTimes   []string
	ShiftLengths []float64
	Notes        string
}

// Candidate is one generated shift plus the agent's display name for
// the caller's preview list. Only the Shift part is persisted.
type Candidate struct {
	domain.Shift
	AgentName string `json:"agentName"`
}

// BuildCandidates expands the request into one candidate per
// (startTime, agent) pair. Shift lengths pair with start times by index
// and fall back to the first configured length when the two lists are
// not equinumerous.
//
// The expansion is deliberately a plain cartesian product: agents are
// iterated in the order supplied, with no rotation or fairness
// weighting, so identical inputs always produce the identical list.
func BuildCandidates(req GenerateRequest, agents []*domain.Agent) ([]Candidate, error) {
	if req.StartDate == "" {
		return nil, domain.Validationf("startDate is required")
	}
	if _, err := time.ParseInLocation(dateLayout, req.StartDate, time.Local); err != nil {
		return nil, domain.Validationf("invalid startDate %q: expected YYYY-MM-DD", req.StartDate)
	}
	if len(agents) == 0 {
		return nil, domain.Validationf("no agents selected")
	}
	if len(req.StartTimes) == 0 {
		return nil, domain.Validationf("no start times configured")
	}
	if len(req.ShiftLengths) == 0 {
		return nil, domain.Validationf("no shift lengths configured")
	}

	candidates := make([]Candidate, 0, len(req.StartTimes)*len(agents))

	for i, start := range req.StartTimes {
		length := req.ShiftLengths[0]
		if i < len(req.ShiftLengths) {
			length = req.ShiftLengths[i]
		}

		startAt, err := parseLocal(req.StartDate, start)
		if err != nil {
			return nil, domain.Validationf("invalid start time %q: expected HH:mm", start)
		}

		// Calendar-aware addition: the end may land on the next day.
		endAt := startAt.Add(time.Duration(length * float64(time.Hour)))
		end := endAt.Format(timeLayout)

		var endDate *string
		if day := endAt.Format(dateLayout); day != req.StartDate {
			endDate = &day
		}

		// Recompute from the wall-clock strings rather than trusting the
		// addition above; the two signals must agree for overnight and
		// 24h shifts by construction.
		dur, err := ComputeDuration(req.StartDate, start, end)
		if err != nil {
			return nil, err
		}

		for _, agent := range agents {
			candidates = append(candidates, Candidate{
				Shift: domain.Shift{
					AgentRef:      agent.ID,
					TenantID:      agent.TenantID,
					Date:          req.StartDate,
					EndDate:       endDate,
					Start:         start,
					End:           end,
					DurationHours: dur.Hours,
					IsOvernight:   dur.IsOvernight,
					Is24h:         dur.Is24h,
					Notes:         req.Notes,
				},
				AgentName: agent.Name,
			})
		}
	}

	return candidates, nil
}

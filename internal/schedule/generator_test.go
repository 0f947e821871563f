package schedule_test

import (
	"fmt"
	"testing"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAgents(n int) []*domain.Agent {
	agents := make([]*domain.Agent, 0, n)
	for i := 0; i < n; i++ {
		agents = append(agents, &domain.Agent{
			ID:       fmt.Sprintf("agent-%d", i),
			Name:     fmt.Sprintf("Agent %d", i),
			TenantID: 1,
		})
	}
	return agents
}

func TestBuildCandidatesCartesianExpansion(t *testing.T) {
	req := schedule.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00", "14:00", "22:00"},
		ShiftLengths: []float64{6, 8, 8},
		Notes:        "rotation A",
	}
	agents := testAgents(4)

	candidates, err := schedule.BuildCandidates(req, agents)
	require.NoError(t, err)
	require.Len(t, candidates, len(req.StartTimes)*len(agents))

	// no duplicate (agent, startTime) pairs, ordering follows the input
	seen := map[string]bool{}
	for _, c := range candidates {
		key := c.AgentRef + "|" + c.Start
		assert.False(t, seen[key], "duplicate pair %s", key)
		seen[key] = true
	}
	assert.Equal(t, "08:00", candidates[0].Start)
	assert.Equal(t, "agent-0", candidates[0].AgentRef)
	assert.Equal(t, "08:00", candidates[3].Start)
	assert.Equal(t, "agent-3", candidates[3].AgentRef)
	assert.Equal(t, "14:00", candidates[4].Start)

	// identical inputs yield the identical list
	again, err := schedule.BuildCandidates(req, agents)
	require.NoError(t, err)
	assert.Equal(t, candidates, again)
}

func TestBuildCandidatesLengthFallback(t *testing.T) {
	req := schedule.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00", "16:00"},
		ShiftLengths: []float64{6},
	}

	candidates, err := schedule.BuildCandidates(req, testAgents(1))
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// second start time has no paired length and falls back to the first
	assert.Equal(t, "14:00", candidates[0].End)
	assert.Equal(t, "22:00", candidates[1].End)
}

func TestBuildCandidatesOvernightSetsEndDate(t *testing.T) {
	req := schedule.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"22:00"},
		ShiftLengths: []float64{8},
	}

	candidates, err := schedule.BuildCandidates(req, testAgents(1))
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "06:00", c.End)
	require.NotNil(t, c.EndDate)
	assert.Equal(t, "2025-03-11", *c.EndDate)
	assert.True(t, c.IsOvernight)
	assert.False(t, c.Is24h)
	assert.Equal(t, 8.0, c.DurationHours)
}

func TestBuildCandidates24hShift(t *testing.T) {
	req := schedule.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{24},
	}

	candidates, err := schedule.BuildCandidates(req, testAgents(1))
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "08:00", c.End)
	require.NotNil(t, c.EndDate)
	assert.Equal(t, "2025-03-11", *c.EndDate)
	assert.True(t, c.Is24h)
	assert.Equal(t, 24.0, c.DurationHours)
}

func TestBuildCandidatesSameDayShiftHasNoEndDate(t *testing.T) {
	req := schedule.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	}

	candidates, err := schedule.BuildCandidates(req, testAgents(1))
	require.NoError(t, err)
	assert.Nil(t, candidates[0].EndDate)
	assert.False(t, candidates[0].IsOvernight)
}

func TestBuildCandidatesValidation(t *testing.T) {
	agents := testAgents(1)

	_, err := schedule.BuildCandidates(schedule.GenerateRequest{
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	}, agents)
	assert.True(t, domain.IsValidation(err))

	_, err = schedule.BuildCandidates(schedule.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	}, nil)
	assert.True(t, domain.IsValidation(err))

	_, err = schedule.BuildCandidates(schedule.GenerateRequest{
		StartDate:    "10/03/2025",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	}, agents)
	assert.True(t, domain.IsValidation(err))
}

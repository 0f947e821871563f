package report_test

import (
	"testing"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shift(ref string, hours float64) *domain.Shift {
	return &domain.Shift{
		AgentRef:      ref,
		Date:          "2025-03-10",
		Start:         "08:00",
		End:           "16:00",
		DurationHours: hours,
	}
}

func TestAggregatePerAgentAndGrandTotals(t *testing.T) {
	agents := []*domain.Agent{
		{ID: "a", Name: "Alice", HourlyRate: 20},
		{ID: "b", Name: "Bruno", HourlyRate: 15},
	}
	shifts := []*domain.Shift{
		shift("a", 8),
		shift("a", 4),
		shift("b", 6),
	}

	rep := report.Aggregate(shifts, agents, "2025-03-01", "2025-03-31")

	require.Len(t, rep.Summary, 2)
	assert.Equal(t, "Alice", rep.Summary[0].AgentName)
	assert.Equal(t, 12.0, rep.Summary[0].TotalHours)
	assert.Equal(t, 240.0, rep.Summary[0].TotalAmount)
	assert.Equal(t, "Bruno", rep.Summary[1].AgentName)
	assert.Equal(t, 6.0, rep.Summary[1].TotalHours)
	assert.Equal(t, 90.0, rep.Summary[1].TotalAmount)

	assert.Equal(t, 18.0, rep.GrandTotalHours)
	assert.Equal(t, 330.0, rep.GrandTotalAmount)
	assert.Equal(t, "2025-03-01", rep.Range.StartDate)
	assert.Equal(t, "2025-03-31", rep.Range.EndDate)
}

func TestAggregateRoundsPerShiftBeforeAccumulating(t *testing.T) {
	agents := []*domain.Agent{{ID: "a", Name: "Alice", HourlyRate: 10.03}}
	shifts := []*domain.Shift{
		shift("a", 1.33),
		shift("a", 1.33),
		shift("a", 1.33),
	}

	rep := report.Aggregate(shifts, agents, "", "")

	// 10.03 * 1.33 = 13.3399 → 13.34 per shift, summed afterwards
	require.Len(t, rep.Summary, 1)
	assert.Equal(t, 13.34, rep.Summary[0].Items[0].Amount)
	assert.Equal(t, 40.02, rep.Summary[0].TotalAmount)
	assert.Equal(t, 3.99, rep.Summary[0].TotalHours)
}

func TestAggregateMissingAgentFallsBackToRawRef(t *testing.T) {
	shifts := []*domain.Shift{shift("ghost-id", 5)}

	rep := report.Aggregate(shifts, nil, "", "")

	require.Len(t, rep.Summary, 1)
	assert.Equal(t, "ghost-id", rep.Summary[0].AgentName)
	assert.Equal(t, 5.0, rep.Summary[0].TotalHours)
	assert.Equal(t, 0.0, rep.Summary[0].TotalAmount)
}

func TestAggregateJoinsLegacyEncodedRefs(t *testing.T) {
	agents := []*domain.Agent{{ID: "abc123", Name: "Alice", HourlyRate: 20}}
	shifts := []*domain.Shift{
		shift("abc123", 4),
		shift(`ObjectId("abc123")`, 4),
		shift(`new ObjectId("abc123")`, 4),
	}

	rep := report.Aggregate(shifts, agents, "", "")

	// all three encodings collapse onto the same agent row
	require.Len(t, rep.Summary, 1)
	assert.Equal(t, "Alice", rep.Summary[0].AgentName)
	assert.Equal(t, 12.0, rep.Summary[0].TotalHours)
	assert.Equal(t, 240.0, rep.Summary[0].TotalAmount)
}

func TestAggregateEmpty(t *testing.T) {
	rep := report.Aggregate(nil, nil, "2025-01-01", "2025-01-31")

	assert.Empty(t, rep.Summary)
	assert.Equal(t, 0.0, rep.GrandTotalHours)
	assert.Equal(t, 0.0, rep.GrandTotalAmount)
}

package scheduling_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/metrics"
	"github.com/fieldops-dev/shift-planner/internal/notify"
	"github.com/fieldops-dev/shift-planner/internal/repository/memory"
	"github.com/fieldops-dev/shift-planner/internal/scheduling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*scheduling.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := scheduling.NewService(store, notify.Noop{}, metrics.Noop{}, slog.Default())
	return svc, store
}

func seedAgent(store *memory.Store, id, name string, tenant int64) {
	store.AddAgent(&domain.Agent{
		ID:         id,
		Name:       name,
		Status:     domain.AgentAvailable,
		HourlyRate: 20,
		TenantID:   tenant,
	})
}

func operatorScope(tenant int64) domain.Scope {
	return domain.Scope{TenantID: tenant}
}

var adminScope = domain.Scope{Unrestricted: true}

func TestGenerateIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)
	seedAgent(store, "a2", "Bruno", 1)

	req := scheduling.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00", "20:00"},
		ShiftLengths: []float64{12, 12},
		Notes:        "first run",
	}

	first, err := svc.Generate(context.Background(), operatorScope(1), req)
	require.NoError(t, err)
	assert.Len(t, first.Schedule, 4)
	assert.EqualValues(t, 4, first.PersistedCount)
	assert.False(t, first.Fallback)

	req.Notes = "second run"
	second, err := svc.Generate(context.Background(), operatorScope(1), req)
	require.NoError(t, err)
	assert.Len(t, second.Schedule, 4)
	assert.EqualValues(t, 0, second.PersistedCount)
	assert.Equal(t, 4, store.ShiftCount())

	// repeat generation rewrites notes but nothing else
	shifts, err := svc.ListShifts(context.Background(), operatorScope(1), scheduling.ShiftFilter{})
	require.NoError(t, err)
	for _, sh := range shifts {
		assert.Equal(t, "second run", sh.Notes)
	}
}

func TestGeneratePreservesEditedFieldsOnRepeat(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)

	req := scheduling.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	}
	first, err := svc.Generate(context.Background(), operatorScope(1), req)
	require.NoError(t, err)
	require.EqualValues(t, 1, first.PersistedCount)

	shifts, err := svc.ListShifts(context.Background(), operatorScope(1), scheduling.ShiftFilter{})
	require.NoError(t, err)
	require.Len(t, shifts, 1)

	newEnd := "18:00"
	edited, err := svc.EditShift(context.Background(), operatorScope(1), shifts[0].ID, scheduling.EditShiftInput{End: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, 10.0, edited.DurationHours)

	_, err = svc.Generate(context.Background(), operatorScope(1), req)
	require.NoError(t, err)

	shifts, err = svc.ListShifts(context.Background(), operatorScope(1), scheduling.ShiftFilter{})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "18:00", shifts[0].End, "edited end time must survive regeneration")
}

func TestGenerateSelectsAvailableAgentsByDefault(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)
	store.AddAgent(&domain.Agent{ID: "a2", Name: "Bruno", Status: domain.AgentUnavailable, TenantID: 1})

	res, err := svc.Generate(context.Background(), operatorScope(1), scheduling.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	})
	require.NoError(t, err)
	require.Len(t, res.Schedule, 1)
	assert.Equal(t, "a1", res.Schedule[0].AgentRef)
}

func TestGenerateReportsTransactionFallback(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)
	store.TxUnsupported = true

	res, err := svc.Generate(context.Background(), operatorScope(1), scheduling.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.EqualValues(t, 1, res.PersistedCount)
}

func TestGenerateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Generate(context.Background(), operatorScope(1), scheduling.GenerateRequest{
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	})
	assert.True(t, domain.IsValidation(err))

	// no agents in the tenant at all
	_, err = svc.Generate(context.Background(), operatorScope(1), scheduling.GenerateRequest{
		StartDate:    "2025-03-10",
		StartTimes:   []string{"08:00"},
		ShiftLengths: []float64{8},
	})
	assert.True(t, domain.IsValidation(err))
}

func TestCreateShiftIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)

	in := scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "08:00",
		End:     "16:00",
		Notes:   "gate duty",
	}

	created, existed, err := svc.CreateShift(context.Background(), operatorScope(1), in)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, 8.0, created.DurationHours)
	assert.EqualValues(t, 1, created.TenantID)

	again, existed, err := svc.CreateShift(context.Background(), operatorScope(1), in)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, 1, store.ShiftCount())
}

func TestCreateShiftRejectsForeignAgent(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 2) // other tenant

	_, _, err := svc.CreateShift(context.Background(), operatorScope(1), scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "08:00",
		End:     "16:00",
	})
	assert.ErrorIs(t, err, domain.ErrAgentOutOfScope)
}

func TestEditShiftRecomputesDerivedFields(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)

	created, _, err := svc.CreateShift(context.Background(), operatorScope(1), scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "08:00",
		End:     "16:00",
	})
	require.NoError(t, err)
	assert.Nil(t, created.EndDate)

	newEnd := "06:00"
	edited, err := svc.EditShift(context.Background(), operatorScope(1), created.ID, scheduling.EditShiftInput{End: &newEnd})
	require.NoError(t, err)
	assert.True(t, edited.IsOvernight)
	assert.Equal(t, 22.0, edited.DurationHours)
	require.NotNil(t, edited.EndDate)
	assert.Equal(t, "2025-03-11", *edited.EndDate)
	assert.Equal(t, "08:00", edited.Start, "unspecified fields resolve from the stored row")
}

func TestEditStartTimeMovesSlot(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)

	created, _, err := svc.CreateShift(context.Background(), operatorScope(1), scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "08:00",
		End:     "16:00",
	})
	require.NoError(t, err)

	newStart := "09:00"
	_, err = svc.EditShift(context.Background(), operatorScope(1), created.ID, scheduling.EditShiftInput{Start: &newStart})
	require.NoError(t, err)

	// the edited shift now owns the 09:00 slot
	again, existed, err := svc.CreateShift(context.Background(), operatorScope(1), scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "09:00",
		End:     "16:00",
	})
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, 1, store.ShiftCount())

	// and the vacated 08:00 slot accepts a new shift
	fresh, existed, err := svc.CreateShift(context.Background(), operatorScope(1), scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "08:00",
		End:     "12:00",
	})
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotEqual(t, created.ID, fresh.ID)
	assert.Equal(t, 2, store.ShiftCount())
}

func TestEditShiftRejectsOccupiedSlot(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)

	first, _, err := svc.CreateShift(context.Background(), operatorScope(1), scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "08:00",
		End:     "16:00",
	})
	require.NoError(t, err)

	_, _, err = svc.CreateShift(context.Background(), operatorScope(1), scheduling.CreateShiftInput{
		AgentID: "a1",
		Date:    "2025-03-10",
		Start:   "09:00",
		End:     "17:00",
	})
	require.NoError(t, err)

	takenStart := "09:00"
	_, err = svc.EditShift(context.Background(), operatorScope(1), first.ID, scheduling.EditShiftInput{Start: &takenStart})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 2, store.ShiftCount())
}

func TestEditShiftNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.EditShift(context.Background(), operatorScope(1), 999, scheduling.EditShiftInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAgentCascadesAcrossLegacyEncodings(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)
	seedAgent(store, "a2", "Bruno", 1)

	// three shifts for a1 under mixed encodings, one for a2
	store.AddShift(&domain.Shift{AgentRef: "a1", TenantID: 1, Date: "2025-03-10", Start: "08:00", End: "16:00"})
	store.AddShift(&domain.Shift{AgentRef: `ObjectId("a1")`, TenantID: 1, Date: "2025-03-11", Start: "08:00", End: "16:00"})
	store.AddShift(&domain.Shift{AgentRef: `new ObjectId("a1")`, TenantID: 1, Date: "2025-03-12", Start: "08:00", End: "16:00"})
	keep := store.AddShift(&domain.Shift{AgentRef: "a2", TenantID: 1, Date: "2025-03-10", Start: "08:00", End: "16:00"})

	deleted, err := svc.DeleteAgent(context.Background(), operatorScope(1), "a1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	remaining, err := svc.ListShifts(context.Background(), operatorScope(1), scheduling.ShiftFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)

	_, err = svc.DeleteAgent(context.Background(), operatorScope(1), "a1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAgentSweepsOrphans(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)

	// orphan left behind by an earlier partial failure
	store.AddShift(&domain.Shift{AgentRef: "long-gone", TenantID: 1, Date: "2025-03-10", Start: "08:00", End: "16:00"})
	store.AddShift(&domain.Shift{AgentRef: "a1", TenantID: 1, Date: "2025-03-10", Start: "08:00", End: "16:00"})

	_, err := svc.DeleteAgent(context.Background(), operatorScope(1), "a1")
	require.NoError(t, err)

	remaining, err := svc.ListShifts(context.Background(), operatorScope(1), scheduling.ShiftFilter{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestStandaloneOrphanSweep(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)
	store.AddShift(&domain.Shift{AgentRef: "a1", TenantID: 1, Date: "2025-03-10", Start: "08:00", End: "16:00"})
	store.AddShift(&domain.Shift{AgentRef: "ghost", TenantID: 1, Date: "2025-03-10", Start: "09:00", End: "17:00"})

	removed, err := svc.SweepOrphans(context.Background(), operatorScope(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	shifts, err := svc.ListShifts(context.Background(), operatorScope(1), scheduling.ShiftFilter{})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "a1", shifts[0].AgentRef)
}

func TestTenantIsolation(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "mine", "Alice", 1)
	seedAgent(store, "theirs", "Mallory", 2)
	foreign := store.AddShift(&domain.Shift{AgentRef: "theirs", TenantID: 2, Date: "2025-03-10", Start: "08:00", End: "16:00"})

	// listing never crosses tenants
	shifts, err := svc.ListShifts(context.Background(), operatorScope(1), scheduling.ShiftFilter{})
	require.NoError(t, err)
	assert.Empty(t, shifts)

	// neither do point reads, edits or deletes, even with a valid raw id
	_, err = svc.EditShift(context.Background(), operatorScope(1), foreign.ID, scheduling.EditShiftInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = svc.DeleteShift(context.Background(), operatorScope(1), foreign.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.DeleteAgent(context.Background(), operatorScope(1), "theirs")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// an admin sees everything
	all, err := svc.ListShifts(context.Background(), adminScope, scheduling.ShiftFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReportScopedAggregation(t *testing.T) {
	svc, store := newTestService(t)
	seedAgent(store, "a1", "Alice", 1)
	store.AddShift(&domain.Shift{AgentRef: "a1", TenantID: 1, Date: "2025-03-10", Start: "08:00", End: "16:00", DurationHours: 8})
	store.AddShift(&domain.Shift{AgentRef: "a1", TenantID: 1, Date: "2025-04-01", Start: "08:00", End: "16:00", DurationHours: 8})
	store.AddShift(&domain.Shift{AgentRef: "other", TenantID: 2, Date: "2025-03-10", Start: "08:00", End: "16:00", DurationHours: 8})

	rep, err := svc.Report(context.Background(), operatorScope(1), "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, rep.Summary, 1)
	assert.Equal(t, "Alice", rep.Summary[0].AgentName)
	assert.Equal(t, 8.0, rep.Summary[0].TotalHours)
	assert.Equal(t, 160.0, rep.Summary[0].TotalAmount)
	assert.Equal(t, 8.0, rep.GrandTotalHours)
}

func TestDeleteShiftNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.DeleteShift(context.Background(), operatorScope(1), 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

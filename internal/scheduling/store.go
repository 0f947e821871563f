package scheduling

import (
	"context"

	"github.com/fieldops-dev/shift-planner/internal/domain"
)

// ShiftFilter narrows a shift listing. Zero values mean "no filter".
// Date bounds compare lexicographically against YYYY-MM-DD strings.
type ShiftFilter struct {
	StartDate string
	EndDate   string
	AgentID   string
}

// UpsertResult reports the outcome of a bulk upsert. Fallback is set
// when the store could not run the batch inside a single transaction
// and degraded to unordered per-row writes.
type UpsertResult struct {
	Requested int64 `json:"requested"`
	Inserted  int64 `json:"inserted"`
	Fallback  bool  `json:"fallback"`
}

// Store is the persistence boundary the scheduling service talks to.
// Every method takes an explicit tenant scope; implementations must
// intersect each query with it rather than trusting callers.
type Store interface {
	ListAgents(ctx context.Context, scope domain.Scope, ids []string, status domain.AgentStatus) ([]*domain.Agent, error)
	GetAgent(ctx context.Context, scope domain.Scope, id string) (*domain.Agent, error)
	DeleteAgent(ctx context.Context, scope domain.Scope, id string) error

	ListShifts(ctx context.Context, scope domain.Scope, filter ShiftFilter) ([]*domain.Shift, error)
	GetShift(ctx context.Context, scope domain.Scope, id int64) (*domain.Shift, error)

	// InsertShift inserts the shift unless a row with the same
	// (agentRef, date, start, tenant) key exists, in which case it
	// returns the existing row and existed == true. Never an error on
	// conflict.
	InsertShift(ctx context.Context, shift *domain.Shift) (stored *domain.Shift, existed bool, err error)

	// BulkUpsertShifts persists generator output. On conflict only the
	// notes column is overwritten; every other field of the existing
	// row, including prior edits, is preserved. Pre-existing rows are
	// not counted as inserted.
	BulkUpsertShifts(ctx context.Context, shifts []domain.Shift) (UpsertResult, error)

	UpdateShift(ctx context.Context, shift *domain.Shift) error
	DeleteShift(ctx context.Context, scope domain.Scope, id int64) error

	// DeleteShiftsByAgentRef removes every shift referencing the agent
	// in any known encoding (see domain.RefVariants).
	DeleteShiftsByAgentRef(ctx context.Context, scope domain.Scope, agentID string) (int64, error)

	// SweepOrphanShifts removes shifts whose agent reference matches no
	// existing agent in the scope, in any known encoding.
	SweepOrphanShifts(ctx context.Context, scope domain.Scope) (int64, error)
}

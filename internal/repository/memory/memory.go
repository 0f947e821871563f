// Package memory provides an in-memory scheduling.Store for tests and
// development. It enforces the same uniqueness and tenant-scoping rules
// as the Postgres implementation.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/scheduling"
)

type slotKey struct {
	TenantID int64
	AgentRef string
	Date     string
	Start    string
}

type Store struct {
	mu          sync.RWMutex
	agents      map[string]*domain.Agent
	shifts      map[int64]*domain.Shift
	slots       map[slotKey]int64
	nextShiftID int64

	// TxUnsupported makes BulkUpsertShifts report the non-atomic
	// fallback path, mimicking a backend without transactions.
	TxUnsupported bool
}

func NewStore() *Store {
	return &Store{
		agents: make(map[string]*domain.Agent),
		shifts: make(map[int64]*domain.Shift),
		slots:  make(map[slotKey]int64),
	}
}

// AddAgent seeds an agent row directly.
func (s *Store) AddAgent(agent *domain.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *agent
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	s.agents[cp.ID] = &cp
}

// AddShift seeds a shift row directly, bypassing tenant checks so tests
// can plant legacy-encoded or orphaned rows.
func (s *Store) AddShift(shift *domain.Shift) *domain.Shift {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(shift)
}

// ShiftCount reports the total number of stored shifts, ignoring scope.
func (s *Store) ShiftCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shifts)
}

func (s *Store) insertLocked(shift *domain.Shift) *domain.Shift {
	s.nextShiftID++
	cp := *shift
	cp.ID = s.nextShiftID
	cp.CreatedAt = time.Now()
	cp.Version = 1
	s.shifts[cp.ID] = &cp
	s.slots[keyOf(&cp)] = cp.ID
	return &cp
}

func keyOf(shift *domain.Shift) slotKey {
	return slotKey{
		TenantID: shift.TenantID,
		AgentRef: shift.AgentRef,
		Date:     shift.Date,
		Start:    shift.Start,
	}
}

func (s *Store) ListAgents(_ context.Context, scope domain.Scope, ids []string, status domain.AgentStatus) ([]*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}

	agents := make([]*domain.Agent, 0)
	for _, a := range s.agents {
		if !scope.Allows(a.TenantID) {
			continue
		}
		if len(wanted) > 0 && !wanted[a.ID] {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		cp := *a
		agents = append(agents, &cp)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })

	return agents, nil
}

func (s *Store) GetAgent(_ context.Context, scope domain.Scope, id string) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.agents[id]
	if !ok || !scope.Allows(a.TenantID) {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) DeleteAgent(_ context.Context, scope domain.Scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.agents[id]
	if !ok || !scope.Allows(a.TenantID) {
		return domain.ErrNotFound
	}
	delete(s.agents, id)
	return nil
}

func (s *Store) ListShifts(_ context.Context, scope domain.Scope, filter scheduling.ShiftFilter) ([]*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shifts := make([]*domain.Shift, 0)
	for _, sh := range s.shifts {
		if !scope.Allows(sh.TenantID) {
			continue
		}
		if filter.StartDate != "" && sh.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && sh.Date > filter.EndDate {
			continue
		}
		if filter.AgentID != "" && sh.AgentRef != filter.AgentID {
			continue
		}
		cp := *sh
		shifts = append(shifts, &cp)
	}

	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		return shifts[i].Start < shifts[j].Start
	})

	return shifts, nil
}

func (s *Store) GetShift(_ context.Context, scope domain.Scope, id int64) (*domain.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shifts[id]
	if !ok || !scope.Allows(sh.TenantID) {
		return nil, domain.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (s *Store) InsertShift(_ context.Context, shift *domain.Shift) (*domain.Shift, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, exists := s.slots[keyOf(shift)]; exists {
		cp := *s.shifts[id]
		return &cp, true, nil
	}

	return s.insertLocked(shift), false, nil
}

func (s *Store) BulkUpsertShifts(_ context.Context, shifts []domain.Shift) (scheduling.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := scheduling.UpsertResult{
		Requested: int64(len(shifts)),
		Fallback:  s.TxUnsupported,
	}

	for i := range shifts {
		shift := shifts[i]
		if id, exists := s.slots[keyOf(&shift)]; exists {
			// conflict: only notes track the latest request
			s.shifts[id].Notes = shift.Notes
			s.shifts[id].Version++
			continue
		}
		s.insertLocked(&shift)
		res.Inserted++
	}

	return res, nil
}

func (s *Store) UpdateShift(_ context.Context, shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.shifts[shift.ID]
	if !ok {
		return domain.ErrNotFound
	}

	cp := *shift
	cp.Version = existing.Version + 1

	// an edit may move the shift to a different slot; the target must be
	// free and the old slot must be released
	if id, taken := s.slots[keyOf(&cp)]; taken && id != cp.ID {
		return domain.Validationf("another shift already occupies this agent, date and start time")
	}
	delete(s.slots, keyOf(existing))
	s.slots[keyOf(&cp)] = cp.ID

	s.shifts[shift.ID] = &cp
	return nil
}

func (s *Store) DeleteShift(_ context.Context, scope domain.Scope, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shifts[id]
	if !ok || !scope.Allows(sh.TenantID) {
		return domain.ErrNotFound
	}
	s.removeLocked(sh)
	return nil
}

func (s *Store) removeLocked(sh *domain.Shift) {
	delete(s.shifts, sh.ID)
	delete(s.slots, keyOf(sh))
}

func (s *Store) DeleteShiftsByAgentRef(_ context.Context, scope domain.Scope, agentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	variants := map[string]bool{}
	for _, v := range domain.RefVariants(agentID) {
		variants[v] = true
	}

	var deleted int64
	for _, sh := range s.shifts {
		if !scope.Allows(sh.TenantID) {
			continue
		}
		if variants[sh.AgentRef] {
			s.removeLocked(sh)
			deleted++
		}
	}

	return deleted, nil
}

func (s *Store) SweepOrphanShifts(_ context.Context, scope domain.Scope) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alive := map[string]bool{}
	for _, a := range s.agents {
		if scope.Allows(a.TenantID) {
			alive[a.ID] = true
		}
	}

	var removed int64
	for _, sh := range s.shifts {
		if !scope.Allows(sh.TenantID) {
			continue
		}
		if !alive[domain.CanonicalRef(sh.AgentRef)] {
			s.removeLocked(sh)
			removed++
		}
	}

	return removed, nil
}

var _ scheduling.Store = (*Store)(nil)

// Package seed fills a development database with plausible data: an
// operator account, a roster of agents and a week of generated shifts.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldops-dev/shift-planner/internal/config"
	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/repository"
	"github.com/fieldops-dev/shift-planner/internal/schedule"
)

var firstNames = []string{"Alex", "Sam", "Jordan", "Casey", "Riley", "Morgan", "Taylor", "Jamie", "Avery", "Quinn"}

var lastNames = []string{"Walker", "Reyes", "Nguyen", "Patel", "Kim", "Okafor", "Silva", "Haddad", "Novak", "Fischer"}

var statuses = []domain.AgentStatus{domain.AgentAvailable, domain.AgentAvailable, domain.AgentAvailable, domain.AgentUnavailable}

func RandomAgent(tenantID int64) *domain.Agent {
	return &domain.Agent{
		ID:         uuid.NewString(),
		Name:       fmt.Sprintf("%s %s", firstNames[rand.Intn(len(firstNames))], lastNames[rand.Intn(len(lastNames))]),
		Phone:      fmt.Sprintf("555-%04d", rand.Intn(10000)),
		Status:     statuses[rand.Intn(len(statuses))],
		HourlyRate: float64(15+rand.Intn(20)) + 0.5*float64(rand.Intn(2)),
		TenantID:   tenantID,
	}
}

// SeedDemoData creates an operator account, a small roster and one week
// of shifts generated against the available agents. Safe to rerun: the
// shift upsert is idempotent and a pre-existing operator is reused.
func SeedDemoData(ctx context.Context, repo *repository.Repository, cfg *config.Config) error {
	operator, err := repo.GetUserByUsername(ctx, "operator")
	if err != nil {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		operator = &domain.User{
			Username:     "operator",
			PasswordHash: string(passwordHash),
			FullName:     "Demo Operator",
			Role:         domain.RoleOperator,
		}
		if err := repo.CreateUser(ctx, operator); err != nil {
			return err
		}
		slog.Info("created operator account", "username", operator.Username)
	}

	scope := domain.ScopeFor(operator.ID, operator.Role)

	agents, err := repo.ListAgents(ctx, scope, nil, "")
	if err != nil {
		return err
	}
	for len(agents) < 6 {
		agent := RandomAgent(operator.ID)
		if err := repo.CreateAgent(ctx, agent); err != nil {
			return err
		}
		agents = append(agents, agent)
	}

	available := make([]*domain.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Status == domain.AgentAvailable {
			available = append(available, a)
		}
	}

	inserted := int64(0)
	for day := 0; day < 7; day++ {
		date := time.Now().AddDate(0, 0, day).Format("2006-01-02")
		candidates, err := schedule.BuildCandidates(schedule.GenerateRequest{
			StartDate:    date,
			StartTimes:   []string{"08:00", "16:00"},
			ShiftLengths: []float64{8, 8},
			Notes:        "seeded demo shift",
		}, available)
		if err != nil {
			return err
		}

		shifts := make([]domain.Shift, 0, len(candidates))
		for _, c := range candidates {
			shifts = append(shifts, c.Shift)
		}

		res, err := repo.BulkUpsertShifts(ctx, shifts)
		if err != nil {
			return err
		}
		inserted += res.Inserted
	}

	slog.Info("demo data ready", "agents", len(agents), "newShifts", inserted)
	return nil
}

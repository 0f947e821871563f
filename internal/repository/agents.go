package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldops-dev/shift-planner/internal/domain"
)

func (r *Repository) CreateAgent(ctx context.Context, agent *domain.Agent) error {
	query := `
		INSERT INTO agents (id, name, phone, status, hourly_rate, tenant_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{agent.ID, agent.Name, agent.Phone, agent.Status, agent.HourlyRate, agent.TenantID}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&agent.CreatedAt, &agent.Version)
}

func (r *Repository) GetAgent(ctx context.Context, scope domain.Scope, id string) (*domain.Agent, error) {
	query := `
		SELECT name, phone, status, hourly_rate, tenant_id, created_at, version
		FROM agents WHERE id = $1
	`
	args := []any{id}
	if !scope.Unrestricted {
		query += ` AND tenant_id = $2`
		args = append(args, scope.TenantID)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	agent := &domain.Agent{
		ID: id,
	}

	dst := []any{&agent.Name, &agent.Phone, &agent.Status, &agent.HourlyRate, &agent.TenantID, &agent.CreatedAt, &agent.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return agent, nil
}

func (r *Repository) ListAgents(ctx context.Context, scope domain.Scope, ids []string, status domain.AgentStatus) ([]*domain.Agent, error) {
	query := `
		SELECT id, name, phone, status, hourly_rate, tenant_id, created_at, version
		FROM agents
	`

	conds := []string{}
	args := []any{}
	cond := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if !scope.Unrestricted {
		cond("tenant_id = $%d", scope.TenantID)
	}
	if len(ids) > 0 {
		cond("id = ANY($%d)", ids)
	}
	if status != "" {
		cond("status = $%d", status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]*domain.Agent, 0)
	for rows.Next() {
		agent := &domain.Agent{}
		dst := []any{&agent.ID, &agent.Name, &agent.Phone, &agent.Status, &agent.HourlyRate, &agent.TenantID, &agent.CreatedAt, &agent.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}

func (r *Repository) UpdateAgent(ctx context.Context, scope domain.Scope, agent *domain.Agent) error {
	query := `
		UPDATE agents
		SET
			name = $1,
			phone = $2,
			status = $3,
			hourly_rate = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
	`
	args := []any{agent.Name, agent.Phone, agent.Status, agent.HourlyRate, agent.ID, agent.Version}
	if !scope.Unrestricted {
		query += ` AND tenant_id = $7`
		args = append(args, scope.TenantID)
	}
	query += ` RETURNING version`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&agent.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

func (r *Repository) DeleteAgent(ctx context.Context, scope domain.Scope, id string) error {
	query := `
		DELETE FROM agents WHERE id = $1
	`
	args := []any{id}
	if !scope.Unrestricted {
		query += ` AND tenant_id = $2`
		args = append(args, scope.TenantID)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

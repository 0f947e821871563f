package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/fieldops-dev/shift-planner/internal/scheduling"
)

const shiftColumns = `id, agent_ref, tenant_id, date, end_date, start_time, end_time, duration_hours, is_overnight, is_24h, notes, created_at, version`

func scanShift(row interface{ Scan(...any) error }) (*domain.Shift, error) {
	shift := &domain.Shift{}
	dst := []any{
		&shift.ID,
		&shift.AgentRef,
		&shift.TenantID,
		&shift.Date,
		&shift.EndDate,
		&shift.Start,
		&shift.End,
		&shift.DurationHours,
		&shift.IsOvernight,
		&shift.Is24h,
		&shift.Notes,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *Repository) ListShifts(ctx context.Context, scope domain.Scope, filter scheduling.ShiftFilter) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts`

	conds := []string{}
	args := []any{}
	cond := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if !scope.Unrestricted {
		cond("tenant_id = $%d", scope.TenantID)
	}
	if filter.StartDate != "" {
		cond("date >= $%d", filter.StartDate)
	}
	if filter.EndDate != "" {
		cond("date <= $%d", filter.EndDate)
	}
	if filter.AgentID != "" {
		cond("agent_ref = $%d", filter.AgentID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date, start_time"

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShift(ctx context.Context, scope domain.Scope, id int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	args := []any{id}
	if !scope.Unrestricted {
		query += ` AND tenant_id = $2`
		args = append(args, scope.TenantID)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	shift, err := scanShift(r.dbpool.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return shift, nil
}

func (r *Repository) InsertShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, bool, error) {
	query := `
		INSERT INTO shifts (agent_ref, tenant_id, date, end_date, start_time, end_time, duration_hours, is_overnight, is_24h, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT shifts_slot_key DO NOTHING
		RETURNING id, created_at, version
	`

	qctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{
		shift.AgentRef,
		shift.TenantID,
		shift.Date,
		shift.EndDate,
		shift.Start,
		shift.End,
		shift.DurationHours,
		shift.IsOvernight,
		shift.Is24h,
		shift.Notes,
	}
	err := r.dbpool.QueryRowContext(qctx, query, args...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version)
	if err == nil {
		return shift, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	// the slot already exists: a concurrent or earlier request won, so
	// return the stored row as an idempotent success
	existing, err := r.getShiftBySlot(ctx, shift.AgentRef, shift.Date, shift.Start, shift.TenantID)
	if err != nil {
		return nil, false, err
	}

	return existing, true, nil
}

func (r *Repository) getShiftBySlot(ctx context.Context, agentRef, date, start string, tenantID int64) (*domain.Shift, error) {
	query := `
		SELECT ` + shiftColumns + ` FROM shifts
		WHERE agent_ref = $1 AND date = $2 AND start_time = $3 AND tenant_id = $4
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	shift, err := scanShift(r.dbpool.QueryRowContext(ctx, query, agentRef, date, start, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return shift, nil
}

// BulkUpsertShifts persists generator output inside a single
// transaction. When the pool cannot open one, the batch degrades to
// best-effort unordered writes; the degradation is logged and flagged
// in the result, and rows that fail individually are skipped rather
// than aborting the rest.
func (r *Repository) BulkUpsertShifts(ctx context.Context, shifts []domain.Shift) (scheduling.UpsertResult, error) {
	res := scheduling.UpsertResult{Requested: int64(len(shifts))}
	if len(shifts) == 0 {
		return res, nil
	}

	txCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(txCtx, nil)
	if err != nil {
		slog.Warn("transactions unavailable, bulk upsert degrades to unordered writes", "error", err)
		res.Fallback = true
		for i := range shifts {
			inserted, err := r.upsertShift(ctx, r.dbpool, &shifts[i])
			if err != nil {
				slog.Error("bulk upsert row failed in fallback mode",
					"agentRef", shifts[i].AgentRef, "date", shifts[i].Date, "start", shifts[i].Start, "error", err)
				continue
			}
			if inserted {
				res.Inserted++
			}
		}
		return res, nil
	}

	for i := range shifts {
		inserted, err := r.upsertShift(txCtx, tx, &shifts[i])
		if err != nil {
			_ = tx.Rollback()
			return res, err
		}
		if inserted {
			res.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}

	return res, nil
}

// upsertShift inserts one generated slot. On conflict the existing row
// keeps everything it has (including manual edits) except notes, which
// always track the latest generation request. The returned bool is true
// only for genuinely new rows; xmax = 0 distinguishes an insert from a
// conflict-update.
func (r *Repository) upsertShift(ctx context.Context, q querier, shift *domain.Shift) (bool, error) {
	query := `
		INSERT INTO shifts (agent_ref, tenant_id, date, end_date, start_time, end_time, duration_hours, is_overnight, is_24h, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT shifts_slot_key
		DO UPDATE SET notes = EXCLUDED.notes, version = shifts.version + 1
		RETURNING (xmax = 0)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{
		shift.AgentRef,
		shift.TenantID,
		shift.Date,
		shift.EndDate,
		shift.Start,
		shift.End,
		shift.DurationHours,
		shift.IsOvernight,
		shift.Is24h,
		shift.Notes,
	}

	var inserted bool
	if err := q.QueryRowContext(ctx, query, args...).Scan(&inserted); err != nil {
		return false, err
	}

	return inserted, nil
}

func (r *Repository) UpdateShift(ctx context.Context, shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET
			start_time = $1,
			end_time = $2,
			notes = $3,
			duration_hours = $4,
			is_overnight = $5,
			is_24h = $6,
			end_date = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{
		shift.Start,
		shift.End,
		shift.Notes,
		shift.DurationHours,
		shift.IsOvernight,
		shift.Is24h,
		shift.EndDate,
		shift.ID,
		shift.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_slot_key" {
			return domain.Validationf("another shift already occupies this agent, date and start time")
		}
		return err
	}

	return nil
}

func (r *Repository) DeleteShift(ctx context.Context, scope domain.Scope, id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
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

// DeleteShiftsByAgentRef removes every shift referencing the agent,
// matching the canonical identifier and both legacy wrapper encodings.
func (r *Repository) DeleteShiftsByAgentRef(ctx context.Context, scope domain.Scope, agentID string) (int64, error) {
	query := `
		DELETE FROM shifts WHERE agent_ref = ANY($1)
	`
	args := []any{domain.RefVariants(agentID)}
	if !scope.Unrestricted {
		query += ` AND tenant_id = $2`
		args = append(args, scope.TenantID)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// SweepOrphanShifts deletes shifts whose agent reference, once
// canonicalized, matches no agent visible in the scope. The
// canonicalization happens in Go so the legacy-encoding rules live in
// exactly one place.
func (r *Repository) SweepOrphanShifts(ctx context.Context, scope domain.Scope) (int64, error) {
	agents, err := r.ListAgents(ctx, scope, nil, "")
	if err != nil {
		return 0, err
	}
	alive := make(map[string]bool, len(agents))
	for _, a := range agents {
		alive[a.ID] = true
	}

	query := `SELECT id, agent_ref FROM shifts`
	args := []any{}
	if !scope.Unrestricted {
		query += ` WHERE tenant_id = $1`
		args = append(args, scope.TenantID)
	}

	listCtx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(listCtx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	orphanIDs := []int64{}
	for rows.Next() {
		var (
			id  int64
			ref string
		)
		if err := rows.Scan(&id, &ref); err != nil {
			return 0, err
		}
		if !alive[domain.CanonicalRef(ref)] {
			orphanIDs = append(orphanIDs, id)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(orphanIDs) == 0 {
		return 0, nil
	}

	delCtx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(delCtx, `DELETE FROM shifts WHERE id = ANY($1)`, orphanIDs)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

var _ scheduling.Store = (*Repository)(nil)

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hakenworks/staffing-backend-go/internal/domain/advance"
	"github.com/hakenworks/staffing-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepository{db: db}
}

const requestColumns = `
	id, worker_id, worker_name, month, type, requested_amount, status, confirmed_amount,
	detail_daily_wage, detail_transport, detail_gross_pay, detail_estimated_deduction,
	detail_already_advanced, detail_available_advance,
	requested_at, decided_at, created_at, updated_at
`

func (r *advanceRepository) Create(ctx context.Context, req advance.AdvanceRequest) (advance.AdvanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advance_requests (
			id, worker_id, worker_name, month, type, requested_amount, status,
			detail_daily_wage, detail_transport, detail_gross_pay, detail_estimated_deduction,
			detail_already_advanced, detail_available_advance, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + requestColumns + `
	`

	row := q.QueryRow(ctx, query,
		req.ID, req.WorkerID, req.WorkerName, req.Month, req.Type, req.RequestedAmount, req.Status,
		req.Detail.MonthlyProvisionalDailyWage, req.Detail.MonthlyProvisionalTransport,
		req.Detail.GrossPay, req.Detail.EstimatedDeduction,
		req.Detail.AlreadyAdvanced, req.Detail.AvailableAdvance, req.RequestedAt,
	)
	created, err := scanRequestRow(row)
	if err != nil {
		return advance.AdvanceRequest{}, fmt.Errorf("failed to create advance request: %w", err)
	}

	return created, nil
}

func (r *advanceRepository) GetByID(ctx context.Context, id string) (advance.AdvanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `
		FROM advance_requests
		WHERE id = $1
	`

	row := q.QueryRow(ctx, query, id)
	request, err := scanRequestRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.AdvanceRequest{}, advance.ErrRequestNotFound
		}
		return advance.AdvanceRequest{}, fmt.Errorf("failed to get advance request: %w", err)
	}

	return request, nil
}

func (r *advanceRepository) List(ctx context.Context, filter advance.RequestFilter) ([]advance.AdvanceRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Month != nil {
		where += fmt.Sprintf(" AND month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.WorkerID != nil {
		where += fmt.Sprintf(" AND worker_id = $%d", argIdx)
		args = append(args, *filter.WorkerID)
		argIdx++
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM advance_requests` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count advance requests: %w", err)
	}

	query := `SELECT ` + requestColumns + ` FROM advance_requests` + where +
		fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list advance requests: %w", err)
	}
	defer rows.Close()

	requests, err := collectRequests(rows)
	if err != nil {
		return nil, 0, err
	}

	return requests, totalCount, nil
}

func (r *advanceRepository) UpdateDecision(ctx context.Context, req advance.AdvanceRequest) (advance.AdvanceRequest, error) {
	q := GetQuerier(ctx, r.db)

	// The pending guard makes the decision write race-safe: a request
	// decided elsewhere stays as decided.
	query := `
		UPDATE advance_requests
		SET status = $2, confirmed_amount = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + requestColumns + `
	`

	row := q.QueryRow(ctx, query, req.ID, req.Status, req.ConfirmedAmount, req.DecidedAt)
	updated, err := scanRequestRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, req.ID); getErr != nil {
				return advance.AdvanceRequest{}, getErr
			}
			return advance.AdvanceRequest{}, advance.ErrAlreadyDecided
		}
		return advance.AdvanceRequest{}, fmt.Errorf("failed to update advance decision: %w", err)
	}

	return updated, nil
}

func (r *advanceRepository) MonthlyApprovedTotal(ctx context.Context, workerID string, month string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	err := q.QueryRow(ctx, `
		SELECT COALESCE(SUM(confirmed_amount), 0)
		FROM advance_requests
		WHERE worker_id = $1 AND month = $2 AND status = 'approved'
	`, workerID, month).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum approved advances: %w", err)
	}

	return total, nil
}

func (r *advanceRepository) History(ctx context.Context, workerID string, month string) ([]advance.HistoryEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT decided_at, type, confirmed_amount, status
		FROM advance_requests
		WHERE worker_id = $1 AND month = $2 AND status <> 'pending'
		ORDER BY decided_at
	`

	rows, err := q.Query(ctx, query, workerID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get advance history: %w", err)
	}
	defer rows.Close()

	return collectHistory(rows)
}

func (r *advanceRepository) GetProvisionalEarnings(ctx context.Context, workerID string, month string) (advance.ProvisionalEarnings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_name, daily_wage, transport, estimated_deduction
		FROM advance_sources
		WHERE worker_id = $1 AND month = $2
	`

	var earnings advance.ProvisionalEarnings
	err := q.QueryRow(ctx, query, workerID, month).Scan(
		&earnings.WorkerName, &earnings.DailyWage, &earnings.Transport, &earnings.EstimatedDeduction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.ProvisionalEarnings{}, advance.ErrWorkerNotFound
		}
		return advance.ProvisionalEarnings{}, fmt.Errorf("failed to get provisional earnings: %w", err)
	}

	return earnings, nil
}

// collectRequests drains the result set. A connection failure during
// iteration surfaces as an error rather than a truncated slice.
func collectRequests(rows pgx.Rows) ([]advance.AdvanceRequest, error) {
	var requests []advance.AdvanceRequest
	for rows.Next() {
		request, err := scanRequestRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read advance requests: %w", err)
	}

	return requests, nil
}

func collectHistory(rows pgx.Rows) ([]advance.HistoryEntry, error) {
	var history []advance.HistoryEntry
	for rows.Next() {
		var entry advance.HistoryEntry
		if err := rows.Scan(&entry.Date, &entry.Type, &entry.ConfirmedAmount, &entry.Status); err != nil {
			return nil, fmt.Errorf("failed to scan advance history entry: %w", err)
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read advance history: %w", err)
	}

	return history, nil
}

func scanRequestRow(row pgx.Row) (advance.AdvanceRequest, error) {
	var req advance.AdvanceRequest
	err := row.Scan(
		&req.ID, &req.WorkerID, &req.WorkerName, &req.Month, &req.Type,
		&req.RequestedAmount, &req.Status, &req.ConfirmedAmount,
		&req.Detail.MonthlyProvisionalDailyWage, &req.Detail.MonthlyProvisionalTransport,
		&req.Detail.GrossPay, &req.Detail.EstimatedDeduction,
		&req.Detail.AlreadyAdvanced, &req.Detail.AvailableAdvance,
		&req.RequestedAt, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return advance.AdvanceRequest{}, err
	}
	return req, nil
}

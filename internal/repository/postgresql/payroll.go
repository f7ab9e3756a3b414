package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hakenworks/staffing-backend-go/internal/domain/payroll"
	"github.com/hakenworks/staffing-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

func (r *payrollRepository) GetRun(ctx context.Context, month string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT processing_month, status, aggregated_at, submitted_at, approved_at, created_at, updated_at
		FROM payroll_runs
		WHERE processing_month = $1
	`

	var run payroll.PayrollRun
	err := q.QueryRow(ctx, query, month).Scan(
		&run.ProcessingMonth, &run.Status, &run.AggregatedAt, &run.SubmittedAt, &run.ApprovedAt,
		&run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRepository) SaveRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (processing_month, status, aggregated_at, submitted_at, approved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (processing_month) DO UPDATE SET
			status = EXCLUDED.status,
			aggregated_at = EXCLUDED.aggregated_at,
			submitted_at = EXCLUDED.submitted_at,
			approved_at = EXCLUDED.approved_at,
			updated_at = NOW()
		RETURNING processing_month, status, aggregated_at, submitted_at, approved_at, created_at, updated_at
	`

	var saved payroll.PayrollRun
	err := q.QueryRow(ctx, query,
		run.ProcessingMonth, run.Status, run.AggregatedAt, run.SubmittedAt, run.ApprovedAt,
	).Scan(
		&saved.ProcessingMonth, &saved.Status, &saved.AggregatedAt, &saved.SubmittedAt, &saved.ApprovedAt,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to save payroll run: %w", err)
	}

	return saved, nil
}

// ========== RECORDS ==========

const recordColumns = `
	id, processing_month, worker_id, worker_number, worker_name,
	work_days, hours, base_pay, transport, social_insurance, resident_tax,
	overtime, income_tax, advance, other_deduction,
	pay_total, deduction_total, net_pay, edited_fields, created_at, updated_at
`

func (r *payrollRepository) ListRecords(ctx context.Context, month string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM payroll_records
		WHERE processing_month = $1
		ORDER BY worker_number
	`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *payrollRepository) GetRecord(ctx context.Context, month string, workerID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM payroll_records
		WHERE processing_month = $1 AND worker_id = $2
	`

	row := q.QueryRow(ctx, query, month, workerID)
	record, err := scanRecordRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) UpdateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET overtime = $3, income_tax = $4, advance = $5, other_deduction = $6,
			pay_total = $7, deduction_total = $8, net_pay = $9, edited_fields = $10,
			updated_at = NOW()
		WHERE processing_month = $1 AND worker_id = $2
		RETURNING ` + recordColumns + `
	`

	row := q.QueryRow(ctx, query,
		record.ProcessingMonth, record.WorkerID,
		record.Overtime, record.IncomeTax, record.Advance, record.OtherDeduction,
		record.PayTotal, record.DeductionTotal, record.NetPay, editedFieldsToStrings(record.EditedFields),
	)
	updated, err := scanRecordRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return updated, nil
}

func (r *payrollRepository) ReplaceRecords(ctx context.Context, month string, records []payroll.PayrollRecord) ([]payroll.PayrollRecord, error) {
	var stored []payroll.PayrollRecord

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM payroll_records WHERE processing_month = $1`, month); err != nil {
			return fmt.Errorf("failed to clear payroll records: %w", err)
		}

		insert := `
			INSERT INTO payroll_records (
				processing_month, worker_id, worker_number, worker_name,
				work_days, hours, base_pay, transport, social_insurance, resident_tax,
				overtime, income_tax, advance, other_deduction,
				pay_total, deduction_total, net_pay, edited_fields
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			RETURNING ` + recordColumns + `
		`

		for _, record := range records {
			row := q.QueryRow(txCtx, insert,
				month, record.WorkerID, record.WorkerNumber, record.WorkerName,
				record.WorkDays, record.Hours, record.BasePay, record.Transport,
				record.SocialInsurance, record.ResidentTax,
				record.Overtime, record.IncomeTax, record.Advance, record.OtherDeduction,
				record.PayTotal, record.DeductionTotal, record.NetPay,
				editedFieldsToStrings(record.EditedFields),
			)
			created, err := scanRecordRow(row)
			if err != nil {
				return fmt.Errorf("failed to insert payroll record for worker %s: %w", record.WorkerID, err)
			}
			stored = append(stored, created)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (r *payrollRepository) DeleteRecords(ctx context.Context, month string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE processing_month = $1`, month); err != nil {
		return fmt.Errorf("failed to delete payroll records: %w", err)
	}

	return nil
}

// ========== SOURCE DATA ==========

func (r *payrollRepository) GetSourceRows(ctx context.Context, month string) ([]payroll.SourceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, worker_number, worker_name, work_days, hours,
			   base_pay, transport, social_insurance, resident_tax, income_tax
		FROM payroll_sources
		WHERE processing_month = $1
		ORDER BY worker_number
	`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll source rows: %w", err)
	}
	defer rows.Close()

	return collectSourceRows(rows)
}

func (r *payrollRepository) GetPriorMonthNetTotal(ctx context.Context, month string) (int64, error) {
	prior, err := priorMonth(month)
	if err != nil {
		return 0, err
	}

	q := GetQuerier(ctx, r.db)

	var total int64
	err = q.QueryRow(ctx,
		`SELECT COALESCE(SUM(net_pay), 0) FROM payroll_records WHERE processing_month = $1`,
		prior,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to get prior month net total: %w", err)
	}

	return total, nil
}

// ========== HELPERS ==========

// collectRecords drains the result set. A connection failure during
// iteration surfaces as an error rather than a truncated slice.
func collectRecords(rows pgx.Rows) ([]payroll.PayrollRecord, error) {
	var records []payroll.PayrollRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll records: %w", err)
	}

	return records, nil
}

func collectSourceRows(rows pgx.Rows) ([]payroll.SourceRow, error) {
	var result []payroll.SourceRow
	for rows.Next() {
		var row payroll.SourceRow
		if err := rows.Scan(
			&row.WorkerID, &row.WorkerNumber, &row.WorkerName, &row.WorkDays, &row.Hours,
			&row.BasePay, &row.Transport, &row.SocialInsurance, &row.ResidentTax, &row.IncomeTax,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll source row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll source rows: %w", err)
	}

	return result, nil
}

func priorMonth(month string) (string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", payroll.ErrInvalidMonth
	}
	return t.AddDate(0, -1, 0).Format("2006-01"), nil
}

func editedFieldsToStrings(fields []payroll.EditableField) []string {
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		result = append(result, string(f))
	}
	return result
}

func stringsToEditedFields(values []string) []payroll.EditableField {
	result := make([]payroll.EditableField, 0, len(values))
	for _, v := range values {
		result = append(result, payroll.EditableField(v))
	}
	return result
}

func scanRecordRow(row pgx.Row) (payroll.PayrollRecord, error) {
	var record payroll.PayrollRecord
	var edited []string
	err := row.Scan(
		&record.ID, &record.ProcessingMonth, &record.WorkerID, &record.WorkerNumber, &record.WorkerName,
		&record.WorkDays, &record.Hours, &record.BasePay, &record.Transport,
		&record.SocialInsurance, &record.ResidentTax,
		&record.Overtime, &record.IncomeTax, &record.Advance, &record.OtherDeduction,
		&record.PayTotal, &record.DeductionTotal, &record.NetPay, &edited,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	record.EditedFields = stringsToEditedFields(edited)
	return record, nil
}

func scanRecord(rows pgx.Rows) (payroll.PayrollRecord, error) {
	record, err := scanRecordRow(rows)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to scan payroll record: %w", err)
	}
	return record, nil
}

package payroll

import "context"

// PayrollRepository defines data access for payroll runs and records.
// All methods are keyed by processing month ("YYYY-MM"); a run is a
// singleton per month.
type PayrollRepository interface {
	// Runs
	GetRun(ctx context.Context, month string) (PayrollRun, error)
	SaveRun(ctx context.Context, run PayrollRun) (PayrollRun, error)

	// Records
	ListRecords(ctx context.Context, month string) ([]PayrollRecord, error)
	GetRecord(ctx context.Context, month string, workerID string) (PayrollRecord, error)
	UpdateRecord(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	// ReplaceRecords discards the month's records and inserts the given
	// set atomically. Used by aggregation and re-aggregation.
	ReplaceRecords(ctx context.Context, month string, records []PayrollRecord) ([]PayrollRecord, error)
	DeleteRecords(ctx context.Context, month string) error

	// Source data (attendance / site assignments), opaque lookup per month
	GetSourceRows(ctx context.Context, month string) ([]SourceRow, error)
	// GetPriorMonthNetTotal returns the stored net-pay reference for the
	// month preceding the given one, or 0 when no reference exists.
	GetPriorMonthNetTotal(ctx context.Context, month string) (int64, error)
}

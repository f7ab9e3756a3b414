package payroll

import "context"

// PayrollService governs the lifecycle of a monthly payroll run:
// aggregate, review edits, submit, approve or reject, finalize.
type PayrollService interface {
	GetRun(ctx context.Context, month string) (RunResponse, error)

	// RunAggregation seeds (or reseeds) the month's records from source
	// data and approved advance totals, discarding prior edits.
	RunAggregation(ctx context.Context, month string) (RunResponse, error)
	// ClearRun discards all records and resets the run.
	ClearRun(ctx context.Context, month string) (RunResponse, error)

	// EditField applies a single cell override while the run is unlocked.
	EditField(ctx context.Context, month string, req EditRecordRequest) (RecordResponse, error)

	SubmitForApproval(ctx context.Context, month string) (RunResponse, error)
	Approve(ctx context.Context, month string) (RunResponse, error)
	Reject(ctx context.Context, month string) (RunResponse, error)

	GetSummary(ctx context.Context, month string) (SummaryResponse, error)
	// ExportRecords exposes the finalized collection to external
	// generators; only legal once the run is approved.
	ExportRecords(ctx context.Context, month string) (ExportResponse, error)
}

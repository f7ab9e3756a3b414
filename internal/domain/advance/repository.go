package advance

import "context"

type RequestFilter struct {
	Month    *string
	Status   *string
	WorkerID *string
	Page     int
	Limit    int
}

// AdvanceRepository defines data access for the per-worker monthly
// advance ledger.
type AdvanceRepository interface {
	Create(ctx context.Context, req AdvanceRequest) (AdvanceRequest, error)
	GetByID(ctx context.Context, id string) (AdvanceRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]AdvanceRequest, int64, error)
	// UpdateDecision persists status, confirmed amount and decision time.
	// It only touches rows still pending, returning ErrAlreadyDecided
	// otherwise, so a stale decision can never overwrite a final one.
	UpdateDecision(ctx context.Context, req AdvanceRequest) (AdvanceRequest, error)

	// MonthlyApprovedTotal recomputes the sum of confirmed amounts over
	// the worker's approved requests for the month. Always a fresh SUM,
	// never an incrementally maintained counter.
	MonthlyApprovedTotal(ctx context.Context, workerID string, month string) (int64, error)
	// History lists the worker's decided requests for the month, oldest first.
	History(ctx context.Context, workerID string, month string) ([]HistoryEntry, error)

	// GetProvisionalEarnings is the mid-month source lookup backing the
	// request detail snapshot.
	GetProvisionalEarnings(ctx context.Context, workerID string, month string) (ProvisionalEarnings, error)
}

package advance

import "context"

// AdvanceService handles advance request intake and the approval ledger.
type AdvanceService interface {
	CreateRequest(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)
	GetRequest(ctx context.Context, id string) (RequestResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) (ListRequestResponse, error)

	Approve(ctx context.Context, req ApproveRequestRequest) (RequestResponse, error)
	Reject(ctx context.Context, id string) (RequestResponse, error)

	// Bulk variants apply the single-item decision to every pending
	// request in the selection and skip the rest; safe to re-invoke.
	BulkApprove(ctx context.Context, req BulkDecisionRequest) (BulkDecisionResponse, error)
	BulkReject(ctx context.Context, req BulkDecisionRequest) (BulkDecisionResponse, error)

	MonthlyTotal(ctx context.Context, workerID string, month string) (MonthlyTotalResponse, error)
}

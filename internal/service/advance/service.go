package advance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hakenworks/staffing-backend-go/internal/domain/advance"
)

type AdvanceServiceImpl struct {
	advanceRepo advance.AdvanceRepository
}

func NewAdvanceService(advanceRepo advance.AdvanceRepository) advance.AdvanceService {
	return &AdvanceServiceImpl{advanceRepo: advanceRepo}
}

// ========== INTAKE ==========

func (s *AdvanceServiceImpl) CreateRequest(ctx context.Context, req advance.CreateRequestRequest) (advance.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.RequestResponse{}, err
	}

	earnings, err := s.advanceRepo.GetProvisionalEarnings(ctx, req.WorkerID, req.Month)
	if err != nil {
		return advance.RequestResponse{}, err
	}

	alreadyAdvanced, err := s.advanceRepo.MonthlyApprovedTotal(ctx, req.WorkerID, req.Month)
	if err != nil {
		return advance.RequestResponse{}, err
	}

	grossPay := earnings.DailyWage + earnings.Transport
	detail := advance.RequestDetail{
		MonthlyProvisionalDailyWage: earnings.DailyWage,
		MonthlyProvisionalTransport: earnings.Transport,
		GrossPay:                    grossPay,
		EstimatedDeduction:          earnings.EstimatedDeduction,
		AlreadyAdvanced:             alreadyAdvanced,
		AvailableAdvance: advance.ComputeAvailableAdvance(
			earnings.DailyWage, earnings.Transport, earnings.EstimatedDeduction, alreadyAdvanced,
		),
	}

	request := advance.AdvanceRequest{
		ID:          uuid.NewString(),
		WorkerID:    req.WorkerID,
		WorkerName:  earnings.WorkerName,
		Month:       req.Month,
		Type:        advance.RequestType(req.Type),
		Status:      advance.StatusPending,
		Detail:      detail,
		RequestedAt: time.Now(),
	}
	if request.Type == advance.TypeSpecified {
		request.RequestedAmount = req.RequestedAmount
	}

	created, err := s.advanceRepo.Create(ctx, request)
	if err != nil {
		return advance.RequestResponse{}, err
	}

	return s.buildResponse(ctx, created)
}

// ========== READS ==========

func (s *AdvanceServiceImpl) GetRequest(ctx context.Context, id string) (advance.RequestResponse, error) {
	request, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.RequestResponse{}, err
	}
	return s.buildResponse(ctx, request)
}

func (s *AdvanceServiceImpl) ListRequests(ctx context.Context, filter advance.RequestFilter) (advance.ListRequestResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	requests, totalCount, err := s.advanceRepo.List(ctx, filter)
	if err != nil {
		return advance.ListRequestResponse{}, err
	}

	data := make([]advance.RequestResponse, 0, len(requests))
	for _, r := range requests {
		resp, err := s.buildResponse(ctx, r)
		if err != nil {
			return advance.ListRequestResponse{}, err
		}
		data = append(data, resp)
	}

	return advance.ListRequestResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== DECISIONS ==========

func (s *AdvanceServiceImpl) Approve(ctx context.Context, req advance.ApproveRequestRequest) (advance.RequestResponse, error) {
	decided, err := s.approveOne(ctx, req.ID, &req.ConfirmedAmount)
	if err != nil {
		return advance.RequestResponse{}, err
	}
	return s.buildResponse(ctx, decided)
}

func (s *AdvanceServiceImpl) Reject(ctx context.Context, id string) (advance.RequestResponse, error) {
	decided, err := s.rejectOne(ctx, id)
	if err != nil {
		return advance.RequestResponse{}, err
	}
	return s.buildResponse(ctx, decided)
}

// BulkApprove confirms every pending request in the selection at its
// pre-filled amount. Already-decided requests are skipped rather than
// failed, so re-invoking on a stale selection changes nothing.
func (s *AdvanceServiceImpl) BulkApprove(ctx context.Context, req advance.BulkDecisionRequest) (advance.BulkDecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.BulkDecisionResponse{}, err
	}

	return s.bulkDecide(ctx, req.RequestIDs, func(ctx context.Context, id string) (advance.AdvanceRequest, error) {
		return s.approveOne(ctx, id, nil)
	})
}

func (s *AdvanceServiceImpl) BulkReject(ctx context.Context, req advance.BulkDecisionRequest) (advance.BulkDecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return advance.BulkDecisionResponse{}, err
	}

	return s.bulkDecide(ctx, req.RequestIDs, s.rejectOne)
}

func (s *AdvanceServiceImpl) bulkDecide(ctx context.Context, ids []string, decide func(context.Context, string) (advance.AdvanceRequest, error)) (advance.BulkDecisionResponse, error) {
	result := advance.BulkDecisionResponse{
		DecidedIDs: []string{},
		SkippedIDs: []string{},
	}

	for _, id := range ids {
		if _, err := decide(ctx, id); err != nil {
			if errors.Is(err, advance.ErrAlreadyDecided) {
				result.SkippedIDs = append(result.SkippedIDs, id)
				continue
			}
			return advance.BulkDecisionResponse{}, err
		}
		result.DecidedIDs = append(result.DecidedIDs, id)
	}

	return result, nil
}

// approveOne confirms a single pending request. A nil confirmedAmount
// falls back to the request's pre-filled default (bulk path).
func (s *AdvanceServiceImpl) approveOne(ctx context.Context, id string, confirmedAmount *int64) (advance.AdvanceRequest, error) {
	request, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceRequest{}, err
	}
	if request.Decided() {
		return advance.AdvanceRequest{}, advance.ErrAlreadyDecided
	}

	amount := request.DefaultConfirmAmount()
	if confirmedAmount != nil {
		amount = *confirmedAmount
	}
	// No upper bound: the approver may confirm beyond the computed cap.
	if amount < 0 {
		return advance.AdvanceRequest{}, advance.ErrNegativeAmount
	}

	now := time.Now()
	request.Status = advance.StatusApproved
	request.ConfirmedAmount = &amount
	request.DecidedAt = &now

	return s.advanceRepo.UpdateDecision(ctx, request)
}

func (s *AdvanceServiceImpl) rejectOne(ctx context.Context, id string) (advance.AdvanceRequest, error) {
	request, err := s.advanceRepo.GetByID(ctx, id)
	if err != nil {
		return advance.AdvanceRequest{}, err
	}
	if request.Decided() {
		return advance.AdvanceRequest{}, advance.ErrAlreadyDecided
	}

	now := time.Now()
	request.Status = advance.StatusRejected
	request.ConfirmedAmount = nil
	request.DecidedAt = &now

	return s.advanceRepo.UpdateDecision(ctx, request)
}

// ========== MONTHLY TOTAL ==========

func (s *AdvanceServiceImpl) MonthlyTotal(ctx context.Context, workerID string, month string) (advance.MonthlyTotalResponse, error) {
	total, err := s.advanceRepo.MonthlyApprovedTotal(ctx, workerID, month)
	if err != nil {
		return advance.MonthlyTotalResponse{}, err
	}

	return advance.MonthlyTotalResponse{
		WorkerID:     workerID,
		Month:        month,
		MonthlyTotal: total,
	}, nil
}

// ========== HELPERS ==========

// buildResponse attaches the monthly context a reviewer sees next to a
// request: the recomputed running total and the decision history.
func (s *AdvanceServiceImpl) buildResponse(ctx context.Context, r advance.AdvanceRequest) (advance.RequestResponse, error) {
	monthlyTotal, err := s.advanceRepo.MonthlyApprovedTotal(ctx, r.WorkerID, r.Month)
	if err != nil {
		return advance.RequestResponse{}, err
	}

	history, err := s.advanceRepo.History(ctx, r.WorkerID, r.Month)
	if err != nil {
		return advance.RequestResponse{}, err
	}

	historyResp := make([]advance.HistoryEntryResponse, 0, len(history))
	for _, h := range history {
		historyResp = append(historyResp, advance.HistoryEntryResponse{
			Date:            h.Date.Format("2006-01-02"),
			Type:            string(h.Type),
			ConfirmedAmount: h.ConfirmedAmount,
			Status:          string(h.Status),
		})
	}

	return advance.RequestResponse{
		ID:              r.ID,
		WorkerID:        r.WorkerID,
		WorkerName:      r.WorkerName,
		Month:           r.Month,
		Type:            string(r.Type),
		RequestedAmount: r.RequestedAmount,
		Status:          string(r.Status),
		ConfirmedAmount: r.ConfirmedAmount,
		Detail: advance.DetailResponse{
			MonthlyProvisionalDailyWage: r.Detail.MonthlyProvisionalDailyWage,
			MonthlyProvisionalTransport: r.Detail.MonthlyProvisionalTransport,
			GrossPay:                    r.Detail.GrossPay,
			EstimatedDeduction:          r.Detail.EstimatedDeduction,
			AlreadyAdvanced:             r.Detail.AlreadyAdvanced,
			AvailableAdvance:            r.Detail.AvailableAdvance,
		},
		MonthlyTotal: monthlyTotal,
		History:      historyResp,
		RequestedAt:  r.RequestedAt.Format(time.RFC3339),
		DecidedAt:    formatTimePtr(r.DecidedAt),
	}, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}

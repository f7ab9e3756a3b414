package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/hakenworks/staffing-backend-go/internal/domain/advance"
	"github.com/hakenworks/staffing-backend-go/internal/domain/payroll"
	"github.com/hakenworks/staffing-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payrollRepo payroll.PayrollRepository
	advanceRepo advance.AdvanceRepository
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	advanceRepo advance.AdvanceRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo: payrollRepo,
		advanceRepo: advanceRepo,
	}
}

// ========== RUN LIFECYCLE ==========

func (s *PayrollServiceImpl) GetRun(ctx context.Context, month string) (payroll.RunResponse, error) {
	if !validator.IsValidMonth(month) {
		return payroll.RunResponse{}, payroll.ErrInvalidMonth
	}

	run, err := s.getOrDefaultRun(ctx, month)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	records, err := s.payrollRepo.ListRecords(ctx, month)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(run, records), nil
}

func (s *PayrollServiceImpl) RunAggregation(ctx context.Context, month string) (payroll.RunResponse, error) {
	if !validator.IsValidMonth(month) {
		return payroll.RunResponse{}, payroll.ErrInvalidMonth
	}

	run, err := s.getOrDefaultRun(ctx, month)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	// Aggregation and re-aggregation are only legal before the run is
	// handed over for approval.
	if run.Status != payroll.StatusNotAggregated && run.Status != payroll.StatusAggregatedUnapproved {
		return payroll.RunResponse{}, payroll.ErrInvalidTransition
	}

	rows, err := s.payrollRepo.GetSourceRows(ctx, month)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	records := make([]payroll.PayrollRecord, 0, len(rows))
	for _, row := range rows {
		// Advance -> payroll bridge: the month's approved advance total
		// becomes the seed value of the advance deduction cell.
		advanceTotal, err := s.advanceRepo.MonthlyApprovedTotal(ctx, row.WorkerID, month)
		if err != nil {
			return payroll.RunResponse{}, err
		}

		record := payroll.PayrollRecord{
			ProcessingMonth: month,
			WorkerID:        row.WorkerID,
			WorkerNumber:    row.WorkerNumber,
			WorkerName:      row.WorkerName,
			WorkDays:        row.WorkDays,
			Hours:           row.Hours,
			BasePay:         row.BasePay,
			Transport:       row.Transport,
			SocialInsurance: row.SocialInsurance,
			ResidentTax:     row.ResidentTax,
			IncomeTax:       row.IncomeTax,
			Advance:         advanceTotal,
		}
		record.Recalculate()
		records = append(records, record)
	}

	stored, err := s.payrollRepo.ReplaceRecords(ctx, month, records)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	now := time.Now()
	run.Status = payroll.StatusAggregatedUnapproved
	run.AggregatedAt = &now
	run.SubmittedAt = nil
	run.ApprovedAt = nil

	saved, err := s.payrollRepo.SaveRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(saved, stored), nil
}

func (s *PayrollServiceImpl) ClearRun(ctx context.Context, month string) (payroll.RunResponse, error) {
	if !validator.IsValidMonth(month) {
		return payroll.RunResponse{}, payroll.ErrInvalidMonth
	}

	run, err := s.getOrDefaultRun(ctx, month)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	if err := s.payrollRepo.DeleteRecords(ctx, month); err != nil {
		return payroll.RunResponse{}, err
	}

	run.Status = payroll.StatusNotAggregated
	run.AggregatedAt = nil
	run.SubmittedAt = nil
	run.ApprovedAt = nil

	saved, err := s.payrollRepo.SaveRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(saved, nil), nil
}

// ========== INLINE EDITS ==========

func (s *PayrollServiceImpl) EditField(ctx context.Context, month string, req payroll.EditRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	run, err := s.payrollRepo.GetRun(ctx, month)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	if !run.Status.Editable() {
		return payroll.RecordResponse{}, payroll.ErrRunLocked
	}

	field, err := payroll.ParseEditableField(req.Field)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	amount, err := payroll.ParseAmount(req.Value)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.payrollRepo.GetRecord(ctx, month, req.WorkerID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if err := record.ApplyEdit(field, amount); err != nil {
		return payroll.RecordResponse{}, err
	}

	updated, err := s.payrollRepo.UpdateRecord(ctx, record)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapToRecordResponse(updated), nil
}

// ========== APPROVAL WORKFLOW ==========

func (s *PayrollServiceImpl) SubmitForApproval(ctx context.Context, month string) (payroll.RunResponse, error) {
	return s.transition(ctx, month, payroll.StatusAggregatedUnapproved, func(run *payroll.PayrollRun, now time.Time) {
		run.Status = payroll.StatusPendingApproval
		run.SubmittedAt = &now
	})
}

func (s *PayrollServiceImpl) Approve(ctx context.Context, month string) (payroll.RunResponse, error) {
	return s.transition(ctx, month, payroll.StatusPendingApproval, func(run *payroll.PayrollRun, now time.Time) {
		run.Status = payroll.StatusApprovedFinal
		run.ApprovedAt = &now
	})
}

// Reject re-opens editing. Field values and edit markers survive; only
// the status moves back.
func (s *PayrollServiceImpl) Reject(ctx context.Context, month string) (payroll.RunResponse, error) {
	return s.transition(ctx, month, payroll.StatusPendingApproval, func(run *payroll.PayrollRun, now time.Time) {
		run.Status = payroll.StatusAggregatedUnapproved
		run.SubmittedAt = nil
	})
}

func (s *PayrollServiceImpl) transition(ctx context.Context, month string, from payroll.RunStatus, apply func(*payroll.PayrollRun, time.Time)) (payroll.RunResponse, error) {
	if !validator.IsValidMonth(month) {
		return payroll.RunResponse{}, payroll.ErrInvalidMonth
	}

	run, err := s.payrollRepo.GetRun(ctx, month)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if run.Status != from {
		return payroll.RunResponse{}, payroll.ErrInvalidTransition
	}

	apply(&run, time.Now())

	saved, err := s.payrollRepo.SaveRun(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	records, err := s.payrollRepo.ListRecords(ctx, month)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(saved, records), nil
}

// ========== SUMMARY ==========

// GetSummary projects the KPI header over the current record collection.
// It is computed from scratch on every call.
func (s *PayrollServiceImpl) GetSummary(ctx context.Context, month string) (payroll.SummaryResponse, error) {
	if !validator.IsValidMonth(month) {
		return payroll.SummaryResponse{}, payroll.ErrInvalidMonth
	}

	run, err := s.getOrDefaultRun(ctx, month)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	records, err := s.payrollRepo.ListRecords(ctx, month)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	var payTotal, deductionTotal, netPay int64
	for _, r := range records {
		payTotal += r.PayTotal
		deductionTotal += r.DeductionTotal
		netPay += r.NetPay
	}

	prior, err := s.payrollRepo.GetPriorMonthNetTotal(ctx, month)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	summary := payroll.SummaryResponse{
		ProcessingMonth:    month,
		Status:             string(run.Status),
		WorkerCount:        len(records),
		PayTotalSum:        payTotal,
		DeductionTotalSum:  deductionTotal,
		NetPaySum:          netPay,
		PriorMonthNetTotal: prior,
	}

	if prior != 0 {
		change := decimal.NewFromInt(netPay).
			Sub(decimal.NewFromInt(prior)).
			Div(decimal.NewFromInt(prior)).
			Mul(decimal.NewFromInt(100)).
			Round(1)
		summary.NetChangePercent = &change
	}

	return summary, nil
}

// ========== EXPORT ==========

func (s *PayrollServiceImpl) ExportRecords(ctx context.Context, month string) (payroll.ExportResponse, error) {
	if !validator.IsValidMonth(month) {
		return payroll.ExportResponse{}, payroll.ErrInvalidMonth
	}

	run, err := s.payrollRepo.GetRun(ctx, month)
	if err != nil {
		return payroll.ExportResponse{}, err
	}
	if run.Status != payroll.StatusApprovedFinal {
		return payroll.ExportResponse{}, payroll.ErrRunNotFinalized
	}

	records, err := s.payrollRepo.ListRecords(ctx, month)
	if err != nil {
		return payroll.ExportResponse{}, err
	}

	return payroll.ExportResponse{
		ProcessingMonth: month,
		ApprovedAt:      formatTimePtr(run.ApprovedAt),
		Records:         mapToRecordResponses(records),
	}, nil
}

// ========== HELPERS ==========

// getOrDefaultRun returns the stored run, or a fresh NotAggregated run
// when none exists yet for the month.
func (s *PayrollServiceImpl) getOrDefaultRun(ctx context.Context, month string) (payroll.PayrollRun, error) {
	run, err := s.payrollRepo.GetRun(ctx, month)
	if err != nil {
		if errors.Is(err, payroll.ErrRunNotFound) {
			return payroll.PayrollRun{
				ProcessingMonth: month,
				Status:          payroll.StatusNotAggregated,
			}, nil
		}
		return payroll.PayrollRun{}, err
	}
	return run, nil
}

func mapToRunResponse(run payroll.PayrollRun, records []payroll.PayrollRecord) payroll.RunResponse {
	return payroll.RunResponse{
		ProcessingMonth: run.ProcessingMonth,
		Status:          string(run.Status),
		Step:            run.Status.Step(),
		AggregatedAt:    formatTimePtr(run.AggregatedAt),
		SubmittedAt:     formatTimePtr(run.SubmittedAt),
		ApprovedAt:      formatTimePtr(run.ApprovedAt),
		Records:         mapToRecordResponses(records),
	}
}

func mapToRecordResponse(r payroll.PayrollRecord) payroll.RecordResponse {
	edited := make([]string, 0, len(r.EditedFields))
	for _, f := range r.EditedFields {
		edited = append(edited, string(f))
	}

	return payroll.RecordResponse{
		ID:              r.ID,
		WorkerID:        r.WorkerID,
		WorkerNumber:    r.WorkerNumber,
		WorkerName:      r.WorkerName,
		WorkDays:        r.WorkDays,
		Hours:           r.Hours,
		BasePay:         r.BasePay,
		Overtime:        r.Overtime,
		Transport:       r.Transport,
		PayTotal:        r.PayTotal,
		IncomeTax:       r.IncomeTax,
		SocialInsurance: r.SocialInsurance,
		ResidentTax:     r.ResidentTax,
		Advance:         r.Advance,
		OtherDeduction:  r.OtherDeduction,
		DeductionTotal:  r.DeductionTotal,
		NetPay:          r.NetPay,
		EditedFields:    edited,
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.RecordResponse {
	result := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}

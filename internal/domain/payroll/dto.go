package payroll

import (
	"github.com/hakenworks/staffing-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type RunResponse struct {
	ProcessingMonth string           `json:"processing_month"`
	Status          string           `json:"status"`
	Step            int              `json:"step"`
	AggregatedAt    *string          `json:"aggregated_at,omitempty"`
	SubmittedAt     *string          `json:"submitted_at,omitempty"`
	ApprovedAt      *string          `json:"approved_at,omitempty"`
	Records         []RecordResponse `json:"records"`
}

// ========== RECORD DTOs ==========

type RecordResponse struct {
	ID              string          `json:"id"`
	WorkerID        string          `json:"worker_id"`
	WorkerNumber    string          `json:"worker_number"`
	WorkerName      string          `json:"worker_name"`
	WorkDays        int             `json:"work_days"`
	Hours           decimal.Decimal `json:"hours"`
	BasePay         int64           `json:"base_pay"`
	Overtime        int64           `json:"overtime"`
	Transport       int64           `json:"transport"`
	PayTotal        int64           `json:"pay_total"`
	IncomeTax       int64           `json:"income_tax"`
	SocialInsurance int64           `json:"social_insurance"`
	ResidentTax     int64           `json:"resident_tax"`
	Advance         int64           `json:"advance"`
	OtherDeduction  int64           `json:"other_deduction"`
	DeductionTotal  int64           `json:"deduction_total"`
	NetPay          int64           `json:"net_pay"`
	EditedFields    []string        `json:"edited_fields"`
}

// EditRecordRequest carries a single cell override. Value stays a string
// on the wire; parsing and the non-negative check happen in the domain so
// a bad value is a clean no-op.
type EditRecordRequest struct {
	WorkerID string `json:"-"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

func (r *EditRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Field) {
		errs = append(errs, validator.ValidationError{Field: "field", Message: "is required"})
	}
	if validator.IsEmpty(r.Value) {
		errs = append(errs, validator.ValidationError{Field: "value", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== SUMMARY DTOs ==========

// SummaryResponse is the KPI header over the current record collection.
// It is recomputed per request, never cached.
type SummaryResponse struct {
	ProcessingMonth    string           `json:"processing_month"`
	Status             string           `json:"status"`
	WorkerCount        int              `json:"worker_count"`
	PayTotalSum        int64            `json:"pay_total_sum"`
	DeductionTotalSum  int64            `json:"deduction_total_sum"`
	NetPaySum          int64            `json:"net_pay_sum"`
	PriorMonthNetTotal int64            `json:"prior_month_net_total"`
	NetChangePercent   *decimal.Decimal `json:"net_change_percent,omitempty"`
}

// ========== EXPORT DTOs ==========

// ExportResponse exposes the finalized record collection to downstream
// generators (bank-transfer file, payslips). Their formats live outside
// this service.
type ExportResponse struct {
	ProcessingMonth string           `json:"processing_month"`
	ApprovedAt      *string          `json:"approved_at,omitempty"`
	Records         []RecordResponse `json:"records"`
}

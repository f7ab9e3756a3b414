package advance

import (
	"github.com/hakenworks/staffing-backend-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type CreateRequestRequest struct {
	WorkerID        string `json:"worker_id"`
	Month           string `json:"month"`
	Type            string `json:"type"` // "max" or "specified"
	RequestedAmount *int64 `json:"requested_amount,omitempty"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "is required"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
	if r.Type != string(TypeMax) && r.Type != string(TypeSpecified) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'max' or 'specified'"})
	}
	if r.Type == string(TypeSpecified) {
		if r.RequestedAmount == nil {
			errs = append(errs, validator.ValidationError{Field: "requested_amount", Message: "is required for a specified request"})
		} else if *r.RequestedAmount < 0 {
			errs = append(errs, validator.ValidationError{Field: "requested_amount", Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveRequestRequest struct {
	ID              string `json:"-"`
	ConfirmedAmount int64  `json:"confirmed_amount"`
}

type BulkDecisionRequest struct {
	RequestIDs []string `json:"request_ids"`
}

func (r *BulkDecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RequestIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "request_ids", Message: "at least one request is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type DetailResponse struct {
	MonthlyProvisionalDailyWage int64 `json:"monthly_provisional_daily_wage"`
	MonthlyProvisionalTransport int64 `json:"monthly_provisional_transport"`
	GrossPay                    int64 `json:"gross_pay"`
	EstimatedDeduction          int64 `json:"estimated_deduction"`
	AlreadyAdvanced             int64 `json:"already_advanced"`
	AvailableAdvance            int64 `json:"available_advance"`
}

type HistoryEntryResponse struct {
	Date            string `json:"date"`
	Type            string `json:"type"`
	ConfirmedAmount *int64 `json:"confirmed_amount,omitempty"`
	Status          string `json:"status"`
}

type RequestResponse struct {
	ID              string                 `json:"id"`
	WorkerID        string                 `json:"worker_id"`
	WorkerName      string                 `json:"worker_name"`
	Month           string                 `json:"month"`
	Type            string                 `json:"type"`
	RequestedAmount *int64                 `json:"requested_amount,omitempty"`
	Status          string                 `json:"status"`
	ConfirmedAmount *int64                 `json:"confirmed_amount,omitempty"`
	Detail          DetailResponse         `json:"detail"`
	MonthlyTotal    int64                  `json:"monthly_total"`
	History         []HistoryEntryResponse `json:"history"`
	RequestedAt     string                 `json:"requested_at"`
	DecidedAt       *string                `json:"decided_at,omitempty"`
}

type ListRequestResponse struct {
	Data       []RequestResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// BulkDecisionResponse reports how a bulk action landed. Skipped items
// were already decided; re-invoking the same selection is safe.
type BulkDecisionResponse struct {
	DecidedIDs []string `json:"decided_ids"`
	SkippedIDs []string `json:"skipped_ids"`
}

type MonthlyTotalResponse struct {
	WorkerID     string `json:"worker_id"`
	Month        string `json:"month"`
	MonthlyTotal int64  `json:"monthly_total"`
}

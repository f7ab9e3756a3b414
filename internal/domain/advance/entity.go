package advance

import "time"

// RequestType enum
type RequestType string

const (
	// TypeMax asks for the full computed cap at approval time.
	TypeMax RequestType = "max"
	// TypeSpecified asks for a chosen amount.
	TypeSpecified RequestType = "specified"
)

// RequestStatus enum - terminal once approved or rejected
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// RequestDetail is a snapshot taken when the request is filed. The
// provisional figures may diverge from the eventual payroll close; the
// approver sees the snapshot, the calculator never reconciles it.
type RequestDetail struct {
	MonthlyProvisionalDailyWage int64
	MonthlyProvisionalTransport int64
	GrossPay                    int64
	EstimatedDeduction          int64
	AlreadyAdvanced             int64
	AvailableAdvance            int64
}

// AdvanceRequest - one per worker advance submission (内金)
type AdvanceRequest struct {
	ID              string
	WorkerID        string
	WorkerName      string
	Month           string
	Type            RequestType
	RequestedAmount *int64 // nil only when Type is TypeMax
	Status          RequestStatus
	ConfirmedAmount *int64 // set on approval, nil otherwise
	Detail          RequestDetail
	RequestedAt     time.Time
	DecidedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Decided reports whether the request has reached a terminal status.
func (r *AdvanceRequest) Decided() bool {
	return r.Status != StatusPending
}

// DefaultConfirmAmount is the amount the approval dialog pre-fills: the
// requested amount for a specified request, the snapshotted cap for a
// max request. The approver may override it.
func (r *AdvanceRequest) DefaultConfirmAmount() int64 {
	if r.Type == TypeSpecified && r.RequestedAmount != nil {
		return *r.RequestedAmount
	}
	return r.Detail.AvailableAdvance
}

// HistoryEntry is one prior decision for the same worker and month.
type HistoryEntry struct {
	Date            time.Time
	Type            RequestType
	ConfirmedAmount *int64
	Status          RequestStatus
}

// ProvisionalEarnings is what the mid-month source lookup supplies for a
// worker: provisional daily-wage and transport totals plus the deduction
// estimate.
type ProvisionalEarnings struct {
	WorkerName         string
	DailyWage          int64
	Transport          int64
	EstimatedDeduction int64
}

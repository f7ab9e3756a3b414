package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum - lifecycle of a monthly payroll run
type RunStatus string

const (
	StatusNotAggregated        RunStatus = "not_aggregated"
	StatusAggregatedUnapproved RunStatus = "aggregated_unapproved"
	StatusPendingApproval      RunStatus = "pending_approval"
	StatusApprovedFinal        RunStatus = "approved_final"
)

// Step returns the 1-based workflow ordinal used by the progress
// indicator. It is derived from the status so the two can never
// desynchronize.
func (s RunStatus) Step() int {
	switch s {
	case StatusNotAggregated:
		return 1
	case StatusAggregatedUnapproved:
		return 2
	case StatusPendingApproval:
		return 3
	case StatusApprovedFinal:
		return 4
	}
	return 0
}

// Editable reports whether inline record edits are legal in this status.
func (s RunStatus) Editable() bool {
	return s == StatusAggregatedUnapproved
}

// EditableField is the closed set of payroll record fields an operator
// may override after aggregation. Everything else on a record is either
// source-derived or recomputed.
type EditableField string

const (
	FieldOvertime       EditableField = "overtime"
	FieldIncomeTax      EditableField = "income_tax"
	FieldAdvance        EditableField = "advance"
	FieldOtherDeduction EditableField = "other_deduction"
)

// EditableFields lists the editable fields in display order.
var EditableFields = []EditableField{FieldOvertime, FieldIncomeTax, FieldAdvance, FieldOtherDeduction}

// ParseEditableField maps a wire field name onto the enum.
func ParseEditableField(name string) (EditableField, error) {
	for _, f := range EditableFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

// PayrollRun - singleton per processing month, owns its records
type PayrollRun struct {
	ProcessingMonth string
	Status          RunStatus
	AggregatedAt    *time.Time
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PayrollRecord - one per worker per processing month. All yen amounts
// are int64; Hours keeps its decimal precision from the source data.
type PayrollRecord struct {
	ID              string
	ProcessingMonth string
	WorkerID        string
	WorkerNumber    string
	WorkerName      string

	// Source-derived, read-only once aggregated
	WorkDays        int
	Hours           decimal.Decimal
	BasePay         int64
	Transport       int64
	SocialInsurance int64
	ResidentTax     int64

	// Editable while the run is unlocked
	Overtime       int64
	IncomeTax      int64
	Advance        int64
	OtherDeduction int64

	// Derived, recomputed on every edit
	PayTotal       int64
	DeductionTotal int64
	NetPay         int64

	// Advisory audit trail of manual overrides since last aggregation
	EditedFields []EditableField

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WasEdited reports whether field has been manually overridden since the
// last aggregation.
func (r *PayrollRecord) WasEdited(field EditableField) bool {
	for _, f := range r.EditedFields {
		if f == field {
			return true
		}
	}
	return false
}

// SourceRow is what the attendance/assignment source supplies per worker
// for a processing month. IncomeTax is the withholding estimate used to
// seed the editable income tax cell.
type SourceRow struct {
	WorkerID        string
	WorkerNumber    string
	WorkerName      string
	WorkDays        int
	Hours           decimal.Decimal
	BasePay         int64
	Transport       int64
	SocialInsurance int64
	ResidentTax     int64
	IncomeTax       int64
}

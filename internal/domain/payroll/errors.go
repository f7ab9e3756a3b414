package payroll

import "errors"

var (
	ErrRunNotFound       = errors.New("payroll run not found")
	ErrRecordNotFound    = errors.New("payroll record not found")
	ErrRunLocked         = errors.New("payroll run is locked for editing")
	ErrInvalidTransition = errors.New("operation not allowed in current run status")
	ErrRunNotFinalized   = errors.New("payroll run is not finalized")
	ErrInvalidAmount     = errors.New("amount must be a non-negative integer")
	ErrUnknownField      = errors.New("unknown editable field")
	ErrInvalidMonth      = errors.New("invalid processing month")
)

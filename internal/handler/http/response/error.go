package response

import (
	"errors"
	"net/http"

	"github.com/hakenworks/staffing-backend-go/internal/domain/advance"
	"github.com/hakenworks/staffing-backend-go/internal/domain/payroll"
	"github.com/hakenworks/staffing-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Payroll domain errors
	switch {
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRunLocked):
		Conflict(w, "Payroll run is locked for editing")
	case errors.Is(err, payroll.ErrInvalidTransition):
		Conflict(w, "Operation not allowed in current run status")
	case errors.Is(err, payroll.ErrRunNotFinalized):
		Conflict(w, "Payroll run is not finalized")
	case errors.Is(err, payroll.ErrInvalidAmount):
		UnprocessableEntity(w, "Amount must be a non-negative integer")
	case errors.Is(err, payroll.ErrUnknownField):
		UnprocessableEntity(w, "Unknown editable field")
	case errors.Is(err, payroll.ErrInvalidMonth):
		BadRequest(w, "Processing month must be in YYYY-MM format", nil)

	// Advance domain errors
	case errors.Is(err, advance.ErrRequestNotFound):
		NotFound(w, "Advance request not found")
	case errors.Is(err, advance.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, advance.ErrAlreadyDecided):
		Conflict(w, "Advance request already decided")
	case errors.Is(err, advance.ErrNegativeAmount):
		UnprocessableEntity(w, "Confirmed amount must be non-negative")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

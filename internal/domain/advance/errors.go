package advance

import "errors"

var (
	ErrRequestNotFound = errors.New("advance request not found")
	ErrAlreadyDecided  = errors.New("advance request already decided")
	ErrNegativeAmount  = errors.New("confirmed amount must be non-negative")
	ErrWorkerNotFound  = errors.New("worker not found")
)
